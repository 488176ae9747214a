package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration.
type Config struct {
	// BaseURL of the community site, without a trailing slash.
	BaseURL string `json:"base_url"`

	// Poll cadences, in seconds. Zero values fall back to defaults.
	Polling PollingConfig `json:"polling"`

	// UI preferences.
	UI UIConfig `json:"ui"`
}

// PollingConfig holds the per-view poll cadences in seconds. These mirror
// the site's own page update rates; lowering them is rude to the backend.
type PollingConfig struct {
	StatusSeconds  int `json:"status_seconds"`
	ChatSeconds    int `json:"chat_seconds"`
	KillsSeconds   int `json:"kills_seconds"`
	PlayersSeconds int `json:"players_seconds"`
	TownsSeconds   int `json:"towns_seconds"`
	StatsSeconds   int `json:"stats_seconds"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	DefaultView       string `json:"default_view"`
	PlayersSort       string `json:"players_sort"`
	TownsSort         string `json:"towns_sort"`
	StatsSort         string `json:"stats_sort"`
	DefaultStat       string `json:"default_stat"`
	RequestTimeoutSec int    `json:"request_timeout_seconds"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://toendallwars.org",
		Polling: PollingConfig{
			StatusSeconds:  2,
			ChatSeconds:    3,
			KillsSeconds:   10,
			PlayersSeconds: 10,
			TownsSeconds:   30,
			StatsSeconds:   10,
		},
		UI: UIConfig{
			DefaultView:       "chat",
			PlayersSort:       "last_online",
			TownsSort:         "a-z-grouped",
			StatsSort:         "high-to-low",
			DefaultStat:       "TOTAL_WORLD_TIME",
			RequestTimeoutSec: 15,
		},
	}
}

// Dir returns the data directory (~/.teawatch).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".teawatch")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from disk, or returns defaults. A malformed file also
// falls back to defaults rather than failing startup. TEAWATCH_BASE_URL
// overrides the configured base URL either way.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err == nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			cfg = DefaultConfig()
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if url := os.Getenv("TEAWATCH_BASE_URL"); url != "" {
		cfg.BaseURL = url
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(Path(), data, 0644)
}

// fillDefaults replaces zero values with defaults so a sparse config file
// still produces working cadences.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Polling.StatusSeconds <= 0 {
		c.Polling.StatusSeconds = def.Polling.StatusSeconds
	}
	if c.Polling.ChatSeconds <= 0 {
		c.Polling.ChatSeconds = def.Polling.ChatSeconds
	}
	if c.Polling.KillsSeconds <= 0 {
		c.Polling.KillsSeconds = def.Polling.KillsSeconds
	}
	if c.Polling.PlayersSeconds <= 0 {
		c.Polling.PlayersSeconds = def.Polling.PlayersSeconds
	}
	if c.Polling.TownsSeconds <= 0 {
		c.Polling.TownsSeconds = def.Polling.TownsSeconds
	}
	if c.Polling.StatsSeconds <= 0 {
		c.Polling.StatsSeconds = def.Polling.StatsSeconds
	}
	if c.UI.DefaultView == "" {
		c.UI.DefaultView = def.UI.DefaultView
	}
	if c.UI.PlayersSort == "" {
		c.UI.PlayersSort = def.UI.PlayersSort
	}
	if c.UI.TownsSort == "" {
		c.UI.TownsSort = def.UI.TownsSort
	}
	if c.UI.StatsSort == "" {
		c.UI.StatsSort = def.UI.StatsSort
	}
	if c.UI.DefaultStat == "" {
		c.UI.DefaultStat = def.UI.DefaultStat
	}
	if c.UI.RequestTimeoutSec <= 0 {
		c.UI.RequestTimeoutSec = def.UI.RequestTimeoutSec
	}
}

// RequestTimeout returns the HTTP client timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.UI.RequestTimeoutSec) * time.Second
}
