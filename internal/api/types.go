package api

import "encoding/json"

// Status is the connectivity heartbeat payload.
type Status struct {
	Status               string `json:"status"`
	OnlinePlayers        int    `json:"online_players"`
	LastPlayersUpdateAge int64  `json:"last_players_update_age"` // minutes
	LastKillsUpdateAge   int64  `json:"last_kills_update_age"`   // minutes
}

// OK reports whether the backend considers itself healthy.
func (s Status) OK() bool { return s.Status == "ok" }

// StaleMinutes returns how outdated the data is when the backend is
// unhealthy: the larger of the two updater ages.
func (s Status) StaleMinutes() int64 {
	if s.LastPlayersUpdateAge > s.LastKillsUpdateAge {
		return s.LastPlayersUpdateAge
	}
	return s.LastKillsUpdateAge
}

// ChatMessage is one entry of the live chat mirror. Type is one of chat,
// discord, join, quit, advancement, death, status.
type ChatMessage struct {
	ID         int64  `json:"id"`
	Sender     string `json:"sender"`
	SenderUUID string `json:"sender_uuid"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"` // epoch ms
	Type       string `json:"type"`
}

// ChatMisc is the chat page's info-bubble payload.
type ChatMisc struct {
	MessagesLogged int64  `json:"messages_logged"`
	DaysElapsed    int64  `json:"days_elapsed"`
	WorldWeather   string `json:"world_weather"`
	WorldTime      string `json:"world_time"` // "HH:MM..."
}

// Kill is one entry of the PvP kill feed.
type Kill struct {
	ID           int64           `json:"id"`
	KillerUUID   string          `json:"killer_uuid"`
	KillerName   string          `json:"killer_name"`
	VictimUUID   string          `json:"victim_uuid"`
	VictimName   string          `json:"victim_name"`
	DeathMessage string          `json:"death_message"`
	WeaponJSON   json.RawMessage `json:"weapon_json"`
	Timestamp    int64           `json:"timestamp"` // epoch ms
}

// KillsMisc is the kill page's info-bubble payload.
type KillsMisc struct {
	TotalKills    int64 `json:"total_kills"`
	UniqueKillers int64 `json:"unique_killers"`
	UniqueVictims int64 `json:"unique_victims"`
}

// Player statuses.
const (
	PlayerOnline  = "online"
	PlayerAFK     = "afk"
	PlayerOffline = "offline"
)

// Player is one roster entry. Durations are milliseconds, timestamps epoch ms.
type Player struct {
	UUID           string `json:"uuid"`
	Name           string `json:"name"`
	OnlineDuration int64  `json:"online_duration"`
	AFKDuration    int64  `json:"afk_duration"`
	FirstJoined    int64  `json:"first_joined"`
	Bio            string `json:"bio"`
	LastOnline     int64  `json:"last_online"`
	Status         string `json:"status"`
}

// PlayersMisc is the roster page's info-bubble payload.
type PlayersMisc struct {
	ActivePlayers int64 `json:"active_players"`
	TotalPlayers  int64 `json:"total_players"`
}

// Town is one entry of the town/nation directory. Colors are hex6 without
// the leading '#'.
type Town struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	TownColor   string `json:"town_color"`
	NationName  string `json:"nation_name"`
	NationColor string `json:"nation_color"`
	SpawnX      int    `json:"spawn_x"`
	SpawnY      int    `json:"spawn_y"`
	SpawnZ      int    `json:"spawn_z"`
	Mayor       string `json:"mayor"`
	Founded     int64  `json:"founded"` // epoch ms
	IsActive    bool   `json:"is_active"`
}

// TownsMisc is the towns page's info-bubble payload.
type TownsMisc struct {
	ActiveTowns   int64   `json:"active_towns"`
	TotalTowns    int64   `json:"total_towns"`
	ActiveNations int64   `json:"active_nations"`
	TotalNations  int64   `json:"total_nations"`
	TotalMoney    float64 `json:"total_money"`
}

// StatEntry is one leaderboard row. Rank is assigned client-side from the
// server's ordering, so ties keep their server-reported positions.
type StatEntry struct {
	Rank  int     `json:"-"`
	UUID  string  `json:"uuid"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Leaderboard is the ranked response for one stat.
type Leaderboard struct {
	Entries []StatEntry `json:"leaderboard"`
	Units   string      `json:"units"`
}

// StatKind distinguishes the two leaderboard endpoint families.
type StatKind int

const (
	StatGeneral StatKind = iota
	StatCustom
)

// ShowcasePhoto is one entry of the photo showcase manifest.
type ShowcasePhoto struct {
	ImgSrc       string `json:"img_src"`
	PhotoTitle   string `json:"photo_title"`
	PhotoDate    string `json:"photo_date"` // "2006-01-02"
	Photographer string `json:"photographer"`
}
