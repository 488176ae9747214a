package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/config"
	"github.com/teawcommunity/teawatch/internal/logging"
	"github.com/teawcommunity/teawatch/internal/poll"
	"github.com/teawcommunity/teawatch/internal/store"
	"github.com/teawcommunity/teawatch/internal/ui"
)

func main() {
	var (
		baseURL      = flag.String("base-url", "", "override the server base URL")
		stat         = flag.String("stat", "", "initial leaderboard stat key (e.g. DEATHS)")
		statsSort    = flag.String("sort", "", "initial leaderboard sort: high-to-low, low-to-high, username")
		photo        = flag.String("submit-photo", "", "submit an image file to the photo showcase and exit")
		title        = flag.String("title", "", "photo title (with -submit-photo)")
		date         = flag.String("date", "", "photo date YYYY-MM-DD, defaults to today (with -submit-photo)")
		photographer = flag.String("photographer", "", "photographer name (with -submit-photo)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *stat != "" {
		cfg.UI.DefaultStat = *stat
	}
	if *statsSort != "" {
		cfg.UI.StatsSort = *statsSort
	}

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	client := api.New(cfg.BaseURL, cfg.RequestTimeout())

	if *photo != "" {
		submitPhoto(client, *photo, *title, *date, *photographer)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// The history cache is best-effort: without it the dashboard still
	// works, it just starts cold.
	st, err := store.Open(filepath.Join(dataDir, "teawatch.db"))
	if err != nil {
		logging.Warn("history cache unavailable", "error", err)
		st = nil
	} else {
		defer st.Close()
	}

	logging.Info("teawatch starting", "server", cfg.BaseURL)

	program := tea.NewProgram(ui.NewModel(client, cfg), tea.WithAltScreen())

	poller := poll.New(client, st, cfg.Polling, cfg.RequestTimeout())
	poller.Start(ctx, program)

	if _, err := program.Run(); err != nil {
		logging.Error("program error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	cancel()
	poller.Wait()
	logging.Info("teawatch exiting")
}

func submitPhoto(client *api.Client, path, title, date, photographer string) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := client.SubmitPhoto(ctx, path, title, date, photographer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Photo submitted.")
}
