package ui

import (
	"time"

	"github.com/teawcommunity/teawatch/internal/api"
)

// Messages delivered from the background pollers via program.Send, plus the
// internal ticks the root model schedules for itself.

// StatusMsg carries a server status poll result. Err is set when the request
// itself failed (the server unreachable case, distinct from status != "ok").
type StatusMsg struct {
	Status api.Status
	Err    error
}

// ChatMessagesMsg carries new chat messages since the last poll.
// FromCache marks the initial batch replayed from the local history cache.
type ChatMessagesMsg struct {
	Messages  []api.ChatMessage
	FromCache bool
	Err       error
}

// ChatMiscMsg carries the chat sidebar information (weather, world time).
type ChatMiscMsg struct {
	Misc api.ChatMisc
	Err  error
}

// KillsMsg carries new kill events since the last poll.
type KillsMsg struct {
	Kills     []api.Kill
	FromCache bool
	Err       error
}

// KillsMiscMsg carries kill feed summary counts.
type KillsMiscMsg struct {
	Misc api.KillsMisc
	Err  error
}

// PlayersMsg carries a full roster snapshot.
type PlayersMsg struct {
	Players []api.Player
	Err     error
}

// PlayersMiscMsg carries roster summary counts.
type PlayersMiscMsg struct {
	Misc api.PlayersMisc
	Err  error
}

// TownsMsg carries a full town directory snapshot.
type TownsMsg struct {
	Towns []api.Town
	Err   error
}

// TownsMiscMsg carries town directory summary counts.
type TownsMiscMsg struct {
	Misc api.TownsMisc
	Err  error
}

// LeaderboardMsg carries a stat leaderboard snapshot. Kind and Stat echo the
// request so a stale response for a previously selected stat can be dropped.
type LeaderboardMsg struct {
	Kind  api.StatKind
	Stat  string
	Board api.Leaderboard
	Err   error
}

// ShowcaseMsg carries the photo showcase manifest.
type ShowcaseMsg struct {
	Photos []api.ShowcasePhoto
	Err    error
}

// relabelTickMsg drives the periodic re-render that keeps relative
// timestamps ("3m", "2h") current without any network traffic.
type relabelTickMsg struct {
	now time.Time
}

// statsTickMsg drives the periodic refetch of the selected leaderboard.
type statsTickMsg struct{}
