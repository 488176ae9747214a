// Package ui implements the teawatch terminal dashboard: one tab per feed,
// a connectivity light, and the shared search and scroll behavior.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/config"
	"github.com/teawcommunity/teawatch/internal/logging"
	"github.com/teawcommunity/teawatch/internal/ui/feedview"
)

// Tab identifies one dashboard view.
type Tab int

const (
	TabChat Tab = iota
	TabKills
	TabPlayers
	TabTowns
	TabStats
	TabShowcase
)

var tabNames = [...]string{"Chat", "Kills", "Players", "Towns", "Stats", "Showcase"}

// tabByName maps config view names to tabs.
var tabByName = map[string]Tab{
	"chat": TabChat, "kills": TabKills, "players": TabPlayers,
	"towns": TabTowns, "stats": TabStats, "showcase": TabShowcase,
}

// relabelInterval is how often relative timestamps are re-rendered without
// any network traffic.
const relabelInterval = 30 * time.Second

// sortMethods lists the cycle order of the "s" key per tab.
var sortMethods = map[Tab][]string{
	TabPlayers: {"last_online", "username"},
	TabTowns:   {"a-z-grouped", "active-a-z", "old-new"},
	TabStats:   {"high-to-low", "low-to-high", "username"},
}

// Model is the root Bubble Tea model.
type Model struct {
	client *api.Client
	cfg    *config.Config

	tab Tab

	chat     feedview.Model[api.ChatMessage]
	kills    feedview.Model[api.Kill]
	players  feedview.Model[api.Player]
	towns    feedview.Model[api.Town]
	stats    feedview.Model[api.StatEntry]
	showcase feedview.Model[api.ShowcasePhoto]

	statIdx   int
	statUnits string

	chatMisc        api.ChatMisc
	haveChatMisc    bool
	killsMisc       api.KillsMisc
	haveKillsMisc   bool
	playersMisc     api.PlayersMisc
	havePlayersMisc bool
	townsMisc       api.TownsMisc
	haveTownsMisc   bool

	status     statusWidget
	showDetail bool

	width  int
	height int
}

// NewModel builds the root model from config. The pollers feed it through
// program.Send; the stats and showcase fetches it runs itself.
func NewModel(client *api.Client, cfg *config.Config) Model {
	tab, ok := tabByName[cfg.UI.DefaultView]
	if !ok {
		tab = TabChat
	}

	return Model{
		client:   client,
		cfg:      cfg,
		tab:      tab,
		chat:     feedview.New(newChatFeed(), renderChatRow, "No messages found", true),
		kills:    feedview.New(newKillFeed(), renderKillRow, "No kills found", true),
		players:  feedview.New(newPlayerFeed(cfg.UI.PlayersSort), playerRenderer(client), "No players found", false),
		towns:    feedview.New(newTownFeed(cfg.UI.TownsSort), renderTownRow, "No towns found", false),
		stats:    feedview.New(newStatFeed(cfg.UI.StatsSort), renderStatRow, "No players found", false),
		showcase: feedview.New(newShowcaseFeed(), showcaseRenderer(client), "No photos found", false),
		statIdx:  statIndex(cfg.UI.DefaultStat),
		status:   newStatusWidget(time.Now()),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chat.Init(),
		m.kills.Init(),
		m.players.Init(),
		m.towns.Init(),
		m.stats.Init(),
		m.showcase.Init(),
		m.fetchLeaderboardCmd(),
		m.fetchShowcaseCmd(),
		relabelTickCmd(),
		m.statsTickCmd(),
	)
}

func relabelTickCmd() tea.Cmd {
	return tea.Tick(relabelInterval, func(t time.Time) tea.Msg {
		return relabelTickMsg{now: t}
	})
}

func (m Model) statsTickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.Polling.StatsSeconds) * time.Second
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

func (m Model) fetchLeaderboardCmd() tea.Cmd {
	opt := statOptions[m.statIdx]
	client := m.client
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		board, err := client.Leaderboard(ctx, opt.Kind, opt.Key)
		return LeaderboardMsg{Kind: opt.Kind, Stat: opt.Key, Board: board, Err: err}
	}
}

func (m Model) fetchShowcaseCmd() tea.Cmd {
	client := m.client
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		photos, err := client.ShowcaseManifest(ctx)
		return ShowcaseMsg{Photos: photos, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViews()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StatusMsg:
		m.status.observe(msg, time.Now())
		return m, nil

	case ChatMessagesMsg:
		if msg.Err != nil {
			logging.Debug("chat poll failed", "error", msg.Err)
			return m, nil
		}
		m.chat.Append(msg.Messages)
		return m, nil

	case ChatMiscMsg:
		if msg.Err == nil {
			m.chatMisc = msg.Misc
			m.haveChatMisc = true
		}
		return m, nil

	case KillsMsg:
		if msg.Err != nil {
			logging.Debug("kill poll failed", "error", msg.Err)
			return m, nil
		}
		m.kills.Append(msg.Kills)
		return m, nil

	case KillsMiscMsg:
		if msg.Err == nil {
			m.killsMisc = msg.Misc
			m.haveKillsMisc = true
		}
		return m, nil

	case PlayersMsg:
		if msg.Err != nil {
			logging.Debug("player poll failed", "error", msg.Err)
			return m, nil
		}
		m.players.Replace(msg.Players)
		return m, nil

	case PlayersMiscMsg:
		if msg.Err == nil {
			m.playersMisc = msg.Misc
			m.havePlayersMisc = true
		}
		return m, nil

	case TownsMsg:
		if msg.Err != nil {
			logging.Debug("town poll failed", "error", msg.Err)
			return m, nil
		}
		m.towns.Replace(msg.Towns)
		return m, nil

	case TownsMiscMsg:
		if msg.Err == nil {
			m.townsMisc = msg.Misc
			m.haveTownsMisc = true
		}
		return m, nil

	case LeaderboardMsg:
		if msg.Stat != statOptions[m.statIdx].Key {
			// Stale response for a stat the user has already moved past.
			return m, nil
		}
		if msg.Err != nil {
			logging.Debug("leaderboard fetch failed", "stat", msg.Stat, "error", msg.Err)
			return m, nil
		}
		m.stats.Replace(msg.Board.Entries)
		m.statUnits = msg.Board.Units
		return m, nil

	case ShowcaseMsg:
		if msg.Err != nil {
			logging.Debug("showcase fetch failed", "error", msg.Err)
			return m, nil
		}
		m.showcase.Replace(msg.Photos)
		return m, nil

	case relabelTickMsg:
		m.chat.SetNow(msg.now)
		m.kills.SetNow(msg.now)
		m.players.SetNow(msg.now)
		m.towns.SetNow(msg.now)
		m.stats.SetNow(msg.now)
		m.showcase.SetNow(msg.now)
		return m, relabelTickCmd()

	case statsTickMsg:
		return m, tea.Batch(m.fetchLeaderboardCmd(), m.statsTickCmd())
	}

	// Everything else (spinner ticks, mouse events) goes to all views;
	// each keeps only what is addressed to it.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)
	m.kills, cmd = m.kills.Update(msg)
	cmds = append(cmds, cmd)
	m.players, cmd = m.players.Update(msg)
	cmds = append(cmds, cmd)
	m.towns, cmd = m.towns.Update(msg)
	cmds = append(cmds, cmd)
	m.stats, cmd = m.stats.Update(msg)
	cmds = append(cmds, cmd)
	m.showcase, cmd = m.showcase.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// While the search bar has focus every other key belongs to it.
	if m.activeSearching() {
		return m.updateActive(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		m.tab = Tab(msg.String()[0] - '1')
		return m, nil

	case "s":
		m.cycleSort()
		return m, nil

	case "[", "]":
		if m.tab != TabStats {
			return m, nil
		}
		step := 1
		if msg.String() == "[" {
			step = len(statOptions) - 1
		}
		m.statIdx = (m.statIdx + step) % len(statOptions)
		return m, m.fetchLeaderboardCmd()

	case "r":
		if m.tab == TabShowcase {
			return m, m.fetchShowcaseCmd()
		}
		return m, nil

	case "!":
		m.showDetail = !m.showDetail
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) activeSearching() bool {
	switch m.tab {
	case TabChat:
		return m.chat.Searching()
	case TabKills:
		return m.kills.Searching()
	case TabPlayers:
		return m.players.Searching()
	case TabTowns:
		return m.towns.Searching()
	case TabStats:
		return m.stats.Searching()
	case TabShowcase:
		return m.showcase.Searching()
	}
	return false
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabChat:
		m.chat, cmd = m.chat.Update(msg)
	case TabKills:
		m.kills, cmd = m.kills.Update(msg)
	case TabPlayers:
		m.players, cmd = m.players.Update(msg)
	case TabTowns:
		m.towns, cmd = m.towns.Update(msg)
	case TabStats:
		m.stats, cmd = m.stats.Update(msg)
	case TabShowcase:
		m.showcase, cmd = m.showcase.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleSort() {
	methods, ok := sortMethods[m.tab]
	if !ok {
		return
	}
	switch m.tab {
	case TabPlayers:
		m.players.SetSort(nextSort(methods, m.players.Feed().SortMethod()))
	case TabTowns:
		m.towns.SetSort(nextSort(methods, m.towns.Feed().SortMethod()))
	case TabStats:
		m.stats.SetSort(nextSort(methods, m.stats.Feed().SortMethod()))
	}
}

func nextSort(methods []string, current string) string {
	for i, method := range methods {
		if method == current {
			return methods[(i+1)%len(methods)]
		}
	}
	return methods[0]
}

func (m *Model) resizeViews() {
	// Two header lines, one status line.
	viewHeight := m.height - 3
	if viewHeight < 3 {
		viewHeight = 3
	}
	m.chat.SetSize(m.width, viewHeight)
	m.kills.SetSize(m.width, viewHeight)
	m.players.SetSize(m.width, viewHeight)
	m.towns.SetSize(m.width, viewHeight)
	m.stats.SetSize(m.width, viewHeight)
	m.showcase.SetSize(m.width, viewHeight)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n")
	b.WriteString(m.infoBar())
	b.WriteString("\n")
	b.WriteString(m.activeView())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) activeView() string {
	switch m.tab {
	case TabChat:
		return m.chat.View()
	case TabKills:
		return m.kills.View()
	case TabPlayers:
		return m.players.View()
	case TabTowns:
		return m.towns.View()
	case TabStats:
		return m.stats.View()
	case TabShowcase:
		return m.showcase.View()
	}
	return ""
}

func (m Model) tabBar() string {
	var parts []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts = append(parts, TabActive.Render(name))
		} else {
			parts = append(parts, TabInactive.Render(name))
		}
	}
	return strings.Join(parts, "")
}

// infoBar renders the per-tab summary counters the website showed in its
// info bubbles.
func (m Model) infoBar() string {
	val := func(n int64) string { return InfoBarValue.Render(groupThousands(fmt.Sprintf("%d", n))) }

	switch m.tab {
	case TabChat:
		if !m.haveChatMisc {
			return InfoBar.Render("")
		}
		return InfoBar.Render(fmt.Sprintf("Messages %s   Day %s   %s   %s",
			val(m.chatMisc.MessagesLogged),
			val(m.chatMisc.DaysElapsed),
			capitalize(m.chatMisc.WorldWeather),
			worldTimeStage(m.chatMisc.WorldTime)))
	case TabKills:
		if !m.haveKillsMisc {
			return InfoBar.Render("")
		}
		return InfoBar.Render(fmt.Sprintf("Kills %s   Killers %s   Victims %s",
			val(m.killsMisc.TotalKills),
			val(m.killsMisc.UniqueKillers),
			val(m.killsMisc.UniqueVictims)))
	case TabPlayers:
		if !m.havePlayersMisc {
			return InfoBar.Render("")
		}
		return InfoBar.Render(fmt.Sprintf("Active %s of %s players   sort: %s",
			val(m.playersMisc.ActivePlayers),
			val(m.playersMisc.TotalPlayers),
			m.players.Feed().SortMethod()))
	case TabTowns:
		if !m.haveTownsMisc {
			return InfoBar.Render("")
		}
		return InfoBar.Render(fmt.Sprintf("Towns %s/%s   Nations %s/%s   Economy $%s   sort: %s",
			val(m.townsMisc.ActiveTowns),
			val(m.townsMisc.TotalTowns),
			val(m.townsMisc.ActiveNations),
			val(m.townsMisc.TotalNations),
			InfoBarValue.Render(formatStatValue(m.townsMisc.TotalMoney)),
			m.towns.Feed().SortMethod()))
	case TabStats:
		label := statOptions[m.statIdx].Label
		if m.statUnits != "" {
			label += " (" + capitalize(m.statUnits) + ")"
		}
		return InfoBar.Render(fmt.Sprintf("%s   sort: %s   [/]: change stat",
			InfoBarValue.Render(label), m.stats.Feed().SortMethod()))
	case TabShowcase:
		return InfoBar.Render(fmt.Sprintf("%s photos   r: refresh", val(int64(m.showcase.Feed().Len()))))
	}
	return InfoBar.Render("")
}

func (m Model) statusBar() string {
	now := time.Now()
	left := m.status.light() + " " + StatusBarText.Render(m.status.text(now))

	if m.showDetail {
		if d := m.status.detail(); d != "" {
			left += "  " + ErrorStyle.Render(d)
		}
	}

	keys := StatusBarKey.Render("tab") + StatusBarText.Render(" switch  ") +
		StatusBarKey.Render("/") + StatusBarText.Render(" search  ") +
		StatusBarKey.Render("s") + StatusBarText.Render(" sort  ") +
		StatusBarKey.Render("!") + StatusBarText.Render(" status  ") +
		StatusBarKey.Render("q") + StatusBarText.Render(" quit")

	return StatusBar.Render(alignRight(left, keys, m.width-2))
}
