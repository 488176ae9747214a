// Package feedview implements the scrollable feed widget shared by every
// dashboard tab: a viewport over rendered entries, an inline search bar,
// and (for the live feeds) a stick-to-bottom follow mode.
package feedview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teawcommunity/teawatch/internal/feed"
)

// bottomTolerance is how many lines above the end still count as "at the
// bottom" for follow mode, so a sub-row nudge does not unpin the feed.
const bottomTolerance = 2

var (
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(1, 2)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 2)
	searchStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Padding(0, 1)
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	jumpHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// Context carries per-render state into the row renderers.
type Context struct {
	Width  int
	Now    time.Time
	Search string
}

// Model is the widget. It owns a feed controller plus the Bubble Tea
// plumbing around it; the row renderer decides what an entry looks like.
type Model[T any] struct {
	feed   *feed.Feed[T]
	render func(T, Context) string

	vp     viewport.Model
	search textinput.Model
	spin   spinner.Model

	// follow keeps the viewport pinned to the newest entry unless the user
	// scrolls away. Only the append-style feeds enable it.
	follow bool
	pinned bool

	searching bool
	emptyText string
	now       time.Time
	width     int
	height    int
}

// New creates a feed view. follow enables stick-to-bottom mode.
func New[T any](f *feed.Feed[T], render func(T, Context) string, emptyText string, follow bool) Model[T] {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/"
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model[T]{
		feed:      f,
		render:    render,
		vp:        viewport.New(80, 20),
		search:    ti,
		spin:      sp,
		follow:    follow,
		pinned:    follow,
		emptyText: emptyText,
		now:       time.Now(),
	}
}

// Feed exposes the underlying controller for sort changes and inspection.
func (m *Model[T]) Feed() *feed.Feed[T] {
	return m.feed
}

// Searching reports whether the search bar has focus, so the root model can
// keep global keys out of the way while the user types.
func (m Model[T]) Searching() bool {
	return m.searching
}

// Pinned reports whether follow mode is currently stuck to the newest entry.
func (m Model[T]) Pinned() bool {
	return m.pinned
}

func (m Model[T]) Init() tea.Cmd {
	return m.spin.Tick
}

// SetSize resizes the widget. One line is reserved for the search bar.
func (m *Model[T]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = max(1, height-1)
	m.refresh()
}

// SetNow updates the clock used for relative timestamps and re-renders.
// Called on the relabel tick; no network traffic is involved.
func (m *Model[T]) SetNow(now time.Time) {
	m.now = now
	m.refresh()
}

// Append merges polled entries into an append-only feed and keeps the
// viewport pinned to the newest entry if the user has not scrolled away.
func (m *Model[T]) Append(entries []T) {
	m.feed.MergeAppend(entries)
	m.refresh()
}

// Replace swaps in a full snapshot. The scroll position is preserved.
func (m *Model[T]) Replace(entries []T) {
	m.feed.MergeReplace(entries)
	m.refresh()
}

// SetSort switches the active sort method and re-renders.
func (m *Model[T]) SetSort(method string) {
	m.feed.SetSort(method)
	m.refresh()
}

// JumpToBottom scrolls to the newest entry and re-enables follow mode.
func (m *Model[T]) JumpToBottom() {
	m.vp.GotoBottom()
	if m.follow {
		m.pinned = true
	}
}

func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.feed.FirstLoad() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "/":
			m.searching = true
			return m, m.search.Focus()
		case "G", "end":
			m.JumpToBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		if m.follow {
			m.pinned = m.nearBottom()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m Model[T]) updateSearch(msg tea.KeyMsg) (Model[T], tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.searching = false
		m.feed.SetSearch("")
		m.refresh()
		return m, nil
	case "enter":
		m.search.Blur()
		m.searching = false
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if term := m.search.Value(); term != m.feed.Search() {
		m.feed.SetSearch(term)
		m.refresh()
		if m.follow {
			m.JumpToBottom()
		}
	}
	return m, cmd
}

// refresh rebuilds the viewport content from the feed's visible entries.
func (m *Model[T]) refresh() {
	if m.feed.FirstLoad() {
		return
	}
	if m.feed.NoResults() {
		m.vp.SetContent(emptyStyle.Render(m.emptyText))
		return
	}

	ctx := Context{Width: m.vp.Width, Now: m.now, Search: m.feed.Search()}
	rows := make([]string, 0, m.feed.Len())
	for _, entry := range m.feed.Visible() {
		rows = append(rows, m.render(entry, ctx))
	}
	m.vp.SetContent(strings.Join(rows, "\n"))

	if m.pinned {
		m.vp.GotoBottom()
	}
}

func (m Model[T]) nearBottom() bool {
	return m.vp.TotalLineCount()-(m.vp.YOffset+m.vp.Height) <= bottomTolerance
}

func (m Model[T]) View() string {
	if m.feed.FirstLoad() {
		return loadingStyle.Render(m.spin.View() + " Loading...")
	}

	var b strings.Builder
	b.WriteString(m.searchBar())
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	return b.String()
}

func (m Model[T]) searchBar() string {
	if !m.searching && m.feed.Search() == "" {
		hint := countStyle.Render("/ to search")
		if m.follow && !m.pinned {
			hint += "  " + jumpHintStyle.Render("G: jump to newest ↓")
		}
		return hint
	}

	count := countStyle.Render(
		fmt.Sprintf(" %d/%d", len(m.feed.Visible()), m.feed.Len()))
	return searchStyle.Render(m.search.View()) + count
}
