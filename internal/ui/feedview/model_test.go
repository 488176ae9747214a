package feedview

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teawcommunity/teawatch/internal/feed"
)

type entry struct {
	id   int64
	text string
}

func testFeed() *feed.Feed[entry] {
	return feed.New(feed.Descriptor[entry]{
		Strategy:   feed.Append,
		ID:         func(e entry) int64 { return e.id },
		SearchText: func(e entry) []string { return []string{e.text} },
	})
}

func renderEntry(e entry, _ Context) string {
	return e.text
}

func entries(n int) []entry {
	out := make([]entry, n)
	for i := range out {
		out[i] = entry{id: int64(i + 1), text: fmt.Sprintf("entry %d", i+1)}
	}
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFollowStaysPinnedOnAppend(t *testing.T) {
	m := New(testFeed(), renderEntry, "nothing here", true)
	m.SetSize(40, 6)

	m.Append(entries(50))
	if !m.Pinned() {
		t.Fatal("expected feed to start pinned")
	}
	if !strings.Contains(m.vp.View(), "entry 50") {
		t.Fatal("viewport not showing the newest entry")
	}

	m.Append([]entry{{id: 51, text: "entry 51"}})
	if !strings.Contains(m.vp.View(), "entry 51") {
		t.Fatal("viewport did not follow the new entry")
	}
}

func TestScrollingUpUnpins(t *testing.T) {
	m := New(testFeed(), renderEntry, "nothing here", true)
	m.SetSize(40, 6)
	m.Append(entries(50))

	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("up"))
	}
	if m.Pinned() {
		t.Fatal("expected scrolling up to unpin the feed")
	}

	// New entries must not yank the view back down.
	before := m.vp.YOffset
	m.Append([]entry{{id: 51, text: "entry 51"}})
	if m.vp.YOffset != before {
		t.Fatalf("offset moved from %d to %d while unpinned", before, m.vp.YOffset)
	}
}

func TestJumpToBottomRepins(t *testing.T) {
	m := New(testFeed(), renderEntry, "nothing here", true)
	m.SetSize(40, 6)
	m.Append(entries(50))

	for i := 0; i < 10; i++ {
		m, _ = m.Update(keyMsg("up"))
	}
	m, _ = m.Update(keyMsg("G"))
	if !m.Pinned() {
		t.Fatal("expected G to re-enable follow mode")
	}
	if !strings.Contains(m.vp.View(), "entry 50") {
		t.Fatal("expected G to land on the newest entry")
	}
}

func TestSearchFiltersAndEscRestores(t *testing.T) {
	m := New(testFeed(), renderEntry, "No messages found", true)
	m.SetSize(40, 10)
	m.Append(entries(20))

	m, _ = m.Update(keyMsg("/"))
	if !m.Searching() {
		t.Fatal("expected / to focus the search bar")
	}
	for _, r := range "entry 7" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	view := m.vp.View()
	if !strings.Contains(view, "entry 7") || strings.Contains(view, "entry 8") {
		t.Fatalf("search did not narrow the view:\n%s", view)
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.Searching() {
		t.Fatal("expected esc to leave search mode")
	}
	if m.Feed().Search() != "" {
		t.Fatal("expected esc to clear the search term")
	}
	if !strings.Contains(m.vp.View(), "entry 20") {
		t.Fatal("expected the full feed back after esc")
	}
}

func TestNoResultsMessage(t *testing.T) {
	m := New(testFeed(), renderEntry, "No messages found", true)
	m.SetSize(40, 10)
	m.Append(entries(5))

	m, _ = m.Update(keyMsg("/"))
	for _, r := range "zzz" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if !strings.Contains(m.vp.View(), "No messages found") {
		t.Fatal("expected the empty-search message")
	}
}

func TestLoadingUntilFirstBatch(t *testing.T) {
	m := New(testFeed(), renderEntry, "nothing here", true)
	m.SetSize(40, 10)

	if !strings.Contains(m.View(), "Loading") {
		t.Fatal("expected a loading placeholder before the first batch")
	}

	m.Append(entries(1))
	if strings.Contains(m.View(), "Loading") {
		t.Fatal("loading placeholder should clear after the first batch")
	}
}
