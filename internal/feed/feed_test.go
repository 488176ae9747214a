package feed

import (
	"strings"
	"testing"
	"unicode/utf8"
)

type entry struct {
	id   int64
	text string
}

func newAppendFeed() *Feed[entry] {
	return New(Descriptor[entry]{
		Strategy:   Append,
		ID:         func(e entry) int64 { return e.id },
		SearchText: func(e entry) []string { return []string{e.text} },
	})
}

func TestMergeAppendFirstLoad(t *testing.T) {
	f := newAppendFeed()
	if !f.FirstLoad() {
		t.Fatal("new feed should be in first-load state")
	}
	if _, ok := f.NewestID(); ok {
		t.Error("empty feed should have no newest id")
	}

	added := f.MergeAppend([]entry{{101, "hello"}, {102, "world"}})
	if added != 2 {
		t.Fatalf("expected 2 appended, got %d", added)
	}
	if f.FirstLoad() {
		t.Error("first load should be complete after the first merge")
	}
	if id, ok := f.NewestID(); !ok || id != 102 {
		t.Errorf("NewestID = %d, %v; want 102, true", id, ok)
	}
}

func TestMergeAppendMonotonic(t *testing.T) {
	f := newAppendFeed()
	f.MergeAppend([]entry{{1, "a"}, {2, "b"}})

	// A duplicate or stale response never renders twice.
	added := f.MergeAppend([]entry{{1, "a"}, {2, "b"}, {3, "c"}})
	if added != 1 {
		t.Errorf("expected 1 appended, got %d", added)
	}
	if f.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", f.Len())
	}

	// Empty polls change nothing.
	before := f.Len()
	if added := f.MergeAppend(nil); added != 0 {
		t.Errorf("empty poll appended %d entries", added)
	}
	if f.Len() != before {
		t.Error("entry count changed on empty poll")
	}

	// Cumulative count equals unique ids ever returned.
	f.MergeAppend([]entry{{4, "d"}, {5, "e"}})
	if f.Len() != 5 {
		t.Errorf("expected 5 entries after all merges, got %d", f.Len())
	}
	if id, _ := f.NewestID(); id != 5 {
		t.Errorf("NewestID = %d, want 5", id)
	}
}

func TestMergeReplaceGuard(t *testing.T) {
	f := New(Descriptor[entry]{
		Strategy:   Replace,
		SearchText: func(e entry) []string { return []string{e.text} },
	})

	if !f.MergeReplace([]entry{{0, "alice"}, {0, "bob"}}) {
		t.Fatal("non-empty snapshot should apply")
	}
	if f.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", f.Len())
	}

	// An empty snapshot must never reduce the rendered count.
	if f.MergeReplace(nil) {
		t.Error("empty snapshot should be rejected")
	}
	if f.Len() != 2 {
		t.Errorf("empty snapshot wiped the list: %d entries left", f.Len())
	}

	// A fresh snapshot fully replaces.
	f.MergeReplace([]entry{{0, "carol"}})
	if f.Len() != 1 {
		t.Errorf("expected 1 entry after replace, got %d", f.Len())
	}
}

func TestVisibleSearch(t *testing.T) {
	f := newAppendFeed()
	f.MergeAppend([]entry{{1, "Alice"}, {2, "Bob"}, {3, "alfred"}})

	f.SetSearch("al")
	visible := f.Visible()
	if len(visible) != 2 {
		t.Fatalf("expected 2 matches for %q, got %d", "al", len(visible))
	}
	if visible[0].text != "Alice" || visible[1].text != "alfred" {
		t.Errorf("unexpected matches: %+v", visible)
	}
	if f.NoResults() {
		t.Error("NoResults should be false with matches present")
	}

	f.SetSearch("zzz")
	if !f.NoResults() {
		t.Error("NoResults should be true with zero matches")
	}

	// Clearing the term unhides everything.
	f.SetSearch("")
	if len(f.Visible()) != 3 {
		t.Error("clearing the search should show all entries")
	}
	if f.NoResults() {
		t.Error("empty term never reports no results")
	}
}

func TestVisibleSortDoesNotDisturbCursor(t *testing.T) {
	f := New(Descriptor[entry]{
		Strategy:   Append,
		ID:         func(e entry) int64 { return e.id },
		SearchText: func(e entry) []string { return []string{e.text} },
		Sorters: map[string]func([]entry){
			"text": StableSortBy(func(a, b entry) bool { return a.text < b.text }),
		},
	})
	f.MergeAppend([]entry{{1, "zebra"}, {2, "apple"}})

	f.SetSort("text")
	visible := f.Visible()
	if visible[0].text != "apple" {
		t.Errorf("sort not applied: %+v", visible)
	}
	// The merge cursor reads from merge order, not display order.
	if id, _ := f.NewestID(); id != 2 {
		t.Errorf("NewestID disturbed by sort: got %d", id)
	}
	if f.Entries()[0].text != "zebra" {
		t.Error("Visible mutated the underlying entries")
	}
}

func TestHighlightAllOccurrences(t *testing.T) {
	wrap := func(s string) string { return "«" + s + "»" }

	got := Highlight("Alabama llama", "la", wrap)
	want := "A«la»bama l«la»ma"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightCaseInsensitiveKeepsOriginalCase(t *testing.T) {
	wrap := func(s string) string { return "<" + s + ">" }

	got := Highlight("Alice and ALISTAIR", "ali", wrap)
	want := "<Ali>ce and <ALI>STAIR"
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlightLiteralMetacharacters(t *testing.T) {
	wrap := func(s string) string { return "[" + s + "]" }

	// Regex metacharacters in the query match literally.
	if got := Highlight("a(b) c", "(b)", wrap); got != "a[(b)] c" {
		t.Errorf("metacharacter query mishandled: %q", got)
	}
	if got := Highlight("plain", ".*", wrap); got != "plain" {
		t.Errorf("wildcard query should not match: %q", got)
	}
}

func TestHighlightMultibyteCaseFolds(t *testing.T) {
	wrap := func(s string) string { return "<" + s + ">" }

	// Lowercasing Ⱥ (U+023A) grows the rune from two bytes to three, so
	// match offsets in the lowered copy run past the original text.
	if got := Highlight("Ⱥa", "a", wrap); got != "Ⱥ<a>" {
		t.Errorf("Highlight(Ⱥa, a) = %q", got)
	}
	if got := Highlight("Ⱥbc", "ⱥ", wrap); got != "<Ⱥ>bc" {
		t.Errorf("Highlight(Ⱥbc, ⱥ) = %q", got)
	}

	// Lowercasing İ (U+0130) shrinks the rune from two bytes to one.
	got := Highlight("İİ abc", "abc", wrap)
	if got != "İİ <abc>" {
		t.Errorf("Highlight(İİ abc, abc) = %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("highlight produced invalid UTF-8: %q", got)
	}

	// The Kelvin sign (U+212A) folds to a plain k.
	if got := Highlight("273K outside", "273k", wrap); got != "<273K> outside" {
		t.Errorf("Highlight(273K, 273k) = %q", got)
	}
}

func TestHighlightClearRestoresExactText(t *testing.T) {
	wrap := func(s string) string { return "※" + s + "※" }
	original := "Steve joined the game"

	highlighted := Highlight(original, "eve", wrap)
	if highlighted == original {
		t.Fatal("expected highlight markup")
	}
	// Re-rendering with an empty term is byte-identical to the source.
	if got := Highlight(original, "", wrap); got != original {
		t.Errorf("clear did not restore original text: %q", got)
	}
	if strings.Contains(Highlight(original, "", wrap), "※") {
		t.Error("residual markup after clear")
	}
}

func TestMatchAny(t *testing.T) {
	fields := []string{"Steve", "fell from a high place"}

	if !MatchAny(fields, "HIGH") {
		t.Error("match should be case-insensitive")
	}
	if !MatchAny(fields, "") {
		t.Error("empty term matches everything")
	}
	if MatchAny(fields, "creeper") {
		t.Error("unexpected match")
	}
}
