// Package feed implements the live feed controller shared by every view:
// incremental merge of polled entries, full-snapshot replacement with a
// guard against wiping a good render, client-side sorting and search.
// All functions are pure slice bookkeeping. No I/O, no rendering.
package feed

import "sort"

// Strategy selects how a feed absorbs polled entries.
type Strategy int

const (
	// Append feeds only grow: each poll requests entries newer than the
	// newest known id and appends them.
	Append Strategy = iota
	// Replace feeds rebuild from a complete snapshot on every poll.
	Replace
)

// Descriptor parameterizes a Feed for one view.
type Descriptor[T any] struct {
	Strategy Strategy

	// ID returns the server-assigned ordering cursor. Required for Append
	// feeds; Replace feeds may return 0.
	ID func(T) int64

	// SearchText returns the fields a search term is matched against.
	SearchText func(T) []string

	// Sorters maps sort method names to in-place sort orders. A method
	// missing from the map leaves server order untouched.
	Sorters map[string]func([]T)
}

// Feed holds the entries known so far for one view, plus the view state
// (search term, sort method, first-load flag) that the page scripts used to
// keep in globals.
type Feed[T any] struct {
	desc       Descriptor[T]
	entries    []T
	sortMethod string
	search     string
	firstLoad  bool
}

// New creates an empty feed in the first-load state.
func New[T any](desc Descriptor[T]) *Feed[T] {
	return &Feed[T]{desc: desc, firstLoad: true}
}

// FirstLoad reports whether the initial page of entries has not arrived yet.
func (f *Feed[T]) FirstLoad() bool {
	return f.firstLoad
}

// Len returns the number of entries known so far.
func (f *Feed[T]) Len() int {
	return len(f.entries)
}

// NewestID returns the id bound for the next incremental fetch, read back
// from the held entries. ok is false when nothing is rendered yet, in which
// case the bound must be omitted from the request.
func (f *Feed[T]) NewestID() (int64, bool) {
	if len(f.entries) == 0 || f.desc.ID == nil {
		return 0, false
	}
	return f.desc.ID(f.entries[len(f.entries)-1]), true
}

// MergeAppend absorbs one poll's worth of entries into an append-only feed
// and returns how many were actually appended. Entries at or below the
// current newest id are dropped so a duplicate or late response can never
// render twice; the count of entries only ever grows.
func (f *Feed[T]) MergeAppend(entries []T) int {
	if f.firstLoad {
		// First poll replaces the placeholder state wholesale.
		f.entries = append(f.entries[:0], entries...)
		f.firstLoad = false
		return len(entries)
	}

	newest, bounded := f.NewestID()
	added := 0
	for _, e := range entries {
		if bounded && f.desc.ID(e) <= newest {
			continue
		}
		f.entries = append(f.entries, e)
		newest, bounded = f.desc.ID(e), true
		added++
	}
	return added
}

// MergeReplace swaps in a complete snapshot. An empty snapshot is treated as
// a failed poll and leaves the previous render untouched, so a transient
// server error never erases a good list. Returns whether the snapshot was
// applied.
func (f *Feed[T]) MergeReplace(entries []T) bool {
	if len(entries) == 0 {
		return false
	}
	f.entries = append(f.entries[:0], entries...)
	f.firstLoad = false
	return true
}

// Entries returns the raw entries in merge order. Callers must not mutate.
func (f *Feed[T]) Entries() []T {
	return f.entries
}

// SetSort selects the sort method applied by Visible.
func (f *Feed[T]) SetSort(method string) {
	f.sortMethod = method
}

// SortMethod returns the active sort method.
func (f *Feed[T]) SortMethod() string {
	return f.sortMethod
}

// SetSearch sets the free-text filter. An empty term shows everything.
func (f *Feed[T]) SetSearch(term string) {
	f.search = term
}

// Search returns the active search term.
func (f *Feed[T]) Search() string {
	return f.search
}

// Visible returns the entries to render: sorted per the active method, then
// filtered by the active search term. Sorting works on a copy so the merge
// order (and with it NewestID) is never disturbed.
func (f *Feed[T]) Visible() []T {
	visible := make([]T, len(f.entries))
	copy(visible, f.entries)

	if sorter, ok := f.desc.Sorters[f.sortMethod]; ok && sorter != nil {
		sorter(visible)
	}

	if f.search == "" || f.desc.SearchText == nil {
		return visible
	}

	matched := visible[:0]
	for _, e := range visible {
		if MatchAny(f.desc.SearchText(e), f.search) {
			matched = append(matched, e)
		}
	}
	return matched
}

// NoResults reports whether a non-empty search term matched nothing.
func (f *Feed[T]) NoResults() bool {
	return f.search != "" && len(f.Visible()) == 0
}

// StableSortBy is a convenience for building Descriptor sorters.
func StableSortBy[T any](less func(a, b T) bool) func([]T) {
	return func(s []T) {
		sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
	}
}
