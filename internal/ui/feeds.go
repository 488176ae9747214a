package ui

import (
	"strings"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/feed"
)

// Feed descriptors, one per tab. The sort method names are the ones the
// website's sort dropdowns used, so config files can name them directly.

func newChatFeed() *feed.Feed[api.ChatMessage] {
	return feed.New(feed.Descriptor[api.ChatMessage]{
		Strategy: feed.Append,
		ID:       func(m api.ChatMessage) int64 { return m.ID },
		SearchText: func(m api.ChatMessage) []string {
			sender := m.Sender
			if m.Type != "chat" && m.Type != "discord" {
				sender = capitalize(m.Type)
			}
			return []string{sender, m.Message}
		},
	})
}

func newKillFeed() *feed.Feed[api.Kill] {
	return feed.New(feed.Descriptor[api.Kill]{
		Strategy: feed.Append,
		ID:       func(k api.Kill) int64 { return k.ID },
		SearchText: func(k api.Kill) []string {
			return []string{k.KillerName, k.VictimName, k.DeathMessage}
		},
	})
}

func newPlayerFeed(defaultSort string) *feed.Feed[api.Player] {
	f := feed.New(feed.Descriptor[api.Player]{
		Strategy:   feed.Replace,
		SearchText: func(p api.Player) []string { return []string{p.Name} },
		Sorters: map[string]func([]api.Player){
			// Online players first, most recently seen first within each group.
			"last_online": feed.StableSortBy(func(a, b api.Player) bool {
				aOnline := a.Status == api.PlayerOnline
				bOnline := b.Status == api.PlayerOnline
				if aOnline != bOnline {
					return aOnline
				}
				return a.LastOnline > b.LastOnline
			}),
			"username": feed.StableSortBy(func(a, b api.Player) bool {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}),
		},
	})
	f.SetSort(defaultSort)
	return f
}

func newTownFeed(defaultSort string) *feed.Feed[api.Town] {
	f := feed.New(feed.Descriptor[api.Town]{
		Strategy:   feed.Replace,
		SearchText: func(t api.Town) []string { return []string{displayName(t.Name)} },
		Sorters: map[string]func([]api.Town){
			// "a-z-grouped" is the server's own ordering, so it has no
			// entry here and leaves the snapshot untouched.
			"active-a-z": feed.StableSortBy(func(a, b api.Town) bool {
				if a.IsActive != b.IsActive {
					return a.IsActive
				}
				return strings.ToLower(displayName(a.Name)) < strings.ToLower(displayName(b.Name))
			}),
			"old-new": feed.StableSortBy(func(a, b api.Town) bool {
				return a.Founded < b.Founded
			}),
		},
	})
	f.SetSort(defaultSort)
	return f
}

func newStatFeed(defaultSort string) *feed.Feed[api.StatEntry] {
	f := feed.New(feed.Descriptor[api.StatEntry]{
		Strategy:   feed.Replace,
		SearchText: func(e api.StatEntry) []string { return []string{e.Name} },
		// Rank order rather than value order: on ties the server's ranks
		// are authoritative.
		Sorters: map[string]func([]api.StatEntry){
			"high-to-low": feed.StableSortBy(func(a, b api.StatEntry) bool {
				return a.Rank < b.Rank
			}),
			"low-to-high": feed.StableSortBy(func(a, b api.StatEntry) bool {
				return a.Rank > b.Rank
			}),
			"username": feed.StableSortBy(func(a, b api.StatEntry) bool {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}),
		},
	})
	f.SetSort(defaultSort)
	return f
}

func newShowcaseFeed() *feed.Feed[api.ShowcasePhoto] {
	// The manifest is not guaranteed to be date-ordered; newest first.
	f := feed.New(feed.Descriptor[api.ShowcasePhoto]{
		Strategy: feed.Replace,
		SearchText: func(p api.ShowcasePhoto) []string {
			return []string{p.PhotoTitle, p.Photographer}
		},
		Sorters: map[string]func([]api.ShowcasePhoto){
			"new-old": feed.StableSortBy(func(a, b api.ShowcasePhoto) bool {
				return a.PhotoDate > b.PhotoDate
			}),
		},
	})
	f.SetSort("new-old")
	return f
}
