package ui

import "github.com/teawcommunity/teawatch/internal/api"

// StatOption is one entry of the leaderboard stat picker.
type StatOption struct {
	Key   string
	Label string
	Kind  api.StatKind
}

// statOptions mirrors the stats the server exposes: the general statistic
// keys plus the derived custom stats.
var statOptions = []StatOption{
	{"TOTAL_WORLD_TIME", "Time played", api.StatGeneral},
	{"DEATHS", "Deaths", api.StatGeneral},
	{"TIME_SINCE_DEATH", "Time since last death", api.StatGeneral},
	{"PLAYER_KILLS", "Player kills", api.StatGeneral},
	{"PIG_ONE_CM", "Distance by pig", api.StatGeneral},
	{"ANIMALS_BRED", "Animals bred", api.StatGeneral},
	{"CAKE_SLICES_EATEN", "Cake slices eaten", api.StatGeneral},
	{"CRAFTING_TABLE_INTERACTION", "Crafting table uses", api.StatGeneral},
	{"TRADED_WITH_VILLAGER", "Villager trades", api.StatGeneral},
	{"SLEEP_IN_BED", "Times slept in a bed", api.StatGeneral},
	{"FISH_CAUGHT", "Fish caught", api.StatGeneral},
	{"PLAYTIME_DEATH_RATIO", "Playtime per death", api.StatCustom},
}

// statIndex returns the position of key in statOptions, or 0 if unknown so
// a bad config value falls back to the first stat.
func statIndex(key string) int {
	for i, opt := range statOptions {
		if opt.Key == key {
			return i
		}
	}
	return 0
}
