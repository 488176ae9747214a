// Command teawatch-stub serves a synthetic version of the community API so
// the dashboard can be developed and demoed without the real server. The
// world advances on its own: chat trickles in, players die, time passes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/teawcommunity/teawatch/internal/api"
)

var playerNames = []string{
	"Quartzbane", "Emberfall", "Sablewick", "TheRedstoneer", "Mossgard",
	"PickledMango", "Vantastic", "Obsidiana", "CopperKip", "Netherlord99",
}

var chatLines = []string{
	"anyone selling shulker shells?",
	"wither skeleton farm is done, come see",
	"lag spike just now or is it me",
	"selling elytra at spawn, 3 diamond blocks",
	"who griefed my wheat farm",
	"nation meeting at 8, don't be late",
}

var deathLines = []string{
	"%s was slain by %s",
	"%s was shot by %s",
	"%s was blown up by %s",
}

type world struct {
	mu      sync.Mutex
	rng     *rand.Rand
	started time.Time

	chat    []api.ChatMessage
	kills   []api.Kill
	players []api.Player
	towns   []api.Town
}

func newWorld() *world {
	w := &world{
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		started: time.Now(),
	}

	now := time.Now().UnixMilli()
	for i, name := range playerNames {
		status := api.PlayerOffline
		if i < 4 {
			status = api.PlayerOnline
		} else if i == 4 {
			status = api.PlayerAFK
		}
		w.players = append(w.players, api.Player{
			UUID:           fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1),
			Name:           name,
			Status:         status,
			OnlineDuration: int64(w.rng.Intn(4*60)) * 60 * 1000,
			AFKDuration:    int64(w.rng.Intn(30)) * 60 * 1000,
			FirstJoined:    now - int64(w.rng.Intn(700)+30)*24*60*60*1000,
			LastOnline:     now - int64(w.rng.Intn(72))*60*60*1000,
			Bio:            "",
		})
	}
	w.players[0].Bio = "Mayor of Duskmere. Do not ask about the creeper incident."

	towns := []struct {
		name, color, nation, nationColor, mayor string
		active                                  bool
	}{
		{"Duskmere", "8a2be2", "Violet_Concord", "6a0dad", "Quartzbane", true},
		{"Port_Harrow", "1e90ff", "Violet_Concord", "6a0dad", "Sablewick", true},
		{"Old_Kiln", "b22222", "", "", "Mossgard", false},
		{"Fernwall", "228b22", "Greenway_Pact", "2e8b57", "Emberfall", true},
	}
	for i, t := range towns {
		w.towns = append(w.towns, api.Town{
			UUID:        fmt.Sprintf("10000000-0000-0000-0000-%012d", i+1),
			Name:        t.name,
			TownColor:   t.color,
			NationName:  t.nation,
			NationColor: t.nationColor,
			Mayor:       t.mayor,
			Founded:     now - int64((i+1)*90)*24*60*60*1000,
			IsActive:    t.active,
			SpawnX:      w.rng.Intn(4000) - 2000,
			SpawnY:      64 + w.rng.Intn(40),
			SpawnZ:      w.rng.Intn(4000) - 2000,
		})
	}

	// A little history so first loads are not empty.
	for i := 0; i < 40; i++ {
		w.addChatLocked(now - int64(40-i)*45*1000)
	}
	for i := 0; i < 8; i++ {
		w.addKillLocked(now - int64(8-i)*9*60*1000)
	}
	return w
}

func (w *world) addChatLocked(ts int64) {
	id := int64(len(w.chat) + 1)
	p := w.players[w.rng.Intn(len(w.players))]

	msg := api.ChatMessage{ID: id, Timestamp: ts}
	switch w.rng.Intn(10) {
	case 0:
		msg.Type = "join"
		msg.Message = p.Name + " joined the game"
	case 1:
		msg.Type = "quit"
		msg.Message = p.Name + " left the game"
	case 2:
		msg.Type = "advancement"
		msg.Message = p.Name + " has made the advancement [Hot Stuff]"
	case 3:
		msg.Type = "death"
		msg.Message = p.Name + " fell from a high place"
	case 4:
		msg.Type = "discord"
		msg.Sender = p.Name
		msg.Message = chatLines[w.rng.Intn(len(chatLines))]
	default:
		msg.Type = "chat"
		msg.Sender = p.Name
		msg.SenderUUID = p.UUID
		msg.Message = chatLines[w.rng.Intn(len(chatLines))]
	}
	w.chat = append(w.chat, msg)
}

func (w *world) addKillLocked(ts int64) {
	id := int64(len(w.kills) + 1)
	killer := w.players[w.rng.Intn(len(w.players))]
	victim := w.players[w.rng.Intn(len(w.players))]
	for victim.UUID == killer.UUID {
		victim = w.players[w.rng.Intn(len(w.players))]
	}
	w.kills = append(w.kills, api.Kill{
		ID:           id,
		KillerUUID:   killer.UUID,
		KillerName:   killer.Name,
		VictimUUID:   victim.UUID,
		VictimName:   victim.Name,
		DeathMessage: fmt.Sprintf(deathLines[w.rng.Intn(len(deathLines))], victim.Name, killer.Name),
		WeaponJSON:   json.RawMessage(`{"id":"minecraft:netherite_sword"}`),
		Timestamp:    ts,
	})
}

// run advances the world until the process exits.
func (w *world) run() {
	for range time.Tick(3 * time.Second) {
		w.mu.Lock()
		now := time.Now().UnixMilli()
		w.addChatLocked(now)
		if w.rng.Intn(6) == 0 {
			w.addKillLocked(now)
		}
		w.mu.Unlock()
	}
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// after returns the entries of a feed newer than the client's cursor, or the
// newest fallback entries on a cold load.
func afterCursor[T any](entries []T, id func(T) int64, cursor int64, fallback int) []T {
	if cursor > 0 {
		for i, e := range entries {
			if id(e) > cursor {
				return entries[i:]
			}
		}
		return []T{}
	}
	if len(entries) > fallback {
		return entries[len(entries)-fallback:]
	}
	return entries
}

func (w *world) handleStatus(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	online := 0
	for _, p := range w.players {
		if p.Status != api.PlayerOffline {
			online++
		}
	}
	writeJSON(rw, api.Status{Status: "ok", OnlinePlayers: online})
}

func (w *world) handleChat(rw http.ResponseWriter, r *http.Request) {
	cursor, _ := strconv.ParseInt(r.URL.Query().Get("newest_message_id"), 10, 64)
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, afterCursor(w.chat, func(m api.ChatMessage) int64 { return m.ID }, cursor, 200))
}

func (w *world) handleChatMisc(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	hour := (time.Now().Unix() / 50) % 24 // a full day every 20 minutes
	writeJSON(rw, api.ChatMisc{
		MessagesLogged: int64(len(w.chat)) + 190_000,
		DaysElapsed:    812,
		WorldWeather:   "clear",
		WorldTime:      fmt.Sprintf("%02d:00", hour),
	})
}

func (w *world) handleKills(rw http.ResponseWriter, r *http.Request) {
	cursor, _ := strconv.ParseInt(r.URL.Query().Get("newest_kill_id"), 10, 64)
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, afterCursor(w.kills, func(k api.Kill) int64 { return k.ID }, cursor, 100))
}

func (w *world) handleKillsMisc(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	killers := map[string]bool{}
	victims := map[string]bool{}
	for _, k := range w.kills {
		killers[k.KillerUUID] = true
		victims[k.VictimUUID] = true
	}
	writeJSON(rw, api.KillsMisc{
		TotalKills:    int64(len(w.kills)),
		UniqueKillers: int64(len(killers)),
		UniqueVictims: int64(len(victims)),
	})
}

func (w *world) handlePlayers(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, w.players)
}

func (w *world) handlePlayersMisc(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	active := 0
	for _, p := range w.players {
		if p.Status != api.PlayerOffline {
			active++
		}
	}
	writeJSON(rw, api.PlayersMisc{ActivePlayers: int64(active), TotalPlayers: int64(len(w.players))})
}

func (w *world) handleTowns(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	writeJSON(rw, w.towns)
}

func (w *world) handleTownsMisc(rw http.ResponseWriter, _ *http.Request) {
	w.mu.Lock()
	defer w.mu.Unlock()
	active := 0
	nations := map[string]bool{}
	for _, t := range w.towns {
		if t.IsActive {
			active++
		}
		if t.NationName != "" {
			nations[t.NationName] = true
		}
	}
	writeJSON(rw, api.TownsMisc{
		ActiveTowns:   int64(active),
		TotalTowns:    int64(len(w.towns)),
		ActiveNations: int64(len(nations)),
		TotalNations:  int64(len(nations)),
		TotalMoney:    124_560.50,
	})
}

// statUnits mirrors the translation units of the real stat endpoints.
var statUnits = map[string]string{
	"TOTAL_WORLD_TIME": "hours",
	"TIME_SINCE_DEATH": "hours",
	"PIG_ONE_CM":       "km",
}

func (w *world) handleLeaderboard(rw http.ResponseWriter, r *http.Request) {
	stat := strings.ToUpper(mux.Vars(r)["stat"])

	w.mu.Lock()
	defer w.mu.Unlock()

	units, ok := statUnits[stat]
	if !ok {
		units = "count"
	}
	if stat == "PLAYTIME_DEATH_RATIO" {
		units = "avg. hours per death"
	}

	// Deterministic per stat+player so consecutive polls agree.
	entries := make([]api.StatEntry, 0, len(w.players))
	for _, p := range w.players {
		seed := int64(0)
		for _, c := range p.UUID + stat {
			seed = seed*31 + int64(c)
		}
		entries = append(entries, api.StatEntry{
			UUID:  p.UUID,
			Name:  p.Name,
			Value: float64(seed%100_000) / 10,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
	writeJSON(rw, api.Leaderboard{Entries: entries, Units: units})
}

func (w *world) handleShowcase(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, []api.ShowcasePhoto{
		{ImgSrc: "spawn_sunset.png", PhotoTitle: "Sunset over spawn", PhotoDate: "2026-07-02", Photographer: "Sablewick"},
		{ImgSrc: "duskmere_walls.png", PhotoTitle: "The walls of Duskmere", PhotoDate: "2026-08-14", Photographer: "Quartzbane"},
		{ImgSrc: "end_raid.png", PhotoTitle: "End raid group photo", PhotoDate: "2026-05-30", Photographer: "CopperKip"},
	})
}

func (w *world) handleSubmitPhoto(rw http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		rw.WriteHeader(http.StatusBadRequest)
		writeJSON(rw, map[string]string{"message": "malformed upload"})
		return
	}
	if r.FormValue("photo_title") == "" {
		rw.WriteHeader(http.StatusBadRequest)
		writeJSON(rw, map[string]string{"message": "photo title is required"})
		return
	}
	log.Printf("photo submitted: %q by %q", r.FormValue("photo_title"), r.FormValue("photographer"))
	writeJSON(rw, map[string]string{"status": "ok"})
}

func main() {
	addr := flag.String("addr", ":8780", "listen address")
	flag.Parse()

	w := newWorld()
	go w.run()

	r := mux.NewRouter()
	r.HandleFunc("/api/status", w.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/chat_messages", w.handleChat).Methods(http.MethodGet)
	r.HandleFunc("/api/chat_misc", w.handleChatMisc).Methods(http.MethodGet)
	r.HandleFunc("/api/kill_history", w.handleKills).Methods(http.MethodGet)
	r.HandleFunc("/api/kills_misc", w.handleKillsMisc).Methods(http.MethodGet)
	r.HandleFunc("/api/players", w.handlePlayers).Methods(http.MethodGet)
	r.HandleFunc("/api/players_misc", w.handlePlayersMisc).Methods(http.MethodGet)
	r.HandleFunc("/api/towns", w.handleTowns).Methods(http.MethodGet)
	r.HandleFunc("/api/towns_misc", w.handleTownsMisc).Methods(http.MethodGet)
	r.HandleFunc("/api/get_general_leaderboard/{stat}", w.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/get_custom_stat/{stat}", w.handleLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/api/showcase_manifest", w.handleShowcase).Methods(http.MethodGet)
	r.HandleFunc("/api/submit_photo", w.handleSubmitPhoto).Methods(http.MethodPost)

	// Image endpoints exist so links resolve; there are no images to serve.
	r.PathPrefix("/api/player_face/").HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusNoContent)
	})
	r.PathPrefix("/api/player_skin/").HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusNoContent)
	})
	r.PathPrefix("/api/showcase_img/").HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusNoContent)
	})

	log.Printf("teawatch-stub listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, r))
}
