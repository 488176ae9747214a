package store

import (
	"testing"

	"github.com/teawcommunity/teawatch/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveChatMessagesDedup(t *testing.T) {
	s := openTestStore(t)

	msgs := []api.ChatMessage{
		{ID: 1, Sender: "Alice", SenderUUID: "u1", Message: "hello", Timestamp: 1000, Type: "chat"},
		{ID: 2, Sender: "Server", Message: "Bob joined the game", Timestamp: 2000, Type: "join"},
	}

	n, err := s.SaveChatMessages(msgs)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 new rows, got %d", n)
	}

	// Replaying the same batch inserts nothing.
	n, err = s.SaveChatMessages(msgs)
	if err != nil {
		t.Fatalf("replay save: %v", err)
	}
	if n != 0 {
		t.Errorf("replay inserted %d rows", n)
	}

	id, err := s.NewestChatID()
	if err != nil {
		t.Fatalf("newest id: %v", err)
	}
	if id != 2 {
		t.Errorf("NewestChatID = %d, want 2", id)
	}
}

func TestRecentChatMessagesAscending(t *testing.T) {
	s := openTestStore(t)

	var batch []api.ChatMessage
	for i := int64(1); i <= 10; i++ {
		batch = append(batch, api.ChatMessage{ID: i, Sender: "p", Message: "m", Timestamp: i * 1000, Type: "chat"})
	}
	if _, err := s.SaveChatMessages(batch); err != nil {
		t.Fatal(err)
	}

	msgs, err := s.RecentChatMessages(3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	// Newest window, oldest first, so a feed can append in order.
	if msgs[0].ID != 8 || msgs[2].ID != 10 {
		t.Errorf("unexpected window: %d..%d", msgs[0].ID, msgs[2].ID)
	}
}

func TestSaveAndRecentKills(t *testing.T) {
	s := openTestStore(t)

	kills := []api.Kill{
		{ID: 5, KillerName: "Steve", VictimName: "Alex", DeathMessage: "Alex was slain by Steve", WeaponJSON: []byte(`{"item":"bow"}`), Timestamp: 5000},
	}
	if _, err := s.SaveKills(kills); err != nil {
		t.Fatalf("save kills: %v", err)
	}

	got, err := s.RecentKills(10)
	if err != nil {
		t.Fatalf("recent kills: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 kill, got %d", len(got))
	}
	if got[0].DeathMessage != "Alex was slain by Steve" {
		t.Errorf("unexpected death message %q", got[0].DeathMessage)
	}
	if string(got[0].WeaponJSON) != `{"item":"bow"}` {
		t.Errorf("weapon json not round-tripped: %s", got[0].WeaponJSON)
	}

	id, err := s.NewestKillID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 5 {
		t.Errorf("NewestKillID = %d, want 5", id)
	}
}

func TestNewestIDsEmpty(t *testing.T) {
	s := openTestStore(t)

	if id, err := s.NewestChatID(); err != nil || id != 0 {
		t.Errorf("NewestChatID on empty store = %d, %v", id, err)
	}
	if id, err := s.NewestKillID(); err != nil || id != 0 {
		t.Errorf("NewestKillID on empty store = %d, %v", id, err)
	}
}
