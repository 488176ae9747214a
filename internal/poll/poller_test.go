package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/config"
	"github.com/teawcommunity/teawatch/internal/store"
	"github.com/teawcommunity/teawatch/internal/ui"
)

// recorder implements Sender and collects messages for inspection.
type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) all() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tea.Msg, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// fakeClient implements the client interface with canned responses.
type fakeClient struct {
	mu          sync.Mutex
	chatCursors []int64
	killCursors []int64
	chat        []api.ChatMessage
	kills       []api.Kill
	chatErr     error
	status      api.Status
	statusErr   error
}

func (f *fakeClient) Status(ctx context.Context) (api.Status, error) {
	return f.status, f.statusErr
}

func (f *fakeClient) ChatMessages(ctx context.Context, newestID int64) ([]api.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCursors = append(f.chatCursors, newestID)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	var out []api.ChatMessage
	for _, m := range f.chat {
		if m.ID > newestID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeClient) ChatMisc(ctx context.Context) (api.ChatMisc, error) {
	return api.ChatMisc{WorldWeather: "clear", WorldTime: "10:30"}, nil
}

func (f *fakeClient) KillHistory(ctx context.Context, newestID int64) ([]api.Kill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killCursors = append(f.killCursors, newestID)
	var out []api.Kill
	for _, k := range f.kills {
		if k.ID > newestID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeClient) KillsMisc(ctx context.Context) (api.KillsMisc, error) {
	return api.KillsMisc{}, nil
}

func (f *fakeClient) Players(ctx context.Context) ([]api.Player, error) {
	return []api.Player{{Name: "fran"}}, nil
}

func (f *fakeClient) PlayersMisc(ctx context.Context) (api.PlayersMisc, error) {
	return api.PlayersMisc{}, nil
}

func (f *fakeClient) Towns(ctx context.Context) ([]api.Town, error) {
	return []api.Town{{Name: "Haven"}}, nil
}

func (f *fakeClient) TownsMisc(ctx context.Context) (api.TownsMisc, error) {
	return api.TownsMisc{}, nil
}

func testPoller(t *testing.T, c client, st *store.Store) *Poller {
	t.Helper()
	return newWithClient(c, st, config.DefaultConfig().Polling, 5*time.Second)
}

func chatMsgsOf(msgs []tea.Msg) []ui.ChatMessagesMsg {
	var out []ui.ChatMessagesMsg
	for _, m := range msgs {
		if cm, ok := m.(ui.ChatMessagesMsg); ok {
			out = append(out, cm)
		}
	}
	return out
}

func TestChatCycleAdvancesCursor(t *testing.T) {
	fc := &fakeClient{chat: []api.ChatMessage{
		{ID: 1, Message: "first"},
		{ID: 2, Message: "second"},
	}}
	p := testPoller(t, fc, nil)
	rec := &recorder{}

	p.chatCycle(context.Background(), rec)
	if p.chatNewest != 2 {
		t.Fatalf("cursor = %d, want 2", p.chatNewest)
	}

	// Second cycle with nothing new must not regress the cursor.
	p.chatCycle(context.Background(), rec)
	if p.chatNewest != 2 {
		t.Fatalf("cursor after empty cycle = %d, want 2", p.chatNewest)
	}

	if got := fc.chatCursors; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("cursors sent = %v, want [0 2]", got)
	}

	cms := chatMsgsOf(rec.all())
	if len(cms) != 2 {
		t.Fatalf("got %d chat messages, want 2", len(cms))
	}
	if len(cms[0].Messages) != 2 || len(cms[1].Messages) != 0 {
		t.Fatalf("unexpected batch sizes: %d then %d", len(cms[0].Messages), len(cms[1].Messages))
	}
}

func TestChatCycleReportsError(t *testing.T) {
	fc := &fakeClient{chatErr: errors.New("boom")}
	p := testPoller(t, fc, nil)
	rec := &recorder{}

	p.chatCycle(context.Background(), rec)

	cms := chatMsgsOf(rec.all())
	if len(cms) != 1 || cms[0].Err == nil {
		t.Fatalf("expected one chat message carrying the error, got %+v", cms)
	}
	if p.chatNewest != 0 {
		t.Fatalf("cursor moved on error: %d", p.chatNewest)
	}
}

func TestStatusCycleForwardsTransportError(t *testing.T) {
	fc := &fakeClient{statusErr: errors.New("connection refused")}
	p := testPoller(t, fc, nil)
	rec := &recorder{}

	p.statusCycle(context.Background(), rec)

	msgs := rec.all()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	sm, ok := msgs[0].(ui.StatusMsg)
	if !ok || sm.Err == nil {
		t.Fatalf("expected StatusMsg with error, got %#v", msgs[0])
	}
}

func TestReplayCacheSeedsCursorsAndSendsHistory(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cached := []api.ChatMessage{
		{ID: 5, Message: "older", Timestamp: 1000},
		{ID: 9, Message: "newer", Timestamp: 2000},
	}
	if _, err := st.SaveChatMessages(cached); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := st.SaveKills([]api.Kill{{ID: 4, KillerName: "a", VictimName: "b", Timestamp: 1500}}); err != nil {
		t.Fatalf("save kills: %v", err)
	}

	fc := &fakeClient{}
	p := testPoller(t, fc, st)
	rec := &recorder{}

	p.replayCache(rec)

	if p.chatNewest != 9 {
		t.Fatalf("chat cursor = %d, want 9", p.chatNewest)
	}
	if p.killNewest != 4 {
		t.Fatalf("kill cursor = %d, want 4", p.killNewest)
	}
	cms := chatMsgsOf(rec.all())
	if len(cms) != 1 || !cms[0].FromCache || len(cms[0].Messages) != 2 {
		t.Fatalf("unexpected replay: %+v", cms)
	}

	// The first real poll asks only for what the cache is missing.
	p.chatCycle(context.Background(), rec)
	if got := fc.chatCursors; len(got) != 1 || got[0] != 9 {
		t.Fatalf("first poll cursor = %v, want [9]", got)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	fc := &fakeClient{status: api.Status{Status: "ok"}}
	p := testPoller(t, fc, nil)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx, rec)

	// Let the immediate first cycles run, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pollers did not stop after cancel")
	}

	if len(rec.all()) == 0 {
		t.Fatal("expected at least the initial cycle results")
	}
}
