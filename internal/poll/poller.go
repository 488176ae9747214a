// Package poll runs the background fetch loops that keep the dashboard
// current. Each endpoint gets its own ticker at its own cadence; results
// are pushed into the running Bubble Tea program as ui messages.
package poll

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/teawcommunity/teawatch/internal/api"
	"github.com/teawcommunity/teawatch/internal/config"
	"github.com/teawcommunity/teawatch/internal/logging"
	"github.com/teawcommunity/teawatch/internal/store"
	"github.com/teawcommunity/teawatch/internal/ui"
)

// chatReplayLimit and killReplayLimit bound the cached history replayed on
// startup, matching the window the server hands out on a cold first load.
const (
	chatReplayLimit = 200
	killReplayLimit = 100
)

// client is the slice of api.Client the pollers use, split out so tests can
// substitute a fake.
type client interface {
	Status(ctx context.Context) (api.Status, error)
	ChatMessages(ctx context.Context, newestID int64) ([]api.ChatMessage, error)
	ChatMisc(ctx context.Context) (api.ChatMisc, error)
	KillHistory(ctx context.Context, newestID int64) ([]api.Kill, error)
	KillsMisc(ctx context.Context) (api.KillsMisc, error)
	Players(ctx context.Context) ([]api.Player, error)
	PlayersMisc(ctx context.Context) (api.PlayersMisc, error)
	Towns(ctx context.Context) ([]api.Town, error)
	TownsMisc(ctx context.Context) (api.TownsMisc, error)
}

// Sender receives messages destined for the UI. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Poller owns the background loops. Context cancellation is the only stop
// mechanism; call Wait after cancelling to let the goroutines drain.
type Poller struct {
	client  client
	store   *store.Store // nil disables the history cache
	cfg     config.PollingConfig
	timeout time.Duration

	// Cursors for the append-only feeds. Each is touched only by its own
	// loop goroutine after Start seeds them from the cache.
	chatNewest int64
	killNewest int64

	wg sync.WaitGroup
}

// New creates a Poller. st may be nil to run without the local history cache.
func New(c *api.Client, st *store.Store, cfg config.PollingConfig, timeout time.Duration) *Poller {
	return newWithClient(c, st, cfg, timeout)
}

func newWithClient(c client, st *store.Store, cfg config.PollingConfig, timeout time.Duration) *Poller {
	return &Poller{client: c, store: st, cfg: cfg, timeout: timeout}
}

// Start replays cached history, then launches one loop per endpoint. Each
// loop runs its first cycle immediately and then at its configured cadence.
// Everything runs off the caller's goroutine: Send blocks until the program
// is receiving, and Start is called before program.Run.
func (p *Poller) Start(ctx context.Context, program Sender) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Cursors must be seeded before the first chat/kill cycle runs.
		p.replayCache(program)

		p.loop(ctx, p.cfg.StatusSeconds, func(ctx context.Context) { p.statusCycle(ctx, program) })
		p.loop(ctx, p.cfg.ChatSeconds, func(ctx context.Context) { p.chatCycle(ctx, program) })
		p.loop(ctx, p.cfg.KillsSeconds, func(ctx context.Context) { p.killsCycle(ctx, program) })
		p.loop(ctx, p.cfg.PlayersSeconds, func(ctx context.Context) { p.playersCycle(ctx, program) })
		p.loop(ctx, p.cfg.TownsSeconds, func(ctx context.Context) { p.townsCycle(ctx, program) })
	}()
}

// Wait blocks until all loop goroutines exit. Call after cancelling the
// context passed to Start.
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, seconds int, cycle func(context.Context)) {
	interval := time.Duration(seconds) * time.Second
	if interval <= 0 {
		interval = time.Second
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		cycle(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cycle(ctx)
			}
		}
	}()
}

// replayCache pushes locally cached chat and kill history into the UI before
// the first network round trip, and seeds the fetch cursors from the store's
// newest-id readback so the first poll only asks for what the cache is
// missing.
func (p *Poller) replayCache(program Sender) {
	if p.store == nil {
		return
	}

	if id, err := p.store.NewestChatID(); err != nil {
		logging.Warn("chat cache replay failed", "error", err)
	} else if id > 0 {
		p.chatNewest = id
		if msgs, err := p.store.RecentChatMessages(chatReplayLimit); err != nil {
			logging.Warn("chat cache replay failed", "error", err)
		} else if len(msgs) > 0 {
			program.Send(ui.ChatMessagesMsg{Messages: msgs, FromCache: true})
		}
	}

	if id, err := p.store.NewestKillID(); err != nil {
		logging.Warn("kill cache replay failed", "error", err)
	} else if id > 0 {
		p.killNewest = id
		if kills, err := p.store.RecentKills(killReplayLimit); err != nil {
			logging.Warn("kill cache replay failed", "error", err)
		} else if len(kills) > 0 {
			program.Send(ui.KillsMsg{Kills: kills, FromCache: true})
		}
	}
}

func (p *Poller) statusCycle(ctx context.Context, program Sender) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	status, err := p.client.Status(cctx)
	if ctx.Err() != nil {
		return
	}
	program.Send(ui.StatusMsg{Status: status, Err: err})
}

// chatCycle fetches new messages and the sidebar info concurrently. The two
// requests share the poll cadence just like the page they replace.
func (p *Poller) chatCycle(ctx context.Context, program Sender) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		msgs, err := p.client.ChatMessages(cctx, p.chatNewest)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			program.Send(ui.ChatMessagesMsg{Err: err})
			return nil
		}
		if len(msgs) > 0 {
			p.chatNewest = msgs[len(msgs)-1].ID
			p.saveChat(msgs)
		}
		program.Send(ui.ChatMessagesMsg{Messages: msgs})
		return nil
	})
	g.Go(func() error {
		misc, err := p.client.ChatMisc(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.ChatMiscMsg{Misc: misc, Err: err})
		return nil
	})
	_ = g.Wait()
}

func (p *Poller) killsCycle(ctx context.Context, program Sender) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		kills, err := p.client.KillHistory(cctx, p.killNewest)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			program.Send(ui.KillsMsg{Err: err})
			return nil
		}
		if len(kills) > 0 {
			p.killNewest = kills[len(kills)-1].ID
			p.saveKills(kills)
		}
		program.Send(ui.KillsMsg{Kills: kills})
		return nil
	})
	g.Go(func() error {
		misc, err := p.client.KillsMisc(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.KillsMiscMsg{Misc: misc, Err: err})
		return nil
	})
	_ = g.Wait()
}

func (p *Poller) playersCycle(ctx context.Context, program Sender) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		players, err := p.client.Players(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.PlayersMsg{Players: players, Err: err})
		return nil
	})
	g.Go(func() error {
		misc, err := p.client.PlayersMisc(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.PlayersMiscMsg{Misc: misc, Err: err})
		return nil
	})
	_ = g.Wait()
}

func (p *Poller) townsCycle(ctx context.Context, program Sender) {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		towns, err := p.client.Towns(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.TownsMsg{Towns: towns, Err: err})
		return nil
	})
	g.Go(func() error {
		misc, err := p.client.TownsMisc(cctx)
		if ctx.Err() != nil {
			return nil
		}
		program.Send(ui.TownsMiscMsg{Misc: misc, Err: err})
		return nil
	})
	_ = g.Wait()
}

func (p *Poller) saveChat(msgs []api.ChatMessage) {
	if p.store == nil {
		return
	}
	if _, err := p.store.SaveChatMessages(msgs); err != nil {
		logging.Warn("chat cache write failed", "error", err)
	}
}

func (p *Poller) saveKills(kills []api.Kill) {
	if p.store == nil {
		return
	}
	if _, err := p.store.SaveKills(kills); err != nil {
		logging.Warn("kill cache write failed", "error", err)
	}
}
