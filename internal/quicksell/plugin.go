// Package quicksell is the sell menu itself: it reacts to window events,
// keeps each open window priced and settles it when the player sells or
// walks away.
//
// A Plugin is not safe for concurrent use. Every method must be called from
// the same goroutine, and the AfterFunc it is configured with must run its
// callbacks on that goroutine too.
package quicksell

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/debounce"
	"github.com/pixil98/go-quicksell/internal/economy"
	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
	"github.com/pixil98/go-quicksell/internal/pricing"
	"github.com/pixil98/go-quicksell/internal/session"
)

// DefaultRefreshDelay is five 50ms server ticks.
const DefaultRefreshDelay = 250 * time.Millisecond

type Plugin struct {
	book    *pricing.Book
	econ    economy.Economy
	builder *menu.Builder

	messages  Messages
	templates *templates

	sessions  *session.Registry
	refresher *debounce.Debouncer[string]

	refreshDelay time.Duration
	afterFunc    debounce.AfterFunc
}

type PluginOpt func(*Plugin)

// WithBuilder sets the builder used to draw sell views.
func WithBuilder(b *menu.Builder) PluginOpt {
	return func(p *Plugin) {
		p.builder = b
	}
}

// WithRefreshDelay sets how long a burst of edits is coalesced before the
// total is recomputed.
func WithRefreshDelay(d time.Duration) PluginOpt {
	return func(p *Plugin) {
		p.refreshDelay = d
	}
}

// WithAfterFunc sets the timer factory for delayed refreshes.
func WithAfterFunc(f debounce.AfterFunc) PluginOpt {
	return func(p *Plugin) {
		p.afterFunc = f
	}
}

// WithMessages overrides the message templates.
func WithMessages(m Messages) PluginOpt {
	return func(p *Plugin) {
		p.messages = m
	}
}

func New(book *pricing.Book, econ economy.Economy, opts ...PluginOpt) (*Plugin, error) {
	p := &Plugin{
		book:         book,
		econ:         econ,
		builder:      menu.NewBuilder(menu.Labels{}),
		sessions:     session.NewRegistry(),
		refreshDelay: DefaultRefreshDelay,
	}

	for _, opt := range opts {
		opt(p)
	}

	t, err := p.messages.compile()
	if err != nil {
		return nil, fmt.Errorf("compiling messages: %w", err)
	}
	p.templates = t
	p.refresher = debounce.New[string](p.refreshDelay, p.afterFunc)

	return p, nil
}

// Open shows a fresh sell view to player. A view the player already had is
// settled first, so nothing left in it is lost.
func (p *Plugin) Open(ctx context.Context, player host.Player) error {
	v := p.builder.NewView()
	p.builder.Render(v, decimal.Zero)

	if err := player.OpenView(ctx, v); err != nil {
		return fmt.Errorf("opening sell view: %w", err)
	}

	_, replaced := p.sessions.Open(player, v)
	if replaced != nil {
		slog.InfoContext(ctx, "replacing open sell view", "player", player.ID(), "view", replaced.View.ID)
		p.release(ctx, replaced)
	}

	slog.DebugContext(ctx, "sell view opened", "player", player.ID(), "view", v.ID)
	return nil
}

// CloseAll settles and closes every open view. It is used on shutdown.
func (p *Plugin) CloseAll(ctx context.Context) {
	for _, s := range p.sessions.All() {
		p.sessions.Close(s.PlayerID())
		p.release(ctx, s)
		if err := s.Player.CloseView(ctx); err != nil {
			slog.WarnContext(ctx, "closing sell view", "player", s.PlayerID(), "error", err)
		}
	}
}

// scheduleRefresh recomputes the total for s once edits have settled. The
// refresh is tied to s.View, so it does nothing if the player has since
// closed or replaced the view.
func (p *Plugin) scheduleRefresh(ctx context.Context, s *session.Session) {
	ctx = context.WithoutCancel(ctx)
	playerID, viewID := s.PlayerID(), s.View.ID

	p.refresher.Schedule(playerID, func() {
		cur, ok := p.sessions.Owns(playerID, viewID)
		if !ok {
			return
		}
		p.refresh(ctx, cur)
	})
}

// refresh evicts anything that cannot be sold, then redraws the total.
func (p *Plugin) refresh(ctx context.Context, s *session.Session) {
	total := p.appraise(ctx, s)
	p.builder.Render(s.View, pricing.Payout(total))

	if err := s.Player.UpdateView(ctx, s.View); err != nil {
		slog.WarnContext(ctx, "updating sell view", "player", s.PlayerID(), "error", err)
	}
}

// appraise prices the sellable slots of s and gives back everything worth
// nothing. It returns the exact total of what remains.
func (p *Plugin) appraise(ctx context.Context, s *session.Session) decimal.Decimal {
	grid := s.View.Grid()
	a := p.book.Table().Appraise(grid, menu.SellableSlots)

	if len(a.Unsellable) > 0 {
		evicted := make([]*item.Stack, 0, len(a.Unsellable))
		for _, slot := range a.Unsellable {
			evicted = append(evicted, grid.Clear(slot))
		}
		slog.DebugContext(ctx, "returning unsellable items", "player", s.PlayerID(), "count", item.Count(evicted))
		p.giveBack(ctx, s.Player, evicted)
	}

	return a.Total
}

// release hands every item left in the view of s back to its player and
// stops any pending refresh. The caller removes s from the registry.
func (p *Plugin) release(ctx context.Context, s *session.Session) {
	p.refresher.Cancel(s.PlayerID())
	p.giveBack(ctx, s.Player, s.View.Take())
}

// giveBack puts stacks in the player's inventory and drops whatever does not
// fit at their feet.
func (p *Plugin) giveBack(ctx context.Context, player host.Player, stacks []*item.Stack) {
	if len(stacks) == 0 {
		return
	}

	overflow, err := player.Give(ctx, stacks)
	if err != nil {
		slog.WarnContext(ctx, "returning items, dropping them instead", "player", player.ID(), "error", err)
		overflow = stacks
	}
	if len(overflow) == 0 {
		return
	}

	if err := player.Drop(ctx, overflow); err != nil {
		slog.ErrorContext(ctx, "dropping items", "player", player.ID(), "count", item.Count(overflow), "error", err)
	}
}

// message expands t and sends it to sender. Failures are logged only.
func (p *Plugin) message(ctx context.Context, sender host.Sender, t *template.Template, data messageData) {
	msg := p.text(ctx, t, data)
	if err := sender.Message(ctx, msg); err != nil {
		slog.WarnContext(ctx, "sending message", "to", sender.Name(), "error", err)
	}
}

// text expands t, falling back to the raw template source on error.
func (p *Plugin) text(ctx context.Context, t *template.Template, data messageData) string {
	msg, err := expand(t, data)
	if err != nil {
		slog.WarnContext(ctx, "expanding message", "error", err)
		return t.Root.String()
	}
	return msg
}
