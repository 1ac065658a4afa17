package quicksell

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/debounce"
	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
	"github.com/pixil98/go-quicksell/internal/pricing"
)

// manualClock fires timers only when the test advances it.
type manualClock struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at     time.Duration
	fn     func()
	active bool
}

func (t *manualTimer) Stop() bool {
	was := t.active
	t.active = false
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	t := &manualTimer{at: c.now + d, fn: f, active: true}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.now += d
	for _, t := range c.timers {
		if t.active && t.at <= c.now {
			t.active = false
			t.fn()
		}
	}
}

type deposit struct {
	player string
	amount string
}

type fakeEconomy struct {
	mu       sync.Mutex
	err      error
	deposits []deposit
}

func (e *fakeEconomy) Deposit(_ context.Context, playerID string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.err != nil {
		return e.err
	}
	e.deposits = append(e.deposits, deposit{player: playerID, amount: amount.StringFixed(2)})
	return nil
}

var errLedgerDown = errors.New("ledger down")

type harness struct {
	plugin *Plugin
	book   *pricing.Book
	econ   *fakeEconomy
	clock  *manualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	book, err := pricing.OpenBook(filepath.Join(t.TempDir(), "prices.yml"))
	if err != nil {
		t.Fatalf("opening book: %v", err)
	}

	h := &harness{
		book:  book,
		econ:  &fakeEconomy{},
		clock: &manualClock{},
	}

	h.plugin, err = New(book, h.econ, WithAfterFunc(h.clock.AfterFunc))
	if err != nil {
		t.Fatalf("creating plugin: %v", err)
	}
	return h
}

func (h *harness) open(t *testing.T, p *host.MemPlayer) *menu.View {
	t.Helper()

	if err := h.plugin.Open(context.Background(), p); err != nil {
		t.Fatalf("opening: %v", err)
	}
	return p.View()
}

// settle lets any pending refresh run.
func (h *harness) settle() {
	h.clock.Advance(DefaultRefreshDelay)
}

// place builds view contents with the given stacks in the given slots.
func place(slots map[int]*item.Stack) []*item.Stack {
	out := make([]*item.Stack, menu.SellableSlots)
	for i, s := range slots {
		out[i] = s
	}
	return out
}

// putIn simulates the player dropping stacks into the sell view.
func (h *harness) putIn(p *host.MemPlayer, v *menu.View, slots map[int]*item.Stack) bool {
	slot := 0
	for i := range slots {
		slot = i
	}
	return h.plugin.HandleClick(context.Background(), ClickEvent{
		Player:   p,
		ViewID:   v.ID,
		Where:    InView,
		Slot:     slot,
		Contents: place(slots),
	})
}

func totalLabel(v *menu.View) string {
	lore := v.Grid().Get(menu.TotalSlot).Lore
	return strings.TrimPrefix(lore[len(lore)-1], "§e")
}

func countType(stacks []*item.Stack, typ string) int {
	n := 0
	for _, s := range stacks {
		if s != nil && s.Type == typ {
			n += s.Amount
		}
	}
	return n
}
