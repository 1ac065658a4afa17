package host

import (
	"context"
	"slices"
	"sync"

	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
)

// PlayerInventorySize is the number of storage slots in a player's own inventory.
const PlayerInventorySize = 36

// MemPlayer is a Player kept entirely in memory.
type MemPlayer struct {
	mu sync.Mutex

	id    string
	name  string
	perms map[string]bool

	inv      *item.Inventory
	held     *item.Stack
	dropped  []*item.Stack
	messages []string

	view    *menu.View
	updates int
}

func NewMemPlayer(id, name string) *MemPlayer {
	return &MemPlayer{
		id:    id,
		name:  name,
		perms: map[string]bool{},
		inv:   item.NewInventory(PlayerInventorySize),
	}
}

func (p *MemPlayer) ID() string   { return p.id }
func (p *MemPlayer) Name() string { return p.name }

// Grant gives the player a permission.
func (p *MemPlayer) Grant(perm string) *MemPlayer {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.perms[perm] = true
	return p
}

func (p *MemPlayer) HasPermission(perm string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.perms[perm]
}

func (p *MemPlayer) Message(_ context.Context, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, msg)
	return nil
}

func (p *MemPlayer) Give(_ context.Context, stacks []*item.Stack) ([]*item.Stack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.inv.Add(stacks...), nil
}

func (p *MemPlayer) Drop(_ context.Context, stacks []*item.Stack) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range stacks {
		p.dropped = append(p.dropped, s.Clone())
	}
	return nil
}

// Hold puts s in the player's main hand.
func (p *MemPlayer) Hold(s *item.Stack) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.held = s
}

func (p *MemPlayer) HeldItem(_ context.Context) (*item.Stack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.held.IsEmpty() {
		return nil, nil
	}
	return p.held.Clone(), nil
}

func (p *MemPlayer) OpenView(_ context.Context, v *menu.View) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view = v
	p.updates = 0
	return nil
}

func (p *MemPlayer) UpdateView(_ context.Context, v *menu.View) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.view == v {
		p.updates++
	}
	return nil
}

func (p *MemPlayer) CloseView(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.view = nil
	return nil
}

// Inventory returns the player's own inventory.
func (p *MemPlayer) Inventory() *item.Inventory {
	return p.inv
}

// View returns the window the player has open, or nil.
func (p *MemPlayer) View() *menu.View {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.view
}

// Updates returns how many times the open view was pushed to the player.
func (p *MemPlayer) Updates() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.updates
}

// Dropped returns everything dropped at the player's feet.
func (p *MemPlayer) Dropped() []*item.Stack {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.dropped)
}

// Messages returns every message sent to the player.
func (p *MemPlayer) Messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.messages)
}
