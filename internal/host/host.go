// Package host describes what the plugin needs from the game server it runs on.
package host

import (
	"context"

	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
)

// Permissions checked by the admin commands.
const (
	PermissionAdd    = "quicksell.add"
	PermissionReload = "quicksell.reload"
)

// Sender is anything that can issue a command: a player or the server console.
type Sender interface {
	Name() string
	Message(ctx context.Context, msg string) error
	HasPermission(perm string) bool
}

// Player is an online player as seen through the host.
type Player interface {
	Sender

	// ID is the stable identity the player is tracked by
	ID() string

	// Give adds stacks to the player's own inventory and returns what did not fit.
	Give(ctx context.Context, stacks []*item.Stack) ([]*item.Stack, error)

	// Drop spawns stacks in the world at the player's location.
	Drop(ctx context.Context, stacks []*item.Stack) error

	// HeldItem returns the stack in the player's main hand, nil for an empty hand.
	HeldItem(ctx context.Context) (*item.Stack, error)

	// OpenView shows v to the player, replacing whatever window they had open.
	OpenView(ctx context.Context, v *menu.View) error

	// UpdateView pushes the current contents of v to the player.
	UpdateView(ctx context.Context, v *menu.View) error

	// CloseView closes the player's open window.
	CloseView(ctx context.Context) error
}
