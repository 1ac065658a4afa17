package quicksell

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
)

// Where tells which half of an open window a click landed in.
type Where string

const (
	// InView is the sell view on top.
	InView Where = "view"
	// InPlayer is the player's own inventory below it.
	InPlayer Where = "player"
)

// ClickEvent is a click while the player has a window open. Contents holds the
// sell view as it looks after the click, nil when the host did not send it.
type ClickEvent struct {
	Player   host.Player
	ViewID   string
	Where    Where
	Slot     int
	Contents []*item.Stack
}

// DragEvent is an item drag across one or more slots. Slots are raw window
// slots, so anything from menu.Size up is in the player's inventory.
type DragEvent struct {
	Player   host.Player
	ViewID   string
	Slots    []int
	Contents []*item.Stack
}

// CloseEvent is sent when the player closes a window.
type CloseEvent struct {
	Player   host.Player
	ViewID   string
	Contents []*item.Stack
}

// HandleClick reacts to a click and reports whether the host must cancel it.
// Clicks on windows other than the player's sell view are left alone.
func (p *Plugin) HandleClick(ctx context.Context, ev ClickEvent) bool {
	s, ok := p.sessions.Owns(ev.Player.ID(), ev.ViewID)
	if !ok {
		return false
	}
	if ev.Contents != nil {
		s.View.Sync(ev.Contents)
	}

	switch {
	case ev.Where == InView && ev.Slot == menu.SellSlot:
		if err := p.SellAll(ctx, s); err != nil {
			slog.ErrorContext(ctx, "selling items", "player", s.PlayerID(), "error", err)
		}
		return true
	case ev.Where == InView && menu.IsControl(ev.Slot):
		return true
	case ev.Where == InView && menu.IsSellable(ev.Slot):
		p.scheduleRefresh(ctx, s)
	case ev.Where == InPlayer:
		p.scheduleRefresh(ctx, s)
	}

	return false
}

// HandleDrag reacts to a drag and reports whether the host must cancel it.
// Drags that touch the control row are refused.
func (p *Plugin) HandleDrag(ctx context.Context, ev DragEvent) bool {
	s, ok := p.sessions.Owns(ev.Player.ID(), ev.ViewID)
	if !ok {
		return false
	}

	for _, slot := range ev.Slots {
		if menu.IsControl(slot) {
			return true
		}
	}

	if ev.Contents != nil {
		s.View.Sync(ev.Contents)
	}
	p.scheduleRefresh(ctx, s)

	return false
}

// HandleClose returns everything still in the sell view to the player and
// forgets the session.
func (p *Plugin) HandleClose(ctx context.Context, ev CloseEvent) {
	s, ok := p.sessions.Owns(ev.Player.ID(), ev.ViewID)
	if !ok {
		return
	}
	if ev.Contents != nil {
		s.View.Sync(ev.Contents)
	}

	p.sessions.Close(s.PlayerID())
	p.release(ctx, s)

	slog.DebugContext(ctx, "sell view closed", "player", s.PlayerID(), "view", s.View.ID)
}
