package menu

import (
	"github.com/google/uuid"

	"github.com/pixil98/go-quicksell/internal/item"
)

// Sell view layout. Slots below SellableSlots belong to the player, the bottom
// row is rendered by the Builder.
const (
	Size          = 54
	SellableSlots = 45

	InfoSlot    = 45
	TotalSlot   = 46
	FillerStart = 47
	FillerEnd   = 52
	SellSlot    = 53
)

// View is one open sell window. Its ID is the identity hosts use to tell
// events for this window apart from events for any other window.
type View struct {
	ID    string
	Title string

	grid *item.Inventory
}

// NewView creates an empty sell view with a fresh identity.
func NewView(title string) *View {
	return &View{
		ID:    uuid.NewString(),
		Title: title,
		grid:  item.NewInventory(Size),
	}
}

// Grid returns the slot grid backing the view.
func (v *View) Grid() *item.Inventory {
	return v.grid
}

// IsSellable reports whether slot is one of the player-editable slots.
func IsSellable(slot int) bool {
	return slot >= 0 && slot < SellableSlots
}

// IsControl reports whether slot is part of the rendered bottom row.
func IsControl(slot int) bool {
	return slot >= SellableSlots && slot < Size
}

// Sellable returns the occupied sellable slots and their contents.
func (v *View) Sellable() map[int]*item.Stack {
	out := map[int]*item.Stack{}
	for i := 0; i < SellableSlots; i++ {
		if s := v.grid.Get(i); s != nil {
			out[i] = s
		}
	}
	return out
}

// Sync replaces the sellable slots with contents reported by the host. Control
// slots in contents are ignored, they only change through the Builder.
func (v *View) Sync(contents []*item.Stack) {
	for i := 0; i < SellableSlots; i++ {
		var s *item.Stack
		if i < len(contents) {
			s = contents[i].Clone()
		}
		v.grid.Set(i, s)
	}
}

// Take empties every sellable slot and returns what was in them, in slot order.
func (v *View) Take() []*item.Stack {
	var out []*item.Stack
	for i := 0; i < SellableSlots; i++ {
		if s := v.grid.Clear(i); s != nil {
			out = append(out, s)
		}
	}
	return out
}
