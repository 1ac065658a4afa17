package item

// Inventory is a fixed-size grid of slots. A nil slot is empty.
type Inventory struct {
	slots    []*Stack
	maxStack int
}

// NewInventory creates an empty inventory with size slots.
func NewInventory(size int) *Inventory {
	return &Inventory{
		slots:    make([]*Stack, size),
		maxStack: DefaultMaxStack,
	}
}

// WithMaxStack overrides the per-slot amount limit used by Add.
func (inv *Inventory) WithMaxStack(n int) *Inventory {
	if n > 0 {
		inv.maxStack = n
	}
	return inv
}

// Size returns the number of slots.
func (inv *Inventory) Size() int {
	return len(inv.slots)
}

// Get returns the stack in slot i, or nil if the slot is empty or out of range.
func (inv *Inventory) Get(i int) *Stack {
	if i < 0 || i >= len(inv.slots) {
		return nil
	}
	if inv.slots[i].IsEmpty() {
		return nil
	}
	return inv.slots[i]
}

// Set places s in slot i. Out of range slots are ignored.
func (inv *Inventory) Set(i int, s *Stack) {
	if i < 0 || i >= len(inv.slots) {
		return
	}
	if s.IsEmpty() {
		s = nil
	}
	inv.slots[i] = s
}

// Clear empties slot i and returns what was there.
func (inv *Inventory) Clear(i int) *Stack {
	s := inv.Get(i)
	inv.Set(i, nil)
	return s
}

// Slots returns a copy of every slot, nil for empty ones.
func (inv *Inventory) Slots() []*Stack {
	out := make([]*Stack, len(inv.slots))
	for i := range inv.slots {
		out[i] = inv.Get(i)
	}
	return out
}

// Count returns the total number of items held.
func (inv *Inventory) Count() int {
	return Count(inv.slots)
}

// Add merges stacks into the inventory, topping up similar stacks first and then
// filling empty slots. Anything that does not fit is returned as overflow.
// The passed stacks are not modified.
func (inv *Inventory) Add(stacks ...*Stack) []*Stack {
	var overflow []*Stack
	for _, s := range stacks {
		if s.IsEmpty() {
			continue
		}
		if rest := inv.add(s.Clone()); rest != nil {
			overflow = append(overflow, rest)
		}
	}
	return overflow
}

func (inv *Inventory) add(s *Stack) *Stack {
	for i, cur := range inv.slots {
		if s.Amount == 0 {
			return nil
		}
		if cur.IsEmpty() || !cur.Similar(s) || cur.Amount >= inv.maxStack {
			continue
		}
		n := min(inv.maxStack-cur.Amount, s.Amount)
		inv.slots[i].Amount += n
		s.Amount -= n
	}

	for i, cur := range inv.slots {
		if s.Amount == 0 {
			return nil
		}
		if !cur.IsEmpty() {
			continue
		}
		placed := s.Clone()
		placed.Amount = min(inv.maxStack, s.Amount)
		inv.slots[i] = placed
		s.Amount -= placed.Amount
	}

	if s.Amount == 0 {
		return nil
	}
	return s
}
