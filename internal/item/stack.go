package item

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMaxStack is the largest amount a single slot holds unless overridden.
const DefaultMaxStack = 64

// TypeAir is the material identifier hosts use for an empty hand or slot.
const TypeAir = "AIR"

// Stack is an amount of one kind of item occupying a single slot.
type Stack struct {
	// Type is the host material identifier (e.g., "DIAMOND", "oak_log")
	Type string `json:"type"`

	// DisplayName is the custom name given to the item, if any
	DisplayName string `json:"display_name,omitempty"`

	// Lore lines shown beneath the name
	Lore []string `json:"lore,omitempty"`

	// Amount is the number of items in the stack
	Amount int `json:"amount"`
}

// New creates a stack of amount items of the given type.
func New(typ string, amount int) *Stack {
	return &Stack{Type: typ, Amount: amount}
}

// Named creates a stack carrying a custom display name.
func Named(typ, name string, amount int) *Stack {
	return &Stack{Type: typ, DisplayName: name, Amount: amount}
}

// IsEmpty reports whether the stack represents nothing at all.
func (s *Stack) IsEmpty() bool {
	return s == nil || s.Amount <= 0 || s.Type == "" || strings.EqualFold(s.Type, TypeAir)
}

// HasDisplayName reports whether the stack was given a custom name.
func (s *Stack) HasDisplayName() bool {
	return s != nil && s.DisplayName != ""
}

// Similar reports whether two stacks can be merged into one slot.
func (s *Stack) Similar(o *Stack) bool {
	if s == nil || o == nil {
		return false
	}
	return strings.EqualFold(s.Type, o.Type) &&
		s.DisplayName == o.DisplayName &&
		slices.Equal(s.Lore, o.Lore)
}

// Clone returns a deep copy of the stack.
func (s *Stack) Clone() *Stack {
	if s == nil {
		return nil
	}
	c := *s
	c.Lore = slices.Clone(s.Lore)
	return &c
}

func (s *Stack) String() string {
	if s.IsEmpty() {
		return "nothing"
	}
	if s.HasDisplayName() {
		return fmt.Sprintf("%dx %s (%s)", s.Amount, s.DisplayName, s.Type)
	}
	return fmt.Sprintf("%dx %s", s.Amount, s.Type)
}

// Count returns the total number of items across stacks, ignoring empty ones.
func Count(stacks []*Stack) int {
	n := 0
	for _, s := range stacks {
		if !s.IsEmpty() {
			n += s.Amount
		}
	}
	return n
}
