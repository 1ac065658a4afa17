package pricing

import (
	"fmt"
	"maps"
	"math"

	"github.com/pixil98/go-errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/go-quicksell/internal/item"
)

// Namespace selects which half of the price table a key lives in.
type Namespace string

const (
	NamespaceNamed Namespace = "named"
	NamespaceType  Namespace = "type"
)

// Key identifies a single price entry.
type Key struct {
	Namespace Namespace
	Name      string
}

// String renders the key as its configuration path, e.g. "prices.type.diamond".
func (k Key) String() string {
	return fmt.Sprintf("prices.%s.%s", k.Namespace, k.Name)
}

// KeyFor returns the price key an item is looked up under. Items with a custom
// display name are priced by that name, everything else by its material.
func KeyFor(s *item.Stack) Key {
	if s.HasDisplayName() {
		return Key{Namespace: NamespaceNamed, Name: s.DisplayName}
	}
	return Key{Namespace: NamespaceType, Name: TypeKey(s.Type)}
}

// TypeKey normalises a material identifier for lookup.
func TypeKey(typ string) string {
	return cases.Lower(language.Und).String(typ)
}

// Table is the persisted price document.
type Table struct {
	Prices Prices `json:"prices" yaml:"prices"`
}

// Prices holds unit prices for named items and for material types.
type Prices struct {
	Named map[string]float64 `json:"named" yaml:"named"`
	Type  map[string]float64 `json:"type" yaml:"type"`
}

// Validate satisfies storage.ValidatingSpec
func (t *Table) Validate() error {
	if t == nil {
		return nil
	}

	el := errors.NewErrorList()
	for name, p := range t.Prices.Named {
		el.Add(validatePrice(Key{Namespace: NamespaceNamed, Name: name}, p))
	}
	for name, p := range t.Prices.Type {
		el.Add(validatePrice(Key{Namespace: NamespaceType, Name: name}, p))
	}
	return el.Err()
}

func validatePrice(k Key, p float64) error {
	if err := ValidatePrice(p); err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	return nil
}

// ValidatePrice rejects values that cannot be used as a unit price.
func ValidatePrice(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("price must be a finite number")
	}
	if p < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// Lookup returns the configured price for key and whether it exists.
func (t *Table) Lookup(k Key) (float64, bool) {
	if t == nil {
		return 0, false
	}
	var p float64
	var ok bool
	switch k.Namespace {
	case NamespaceNamed:
		p, ok = t.Prices.Named[k.Name]
	case NamespaceType:
		p, ok = t.Prices.Type[k.Name]
	}
	return p, ok
}

// UnitPrice returns the price of a single item of s. Unpriced items are worth zero.
func (t *Table) UnitPrice(s *item.Stack) decimal.Decimal {
	if s.IsEmpty() {
		return decimal.Zero
	}
	p, _ := t.Lookup(KeyFor(s))
	return decimal.NewFromFloat(p)
}

// Value returns the unit price multiplied by the stack size.
func (t *Table) Value(s *item.Stack) decimal.Decimal {
	if s.IsEmpty() {
		return decimal.Zero
	}
	return t.UnitPrice(s).Mul(decimal.NewFromInt(int64(s.Amount)))
}

// With returns a copy of the table with the price for k set to p.
func (t *Table) With(k Key, p float64) *Table {
	c := &Table{}
	if t != nil {
		c.Prices.Named = maps.Clone(t.Prices.Named)
		c.Prices.Type = maps.Clone(t.Prices.Type)
	}
	if c.Prices.Named == nil {
		c.Prices.Named = map[string]float64{}
	}
	if c.Prices.Type == nil {
		c.Prices.Type = map[string]float64{}
	}

	switch k.Namespace {
	case NamespaceNamed:
		c.Prices.Named[k.Name] = p
	case NamespaceType:
		c.Prices.Type[k.Name] = p
	}
	return c
}
