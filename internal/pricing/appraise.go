package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/item"
)

// Appraisal is the result of pricing a range of slots.
type Appraisal struct {
	// Total is the exact sum of all slot values
	Total decimal.Decimal

	// Values holds the computed value per occupied slot
	Values map[int]decimal.Decimal

	// Unsellable lists occupied slots whose value is exactly zero, in slot order
	Unsellable []int
}

// Appraise prices the first n slots of inv. It does not modify the inventory.
func (t *Table) Appraise(inv *item.Inventory, n int) Appraisal {
	a := Appraisal{
		Total:  decimal.Zero,
		Values: map[int]decimal.Decimal{},
	}

	for i := 0; i < n && i < inv.Size(); i++ {
		s := inv.Get(i)
		if s == nil {
			continue
		}

		v := t.Value(s)
		a.Values[i] = v
		if v.IsZero() {
			a.Unsellable = append(a.Unsellable, i)
			continue
		}
		a.Total = a.Total.Add(v)
	}

	return a
}

// Payout rounds an exact total to the currency precision used for display and deposit.
func Payout(total decimal.Decimal) decimal.Decimal {
	return total.Round(2)
}
