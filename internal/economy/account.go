package economy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account is a player's balance held by the built-in ledger.
type Account struct {
	Balance decimal.Decimal `json:"balance"`
}

// Validate satisfies storage.ValidatingSpec
func (a *Account) Validate() error {
	if a == nil {
		return fmt.Errorf("account spec is required")
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("balance must not be negative")
	}
	return nil
}
