// Package economy credits players through an external economy provider.
package economy

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Subjects the provider answers on.
const (
	SubjectDiscover = "economy.discover"
	SubjectDeposit  = "economy.deposit"
)

var (
	// ErrUnavailable is returned when no economy provider answers discovery.
	ErrUnavailable = errors.New("economy provider unavailable")

	ErrInvalidAmount = errors.New("amount must be positive")
)

// Economy credits money to a player's balance.
type Economy interface {
	Deposit(ctx context.Context, playerID string, amount decimal.Decimal) error
}

// Provider describes the economy implementation found by discovery.
type Provider struct {
	Name string `json:"name"`
}

// depositRequest carries an id that stays the same across retries of one
// deposit, so a provider can skip credits it already applied.
type depositRequest struct {
	ID       string          `json:"id,omitempty"`
	PlayerID string          `json:"player_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type depositReply struct {
	Balance decimal.Decimal `json:"balance"`
	Error   string          `json:"error,omitempty"`
}
