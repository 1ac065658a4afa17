package economy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/storage"
)

// appliedWindow is how many recent deposit ids the ledger remembers.
const appliedWindow = 1024

// Ledger is a minimal economy provider keeping balances in a store. It lets
// the plugin run without a separate economy service.
type Ledger struct {
	name     string
	accounts storage.Storer[*Account]

	mu      sync.Mutex
	applied map[string]decimal.Decimal
	order   []string
	next    int
}

func NewLedger(name string, accounts storage.Storer[*Account]) *Ledger {
	return &Ledger{
		name:     name,
		accounts: accounts,
		applied:  map[string]decimal.Decimal{},
		order:    make([]string, appliedWindow),
	}
}

// Balance returns the player's current balance.
func (l *Ledger) Balance(playerID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	if a := l.accounts.Get(playerID); a != nil {
		return a.Balance
	}
	return decimal.Zero
}

// Deposit implements Economy directly against the store.
func (l *Ledger) Deposit(_ context.Context, playerID string, amount decimal.Decimal) error {
	_, err := l.deposit("", playerID, amount)
	return err
}

// deposit credits amount unless id was already applied, in which case the
// balance from that deposit is returned. An empty id is never deduplicated.
func (l *Ledger) deposit(id, playerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if balance, ok := l.applied[id]; ok && id != "" {
		slog.Info("duplicate deposit ignored", "id", id, "player", playerID)
		return balance, nil
	}

	balance := decimal.Zero
	if a := l.accounts.Get(playerID); a != nil {
		balance = a.Balance
	}
	balance = balance.Add(amount)

	if err := l.accounts.Save(playerID, &Account{Balance: balance}); err != nil {
		return decimal.Zero, fmt.Errorf("saving account %s: %w", playerID, err)
	}
	if id != "" {
		l.remember(id, balance)
	}

	return balance, nil
}

func (l *Ledger) remember(id string, balance decimal.Decimal) {
	delete(l.applied, l.order[l.next])
	l.order[l.next] = id
	l.applied[id] = balance
	l.next = (l.next + 1) % len(l.order)
}

// Serve answers discovery and deposit requests on conn until the returned
// function is called.
func (l *Ledger) Serve(conn *nats.Conn) (func(), error) {
	discover, err := conn.Subscribe(SubjectDiscover, func(msg *nats.Msg) {
		data, _ := json.Marshal(Provider{Name: l.name})
		if err := msg.Respond(data); err != nil {
			slog.Warn("responding to economy discovery", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", SubjectDiscover, err)
	}

	deposit, err := conn.QueueSubscribe(SubjectDeposit, "ledger", l.handleDeposit)
	if err != nil {
		_ = discover.Unsubscribe()
		return nil, fmt.Errorf("subscribing to %s: %w", SubjectDeposit, err)
	}

	return func() {
		_ = discover.Unsubscribe()
		_ = deposit.Unsubscribe()
	}, nil
}

func (l *Ledger) handleDeposit(msg *nats.Msg) {
	var req depositRequest
	var reply depositReply

	if err := json.Unmarshal(msg.Data, &req); err != nil {
		reply.Error = fmt.Sprintf("decoding request: %s", err)
	} else if balance, err := l.deposit(req.ID, req.PlayerID, req.Amount); err != nil {
		reply.Error = err.Error()
	} else {
		reply.Balance = balance
		slog.Info("deposit", "player", req.PlayerID, "amount", req.Amount.String(), "balance", balance.String())
	}

	data, _ := json.Marshal(reply)
	if err := msg.Respond(data); err != nil {
		slog.Warn("responding to deposit", "player", req.PlayerID, "error", err)
	}
}
