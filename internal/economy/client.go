package economy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

const (
	DefaultRequestTimeout  = 2 * time.Second
	DefaultDepositAttempts = 3
)

const discoverRetry = 100 * time.Millisecond

// Client talks to an economy provider over NATS.
type Client struct {
	conn     *nats.Conn
	timeout  time.Duration
	attempts int
}

type ClientOpt func(*Client)

// WithRequestTimeout bounds every request made by the client.
func WithRequestTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDepositAttempts sets how many times a deposit is sent before giving up
// on a provider that does not reply.
func WithDepositAttempts(n int) ClientOpt {
	return func(c *Client) {
		c.attempts = max(n, 1)
	}
}

func NewClient(conn *nats.Conn, opts ...ClientOpt) *Client {
	c := &Client{
		conn:     conn,
		timeout:  DefaultRequestTimeout,
		attempts: DefaultDepositAttempts,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Discover looks for a provider, asking again until one answers or ctx is
// done. Providers may come up after the plugin, so a missing responder is not
// final until then. It returns ErrUnavailable when nobody answered.
func (c *Client) Discover(ctx context.Context) (Provider, error) {
	for {
		msg, err := c.conn.RequestWithContext(ctx, SubjectDiscover, nil)
		if err == nil {
			var p Provider
			if err := json.Unmarshal(msg.Data, &p); err != nil {
				return Provider{}, fmt.Errorf("decoding provider: %w", err)
			}
			return p, nil
		}

		if !errors.Is(err, nats.ErrNoResponders) {
			if ctx.Err() != nil || errors.Is(err, nats.ErrTimeout) {
				return Provider{}, ErrUnavailable
			}
			return Provider{}, fmt.Errorf("discovering economy provider: %w", err)
		}

		select {
		case <-ctx.Done():
			return Provider{}, ErrUnavailable
		case <-time.After(discoverRetry):
		}
	}
}

// Deposit credits amount to the player. A request that times out is sent
// again under the same id, so a provider that applied it but lost the reply
// does not credit the player twice.
func (c *Client) Deposit(ctx context.Context, playerID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	data, err := json.Marshal(depositRequest{ID: uuid.NewString(), PlayerID: playerID, Amount: amount})
	if err != nil {
		return fmt.Errorf("encoding deposit: %w", err)
	}

	var msg *nats.Msg
	for attempt := 1; ; attempt++ {
		msg, err = c.requestDeposit(ctx, data)
		if err == nil {
			break
		}
		if errors.Is(err, nats.ErrNoResponders) {
			return ErrUnavailable
		}
		if ctx.Err() != nil || attempt >= c.attempts || !timedOut(err) {
			return fmt.Errorf("requesting deposit: %w", err)
		}
		slog.WarnContext(ctx, "deposit timed out, retrying", "player", playerID, "attempt", attempt)
	}

	var reply depositReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return fmt.Errorf("decoding deposit reply: %w", err)
	}
	if reply.Error != "" {
		return fmt.Errorf("deposit rejected: %s", reply.Error)
	}

	return nil
}

func (c *Client) requestDeposit(ctx context.Context, data []byte) (*nats.Msg, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.conn.RequestWithContext(ctx, SubjectDeposit, data)
}

func timedOut(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout)
}
