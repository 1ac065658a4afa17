package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Connect dials url, retrying until the broker is up or ctx is done. The
// embedded server and its clients start concurrently, so the first attempts
// may be refused.
func Connect(ctx context.Context, url string, name string) (*nats.Conn, error) {
	backoff := 50 * time.Millisecond

	for {
		conn, err := nats.Connect(url,
			nats.Name(name),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					slog.Warn("nats disconnected", "client", name, "error", err)
				}
			}),
			nats.ReconnectHandler(func(c *nats.Conn) {
				slog.Info("nats reconnected", "client", name, "url", c.ConnectedUrl())
			}),
		)
		if err == nil {
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connecting to %s: %w", url, err)
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff *= 2
		}
	}
}
