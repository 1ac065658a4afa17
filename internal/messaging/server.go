package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// RandomPort asks the embedded server to pick a free port.
const RandomPort = server.RANDOM_PORT

// NatsServer runs an embedded broker that the game host, the plugin and the
// ledger all connect to.
type NatsServer struct {
	ns    *server.Server
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
}

type NatsServerOpt func(*NatsServer)

// WithStartTimeout bounds how long Start waits for the server to accept clients.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

// WithHost sets the interface the server listens on.
func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.host = host
	}
}

// WithPort sets the client port. RandomPort picks a free one.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.port = port
	}
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           server.DEFAULT_PORT,
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections")
	}
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once the server accepts connections.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// ClientURL is only meaningful after Ready, since the port may be chosen at
// startup.
func (n *NatsServer) ClientURL() string {
	return n.ns.ClientURL()
}
