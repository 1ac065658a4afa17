// Package natstest runs a throwaway embedded broker for tests.
package natstest

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-quicksell/internal/messaging"
)

// Server starts an embedded broker on a random port and returns its client URL.
// The broker is shut down when the test ends.
func Server(t testing.TB) string {
	t.Helper()

	s, err := messaging.NewNatsServer(messaging.WithPort(messaging.RandomPort))
	if err != nil {
		t.Fatalf("creating nats server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-s.Ready():
	case err := <-done:
		t.Fatalf("nats server exited: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("nats server never became ready")
	}

	return s.ClientURL()
}

// Conn opens a client connection to url that is closed when the test ends.
func Conn(t testing.TB, url string) *nats.Conn {
	t.Helper()

	conn, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting to %s: %v", url, err)
	}
	t.Cleanup(conn.Close)

	return conn
}
