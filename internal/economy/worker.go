package economy

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-quicksell/internal/messaging"
)

// LedgerWorker serves a Ledger on the broker at url for the life of the service.
type LedgerWorker struct {
	ledger *Ledger
	url    string
}

func NewLedgerWorker(l *Ledger, url string) *LedgerWorker {
	return &LedgerWorker{ledger: l, url: url}
}

func (w *LedgerWorker) Start(ctx context.Context) error {
	conn, err := messaging.Connect(ctx, w.url, "ledger")
	if err != nil {
		return err
	}
	defer conn.Close()

	stop, err := w.ledger.Serve(conn)
	if err != nil {
		return err
	}
	defer stop()

	slog.InfoContext(ctx, "ledger serving economy requests", "provider", w.ledger.name)
	<-ctx.Done()

	return nil
}
