package pricing

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/storage"
)

//go:embed defaults.yaml
var defaultTable []byte

// Book is the persisted price table. It is loaded at startup, written through
// on every change and can be reloaded from disk.
type Book struct {
	doc *storage.Document[*Table]
}

// OpenBook loads the price document at path, creating it from the bundled
// defaults when it does not exist.
func OpenBook(path string) (*Book, error) {
	doc, err := storage.NewDocument(path, storage.WithDefaults[*Table](defaultTable))
	if err != nil {
		return nil, fmt.Errorf("opening price table: %w", err)
	}
	return &Book{doc: doc}, nil
}

// Table returns the current price table. It is never nil.
func (b *Book) Table() *Table {
	if t := b.doc.Get(); t != nil {
		return t
	}
	return &Table{}
}

// SetPrice prices s at p per item and persists the table immediately.
func (b *Book) SetPrice(s *item.Stack, p float64) (Key, error) {
	k := KeyFor(s)
	if err := ValidatePrice(p); err != nil {
		return k, err
	}

	if err := b.doc.Save(b.Table().With(k, p)); err != nil {
		return k, fmt.Errorf("saving price table: %w", err)
	}

	slog.Info("price updated", "key", k.String(), "price", p)
	return k, nil
}

// Reload replaces the in-memory table with the persisted one.
func (b *Book) Reload() error {
	if err := b.doc.Reload(); err != nil {
		return fmt.Errorf("reloading price table: %w", err)
	}
	slog.Info("price table reloaded", "path", b.doc.Path())
	return nil
}
