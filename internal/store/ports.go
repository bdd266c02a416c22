package store

import (
	"context"

	"fintrack/internal/core"
)

// Ports for storage adapters.
type (
	// Store persists the whole transaction collection as one ordered table.
	Store interface {
		// LoadAll returns every transaction in stored order. A store that does
		// not exist yet yields an empty collection, not an error.
		LoadAll(ctx context.Context) ([]core.Transaction, error)

		// SaveAll replaces the stored collection with txs, in order.
		SaveAll(ctx context.Context, txs []core.Transaction) error
	}

	// Named is implemented by stores that can describe their location for logs.
	Named interface {
		Name() string
	}
)

// Describe returns a short label for s.
func Describe(s Store) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return "store"
}
