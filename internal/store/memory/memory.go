package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Store keeps the collection in process memory. The mutex only keeps a single
// LoadAll or SaveAll from tearing; it adds no isolation between callers.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ store.Store = (*Store)(nil)

func New(seed ...core.Transaction) *Store {
	return &Store{items: clone(seed)}
}

// Name implements store.Named.
func (s *Store) Name() string { return "memory" }

// LoadAll returns a copy of the stored collection.
func (s *Store) LoadAll(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items), nil
}

// SaveAll replaces the stored collection with a copy of txs.
func (s *Store) SaveAll(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clone(txs)
	return nil
}

func clone(in []core.Transaction) []core.Transaction {
	if len(in) == 0 {
		return nil
	}
	return append([]core.Transaction(nil), in...)
}
