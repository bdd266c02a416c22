// Package worker copies the transaction collection between stores, for
// moving off one backend or keeping a Sheets copy of a local file.
package worker

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// Result describes one mirror run.
type Result struct {
	Source      string
	Destination string
	Copied      int
	Unchanged   bool
}

// Mirror replaces the destination collection with the source collection.
type Mirror struct {
	src    store.Store
	dst    store.Store
	logger *log.Logger
}

func NewMirror(src, dst store.Store, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Mirror{
		src:    src,
		dst:    dst,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Sync loads both sides and writes the destination only when it differs.
// Ids and order are copied as stored; nothing is renumbered.
func (m *Mirror) Sync(ctx context.Context) (Result, error) {
	res := Result{Source: store.Describe(m.src), Destination: store.Describe(m.dst)}

	txs, err := m.src.LoadAll(ctx)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", res.Source, err)
	}
	existing, err := m.dst.LoadAll(ctx)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", res.Destination, err)
	}

	res.Copied = len(txs)
	if equal(txs, existing) {
		res.Unchanged = true
		m.logger.InfoContext(ctx, "Mirror already up to date",
			"source", res.Source, "destination", res.Destination, log.FieldCount, res.Copied)
		return res, nil
	}

	if err := m.dst.SaveAll(ctx, txs); err != nil {
		return res, fmt.Errorf("save %s: %w", res.Destination, err)
	}
	m.logger.InfoContext(ctx, "Mirrored transactions",
		"source", res.Source, "destination", res.Destination,
		log.FieldCount, res.Copied, "replaced", len(existing))
	return res, nil
}

func equal(a, b []core.Transaction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Date != y.Date || x.Type != y.Type || x.Category != y.Category ||
			!x.Amount.Equal(y.Amount) || x.Description != y.Description {
			return false
		}
	}
	return true
}
