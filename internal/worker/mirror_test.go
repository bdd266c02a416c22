package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store/csvfile"
	"fintrack/internal/store/memory"
)

type countingStore struct {
	*memory.Store
	saves int
}

func (c *countingStore) SaveAll(ctx context.Context, txs []core.Transaction) error {
	c.saves++
	return c.Store.SaveAll(ctx, txs)
}

type brokenStore struct{}

func (brokenStore) LoadAll(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("offline")
}
func (brokenStore) SaveAll(context.Context, []core.Transaction) error { return errors.New("offline") }

func sample() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Date: "2024-03-01", Type: core.Income, Category: "salary", Amount: decimal.RequireFromString("2500")},
		{ID: 5, Date: "2024-03-02", Type: core.Expense, Category: "food", Amount: decimal.RequireFromString("9.99"), Description: "kept id"},
	}
}

func TestMirrorCopiesAndSkipsWhenEqual(t *testing.T) {
	src := memory.New(sample()...)
	dst := &countingStore{Store: memory.New(core.Transaction{ID: 1, Date: "2020-01-01", Amount: decimal.Zero})}
	m := NewMirror(src, dst, nil)

	res, err := m.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Copied != 2 || res.Unchanged || dst.saves != 1 {
		t.Fatalf("first run = %+v, saves %d", res, dst.saves)
	}
	got, _ := dst.LoadAll(context.Background())
	if len(got) != 2 || got[1].ID != 5 {
		t.Fatalf("destination = %+v", got)
	}

	res, err = m.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Unchanged || dst.saves != 1 {
		t.Fatalf("second run = %+v, saves %d", res, dst.saves)
	}
}

func TestMirrorToCSV(t *testing.T) {
	dst := csvfile.New(filepath.Join(t.TempDir(), "out.csv"))
	if _, err := NewMirror(memory.New(sample()...), dst, nil).Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, err := dst.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !equal(got, sample()) {
		t.Fatalf("csv copy = %+v", got)
	}
}

func TestMirrorErrors(t *testing.T) {
	if _, err := NewMirror(brokenStore{}, memory.New(), nil).Sync(context.Background()); err == nil {
		t.Fatal("source failure should propagate")
	}
	if _, err := NewMirror(memory.New(sample()...), brokenStore{}, nil).Sync(context.Background()); err == nil {
		t.Fatal("destination failure should propagate")
	}
}
