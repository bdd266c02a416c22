package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store/memory"
)

type fakePublisher struct {
	events []string
	alerts []core.BudgetStatus
	err    error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, action string, t core.Transaction) error {
	f.events = append(f.events, action)
	return f.err
}

func (f *fakePublisher) PublishBudgetAlert(_ context.Context, status core.BudgetStatus) error {
	f.alerts = append(f.alerts, status)
	return f.err
}

type failingStore struct{ err error }

func (f failingStore) LoadAll(context.Context) ([]core.Transaction, error) { return nil, f.err }
func (f failingStore) SaveAll(context.Context, []core.Transaction) error   { return f.err }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixedClock(year int, month time.Month) func() time.Time {
	return func() time.Time { return time.Date(year, month, 15, 10, 0, 0, 0, time.UTC) }
}

func newService(t *testing.T, budget string, clock func() time.Time, seed ...core.Transaction) (*TransactionService, *memory.Store, *fakePublisher) {
	t.Helper()
	st := memory.New(seed...)
	pub := &fakePublisher{}
	logger := log.New(log.Config{Output: &bytes.Buffer{}})
	svc := NewTransactionService(st, dec(budget), WithClock(clock), WithPublisher(pub), WithLogger(logger))
	return svc, st, pub
}

func mustFields(t *testing.T, date, typ, category, amount, desc string) core.Fields {
	t.Helper()
	f, err := core.ParseFields(date, typ, category, amount, desc)
	if err != nil {
		t.Fatalf("ParseFields: %v", err)
	}
	return f
}

func TestCreateOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newService(t, "5000", fixedClock(2024, time.March))

	created, err := svc.Create(ctx, mustFields(t, "2024-03-01", "expense", "food", "20", "lunch"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("id = %d, want 1", created.ID)
	}

	txs, _ := st.LoadAll(ctx)
	if len(txs) != 1 || txs[0].Description != "lunch" {
		t.Fatalf("unexpected store %+v", txs)
	}

	status, err := svc.Budget(ctx)
	if err != nil {
		t.Fatalf("budget: %v", err)
	}
	if status.Exceeded || !status.Total.Equal(dec("20")) || status.Month != "2024-03" {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(pub.events) != 1 || pub.events[0] != ActionCreated || len(pub.alerts) != 0 {
		t.Fatalf("unexpected publications events=%v alerts=%v", pub.events, pub.alerts)
	}
}

func TestCreateUsesLastID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, "5000", fixedClock(2024, time.May),
		core.Transaction{ID: 9, Type: core.Income, Amount: dec("1")},
		core.Transaction{ID: 4, Type: core.Income, Amount: dec("1")},
	)
	created, err := svc.Create(ctx, mustFields(t, "2024-05-01", "income", "x", "1", ""))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 5 {
		t.Fatalf("id = %d, want 5 (last element + 1)", created.ID)
	}
}

func TestBudgetAlertPublishedWhenExceeded(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newService(t, "5000", fixedClock(2024, time.May),
		core.Transaction{ID: 1, Date: "2024-05-03", Type: core.Expense, Amount: dec("3000")},
	)

	if _, err := svc.Create(ctx, mustFields(t, "2024-05-10", "expense", "rent", "2500", "")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(pub.alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(pub.alerts))
	}
	if !pub.alerts[0].Total.Equal(dec("5500")) || !pub.alerts[0].Exceeded {
		t.Fatalf("unexpected alert %+v", pub.alerts[0])
	}

	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !ov.Budget.Exceeded || len(ov.Transactions) != 2 {
		t.Fatalf("unexpected overview %+v", ov)
	}
}

func TestNoAlertAtExactBudget(t *testing.T) {
	ctx := context.Background()
	svc, _, pub := newService(t, "100", fixedClock(2024, time.May))
	if _, err := svc.Create(ctx, mustFields(t, "2024-05-10", "expense", "x", "100", "")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.alerts) != 0 {
		t.Fatalf("total equal to budget must not alert, got %v", pub.alerts)
	}
	if _, err := svc.Create(ctx, mustFields(t, "2024-05-11", "expense", "x", "0.01", "")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.alerts) != 1 {
		t.Fatalf("expected alert once over budget, got %v", pub.alerts)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newService(t, "5000", fixedClock(2024, time.May),
		core.Transaction{ID: 1, Date: "2024-05-01", Type: core.Expense, Category: "a", Amount: dec("1")},
		core.Transaction{ID: 2, Date: "2024-05-02", Type: core.Expense, Category: "b", Amount: dec("2")},
	)

	updated, err := svc.Update(ctx, 1, mustFields(t, "2024-05-03", "income", "salary", "10", "pay"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != 1 || updated.Category != "salary" {
		t.Fatalf("unexpected %+v", updated)
	}
	txs, _ := st.LoadAll(ctx)
	if txs[0].Category != "salary" || txs[1].Category != "b" {
		t.Fatalf("position not preserved: %+v", txs)
	}
	if len(pub.events) != 1 || pub.events[0] != ActionUpdated {
		t.Fatalf("events=%v", pub.events)
	}

	if _, err := svc.Update(ctx, 42, mustFields(t, "", "", "", "1", "")); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRenumbers(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newService(t, "5000", fixedClock(2024, time.May),
		core.Transaction{ID: 1, Category: "one"},
		core.Transaction{ID: 2, Category: "two"},
		core.Transaction{ID: 3, Category: "three"},
	)

	removed, err := svc.Delete(ctx, 1)
	if err != nil || !removed {
		t.Fatalf("delete: removed=%v err=%v", removed, err)
	}
	txs, _ := st.LoadAll(ctx)
	if len(txs) != 2 || txs[0].ID != 1 || txs[0].Category != "two" || txs[1].ID != 2 || txs[1].Category != "three" {
		t.Fatalf("unexpected renumbering %+v", txs)
	}
	if len(pub.events) != 1 || pub.events[0] != ActionDeleted {
		t.Fatalf("events=%v", pub.events)
	}

	removed, err = svc.Delete(ctx, 99)
	if err != nil || removed {
		t.Fatalf("missing id: removed=%v err=%v", removed, err)
	}
	if len(pub.events) != 1 {
		t.Fatal("no event expected for a missing id")
	}
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, "5000", fixedClock(2024, time.May), core.Transaction{ID: 1, Category: "x"})

	if got, err := svc.Get(ctx, 1); err != nil || got.Category != "x" {
		t.Fatalf("get: %+v err=%v", got, err)
	}
	if _, err := svc.Get(ctx, 2); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummaryUsesClockMonth(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t, "5000", fixedClock(2024, time.May),
		core.Transaction{ID: 1, Date: "2024-05-01", Type: core.Income, Amount: dec("3000")},
		core.Transaction{ID: 2, Date: "2024-05-02", Type: core.Expense, Amount: dec("1200.50")},
		core.Transaction{ID: 3, Date: "2024-05-03", Type: "transfer", Amount: dec("999")},
		core.Transaction{ID: 4, Date: "2024-04-30", Type: core.Expense, Amount: dec("50")},
	)

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Month != "2024-05" || !sum.Income.Equal(dec("3000")) || !sum.Expense.Equal(dec("1200.50")) || !sum.Savings.Equal(dec("1799.50")) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	svc, st, pub := newService(t, "1", fixedClock(2024, time.May))
	pub.err = errors.New("broker down")

	if _, err := svc.Create(ctx, mustFields(t, "2024-05-01", "expense", "x", "5", "")); err != nil {
		t.Fatalf("create must succeed despite publish failure: %v", err)
	}
	txs, _ := st.LoadAll(ctx)
	if len(txs) != 1 {
		t.Fatalf("store not written: %+v", txs)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	svc := NewTransactionService(failingStore{err: boom}, dec("10"),
		WithLogger(log.New(log.Config{Output: &bytes.Buffer{}})))

	if _, err := svc.Overview(ctx); !errors.Is(err, boom) {
		t.Fatalf("overview: %v", err)
	}
	if _, err := svc.Create(ctx, core.Fields{}); !errors.Is(err, boom) {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Delete(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("delete: %v", err)
	}
}
