package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// Event actions, also the suffix of the transaction routing keys.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventPublisher receives transaction changes and budget alerts. Publishing is
// best effort: errors are logged, never returned to the caller.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, action string, t core.Transaction) error
	PublishBudgetAlert(ctx context.Context, status core.BudgetStatus) error
}

// Overview is the home page data: every transaction plus the current month's
// budget status.
type Overview struct {
	Transactions []core.Transaction
	Budget       core.BudgetStatus
}

// TransactionService runs the load, mutate, save cycle over a Store. Every
// call reloads the whole collection; there is no locking between calls.
type TransactionService struct {
	store     store.Store
	budget    decimal.Decimal
	now       func() time.Time
	publisher EventPublisher
	logger    *log.Logger
	events    *log.StructuredLogger
}

type Option func(*TransactionService)

// WithClock sets the time source used to pick the current month.
func WithClock(now func() time.Time) Option {
	return func(s *TransactionService) { s.now = now }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *TransactionService) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *TransactionService) { s.logger = l }
}

func NewTransactionService(st store.Store, monthlyBudget decimal.Decimal, opts ...Option) *TransactionService {
	s := &TransactionService{
		store:  st,
		budget: monthlyBudget,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.FromContext(context.Background())
	}
	s.logger = s.logger.WithComponent(log.ComponentTransaction).With(log.FieldStore, store.Describe(st))
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

// CurrentMonth is the month of the service clock.
func (s *TransactionService) CurrentMonth() core.Month {
	return core.MonthOf(s.now())
}

// Today is the service clock's date as YYYY-MM-DD, the default for new
// transactions.
func (s *TransactionService) Today() string {
	return s.now().Format("2006-01-02")
}

// Store is the backing store, for tools that copy the raw collection.
func (s *TransactionService) Store() store.Store { return s.store }

func (s *TransactionService) load(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) save(ctx context.Context, txs []core.Transaction) error {
	if err := s.store.SaveAll(ctx, txs); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}
	return nil
}

// List returns every transaction in stored order.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.load(ctx)
}

func (s *TransactionService) Overview(ctx context.Context) (Overview, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Transactions: txs,
		Budget:       core.CheckBudget(txs, s.budget, s.CurrentMonth()),
	}, nil
}

// Get returns the transaction with the given id or core.ErrNotFound.
func (s *TransactionService) Get(ctx context.Context, id int) (core.Transaction, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	t, ok := core.FindByID(txs, id)
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

// Create appends a transaction and persists the collection.
func (s *TransactionService) Create(ctx context.Context, f core.Fields) (core.Transaction, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	txs, created := core.Append(txs, f)
	if err := s.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	s.logTransaction(ctx, log.OpCreate, created)
	s.publishEvent(ctx, ActionCreated, created)
	s.checkBudget(ctx, txs)
	return created, nil
}

// Update replaces the fields of transaction id and persists the collection.
func (s *TransactionService) Update(ctx context.Context, id int, f core.Fields) (core.Transaction, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	updated, err := core.Update(txs, id, f)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, err)
	}
	if err := s.save(ctx, txs); err != nil {
		return core.Transaction{}, err
	}

	s.logTransaction(ctx, log.OpUpdate, updated)
	s.publishEvent(ctx, ActionUpdated, updated)
	s.checkBudget(ctx, txs)
	return updated, nil
}

// Delete removes every transaction with the given id, renumbers the rest and
// persists the collection. Deleting a missing id rewrites the store unchanged
// and reports false.
func (s *TransactionService) Delete(ctx context.Context, id int) (bool, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	victim, _ := core.FindByID(txs, id)
	txs, removed := core.Delete(txs, id)
	if err := s.save(ctx, txs); err != nil {
		return false, err
	}

	if removed {
		s.logTransaction(ctx, log.OpDelete, victim)
		s.publishEvent(ctx, ActionDeleted, victim)
	}
	return removed, nil
}

// Summary returns income, expense and savings for the current month.
func (s *TransactionService) Summary(ctx context.Context) (core.Summary, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.MonthlySummary(txs, s.CurrentMonth()), nil
}

// Budget returns the current month's budget status.
func (s *TransactionService) Budget(ctx context.Context) (core.BudgetStatus, error) {
	txs, err := s.load(ctx)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	return core.CheckBudget(txs, s.budget, s.CurrentMonth()), nil
}

func (s *TransactionService) checkBudget(ctx context.Context, txs []core.Transaction) {
	status := core.CheckBudget(txs, s.budget, s.CurrentMonth())
	if !status.Exceeded {
		return
	}
	s.logger.WarnContext(ctx, "Monthly budget exceeded",
		log.FieldMonth, status.Month.String(),
		log.FieldBudgetLimit, status.Limit.String(),
		log.FieldBudgetTotal, status.Total.String())

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBudgetAlert(ctx, status); err != nil {
		s.events.LogError(ctx, "Failed to publish budget alert", err, log.OpPublish, nil)
	}
}

func (s *TransactionService) publishEvent(ctx context.Context, action string, t core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, action, t); err != nil {
		// The store write already succeeded.
		s.events.LogError(ctx, "Failed to publish transaction event", err, log.OpPublish,
			log.NewFields().WithTransaction(t.ID, t.Date, string(t.Type), t.Category, t.Amount.String()))
	}
}

func (s *TransactionService) logTransaction(ctx context.Context, op string, t core.Transaction) {
	s.events.LogTransaction(ctx, op, t.ID, t.Date, string(t.Type), t.Category, t.Amount.String())
}
