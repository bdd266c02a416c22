package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// TransactionEvent is published on every successful create, update or delete.
// Amounts are encoded as decimal strings.
type TransactionEvent struct {
	Action    string          `json:"action"`
	ID        int             `json:"id"`
	Date      string          `json:"date"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewTransactionEvent(action string, t core.Transaction, now time.Time) *TransactionEvent {
	return &TransactionEvent{
		Action:    action,
		ID:        t.ID,
		Date:      t.Date,
		Type:      string(t.Type),
		Category:  t.Category,
		Amount:    t.Amount,
		Timestamp: now,
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlert reports a month whose expenses went over the limit.
type BudgetAlert struct {
	Month     string          `json:"month"`
	Limit     decimal.Decimal `json:"limit"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewBudgetAlert(status core.BudgetStatus, now time.Time) *BudgetAlert {
	return &BudgetAlert{
		Month:     status.Month.String(),
		Limit:     status.Limit,
		Total:     status.Total,
		Timestamp: now,
	}
}

func (m *BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var msg BudgetAlert
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
