package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// Transaction is a single income or expense record.
	Transaction struct {
		ID          int
		Date        string // YYYY-MM-DD, used as a month prefix
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Description string
	}

	// Fields holds every user-editable value of a Transaction (all but ID).
	Fields struct {
		Date        string
		Type        TransactionType
		Category    string
		Amount      decimal.Decimal
		Description string
	}
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("invalid amount")
)

// ValidationError reports a rejected user-supplied value.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ParseError reports a malformed stored row. Row is 1-based and does not
// count the header.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("parse row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("parse row %d column %s (%q): %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Fields returns the editable part of t.
func (t Transaction) Fields() Fields {
	return Fields{
		Date:        t.Date,
		Type:        t.Type,
		Category:    t.Category,
		Amount:      t.Amount,
		Description: t.Description,
	}
}

func (t *Transaction) apply(f Fields) {
	t.Date = f.Date
	t.Type = f.Type
	t.Category = f.Category
	t.Amount = f.Amount
	t.Description = f.Description
}

// ParseFields builds Fields from raw boundary input. Only the amount is
// validated; date and type are stored as given after CleanText.
func ParseFields(date, typ, category, amount, description string) (Fields, error) {
	amt, err := ParseAmount(amount)
	if err != nil {
		return Fields{}, &ValidationError{Field: "amount", Value: amount, Err: err}
	}
	return Fields{
		Date:        CleanText(date),
		Type:        TransactionType(CleanText(typ)),
		Category:    CleanText(category),
		Amount:      amt,
		Description: CleanText(description),
	}, nil
}

// CleanText trims s and turns CRLF line breaks into LF, so stored text never
// holds a CRLF pair.
func CleanText(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}
