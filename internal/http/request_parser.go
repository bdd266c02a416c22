// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// path ids, method checks, and the transaction form.

package http

import (
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// Form field names shared by the add and edit pages.
const (
	formDate        = "date"
	formType        = "type"
	formCategory    = "category"
	formAmount      = "amount"
	formDescription = "description"
)

// TransactionForm is the raw, sanitized form input. It is kept as strings so
// a rejected submission can be shown back to the user unchanged.
type TransactionForm struct {
	Date        string
	Type        string
	Category    string
	Amount      string
	Description string
}

// ParseTransactionForm reads the transaction fields from a parsed form.
func ParseTransactionForm(r *http.Request) (TransactionForm, error) {
	if err := r.ParseForm(); err != nil {
		return TransactionForm{}, err
	}
	return TransactionForm{
		Date:        sanitizeInput(r.PostForm.Get(formDate)),
		Type:        sanitizeInput(r.PostForm.Get(formType)),
		Category:    sanitizeInput(r.PostForm.Get(formCategory)),
		Amount:      sanitizeInput(r.PostForm.Get(formAmount)),
		Description: sanitizeInput(r.PostForm.Get(formDescription)),
	}, nil
}

// Fields converts the form into validated transaction fields.
func (f TransactionForm) Fields() (core.Fields, error) {
	return core.ParseFields(f.Date, f.Type, f.Category, f.Amount, f.Description)
}

// FormFromTransaction prefills the edit page.
func FormFromTransaction(t core.Transaction) TransactionForm {
	return TransactionForm{
		Date:        t.Date,
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      t.Amount.String(),
		Description: t.Description,
	}
}

// ParseID reads the {id} path value. The bool is false for anything that is
// not a base-10 integer.
func ParseID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		return 0, false
	}
	return id, true
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *ResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *ResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// sanitizeInput trims and removes control characters except tab, newline
// and carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
