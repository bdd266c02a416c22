// Package store defines the transaction store port and the row codec shared
// by every tabular backend (CSV file, SQLite table, spreadsheet tab).
package store

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Column names, in persisted order.
const (
	ColID          = "id"
	ColDate        = "date"
	ColType        = "type"
	ColCategory    = "category"
	ColAmount      = "amount"
	ColDescription = "description"
)

// Header is the fixed column set written ahead of every table.
var Header = []string{ColID, ColDate, ColType, ColCategory, ColAmount, ColDescription}

var errMissingColumn = errors.New("missing column")

// EncodeRow renders t in Header order.
func EncodeRow(t core.Transaction) []string {
	return []string{
		strconv.Itoa(t.ID),
		t.Date,
		string(t.Type),
		t.Category,
		t.Amount.String(),
		t.Description,
	}
}

// Decoder maps rows to transactions by header name, so column order in the
// stored table does not matter.
type Decoder struct {
	col map[string]int
}

// NewDecoder validates header and returns a Decoder for the rows below it.
func NewDecoder(header []string) (*Decoder, error) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	for _, name := range Header {
		if _, ok := col[name]; !ok {
			return nil, &core.ParseError{Row: 0, Column: name, Err: errMissingColumn}
		}
	}
	return &Decoder{col: col}, nil
}

// Decode converts one data row. row is the 1-based data row number used in
// errors. Cells missing at the end of a short row read as empty.
func (d *Decoder) Decode(row int, cells []string) (core.Transaction, error) {
	get := func(name string) string {
		i := d.col[name]
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	rawID := get(ColID)
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return core.Transaction{}, &core.ParseError{Row: row, Column: ColID, Value: rawID, Err: err}
	}
	rawAmount := get(ColAmount)
	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return core.Transaction{}, &core.ParseError{Row: row, Column: ColAmount, Value: rawAmount, Err: err}
	}

	return core.Transaction{
		ID:          id,
		Date:        get(ColDate),
		Type:        core.TransactionType(get(ColType)),
		Category:    get(ColCategory),
		Amount:      amount,
		Description: get(ColDescription),
	}, nil
}

// DecodeTable decodes a header-led table. An empty table (no header row)
// is an empty collection.
func DecodeTable(rows [][]string) ([]core.Transaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	dec, err := NewDecoder(rows[0])
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		t, err := dec.Decode(i+1, cells)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// EncodeTable renders the header followed by one row per transaction.
func EncodeTable(txs []core.Transaction) [][]string {
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, t := range txs {
		rows = append(rows, EncodeRow(t))
	}
	return rows
}
