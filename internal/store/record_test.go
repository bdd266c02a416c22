package store

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestTableRoundTrip(t *testing.T) {
	in := []core.Transaction{
		{ID: 1, Date: "2024-03-01", Type: core.Expense, Category: "food", Amount: decimal.RequireFromString("20"), Description: "lunch, with \"friends\""},
		{ID: 2, Date: "2024-03-02", Type: core.Income, Category: "salary", Amount: decimal.RequireFromString("2500.75"), Description: ""},
	}
	out, err := DecodeTable(EncodeTable(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len=%d", len(out))
	}
	for i := range in {
		if out[i].ID != in[i].ID || out[i].Date != in[i].Date || out[i].Type != in[i].Type ||
			out[i].Category != in[i].Category || !out[i].Amount.Equal(in[i].Amount) ||
			out[i].Description != in[i].Description {
			t.Fatalf("row %d: got %+v want %+v", i, out[i], in[i])
		}
	}
}

func TestDecodeTableReorderedColumns(t *testing.T) {
	rows := [][]string{
		{"description", "amount", "category", "type", "date", "id"},
		{"lunch", "20.0", "food", "expense", "2024-03-01", "1"},
	}
	out, err := DecodeTable(rows)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out[0].ID != 1 || out[0].Description != "lunch" || !out[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected %+v", out[0])
	}
}

func TestDecodeTableEmpty(t *testing.T) {
	out, err := DecodeTable(nil)
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty, got %v err=%v", out, err)
	}
	out, err = DecodeTable([][]string{Header})
	if err != nil || len(out) != 0 {
		t.Fatalf("header only: expected empty, got %v err=%v", out, err)
	}
}

func TestDecodeTableParseErrors(t *testing.T) {
	cases := []struct {
		name   string
		rows   [][]string
		row    int
		column string
	}{
		{"bad id", [][]string{Header, {"x", "2024-01-01", "expense", "c", "1", "d"}}, 1, ColID},
		{"bad amount", [][]string{Header, {"1", "2024-01-01", "expense", "c", "1", "d"}, {"2", "2024-01-01", "expense", "c", "ten", "d"}}, 2, ColAmount},
		{"missing amount", [][]string{Header, {"1", "2024-01-01", "expense", "c"}}, 1, ColAmount},
		{"missing column", [][]string{{"id", "date", "type", "category", "description"}}, 0, ColAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTable(tc.rows)
			var perr *core.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if perr.Row != tc.row || perr.Column != tc.column {
				t.Fatalf("got row=%d column=%s, want row=%d column=%s", perr.Row, perr.Column, tc.row, tc.column)
			}
		})
	}
}
