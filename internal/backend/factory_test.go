package backend

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

func testFactory() Factory {
	return NewFactory(log.New(log.Config{Output: &bytes.Buffer{}}))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "csv", CSVFile: "x.csv", SQLiteDBPath: "y.db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != CSVBackend || cfg.CSVFile != "x.csv" || cfg.SQLiteDBPath != "y.db" {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"csv ok", Config{Type: CSVBackend, CSVFile: "a.csv"}, ""},
		{"csv missing file", Config{Type: CSVBackend}, "CSV file path"},
		{"sqlite missing path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"sheets missing id", Config{Type: SheetsBackend, GoogleServiceAccountJSON: "{}"}, "Spreadsheet ID"},
		{"sheets missing creds", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, "service account"},
		{"memory ok", Config{Type: MemoryBackend}, ""},
		{"unknown", Config{Type: "redis"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackendStoresRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configs := []Config{
		{Type: CSVBackend, CSVFile: filepath.Join(dir, "tx.csv")},
		{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "tx.db")},
		{Type: MemoryBackend},
	}

	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			ctx := context.Background()
			res, err := testFactory().CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if res.Cleanup != nil {
				t.Cleanup(func() { res.Cleanup() })
			}

			in := []core.Transaction{{ID: 1, Date: "2024-05-01", Type: core.Expense, Category: "food", Amount: decimal.NewFromInt(7)}}
			if err := res.Store.SaveAll(ctx, in); err != nil {
				t.Fatalf("save: %v", err)
			}
			out, err := res.Store.LoadAll(ctx)
			if err != nil || len(out) != 1 || out[0].Category != "food" {
				t.Fatalf("load: %+v err=%v", out, err)
			}
		})
	}
}

func TestCreateSheetsBackendWithoutCredentials(t *testing.T) {
	_, err := testFactory().CreateBackend(context.Background(), Config{
		Type:                     SheetsBackend,
		GoogleSpreadsheetID:      "id",
		GoogleServiceAccountFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "Google Sheets") {
		t.Fatalf("expected sheets init error, got %v", err)
	}
}
