// Package csvfile stores transactions in a header-led CSV file.
//
// Every save rewrites the whole file in place. There is no temp-file staging:
// a crash mid-write can leave the file truncated.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	path string
}

var _ store.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Name implements store.Named.
func (s *Store) Name() string { return "csv:" + s.path }

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// LoadAll implements store.Store. A missing file is an empty collection.
func (s *Store) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Transactions file does not exist yet", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, &core.ParseError{Err: err})
	}
	dec, err := store.NewDecoder(header)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var out []core.Transaction
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("read %s: %w", s.path, &core.ParseError{Row: row, Err: err})
			}
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		t, err := dec.Decode(row, rec)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// SaveAll implements store.Store, overwriting the file with txs.
func (s *Store) SaveAll(ctx context.Context, txs []core.Transaction) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(store.EncodeTable(txs)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}

	slog.DebugContext(ctx, "Transactions file written", "path", s.path, "count", len(txs))
	return nil
}
