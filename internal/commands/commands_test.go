package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type harness struct {
	store  *memory.Store
	mirror *memory.Store
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(txs ...core.Transaction) *harness {
	return &harness{store: memory.New(txs...), mirror: memory.New()}
}

// run executes one command line against a fresh commander, as fintrackctl does.
func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	svc := services.NewTransactionService(h.store, dec("1000"),
		services.WithClock(func() time.Time { return time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC) }))
	app := &App{
		Service:  svc,
		Renderer: report.New(""),
		Plain:    true,
		Out:      &h.stdout,
		Err:      &h.stderr,
		OpenStore: func(_ context.Context, name string) (store.Store, func(), error) {
			if name != "memory" {
				return nil, func() {}, fmt.Errorf("unsupported backend type: %s", name)
			}
			return h.mirror, func() {}, nil
		},
	}

	fs := flag.NewFlagSet("fintrackctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmdr := subcommands.NewCommander(fs, "fintrackctl")
	cmdr.Output = io.Discard
	cmdr.Error = io.Discard
	Register(cmdr, app)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cmdr.Execute(context.Background())
}

func (h *harness) stored(t *testing.T) []core.Transaction {
	t.Helper()
	txs, err := h.store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return txs
}

func TestAddListAndSummary(t *testing.T) {
	h := newHarness()

	if st := h.run(t, "add", "-date", "2024-05-01", "-type", "income", "-category", "salary", "-amount", "2000"); st != subcommands.ExitSuccess {
		t.Fatalf("add income: %v %s", st, h.stderr.String())
	}
	if st := h.run(t, "add", "-date", "2024-05-02", "-category", "food", "-amount", "12,50", "-description", "lunch"); st != subcommands.ExitSuccess {
		t.Fatalf("add expense: %v %s", st, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "Transaction **2** created") {
		t.Fatalf("confirmation = %q", h.stdout.String())
	}

	if st := h.run(t, "list"); st != subcommands.ExitSuccess {
		t.Fatalf("list: %v", st)
	}
	if !strings.Contains(h.stdout.String(), "| 2 | 2024-05-02 | expense | food | 12.50 | lunch |") {
		t.Fatalf("list output:\n%s", h.stdout.String())
	}

	if st := h.run(t, "summary"); st != subcommands.ExitSuccess {
		t.Fatalf("summary: %v", st)
	}
	if !strings.Contains(h.stdout.String(), "| 2000.00 | 12.50 | 1987.50 |") {
		t.Fatalf("summary output:\n%s", h.stdout.String())
	}
}

func TestAddRejectsInvalidAmount(t *testing.T) {
	h := newHarness()
	if st := h.run(t, "add", "-amount", "lots"); st != subcommands.ExitFailure {
		t.Fatalf("status = %v", st)
	}
	if !strings.Contains(h.stderr.String(), `Invalid amount "lots"`) {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if len(h.stored(t)) != 0 {
		t.Fatal("nothing should be written")
	}
	if st := h.run(t, "add"); st != subcommands.ExitUsageError {
		t.Fatalf("missing amount: status %v", st)
	}
}

func TestEditKeepsUnsetFields(t *testing.T) {
	h := newHarness(core.Transaction{ID: 1, Date: "2024-05-03", Type: core.Expense, Category: "rent", Amount: dec("900"), Description: "May"})

	if st := h.run(t, "edit", "-id", "1", "-amount", "950"); st != subcommands.ExitSuccess {
		t.Fatalf("edit: %v %s", st, h.stderr.String())
	}
	got := h.stored(t)[0]
	if !got.Amount.Equal(dec("950")) || got.Category != "rent" || got.Description != "May" || got.Date != "2024-05-03" {
		t.Fatalf("edited = %+v", got)
	}

	if st := h.run(t, "edit", "-id", "7", "-amount", "1"); st != subcommands.ExitFailure {
		t.Fatalf("unknown id: status %v", st)
	}
	if !strings.Contains(h.stderr.String(), "not found") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if st := h.run(t, "edit", "-amount", "1"); st != subcommands.ExitUsageError {
		t.Fatalf("missing id: status %v", st)
	}
}

func TestAddDefaultsToServiceDate(t *testing.T) {
	h := newHarness()
	if st := h.run(t, "add", "-amount", "3"); st != subcommands.ExitSuccess {
		t.Fatalf("add: %v %s", st, h.stderr.String())
	}
	if got := h.stored(t)[0]; got.Date != "2024-05-15" || got.Type != core.Expense {
		t.Fatalf("added = %+v", got)
	}
}

func TestEditLeavesStoredAmountUnvalidated(t *testing.T) {
	h := newHarness(core.Transaction{ID: 1, Date: "2024-05-03", Type: core.Expense, Category: "fix", Amount: dec("-5"), Description: "hand edited"})

	if st := h.run(t, "edit", "-id", "1", "-description", "refund"); st != subcommands.ExitSuccess {
		t.Fatalf("edit: %v %s", st, h.stderr.String())
	}
	got := h.stored(t)[0]
	if got.Description != "refund" || !got.Amount.Equal(dec("-5")) {
		t.Fatalf("edited = %+v", got)
	}

	if st := h.run(t, "edit", "-id", "1", "-amount", "-1"); st != subcommands.ExitFailure {
		t.Fatalf("negative amount: status %v", st)
	}
	if !strings.Contains(h.stderr.String(), `Invalid amount "-1"`) {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
}

func TestDeleteRenumbers(t *testing.T) {
	h := newHarness(
		core.Transaction{ID: 1, Date: "2024-05-01", Type: core.Expense, Amount: dec("1")},
		core.Transaction{ID: 2, Date: "2024-05-02", Type: core.Expense, Amount: dec("2")},
		core.Transaction{ID: 3, Date: "2024-05-03", Type: core.Expense, Amount: dec("3")},
	)

	if st := h.run(t, "delete", "-id", "2"); st != subcommands.ExitSuccess {
		t.Fatalf("delete: %v", st)
	}
	txs := h.stored(t)
	if len(txs) != 2 || txs[1].ID != 2 || !txs[1].Amount.Equal(dec("3")) {
		t.Fatalf("after delete = %+v", txs)
	}

	if st := h.run(t, "delete", "-id", "9"); st != subcommands.ExitSuccess {
		t.Fatalf("unknown id: status %v", st)
	}
	if !strings.Contains(h.stdout.String(), "nothing deleted") {
		t.Fatalf("stdout = %q", h.stdout.String())
	}
}

func TestBudget(t *testing.T) {
	h := newHarness(
		core.Transaction{ID: 1, Date: "2024-05-01", Type: core.Expense, Amount: dec("600")},
		core.Transaction{ID: 2, Date: "2024-05-09", Type: core.Expense, Amount: dec("401")},
		core.Transaction{ID: 3, Date: "2024-04-09", Type: core.Expense, Amount: dec("5000")},
	)
	if st := h.run(t, "budget"); st != subcommands.ExitSuccess {
		t.Fatalf("budget: %v", st)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "# Budget 2024-05") || !strings.Contains(out, "**Over budget** by 1.00.") {
		t.Fatalf("budget output:\n%s", out)
	}
}

func TestPrintMarkdownRendersWithGlamour(t *testing.T) {
	var out bytes.Buffer
	app := &App{Out: &out}
	app.printMarkdown("# Title\n\nSome **bold** text.\n")
	if strings.Contains(out.String(), "**bold**") || !strings.Contains(out.String(), "bold") {
		t.Fatalf("rendered = %q", out.String())
	}

	out.Reset()
	app.Plain = true
	app.printMarkdown("# Title\n")
	if out.String() != "# Title\n" {
		t.Fatalf("plain = %q", out.String())
	}
}

func TestMirror(t *testing.T) {
	h := newHarness(core.Transaction{ID: 4, Date: "2024-05-01", Type: core.Expense, Amount: dec("8")})

	if st := h.run(t, "mirror", "-to", "memory"); st != subcommands.ExitSuccess {
		t.Fatalf("mirror: %v %s", st, h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "Copied **1** transactions") {
		t.Fatalf("stdout = %q", h.stdout.String())
	}
	got, _ := h.mirror.LoadAll(context.Background())
	if len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("mirror = %+v", got)
	}

	if st := h.run(t, "mirror", "-to", "memory"); st != subcommands.ExitSuccess || !strings.Contains(h.stdout.String(), "already matches") {
		t.Fatalf("second mirror: %v %q", st, h.stdout.String())
	}
	if st := h.run(t, "mirror", "-to", "ftp"); st != subcommands.ExitFailure {
		t.Fatalf("unknown backend: %v", st)
	}
	if st := h.run(t, "mirror"); st != subcommands.ExitUsageError {
		t.Fatalf("missing -to: %v", st)
	}
}
