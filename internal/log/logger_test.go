package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithComponentKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf})

	base.With(FieldRequestID, "abc").WithComponent(ComponentTransaction).Info("hello")

	line := buf.String()
	if strings.Count(line, "component=") != 1 {
		t.Fatalf("expected a single component attribute, got %q", line)
	}
	if !strings.Contains(line, "component=transaction") || !strings.Contains(line, "request_id=abc") {
		t.Fatalf("unexpected record %q", line)
	}
}

func TestFromContext(t *testing.T) {
	l := New(Config{Component: ComponentCLI, Output: &bytes.Buffer{}})
	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Fatal("expected stored logger")
	}
	if got := FromContext(context.Background()); got == nil || got.Component() != "unknown" {
		t.Fatalf("expected fallback logger, got %+v", got)
	}
}

func TestFromContextUsesDefaultWithoutDuplicateComponent(t *testing.T) {
	prevSlog, prev := slog.Default(), defaultLogger.Load()
	t.Cleanup(func() {
		slog.SetDefault(prevSlog)
		defaultLogger.Store(prev)
	})

	var buf bytes.Buffer
	SetDefault(New(Config{Output: &buf}))

	FromContext(context.Background()).WithComponent(ComponentStorage).Info("mirrored")

	line := buf.String()
	if strings.Count(line, "component=") != 1 || !strings.Contains(line, "component=storage") {
		t.Fatalf("expected a single storage component, got %q", line)
	}
}

func TestLogTransaction(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Output: &buf, Component: ComponentTransaction}))
	sl.LogTransaction(context.Background(), OpCreate, 3, "2024-05-01", "expense", "food", "12.5")

	line := buf.String()
	for _, want := range []string{"Transaction created", "transaction_id=3", "amount=12.5", "operation=create"} {
		if !strings.Contains(line, want) {
			t.Errorf("missing %q in %q", want, line)
		}
	}
}
