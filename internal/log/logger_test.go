package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentApp).WithComponent(ComponentPersistence)

	logger.Info("saved", FieldKey, "transactions")

	out := buf.String()
	if strings.Count(out, "component=") != 1 {
		t.Fatalf("expected exactly one component attribute, got %q", out)
	}
	if !strings.Contains(out, "component=persistence") {
		t.Errorf("missing component in %q", out)
	}
	if logger.Component() != ComponentPersistence {
		t.Errorf("Component() = %q", logger.Component())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, ComponentService)

	fields := NewFields().
		WithOperation(OpAdd).
		WithTransaction("tx-1", "expense", "Shopping", 500).
		WithError(errors.New("disk full"))
	logger.WithFields(fields).Error("write failed")

	out := buf.String()
	for _, want := range []string{"operation=add", "id=tx-1", "category=Shopping", "amount_cents=500", `error="disk full"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestWithErrorIgnoresNil(t *testing.T) {
	f := NewFields().WithError(nil)
	if _, ok := f[FieldError]; ok {
		t.Error("nil error should not add a field")
	}
}

func TestToSliceIsSorted(t *testing.T) {
	got := NewFields().WithOperation("b").WithComponent("a").ToSlice()
	if got[0] != FieldComponent || got[2] != FieldOperation {
		t.Errorf("unexpected order %v", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopDiscards(t *testing.T) {
	Nop().Error("nothing to see")
}
