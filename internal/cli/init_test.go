package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/log"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		level string
	}{
		{"debug"},
		{"info"},
		{"WARN"},
		{"nonsense"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := SetupLogger(tt.level)
			if logger == nil {
				t.Fatal("SetupLogger() returned nil")
			}
			if logger.Component() != log.ComponentApp {
				t.Errorf("Component() = %q, want %q", logger.Component(), log.ComponentApp)
			}
		})
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{
			name: "memory",
			cfg:  &config.Config{DataBackend: "memory"},
		},
		{
			name: "memory with cache",
			cfg:  &config.Config{DataBackend: "memory", CacheSize: 8, CacheTTL: time.Minute},
		},
		{
			name: "sqlite",
			cfg:  &config.Config{DataBackend: "sqlite", SQLiteDBPath: t.TempDir() + "/data/fintrack.db"},
		},
		{
			name:    "unknown backend",
			cfg:     &config.Config{DataBackend: "sheets"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewBackend(context.Background(), log.Nop(), tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewBackend() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			defer result.Cleanup()

			ctx := context.Background()
			if err := result.Store.Set(ctx, "k", "v"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if v, ok, err := result.Store.Get(ctx, "k"); err != nil || !ok || v != "v" {
				t.Errorf("Get() = %q, %v, %v", v, ok, err)
			}
		})
	}
}

func TestGracefulShutdown(t *testing.T) {
	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(log.Nop(), time.Second, func() { close(cleaned) })

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Signal(os.Interrupt); err != nil {
		t.Fatal(err)
	}

	finished := make(chan struct{})
	go func() {
		WaitForShutdown(ctx, done)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup was not called")
	}
}

func TestGracefulShutdownTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	ctx, done := GracefulShutdown(log.Nop(), 50*time.Millisecond, func() { <-block })

	p, _ := os.FindProcess(os.Getpid())
	if err := p.Signal(os.Interrupt); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout did not release shutdown")
	}
	if ctx.Err() == nil {
		t.Error("context should be cancelled")
	}
}
