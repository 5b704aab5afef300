package database_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/JaimeStill/steward/pkg/database"
)

func testConfig(t *testing.T) *database.Config {
	t.Helper()
	cfg := &database.Config{
		Host:         "127.0.0.1",
		Port:         1,
		Name:         "steward",
		User:         "steward",
		MaxOpenConns: 7,
		ConnTimeout:  "200ms",
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	return cfg
}

func TestNewSetsPoolParams(t *testing.T) {
	sys, err := database.New(testConfig(t), slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Close()

	if got := sys.Connection().Stats().MaxOpenConnections; got != 7 {
		t.Errorf("MaxOpenConnections = %d, want 7", got)
	}
}

func TestNewRejectsMalformedURL(t *testing.T) {
	cfg := &database.Config{URL: "postgres://%zz"}
	if _, err := database.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPingUnreachable(t *testing.T) {
	sys, err := database.New(testConfig(t), slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Close()

	err = sys.Ping(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() = %v, want ErrNotReady", err)
	}
}
