package daemon_test

import (
	"context"
	"testing"

	"cooked/internal/daemon"
	"cooked/internal/logging"
	"cooked/internal/testsupport"
)

func TestStartEnforcesSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()

	first, err := daemon.New(cfg, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	defer first.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if first.Addr() == "" {
		t.Fatal("expected listen address after Start")
	}

	second, err := daemon.New(cfg, logger)
	if err != nil {
		t.Fatalf("daemon.New second: %v", err)
	}
	defer second.Close()

	if err := second.Start(ctx); err == nil {
		t.Fatal("second Start should fail while the lock is held")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start after release: %v", err)
	}
}
