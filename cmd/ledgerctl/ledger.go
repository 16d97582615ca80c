package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"finledger/internal/config"
	"finledger/internal/database"
	"finledger/internal/server"
	"finledger/internal/services"
)

// session is an open ledger together with the display settings
type session struct {
	*server.Ledger
	currency string
	close    func()
}

// openLedger loads the configuration and connects the ledger services.
// Callers must call close on the returned session.
func openLedger(ctx context.Context) (*session, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	db, err := database.Initialize(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &session{
		Ledger:   server.NewLedger(db.DB, cfg.Import, services.NewPrometheusMetrics(), logger),
		currency: cfg.Display.Currency,
		close:    func() { _ = db.Close() },
	}, nil
}

// newLogger writes to stderr so command output on stdout stays clean
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Log.Level == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
