package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arenaforge/bossrush/internal/config"
	"github.com/arenaforge/bossrush/internal/database"
	"github.com/arenaforge/bossrush/internal/game"
	"github.com/arenaforge/bossrush/internal/llm"
	"github.com/arenaforge/bossrush/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- History store (SQLite) ---
	if dir := filepath.Dir(cfg.HistoryDBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating history dir: %w", err)
		}
	}
	db, err := database.Open(ctx, cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	history, err := server.NewSQLiteHistory(ctx, db)
	if err != nil {
		return fmt.Errorf("initializing history store: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.HistoryDBPath)

	// --- Core wiring ---
	registry := game.NewRegistry(cfg.SessionMaxInactive)
	model := llm.NewClient(llm.Config{
		URL:    cfg.ModelURL,
		APIKey: cfg.ModelAPIKey,
		Model:  cfg.ModelName,
	})
	negotiator := game.NewNegotiator(model, cfg.ModelTimeout, logger)

	if !model.Configured() {
		logger.Warn("model client not fully configured, negotiations will fall back to previous configs")
	}

	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Registry:   registry,
		Negotiator: negotiator,
		Model:      model,
		History:    history,
		DB:         db,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return sweepLoop(gctx, logger, registry, cfg.SweepInterval)
	})

	return g.Wait()
}

// sweepLoop ends expired sessions on a fixed cadence, independent of request
// traffic, so memory stays bounded without active clients.
func sweepLoop(ctx context.Context, logger *slog.Logger, registry *game.Registry, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := registry.SweepExpired(); n > 0 {
				logger.Info("swept expired sessions", "count", n)
			}
		}
	}
}
