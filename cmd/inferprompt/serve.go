package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/inferprompt/inferprompt/internal/adapters/http"
	"github.com/inferprompt/inferprompt/internal/adapters/tracing"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the InferPrompt HTTP API server.

The server provides REST endpoints for prompt optimization, analysis,
feedback, and optimization history.

Storage backends:
  - SQLite file (default, INFERPROMPT_DB_PATH)
  - PostgreSQL (INFERPROMPT_POSTGRES_URL, takes precedence when set)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer initializes and starts the HTTP API server
func runServer(ctx context.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting inferprompt api server",
		"addr", cfg.Addr(),
		"default_model", cfg.Optimizer.DefaultModel,
	)

	shutdown, err := tracing.InitTracer("inferprompt-api")
	if err != nil {
		slog.Warn("failed to initialize tracing", "error", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				slog.Error("error shutting down tracer", "error", err)
			}
		}()
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.UsesPostgres() {
		slog.Info("storage ready", "backend", "postgres")
	} else {
		slog.Info("storage ready", "backend", "sqlite", "path", cfg.Database.Path)
	}

	pipe, err := buildPipeline(ctx, store)
	if err != nil {
		return err
	}
	slog.Info("optimization pipeline initialized",
		"cache_capacity", cfg.Optimizer.CacheCapacity,
		"efficacy_generation", pipe.efficacy.Generation(),
	)

	server := httpadapter.NewServer(cfg, version, pipe.optimizer, pipe.feedback, store.History(), store.Ping)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		slog.Info("server stopped")
		return nil
	}
}
