package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/powertoolstore/forge/internal/config"
	"github.com/powertoolstore/forge/internal/core"
	"github.com/powertoolstore/forge/internal/generator"
	"github.com/powertoolstore/forge/internal/logging"
	"github.com/powertoolstore/forge/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"model", cfg.Generator.Model,
		"pipeline_delay", cfg.Pipeline.Delay,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// Create the content generator
	gen, err := generator.NewGeminiClient(ctx, cfg.Generator.APIKey, cfg.Generator.Model)
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}
	gen.SetTimeout(cfg.Generator.Timeout)

	// Select the pipeline pacer
	var pacer core.Pacer
	if strings.EqualFold(cfg.Pipeline.Pacing, "backoff") {
		pacer = core.BackoffPacer{Base: cfg.Pipeline.Delay, Max: cfg.Pipeline.MaxDelay}
	} else {
		pacer = core.ConstantPacer{Delay: cfg.Pipeline.Delay}
	}

	// Create service and server
	service := core.NewService(gen, pacer, slog.Default())
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop any active batch run before closing the server
		if err := service.StopRun(); err == nil {
			slog.Info("batch run stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
