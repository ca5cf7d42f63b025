// Package main provides the HTTP server for feedlift.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedlift/feedlift/internal/api"
	"github.com/feedlift/feedlift/internal/config"
	"github.com/feedlift/feedlift/internal/engine"
	"github.com/feedlift/feedlift/internal/llm"
	"github.com/feedlift/feedlift/internal/metrics"
	"github.com/feedlift/feedlift/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithFile(*configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logging: text to stderr, JSON to file
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()
	slog.SetDefault(logger)

	slog.Info("starting feedlift-server",
		"port", cfg.ServerPort,
		"provider", cfg.LLMProvider,
		"model", cfg.LLMModel,
		"max_concurrent", cfg.MaxConcurrent,
	)

	// Build the LLM client and optimization engine
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	completer, err := llm.NewClient(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to create LLM client", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	eng := engine.New(completer,
		engine.WithMaxTokens(cfg.MaxTokens),
		engine.WithMetrics(collector),
	)

	handler := api.NewHandler(eng, completer, store.NewMemoryStore(), collector, cfg.MaxConcurrent, logger)
	router := api.NewRouter(handler, logger)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // Batch submissions block on LLM fan-out
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("API available", "url", "http://localhost:"+cfg.ServerPort+"/api")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
