// Package main provides the entry point for the jobfinder MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/jobfinder-go/internal/app"
	"github.com/raphaelgruber/jobfinder-go/internal/config"
	"github.com/raphaelgruber/jobfinder-go/internal/server"
	"github.com/raphaelgruber/jobfinder-go/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so console logs go to stderr
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel, os.Stderr)
	defer func() { _ = cleanup() }()

	logger.Info("jobfinder-mcp starting",
		"version", version,
		"store", cfg.StoreBackend,
		"page_size", cfg.PageSize,
		"max_pages", cfg.MaxPages,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a := app.New(ctx, cfg, logger)
	defer func() {
		logger.Info("closing storage")
		if err := a.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}()

	srv := server.New(version, logger, a.Metrics)
	srv.Setup()

	tools.RegisterAll(srv.MCPServer(), &tools.Dependencies{
		Search:    a.Search,
		Favorites: a.Favorites,
		Metrics:   a.Metrics,
		Logger:    logger,
		ExportDir: cfg.ExportDir,
	})

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
