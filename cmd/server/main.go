// Package main is the entry point for the MyMindMirror backend.
//
// Its job is kept minimal: set up logging, load configuration, create the
// server, run it. All real logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harman-04/My-Mind-Mirror/internal/config"
	"github.com/harman-04/My-Mind-Mirror/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := config.New()

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set — generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	// The sqlite backend needs its data directory to exist.
	if cfg.DBDriver == "sqlite" || cfg.DBDriver == "" {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
