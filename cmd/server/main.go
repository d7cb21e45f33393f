// Package main is the entry point for the codeshare board server.
//
// Its job is the usual one for a Go main package: build the logger, load
// configuration, construct dependencies (the snapshot store) and hand
// everything to internal/server. All real logic lives in the internal
// packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/satriadev/codeshare/internal/config"
	"github.com/satriadev/codeshare/internal/server"
	"github.com/satriadev/codeshare/internal/store"
	githubstore "github.com/satriadev/codeshare/internal/store/github"
	sqlitestore "github.com/satriadev/codeshare/internal/store/sqlite"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Config comes from a .env file in the working directory, with real
	// environment variables taking precedence. An incomplete config is NOT
	// fatal: the board still serves, the store just refuses writes with
	// the configuration error until the missing keys are supplied.
	cfg, cfgErr := config.Load(".env")
	if cfgErr != nil {
		logger.Error("configuration incomplete — snapshot sync disabled",
			slog.String("error", cfgErr.Error()),
		)
	}

	st, err := buildStore(cfg, cfgErr, logger)
	if err != nil {
		logger.Error("failed to create snapshot store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, st, logger)
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

// buildStore picks the snapshot backend. With missing required settings the
// misconfigured stand-in is used: loads empty, rejects every write with the
// config error.
func buildStore(cfg *config.Config, cfgErr error, logger *slog.Logger) (store.Store, error) {
	if cfgErr != nil {
		return store.Misconfigured(cfgErr), nil
	}

	switch cfg.StoreBackend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0755); err != nil {
			return nil, err
		}
		return sqlitestore.New(cfg.StorePath)
	default:
		return githubstore.New(githubstore.Options{
			Owner:  cfg.StoreOwner,
			Repo:   cfg.StoreRepo,
			Branch: cfg.StoreBranch,
			File:   cfg.StoreFile,
			Token:  cfg.StoreToken,
		}, logger), nil
	}
}
