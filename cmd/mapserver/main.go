// Command mapserver serves hex conquest maps over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/talgya/hexconquest/internal/api"
	"github.com/talgya/hexconquest/internal/config"
	"github.com/talgya/hexconquest/internal/entropy"
	"github.com/talgya/hexconquest/internal/persistence"
)

const defaultConfigPath = "./configs/mapserver.yaml"

func main() {
	configPath := os.Getenv("MAPGEN_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mapserver: %v\n", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("hex conquest map server", "config", configPath, "log_level", level)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.Database.Path != "" {
		os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755)
		db, err = persistence.Open(cfg.Database.Path)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if last, err := db.GetMeta("started_at"); err == nil {
			slog.Info("database opened", "path", cfg.Database.Path, "last_start", last)
		} else {
			slog.Info("database opened", "path", cfg.Database.Path)
		}
		if err := db.SaveMeta("started_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
			slog.Warn("failed to save start time", "error", err)
		}
	} else {
		slog.Info("database path not set, statistics disabled")
	}

	// ── Entropy ──────────────────────────────────────────────────────
	src := entropy.FromConfig(cfg.Entropy.RandomOrgKey)
	if c, ok := src.(*entropy.Client); ok && c.Enabled() {
		slog.Info("random.org entropy enabled")
	} else {
		slog.Info("RANDOM_ORG_KEY not set, drawing from crypto/rand")
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	server := api.NewServer(cfg, src, db)
	defer server.Close()
	httpServer := server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	fmt.Println("Map server stopped.")
}
