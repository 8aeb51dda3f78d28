package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/vmunix/fijkbridge/internal/config"
	"github.com/vmunix/fijkbridge/internal/migrations"
	"github.com/vmunix/fijkbridge/internal/player"
	"github.com/vmunix/fijkbridge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge daemon",
	Long: `Run the bridge daemon.

Producers connect to /producer and send native event frames; hosts
connect to /events and receive host payloads. The code table is served
at /codes.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	var db *sql.DB
	if !cfg.Events.MemoryOnly {
		db, err = openDB(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
	}

	logger.Info("fijkbridge starting",
		"version", version,
		"addr", cfg.Addr(),
		"database", cfg.Database.Path,
		"memory_only", cfg.Events.MemoryOnly,
		"log_level", cfg.Server.LogLevel,
	)

	runner := server.NewRunner(db, runnerConfig(cfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runner.Run(ctx)
}

// openDB opens the event log database and applies the schema.
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer; the bus appends from many goroutines.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func runnerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Addr:          cfg.Addr(),
		Retention:     cfg.Events.Retention,
		PruneInterval: cfg.Events.PruneInterval,
		EventBuffer:   cfg.Events.BufferSize,
		MaxClients:    cfg.Broadcast.MaxClients,
		SendBuffer:    cfg.Broadcast.SendBuffer,
		HostOptions:   hostOptions(cfg.Host),
	}
}

// hostOptions converts the configured defaults to player host options.
func hostOptions(h config.HostConfig) map[string]int {
	flag := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	return map[string]int{
		player.OptRequestAudioFocus: flag(h.RequestAudioFocus),
		player.OptReleaseAudioFocus: flag(h.ReleaseAudioFocus),
		player.OptRequestScreenOn:   flag(h.RequestScreenOn),
	}
}
