// Package server runs the bridge daemon: the HTTP and WebSocket endpoints,
// the event bus and its SQLite log.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/fijkbridge/internal/events"
	"github.com/vmunix/fijkbridge/internal/handlers"
	"github.com/vmunix/fijkbridge/internal/player"
	"github.com/vmunix/fijkbridge/internal/sink"
)

// Config for the daemon.
type Config struct {
	Addr     string
	Listener net.Listener // overrides Addr when set

	Retention     time.Duration // 0 keeps events forever
	PruneInterval time.Duration
	EventBuffer   int

	MaxClients int
	SendBuffer int

	// HostOptions seeds the host options of every new player.
	HostOptions map[string]int
	Host        player.Host // nil logs host requests

	ShutdownTimeout time.Duration
}

// Runner manages the daemon components.
type Runner struct {
	db     *sql.DB
	config Config
	logger *slog.Logger
}

// NewRunner creates a new runner. db may be nil to keep events in memory only.
func NewRunner(db *sql.DB, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 100
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Runner{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	var eventLog *events.EventLog
	if r.db != nil {
		eventLog = events.NewEventLog(r.db)
	}
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	host := r.config.Host
	if host == nil {
		host = player.LogHost{Logger: r.logger.With("component", "host")}
	}
	engine := player.NewEngine(host, bus, r.logger.With("component", "engine"))
	manager := player.NewManager(player.ManagerConfig{
		Engine:  engine,
		Bus:     bus,
		Logger:  r.logger.With("component", "player"),
		Options: r.config.HostOptions,
	})
	broadcaster := sink.NewBroadcaster(r.config.MaxClients, r.config.SendBuffer, r.logger.With("component", "broadcast"))
	srv := New(manager, broadcaster, bus, r.logger.With("component", "http"))

	diagnostics := handlers.NewDiagnosticsHandler(bus, r.logger.With("handler", "diagnostics"))
	srv.SetDiagnostics(diagnostics)
	busHandlers := []handlers.Handler{
		diagnostics,
		handlers.NewActivityHandler(bus, r.config.EventBuffer, r.logger.With("handler", "activity")),
	}

	httpServer := &http.Server{
		Addr:              r.config.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if r.config.Listener != nil {
			r.logger.Info("server starting", "addr", r.config.Listener.Addr().String())
			err = httpServer.Serve(r.config.Listener)
		} else {
			r.logger.Info("server starting", "addr", r.config.Addr)
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		r.logger.Info("shutting down")

		releaseCtx := context.WithoutCancel(ctx)
		if err := manager.ReleaseAll(releaseCtx); err != nil {
			r.logger.Error("release players failed", "error", err)
		}
		broadcaster.Close()

		shutdownCtx, cancel := context.WithTimeout(releaseCtx, r.config.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	for _, h := range busHandlers {
		g.Go(func() error {
			r.logger.Info("starting handler", "name", h.Name())
			if err := h.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s handler: %w", h.Name(), err)
			}
			return nil
		})
	}

	if eventLog != nil && r.config.Retention > 0 {
		g.Go(func() error {
			r.prune(ctx, eventLog)
			return nil
		})
	}

	err := g.Wait()
	r.logger.Info("server stopped")
	return err
}

func (r *Runner) prune(ctx context.Context, log *events.EventLog) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	logger := r.logger.With("component", "pruner")
	logger.Info("pruner started", "interval", r.config.PruneInterval, "retention", r.config.Retention)

	for {
		select {
		case <-ctx.Done():
			logger.Info("pruner stopped")
			return
		case <-ticker.C:
			n, err := log.Prune(r.config.Retention)
			if err != nil {
				logger.Error("prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned events", "count", n)
			}
		}
	}
}
