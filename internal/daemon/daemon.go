package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/app/accounts"
	"github.com/taskdeck/taskdeck/internal/health"
	"github.com/taskdeck/taskdeck/internal/infra/metrics"
	"github.com/taskdeck/taskdeck/internal/infra/sqlite"
)

// Daemon is the taskdeck API server runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Accounts *accounts.Service
	Health   *health.Checker
	Server   *api.Server
	Logger   *slog.Logger
	cancel   context.CancelFunc
}

// NewWithConfig creates a Daemon storing its data under TaskdeckHome.
func NewWithConfig(cfg Config, logger *slog.Logger) (*Daemon, error) {
	return NewInDir(cfg, taskdeckHome(), logger)
}

// NewInDir creates a Daemon whose database lives in dir.
func NewInDir(cfg Config, dir string, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlite.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	acc := accounts.NewService(db, cfg.TokenTTL())
	checker := health.NewChecker(db, dir)

	srv := api.NewServer(acc, db, logger)
	srv.SetHealth(checker)
	srv.SetCORSOrigins(cfg.Server.CORSOrigins)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	if n, err := db.CountTasks(context.Background()); err == nil {
		metrics.TasksStored.Set(float64(n))
	}

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Accounts: acc,
		Health:   checker,
		Server:   srv,
		Logger:   logger.With("component", "daemon"),
	}, nil
}

// Serve starts the HTTP server and blocks until ctx is done or a signal arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.Config.Addr(), err)
	}
	return d.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done or a signal arrives.
func (d *Daemon) ServeListener(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	go d.Health.Run(ctx)

	if ok, err := d.Accounts.HasUsers(ctx); err == nil && !ok {
		d.Logger.Warn("no users registered; create one with: taskdeck user add NAME --role ADMIN")
	}

	httpServer := &http.Server{
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-sigCh:
			d.Logger.Info("shutdown signal received")
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	d.Logger.Info("taskdeck serving", "addr", "http://"+ln.Addr().String(), "metrics", d.Config.Server.Metrics)

	err := httpServer.Serve(ln)
	cancel()
	<-done
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
