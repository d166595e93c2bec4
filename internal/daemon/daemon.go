package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulse-labs/pulse/internal/api"
	"github.com/pulse-labs/pulse/internal/app/session"
	"github.com/pulse-labs/pulse/internal/domain"
	"github.com/pulse-labs/pulse/internal/health"
	_ "github.com/pulse-labs/pulse/internal/infra/metrics" // Register Prometheus metrics
	"github.com/pulse-labs/pulse/internal/infra/sqlite"
)

// Daemon is the core Pulse runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Sessions *session.Service
	Server   *api.Server
	Health   *health.Checker
	Log      zerolog.Logger
	cancel   context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	log := newLogger(cfg.Logging.Level)

	db, err := sqlite.Open(pulseHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sessions := session.NewService(db, log)

	srv := api.NewServer(db, sessions)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, pulseHome())
	srv.SetHealthChecker(checker)

	d := &Daemon{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Server:   srv,
		Health:   checker,
		Log:      log,
	}

	if err := d.ensureLocalAccount(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// ensureLocalAccount creates the configured CLI account if it does not
// exist yet.
func (d *Daemon) ensureLocalAccount() error {
	acct, err := d.DB.GetAccount(d.Config.Account.ID)
	if err != nil {
		return fmt.Errorf("load local account: %w", err)
	}
	if acct != nil {
		return nil
	}
	err = d.DB.CreateAccount(domain.Account{
		ID:        d.Config.Account.ID,
		Name:      d.Config.Account.Name,
		Level:     1,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("create local account: %w", err)
	}
	d.Log.Info().Str("account", d.Config.Account.ID).Msg("created local account")
	return nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	d.Log.Info().Str("addr", addr).Msg("pulse serving")
	fmt.Printf("Pulse serving on http://%s\n", addr)
	if d.Config.API.Metrics {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close releases daemon resources without serving.
func (d *Daemon) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	return d.DB.Close()
}

// newLogger builds the daemon logger at the configured level.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
