package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studygram-app/studygram/internal/api"
	"github.com/studygram-app/studygram/internal/app/contentgen"
	"github.com/studygram-app/studygram/internal/app/gems"
	"github.com/studygram-app/studygram/internal/app/notify"
	"github.com/studygram-app/studygram/internal/app/session"
	"github.com/studygram-app/studygram/internal/domain"
	"github.com/studygram-app/studygram/internal/health"
	_ "github.com/studygram-app/studygram/internal/infra/metrics" // Register Prometheus metrics
	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

// Daemon is the StudyGram runtime. It wires together all services.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Session *session.Service
	Gems    *gems.Service
	Notify  *notify.Service
	Content *contentgen.Client
	Health  *health.Checker
	Server  *api.Server
	cancel  context.CancelFunc
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
	db, err := sqlite.Open(studygramHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	gemsSvc := gems.NewService(db)
	notifySvc := notify.NewServiceWithPolicy(db, domain.NotificationPolicy{
		MaxPerDay:  cfg.Notifications.MaxPerDay,
		QuietStart: cfg.Notifications.QuietStart,
		QuietEnd:   cfg.Notifications.QuietEnd,
	})
	sessionSvc := session.NewService(db, gemsSvc, notifySvc)

	content := contentgen.NewClient(contentgen.Config{
		BaseURL:    cfg.ContentGen.BaseURL,
		APIKey:     cfg.ContentGen.APIKey,
		Model:      cfg.ContentGen.Model,
		Timeout:    time.Duration(cfg.ContentGen.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.ContentGen.MaxRetries,
	})

	checker := health.NewChecker(db, studygramHome())

	srv := api.NewServer(sessionSvc, gemsSvc, notifySvc, content, db)
	srv.SetHealth(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Session: sessionSvc,
		Gems:    gemsSvc,
		Notify:  notifySvc,
		Content: content,
		Health:  checker,
		Server:  srv,
	}, nil
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
		WriteTimeout: 2 * time.Minute, // Content generation can be slow
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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("StudyGram serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
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
