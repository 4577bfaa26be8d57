// Package kiosk initializes and runs the kiosk application: it wires the
// local database, the write-ahead backup store, the submission pipeline,
// the idle session and the operator admin surface, and handles graceful
// shutdown.
package kiosk

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/formkiosk/internal/admin"
	"github.com/dmitrijs2005/formkiosk/internal/backup"
	"github.com/dmitrijs2005/formkiosk/internal/config"
	"github.com/dmitrijs2005/formkiosk/internal/idle"
	"github.com/dmitrijs2005/formkiosk/internal/logging"
	"github.com/dmitrijs2005/formkiosk/internal/netx"
	"github.com/dmitrijs2005/formkiosk/internal/notify"
	"github.com/dmitrijs2005/formkiosk/internal/pipeline"
	"github.com/dmitrijs2005/formkiosk/internal/reference"
	"github.com/dmitrijs2005/formkiosk/internal/render"
	"github.com/dmitrijs2005/formkiosk/internal/storage"
	"github.com/dmitrijs2005/formkiosk/internal/timex"
	"github.com/dmitrijs2005/formkiosk/internal/upload"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	Pipeline *pipeline.Pipeline
	Session  *idle.Session
	admin    *admin.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(logging.Setup(cfg.LogLevel, cfg.LogFormat))

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	backups, err := backup.NewStore(cfg.BackupDir, cfg.ExportDir, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("backup store init error: %w", err)
	}

	clock := timex.Real{}
	refs := reference.NewGenerator(cfg.ReferencePrefix, reference.NewSQLiteCounterStore(db), clock)

	uploader, err := upload.NewS3Client(ctx, upload.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upload client init error: %w", err)
	}

	var notifier notify.Sender = notify.Noop{}
	if cfg.NotifyURL != "" {
		notifier = notify.NewWebhookSender(cfg.NotifyURL)
	}

	p := pipeline.New(
		pipeline.Config{
			MaxRetryAttempts:    cfg.MaxRetryAttempts,
			AttemptTimeout:      cfg.UploadAttemptTimeout,
			NotificationTimeout: cfg.NotificationTimeout,
		},
		render.FieldSanitizer{}, render.ArtifactRenderer{}, refs, backups,
		netx.NewDialChecker(cfg.ProbeAddr, 3*time.Second), uploader, notifier,
		clock, logger,
	)

	session := idle.NewSession(
		idle.Config{WarningAfter: cfg.IdleWarning, ResetAfter: cfg.IdleReset},
		clock,
		func() {
			logger.Info(context.Background(), "idle threshold reached, resetting session")
		},
	)

	app := &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		Pipeline: p,
		Session:  session,
		admin:    admin.NewServer(backups, p, session, logger),
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startAdminServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{Addr: app.config.AdminAddr, Handler: app.admin.Router()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "admin surface listening", "addr", app.config.AdminAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, "admin server failed", "error", err)
		cancelFunc()
	}
}

// logSessionEvents mirrors idle-session state changes into the log so
// operators can follow the kiosk remotely.
func (app *App) logSessionEvents(ctx context.Context) {
	for {
		select {
		case snap := <-app.Session.Events():
			app.logger.Info(ctx, "idle session state",
				"state", snap.State.String(), "seconds_remaining", snap.SecondsRemaining)
		case <-ctx.Done():
			return
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting kiosk")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startAdminServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.logSessionEvents(ctx)
	}()

	wg.Wait()

	app.Session.Stop()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "error", err)
	}
	app.logger.Info(ctx, "kiosk stopped")
}
