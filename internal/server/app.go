// Package server initializes and runs the logistics back-office server.
// It opens the database, applies migrations, seeds default data and then
// serves HTTP until it receives a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/config"
	"github.com/gotofast/logistics/internal/server/metrics"
	"github.com/gotofast/logistics/internal/server/principal"
	"github.com/gotofast/logistics/internal/server/repositories/repomanager"
	"github.com/gotofast/logistics/internal/server/seed"
	"github.com/gotofast/logistics/internal/server/services"
	"github.com/gotofast/logistics/internal/server/storage"
	"github.com/gotofast/logistics/internal/server/web"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *web.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return newApp(ctx, c, logger)
}

// newApp performs every startup step before serving. The resolver and the
// HTTP server are only built once migrations and seeding have succeeded.
func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, dialect, err := storage.Open(ctx, c.DatabaseURL, storage.Options{ConnMaxLifetime: c.DBPoolRecycle})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	logger.Info(ctx, "database opened", "dialect", string(dialect))

	app, err := wire(ctx, c, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func wire(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, dialect storage.Dialect) (*App, error) {
	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migrations error: %w", err)
	}
	if err := seed.Run(ctx, db, rm, c, logger); err != nil {
		return nil, err
	}

	resolver := principal.NewResolver(rm.Admins(db), rm.Partners(db), logger)
	accounts := services.NewAccountService(db, rm, resolver, c, logger)
	contacts := services.NewContactSettingsService(db, rm, logger)
	documents := services.NewDocumentService(db, rm, c, logger)

	if n, err := accounts.PurgeExpiredSessions(ctx); err != nil {
		logger.Warn(ctx, "purge expired sessions", "error", err)
	} else if n > 0 {
		logger.Info(ctx, "expired sessions purged", "count", n)
	}

	httpServer := web.NewServer(c, logger, metrics.New(), db, accounts, contacts, documents)

	return &App{config: c, logger: logger, db: db, httpServer: httpServer}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a shutdown signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "site", app.config.SiteName)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup
	var runErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
