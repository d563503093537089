// Package server wires storage, services and transports together and runs
// them until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sibeni-li/khronos/internal/logging"
	"github.com/sibeni-li/khronos/internal/server/config"
	"github.com/sibeni-li/khronos/internal/server/httpapi"
	"github.com/sibeni-li/khronos/internal/server/repositories/repomanager"
	"github.com/sibeni-li/khronos/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/sibeni-li/khronos/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *gin.Engine
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	dsn := c.DatabaseDSN
	if c.DatabaseDriver == repomanager.DriverSQLite {
		dsn = repomanager.SQLiteDSN(dsn)
	}

	db, err := sql.Open(c.DatabaseDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store := services.NewObjectStore(c)

	var archiver services.Archiver
	if c.ArchiveUploads && c.StorageEnabled() {
		archiver = store
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Deps{
		Accounts:      services.NewUserService(db, rm, c),
		Uploads:       services.NewIngestService(db, rm, archiver, logger),
		Reports:       services.NewReportService(db, rm),
		Library:       store,
		DB:            db,
		Logger:        logger,
		MaxUploadSize: c.MaxUploadSize,
	})

	return &App{config: c, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a signal arrives or a server fails, then releases the
// database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	// either server failing cancels the other
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.router).Run(gctx)
	})
	g.Go(func() error {
		return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger).Run(gctx)
	})
	if err := g.Wait(); err != nil {
		app.logger.Error(ctx, "server error", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}
	app.logger.Info(ctx, "App stopped")
}
