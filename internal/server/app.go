// Package server wires the API server together: storage (PostgreSQL or
// in memory), services, the admin account and the HTTP API, and shuts it
// all down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/donadmin/internal/logging"
	"github.com/dmitrijs2005/donadmin/internal/server/config"
	"github.com/dmitrijs2005/donadmin/internal/server/httpapi"
	"github.com/dmitrijs2005/donadmin/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/donadmin/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
	users  *services.UserService
}

// openPostgres is a seam for tests.
var openPostgres = repomanager.OpenPostgres

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSON(logOut, c.LogLevel)

	var (
		db  *sql.DB
		rm  repomanager.RepositoryManager
		err error
	)
	if c.DatabaseDSN != "" {
		db, err = openPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm, err = repomanager.NewPostgresRepositoryManager(db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
	} else {
		logger.Warn(ctx, "no database configured, keeping data in memory")
		rm = repomanager.NewMemoryRepositoryManager()
	}

	if err := rm.RunMigrations(ctx); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	us := services.NewUserService(rm, c)
	as := services.NewAdService(rm)
	ps := services.NewPhotoService(c)

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		users:  us,
		server: httpapi.NewServer(c.ListenAddr, logger, as, us, ps, c.ShutdownTimeout),
	}

	if err := app.seedAdmin(ctx); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *App) seedAdmin(ctx context.Context) error {
	if app.config.AdminEmail == "" {
		return nil
	}
	created, err := app.users.EnsureAdmin(ctx, app.config.AdminEmail, app.config.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin seed error: %w", err)
	}
	if created {
		app.logger.Info(ctx, "admin account created", "email", app.config.AdminEmail)
	}
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) close() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
}

// Run serves the API until ctx is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}
