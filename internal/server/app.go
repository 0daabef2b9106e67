// Package server wires the Ayra API server together: it opens the database,
// applies migrations, builds the services and runs the HTTP endpoint until
// the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayrahq/ayra/internal/logging"
	"github.com/ayrahq/ayra/internal/server/config"
	"github.com/ayrahq/ayra/internal/server/httpapi"
	"github.com/ayrahq/ayra/internal/server/repositories/repomanager"
	"github.com/ayrahq/ayra/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *httpapi.Server
}

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg)
	is := services.NewItemService(db, rm)
	cs := services.NewCategoryService(db, rm)
	fs := services.NewFileService(cfg)

	api := httpapi.NewServer(cfg.EndpointAddr, []byte(cfg.SecretKey), us, is, cs, fs, logger)

	return &App{config: cfg, logger: logger, db: db, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	return app.api.Run(ctx)
}
