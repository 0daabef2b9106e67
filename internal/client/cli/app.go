// Package cli is the interactive Ayra client: a small REPL wired to the
// session bootstrapper, the import runner, and the private-space coordinator.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/ayrahq/ayra/internal/client/cache"
	"github.com/ayrahq/ayra/internal/client/config"
	"github.com/ayrahq/ayra/internal/client/importer"
	"github.com/ayrahq/ayra/internal/client/notify"
	"github.com/ayrahq/ayra/internal/client/privacy"
	"github.com/ayrahq/ayra/internal/client/remote"
	"github.com/ayrahq/ayra/internal/client/session"
	"github.com/ayrahq/ayra/internal/client/storage"
	"github.com/ayrahq/ayra/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	client   remote.Client
	cache    *cache.Cache
	notifier notify.Notifier
	session  *session.Bootstrapper
	importer *importer.Runner
	privacy  *privacy.Coordinator
	logger   logging.Logger
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	store := storage.NewSQLiteRepository(db)

	client := remote.NewHTTPClient(cfg.ServerEndpointAddr)
	dataCache := cache.New(cache.DefaultTTL)
	notifier := notify.NewWriterNotifier(os.Stdout)

	run := importer.NewRunner(store, client, dataCache, notifier, logger)

	boot := session.NewBootstrapper(store, client, dataCache, logger, session.Options{
		RedirectTo:  cfg.SignUpRedirect,
		KeyPath:     cfg.SessionKeyFile,
		ImportDelay: cfg.MigrationDelay,
	})
	run.SetOnComplete(func() {
		ctx := context.Background()
		items, err := client.ListItems(ctx)
		if err != nil {
			logger.Warn(ctx, "post-import reload failed", "error", err)
			return
		}
		dataCache.Set(itemsCacheKey, items)
	})

	boot.SetImportRun(func(ctx context.Context) {
		if _, err := run.Run(ctx); err != nil {
			logger.Error(ctx, "import run failed", "error", err)
		}
	})

	priv := privacy.NewCoordinator(store, logger, cfg.UnlockWindow)

	return &App{
		config:   cfg,
		db:       db,
		client:   client,
		cache:    dataCache,
		notifier: notifier,
		session:  boot,
		importer: run,
		privacy:  priv,
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer a.client.Close()
	defer a.db.Close()

	if err := a.session.Initialize(ctx); err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
	}

	a.Root(ctx)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
