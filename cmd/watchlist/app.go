package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vmunix/watchlist/internal/catalog"
	"github.com/vmunix/watchlist/internal/config"
	"github.com/vmunix/watchlist/internal/events"
	"github.com/vmunix/watchlist/internal/logging"
	"github.com/vmunix/watchlist/internal/migrations"
	"github.com/vmunix/watchlist/internal/persist"
	"github.com/vmunix/watchlist/internal/tmdb"
	"github.com/vmunix/watchlist/internal/watchlist"
)

// app holds everything a command needs. It is opened once per invocation.
type app struct {
	cfg *config.Config
	log *slog.Logger
	db  *sql.DB

	cache    *catalog.Cache
	items    *persist.Store
	writer   *persist.Writer
	eventLog *events.EventLog
	bus      *events.Bus
	store    *watchlist.Store
	session  *watchlist.Session

	logCloser io.Closer
}

// openApp loads config, opens the database and loads the watchlist.
func openApp(ctx context.Context) (*app, error) {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}

	db, err := openDB(ctx, cfg.Database.Path)
	if err != nil {
		_ = logCloser.Close()
		return nil, err
	}

	client := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDB.Timeout}),
	)

	a := newApp(cfg, logger, db, catalog.NewTMDB(client, logger))
	a.logCloser = logCloser
	if err := a.store.Load(ctx, a.items); err != nil {
		a.Close()
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	return a, nil
}

// newApp wires the components on top of an open, migrated database.
func newApp(cfg *config.Config, logger *slog.Logger, db *sql.DB, remote catalog.Gateway) *app {
	cache := catalog.NewCache(db)
	gw := catalog.NewCached(remote, cache, cfg.Refresh.SearchCacheTTL, logger)

	items := persist.NewStore(db)
	writer := persist.NewWriter(items, logger)
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)

	store := watchlist.New(gw, writer,
		watchlist.WithPublisher(bus),
		watchlist.WithLogger(logger),
	)

	return &app{
		cfg:      cfg,
		log:      logger,
		db:       db,
		cache:    cache,
		items:    items,
		writer:   writer,
		eventLog: eventLog,
		bus:      bus,
		store:    store,
		session:  watchlist.NewSession(gw, store, logger),
	}
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// record runs fn with a subscription to the events f selects and returns
// the events fn caused. Store operations publish before they return, so
// everything is buffered once fn is done.
func (a *app) record(f events.Filter, buffer int, fn func() error) ([]events.Event, error) {
	dropped := a.bus.Dropped()
	ch := a.bus.Subscribe(f, buffer)
	defer a.bus.Unsubscribe(ch)

	if err := fn(); err != nil {
		return nil, err
	}
	if n := a.bus.Dropped() - dropped; n > 0 {
		a.log.Warn("activity events missed", "dropped", n)
	}

	var out []events.Event
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return out, nil
			}
			out = append(out, e)
		default:
			return out, nil
		}
	}
}

// requireCatalog fails early for commands that talk to TMDB.
func (a *app) requireCatalog() error {
	return a.cfg.RequireAPIKey()
}

// Close stops the store, waits for pending writes and releases the database.
func (a *app) Close() {
	a.store.Close()
	a.writer.Close()
	if st := a.writer.Stats(); st.Failed > 0 {
		a.log.Error("some changes were not saved", "failed", st.Failed, "applied", st.Applied)
		fmt.Fprintf(os.Stderr, "warning: %d change(s) could not be saved\n", st.Failed)
	}
	_ = a.bus.Close()
	_ = a.db.Close()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
