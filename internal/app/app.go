package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/kv"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/notify"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// toastBuffer bounds how many toasts may queue while the UI is busy.
const toastBuffer = 16

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	Verbose    bool   // forces debug logging
	ForceFail  bool   // every catalog fetch fails
	Logger     *zap.Logger
}

// Services holds the long-lived components shared by the TUI and the CLI.
type Services struct {
	Config    config.Config
	Logger    *zap.Logger
	Catalog   *catalog.Store
	Storage   kv.Store
	Favorites *favorites.Store

	forceFail bool
	closers   []io.Closer
}

// Bootstrap loads configuration and builds the logger, catalog, storage and
// favorites store. Toasts go to notifier and are also logged. Callers must
// Close the returned Services.
func Bootstrap(opts Options, notifier notify.Notifier) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = logging.New(logging.Options{
			Level: cfg.Log.Level,
			File:  cfg.Log.File,
			Debug: opts.Verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	store, err := catalog.NewStore(catalog.WithDelay(cfg.FetchDelay()))
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	backing, closer, err := kv.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}

	if notifier == nil {
		notifier = notify.Discard
	}
	favs := favorites.New(backing,
		notify.Multi{notifier, notify.Log{Logger: logger}},
		favorites.WithLogger(logger),
		favorites.WithAutoClose(cfg.ToastDuration()),
	)

	logger.Debug("shelf services ready",
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("storage_path", cfg.Storage.Path),
		zap.Duration("fetch_delay", cfg.FetchDelay()))

	return &Services{
		Config:    cfg,
		Logger:    logger,
		Catalog:   store,
		Storage:   backing,
		Favorites: favs,
		forceFail: opts.ForceFail,
		closers:   []io.Closer{closer},
	}, nil
}

// NewQuery builds a product query over the catalog. Unless deferFetch is
// set the first fetch starts immediately.
func (s *Services) NewQuery(ctx context.Context, deferFetch bool) *state.Query {
	return state.NewQuery(ctx, s.Catalog, state.QueryOptions{
		DeferFetch: deferFetch,
		ShouldFail: s.forceFail || s.Config.Catalog.Fail,
		Logger:     s.Logger,
	})
}

// Close releases storage and flushes the logger.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	_ = s.Logger.Sync()
	return errors.Join(errs...)
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	toasts := notify.NewChannel(toastBuffer)

	svc, err := Bootstrap(opts, toasts)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	query := svc.NewQuery(ctx, false)

	uiOpts := ui.Options{
		Context:   ctx,
		Query:     query,
		Favorites: svc.Favorites,
		Toasts:    toasts.C,
		ThemeName: userPrefs.Theme,
		Sort:      userPrefs.SortOrder(),
		PrefsPath: prefsPath,
		Logger:    svc.Logger,
	}
	svc.Logger.Info("starting shelf", zap.String("theme", userPrefs.Theme))
	return ui.Run(uiOpts)
}
