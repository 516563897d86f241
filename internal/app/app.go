package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/config"
	"github.com/notedrop/notedrop/internal/database"
	"github.com/notedrop/notedrop/internal/logging"
	"github.com/notedrop/notedrop/internal/prefs"
	"github.com/notedrop/notedrop/internal/server"
	"github.com/notedrop/notedrop/internal/state"
	"github.com/notedrop/notedrop/internal/ui"
)

// Options configure the NoteDrop commands.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/notedrop/prefs.toml
	PollEvery  time.Duration // zero uses default
	Verbose    bool
	// Location is the terminal client's starting location, e.g. "/faq".
	Location string
	// Addr overrides the configured listen address for Serve.
	Addr string
}

// deps is everything the commands share once configuration is loaded.
type deps struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *state.Store
	backend backend
}

func setup(opts Options, console bool) (*deps, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Path:    cfg.Log.Path,
		Level:   cfg.Log.Level,
		Verbose: opts.Verbose,
		Console: console,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	store := state.NewStore(state.ParseTheme(userPrefs.Theme))

	be, err := openBackend(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &deps{cfg: cfg, logger: logger, store: store, backend: be}, nil
}

func (rt *deps) close() {
	if err := rt.backend.close(); err != nil {
		rt.logger.Warn("close backend", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

// Run starts the terminal client and blocks until the user quits or ctx is
// cancelled. It returns the location the user was viewing.
func Run(ctx context.Context, opts Options) (string, error) {
	rt, err := setup(opts, false)
	if err != nil {
		return "", err
	}
	defer rt.close()

	ctx, cancel := context.WithCancel(ctx)
	pollerDone := StartPoller(ctx, rt.store, rt.backend.pinger, opts.PollEvery, rt.logger.Named("poller"))
	defer func() {
		cancel()
		<-pollerDone
	}()

	watcher, err := prefs.NewWatcher(opts.PrefsPath, func(p prefs.Prefs) {
		rt.store.SetTheme(state.ParseTheme(p.Theme))
	}, rt.logger.Named("prefs"))
	if err == nil {
		err = watcher.Start(ctx)
	}
	if err != nil {
		rt.logger.Warn("prefs watcher disabled", zap.Error(err))
	} else {
		defer watcher.Stop()
	}

	rt.logger.Info("notedrop starting",
		zap.String("backend", rt.cfg.Backend.Kind),
		zap.String("location", opts.Location),
	)

	location, err := ui.Run(ui.Options{
		Context:   ctx,
		Source:    rt.backend.source,
		Store:     rt.store,
		Location:  opts.Location,
		PageSize:  rt.cfg.Listing.PageSize,
		Debounce:  rt.cfg.Listing.Debounce,
		PrefsPath: opts.PrefsPath,
		LogPath:   rt.cfg.Log.Path,
		Logger:    rt.logger.Named("ui"),
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		return location, fmt.Errorf("run ui: %w", err)
	}
	return location, nil
}

// Serve runs the HTTP server and the connectivity poller until ctx is
// cancelled or either fails.
func Serve(ctx context.Context, opts Options) error {
	rt, err := setup(opts, true)
	if err != nil {
		return err
	}
	defer rt.close()

	srv, err := server.New(server.Options{
		Source:   rt.backend.source,
		Store:    rt.store,
		PageSize: rt.cfg.Listing.PageSize,
		Logger:   rt.logger.Named("http"),
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	addr := rt.cfg.Serve.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-StartPoller(ctx, rt.store, rt.backend.pinger, opts.PollEvery, rt.logger.Named("poller"))
		return nil
	})
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})
	return g.Wait()
}

// Import loads a seed file into the configured SQL backend and returns how
// many records were written.
func Import(ctx context.Context, opts Options, file string) (int, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return 0, fmt.Errorf("load config: %w", err)
	}
	if cfg.Backend.Kind != config.KindSQLite && cfg.Backend.Kind != config.KindPostgres {
		return 0, fmt.Errorf("import needs a sqlite or postgres backend, configured %q", cfg.Backend.Kind)
	}

	records, err := catalog.ReadSeed(file)
	if err != nil {
		return 0, fmt.Errorf("load seed: %w", err)
	}

	store, err := database.Open(cfg.Backend.Kind, cfg.Backend.DSN)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", cfg.Backend.Kind, err)
	}
	defer store.Close()

	n, err := store.Upsert(ctx, records)
	if err != nil {
		return n, fmt.Errorf("import into %s: %w", store.DatabaseType(), err)
	}
	return n, nil
}
