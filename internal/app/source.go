package app

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/notedrop/notedrop/internal/catalog"
	"github.com/notedrop/notedrop/internal/config"
	"github.com/notedrop/notedrop/internal/database"
)

// backend is an opened record source plus its cleanup.
type backend struct {
	source catalog.Source
	pinger catalog.Pinger
	close  func() error
}

// openBackend picks the record source named by cfg.Backend.Kind. A hosted
// backend without URL or key is not fatal: the returned source fails every
// call with catalog.ErrNotConfigured so the views can explain it.
func openBackend(cfg config.Config, logger *zap.Logger) (backend, error) {
	noop := func() error { return nil }

	switch cfg.Backend.Kind {
	case config.KindREST, "":
		client, err := catalog.NewClient(catalog.ClientOptions{
			BaseURL:           cfg.Backend.URL,
			APIKey:            cfg.Backend.APIKey,
			Table:             cfg.Backend.Table,
			RequestsPerSecond: cfg.Backend.RequestsPerSecond,
			Logger:            logger.Named("catalog"),
		})
		if errors.Is(err, catalog.ErrNotConfigured) {
			logger.Warn("backend not configured", zap.Error(err))
			src := catalog.Misconfigured(err.Error())
			return backend{source: src, pinger: src.(catalog.Pinger), close: noop}, nil
		}
		if err != nil {
			return backend{}, fmt.Errorf("init backend client: %w", err)
		}
		return backend{source: client, pinger: client, close: noop}, nil

	case config.KindSQLite, config.KindPostgres:
		store, err := database.Open(cfg.Backend.Kind, cfg.Backend.DSN)
		if err != nil {
			return backend{}, fmt.Errorf("open %s: %w", cfg.Backend.Kind, err)
		}
		logger.Debug("database opened", zap.String("type", store.DatabaseType()))
		return backend{source: store, pinger: store, close: store.Close}, nil

	case config.KindFile:
		records, err := catalog.ReadSeed(cfg.Backend.DSN)
		if err != nil {
			return backend{}, fmt.Errorf("load seed: %w", err)
		}
		mem := catalog.NewMemory(records)
		logger.Debug("seed loaded", zap.String("path", cfg.Backend.DSN), zap.Int("records", len(records)))
		return backend{source: mem, pinger: mem, close: noop}, nil

	default:
		return backend{}, fmt.Errorf("unknown backend kind %q", cfg.Backend.Kind)
	}
}
