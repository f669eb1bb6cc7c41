// Package app builds the components shared by the dungeongen binaries from
// a loaded configuration. Its providers double as the google/wire provider
// set of dungeonserver.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/config"
	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/game/random"
	"github.com/cory-johannsen/dungeongen/internal/observability"
	"github.com/cory-johannsen/dungeongen/internal/scripting"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
)

// ProviderSet provides the logger, the catalog with its name, and the
// generator options.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideCatalog,
	ProvideCatalogName,
	ProvideOptions,
)

// CatalogName labels stored layouts and log lines with the catalog they came from.
type CatalogName string

// ProvideLogger builds the root logger.
func ProvideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideCatalog loads and validates the configured catalog.
//
// Postcondition: Returns a catalog or an error naming the catalog path.
func ProvideCatalog(cfg config.Config, logger *zap.Logger) (*dungeon.Catalog, error) {
	catalog, err := dungeon.LoadCatalog(cfg.Generator.Catalog)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %q: %w", cfg.Generator.Catalog, err)
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.Generator.Catalog),
		zap.Int("templates", catalog.Len()),
		zap.String("start", catalog.Start().ID),
		zap.String("target", catalog.Target().ID),
	)
	return catalog, nil
}

// ProvideCatalogName derives the catalog label from its path: the file name
// without extension, or the directory name.
func ProvideCatalogName(cfg config.Config) CatalogName {
	base := filepath.Base(filepath.Clean(cfg.Generator.Catalog))
	return CatalogName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ProvideOptions maps the generator section onto dungeon.Options.
func ProvideOptions(cfg config.Config) dungeon.Options {
	return dungeon.Options{
		IterationThreshold: cfg.Generator.IterationThreshold,
		MaxSize:            cfg.Generator.MaxSize,
		MaxAttempts:        cfg.Generator.MaxAttempts,
		Seed:               cfg.Generator.Seed,
	}
}

// ProvideSource returns a seeded source when a seed is configured and a
// crypto source otherwise.
func ProvideSource(cfg config.Config) random.Source {
	if cfg.Generator.Seed != 0 {
		return random.NewSeededSource(cfg.Generator.Seed)
	}
	return random.NewCryptoSource()
}

// ProvidePresenter returns the Lua presenter when a presenter directory is
// configured, and fallback otherwise.
//
// Precondition: fallback must be non-nil.
func ProvidePresenter(cfg config.Config, fallback dungeon.Presenter, logger *zap.Logger) (dungeon.Presenter, func(), error) {
	if cfg.Scripting.PresenterDir == "" {
		return fallback, func() {}, nil
	}
	p, err := scripting.NewPresenter(cfg.Scripting.PresenterDir, cfg.Scripting.InstructionLimit, logger.Named("lua"))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("lua presenter loaded", zap.String("dir", cfg.Scripting.PresenterDir))
	return p, p.Close, nil
}

// ProvidePool connects to PostgreSQL.
func ProvidePool(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)
	return pool, pool.Close, nil
}
