// Package main provides the dungeongen command: it generates one layout,
// prints it as text, and optionally stores it in the layout history.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/app"
	"github.com/cory-johannsen/dungeongen/internal/config"
	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/observability"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
)

type options struct {
	seed    uint64
	persist bool
	history int
	details bool
}

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.Uint64("seed", 0, "seed for a reproducible layout; overrides generator.seed when non-zero")
	persist := flag.Bool("persist", false, "store the layout in PostgreSQL")
	history := flag.Int("history", 0, "list the N most recent stored layouts instead of generating")
	details := flag.Bool("details", false, "print every placement after the map")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := options{seed: *seed, persist: *persist, history: *history, details: *details}
	if err := run(ctx, cfg, opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, out io.Writer) error {
	if opts.seed != 0 {
		cfg.Generator.Seed = opts.seed
	}

	logger, syncLogger, err := app.ProvideLogger(cfg)
	if err != nil {
		return err
	}
	defer syncLogger()

	if opts.history > 0 {
		return listHistory(ctx, cfg, opts.history, logger, out)
	}

	catalog, err := app.ProvideCatalog(cfg, logger)
	if err != nil {
		return err
	}
	name := app.ProvideCatalogName(cfg)
	logger = observability.ForComponent(logger, "dungeongen", string(name))

	presenter, closePresenter, err := app.ProvidePresenter(cfg, dungeon.NopPresenter{}, logger)
	if err != nil {
		return err
	}
	defer closePresenter()

	g, err := dungeon.NewGenerator(catalog, app.ProvideSource(cfg), presenter, app.ProvideOptions(cfg), logger)
	if err != nil {
		return err
	}
	layout, err := g.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating layout: %w", err)
	}

	fmt.Fprint(out, layout.Render(catalog))
	fmt.Fprintf(out, "rooms=%d attempts=%d iterations=%d seed=%d\n",
		len(layout.Rooms), layout.Attempts, layout.Iterations, layout.Seed)
	if opts.details {
		alts := layout.Alternatives(catalog)
		for _, p := range layout.Rooms {
			fmt.Fprintf(out, "  %-16s %-8s depth=%d distance=%d alternatives=%d\n",
				p.Template.ID, p.Coord, p.Depth, p.Distance, len(alts[p.Coord]))
		}
	}

	if !opts.persist {
		return nil
	}
	pool, closePool, err := app.ProvidePool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePool()
	id, err := postgres.NewLayoutRepository(pool.DB()).Save(ctx, string(name), layout)
	if err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	logger.Info("layout stored", zap.String("id", id.String()))
	fmt.Fprintf(out, "id=%s\n", id)
	return nil
}

func listHistory(ctx context.Context, cfg config.Config, limit int, logger *zap.Logger, out io.Writer) error {
	pool, closePool, err := app.ProvidePool(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePool()

	recent, err := postgres.NewLayoutRepository(pool.DB()).ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("listing layouts: %w", err)
	}
	for _, s := range recent {
		fmt.Fprintf(out, "%s  %s  %-12s rooms=%d attempts=%d seed=%d\n",
			s.ID, s.CreatedAt.Format(time.RFC3339), s.Catalog, s.RoomCount, s.Attempts, s.Seed)
	}
	return nil
}
