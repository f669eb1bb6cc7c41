// Package main provides dungeonview, a terminal viewer that draws generated
// layouts and regenerates them on the 'g' key.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/app"
	"github.com/cory-johannsen/dungeongen/internal/config"
	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/observability"
	"github.com/cory-johannsen/dungeongen/internal/render/terminal"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	logPath := flag.String("log", "dungeonview.log", "log file; the screen cannot share stderr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Logging.Output == "stderr" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = *logPath
	}

	logger, syncLogger, err := app.ProvideLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer syncLogger()

	catalog, err := app.ProvideCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger = observability.ForComponent(logger, "dungeonview", string(app.ProvideCatalogName(cfg)))

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal("creating screen", zap.Error(err))
	}
	if err := screen.Init(); err != nil {
		logger.Fatal("initializing screen", zap.Error(err))
	}
	defer screen.Fini()

	viewer := terminal.NewViewer(screen, catalog)
	g, err := dungeon.NewGenerator(catalog, app.ProvideSource(cfg), viewer, app.ProvideOptions(cfg), logger)
	if err != nil {
		screen.Fini()
		logger.Fatal("creating generator", zap.Error(err))
	}
	regenerate := func(ctx context.Context) error {
		_, err := g.Generate(ctx)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := regenerate(ctx); err != nil {
		viewer.SetStatus("error: " + err.Error())
	}
	if err := viewer.Run(ctx, regenerate); err != nil {
		logger.Info("viewer stopped", zap.Error(err))
	}
}
