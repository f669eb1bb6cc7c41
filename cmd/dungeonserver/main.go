// Package main provides the dungeon server binary: the generator behind a
// gRPC service, with optional layout history in PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx := context.Background()
	srv, cleanup, err := initializeServer(ctx, cfg)
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}

	srv.logger.Info("dungeon server initialized",
		zap.String("grpc_addr", srv.addr),
		zap.Bool("persist_layouts", cfg.Server.PersistLayouts),
		zap.Duration("startup", time.Since(start)),
	)

	runErr := srv.lifecycle.Run(ctx)
	if runErr != nil {
		srv.logger.Error("server error", zap.Error(runErr))
	}
	cleanup()
	if runErr != nil {
		os.Exit(1)
	}
}
