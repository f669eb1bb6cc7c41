package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/dungeongen/internal/app"
	"github.com/cory-johannsen/dungeongen/internal/config"
	"github.com/cory-johannsen/dungeongen/internal/dungeonserver"
	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/observability"
	"github.com/cory-johannsen/dungeongen/internal/server"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
)

// serverApp is the assembled dungeon server.
type serverApp struct {
	lifecycle *server.Lifecycle
	logger    *zap.Logger
	addr      string
}

// providePool connects to PostgreSQL only when layouts are persisted.
func providePool(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, func(), error) {
	if !cfg.Server.PersistLayouts {
		return nil, func() {}, nil
	}
	return app.ProvidePool(ctx, cfg, logger)
}

func provideStore(pool *postgres.Pool) dungeonserver.LayoutStore {
	if pool == nil {
		return nil
	}
	return postgres.NewLayoutRepository(pool.DB())
}

func provideService(catalog *dungeon.Catalog, name app.CatalogName, opts dungeon.Options, store dungeonserver.LayoutStore, logger *zap.Logger) *dungeonserver.Service {
	return dungeonserver.NewService(catalog, string(name), opts, store,
		observability.ForComponent(logger, "dungeonserver", string(name)))
}

func provideGRPCServer(svc *dungeonserver.Service) *grpc.Server {
	srv := grpc.NewServer()
	dungeonserver.RegisterDungeonServiceServer(srv, svc)
	return srv
}

func newServerApp(cfg config.Config, srv *grpc.Server, pool *postgres.Pool, logger *zap.Logger) *serverApp {
	lc := server.NewLifecycle(logger)
	lc.Add("grpc", server.GRPCService(srv, cfg.Server.Addr(), logger))
	if pool != nil {
		lc.Add("postgres", server.HealthService("postgres", 30*time.Second,
			func(ctx context.Context) error { return pool.Health(ctx, 5*time.Second) },
			func() {},
			logger,
		))
	}
	return &serverApp{lifecycle: lc, logger: logger, addr: cfg.Server.Addr()}
}
