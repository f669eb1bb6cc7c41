//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/dungeongen/internal/app"
	"github.com/cory-johannsen/dungeongen/internal/config"
)

func initializeServer(ctx context.Context, cfg config.Config) (*serverApp, func(), error) {
	wire.Build(
		app.ProviderSet,
		providePool,
		provideStore,
		provideService,
		provideGRPCServer,
		newServerApp,
	)
	return nil, nil, nil
}
