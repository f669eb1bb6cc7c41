// Package dungeonserver exposes the dungeon generator over gRPC.
package dungeonserver

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/game/random"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
)

// LayoutStore persists accepted layouts.
type LayoutStore interface {
	Save(ctx context.Context, catalog string, layout *dungeon.Layout) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID, catalog *dungeon.Catalog) (*dungeon.Layout, error)
}

// Service implements DungeonServiceServer. Every Generate call builds its own
// generator, so concurrent requests never share search state.
type Service struct {
	catalog     *dungeon.Catalog
	catalogName string
	opts        dungeon.Options
	store       LayoutStore
	logger      *zap.Logger
}

// NewService creates a Service.
//
// Precondition: catalog and logger must be non-nil; opts must be valid.
// store may be nil, in which case layouts are not persisted and GetLayout
// reports Unimplemented.
func NewService(catalog *dungeon.Catalog, catalogName string, opts dungeon.Options, store LayoutStore, logger *zap.Logger) *Service {
	return &Service{
		catalog:     catalog,
		catalogName: catalogName,
		opts:        opts,
		store:       store,
		logger:      logger,
	}
}

// Generate implements DungeonServiceServer.
func (s *Service) Generate(ctx context.Context, req *wrapperspb.UInt64Value) (*structpb.Struct, error) {
	seed := req.GetValue()
	src := random.NewCryptoSource()
	if seed != 0 {
		src = random.NewSeededSource(seed)
	}
	opts := s.opts
	opts.Seed = seed

	g, err := dungeon.NewGenerator(s.catalog, src, dungeon.NopPresenter{}, opts, s.logger)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "building generator: %v", err)
	}
	layout, err := g.Generate(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	id := uuid.Nil
	if s.store != nil {
		if id, err = s.store.Save(ctx, s.catalogName, layout); err != nil {
			s.logger.Error("saving layout", zap.Error(err))
			return nil, status.Errorf(codes.Internal, "saving layout: %v", err)
		}
	}
	s.logger.Info("layout served",
		zap.String("id", id.String()),
		zap.Uint64("seed", seed),
		zap.Int("rooms", len(layout.Rooms)),
	)
	return LayoutStruct(s.catalog, s.catalogName, id, layout)
}

// GetLayout implements DungeonServiceServer.
func (s *Service) GetLayout(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.store == nil {
		return nil, status.Error(codes.Unimplemented, "layout storage is not configured")
	}
	id, err := uuid.Parse(req.GetValue())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid layout id %q: %v", req.GetValue(), err)
	}
	layout, err := s.store.Get(ctx, id, s.catalog)
	if err != nil {
		if errors.Is(err, postgres.ErrLayoutNotFound) {
			return nil, status.Errorf(codes.NotFound, "layout %s not found", id)
		}
		return nil, status.Errorf(codes.Internal, "loading layout: %v", err)
	}
	return LayoutStruct(s.catalog, s.catalogName, id, layout)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, dungeon.ErrInfeasible):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Errorf(codes.Internal, "generating layout: %v", err)
	}
}

// LayoutStruct encodes layout as the wire Struct documented in dungeon.proto.
func LayoutStruct(catalog *dungeon.Catalog, catalogName string, id uuid.UUID, layout *dungeon.Layout) (*structpb.Struct, error) {
	rooms := make([]any, 0, len(layout.Rooms))
	for _, p := range layout.Rooms {
		room := map[string]any{
			"template": p.Template.ID,
			"x":        p.Coord.X,
			"y":        p.Coord.Y,
			"depth":    p.Depth,
			"distance": p.Distance,
		}
		if !p.IsStart() {
			room["door"] = map[string]any{
				"x":         p.Door.Coord.X,
				"y":         p.Door.Coord.Y,
				"direction": string(p.Door.Direction),
			}
		}
		rooms = append(rooms, room)
	}

	out, err := structpb.NewStruct(map[string]any{
		"id":         id.String(),
		"catalog":    catalogName,
		"seed":       strconv.FormatUint(layout.Seed, 10),
		"attempts":   layout.Attempts,
		"iterations": layout.Iterations,
		"render":     layout.Render(catalog),
		"rooms":      rooms,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding layout: %v", err)
	}
	return out, nil
}
