package dungeonserver

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
)

const corridorCatalog = `
catalog:
  start: gate
  target: throne
  rooms:
    - id: gate
      doors: [north]
    - id: throne
      doors: [south]
    - id: hall
      doors: [north, south]
`

// memoryStore is a LayoutStore held in a map.
type memoryStore struct {
	mu      sync.Mutex
	layouts map[uuid.UUID]*dungeon.Layout
}

func newMemoryStore() *memoryStore {
	return &memoryStore{layouts: make(map[uuid.UUID]*dungeon.Layout)}
}

func (m *memoryStore) Save(_ context.Context, _ string, layout *dungeon.Layout) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.layouts[id] = layout
	return id, nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID, _ *dungeon.Catalog) (*dungeon.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[id]
	if !ok {
		return nil, postgres.ErrLayoutNotFound
	}
	return l, nil
}

// testGRPCServer starts an in-process gRPC server and returns a connected client.
func testGRPCServer(t *testing.T, catalogSrc string, opts dungeon.Options, store LayoutStore) *Client {
	t.Helper()

	catalog, err := dungeon.LoadCatalogFromBytes([]byte(catalogSrc))
	require.NoError(t, err)
	svc := NewService(catalog, "test", opts, store, zaptest.NewLogger(t))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	RegisterDungeonServiceServer(grpcServer, svc)

	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(func() { grpcServer.Stop() })

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func testOptions() dungeon.Options {
	return dungeon.Options{IterationThreshold: 1000, MaxAttempts: 10}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGRPCService_GenerateCorridor(t *testing.T) {
	client := testGRPCServer(t, corridorCatalog, testOptions(), nil)

	out, err := client.Generate(testContext(t), 42)
	require.NoError(t, err)

	fields := out.AsMap()
	assert.Equal(t, uuid.Nil.String(), fields["id"])
	assert.Equal(t, "test", fields["catalog"])
	assert.Equal(t, "42", fields["seed"])
	assert.Equal(t, "T\n|\n#\n|\n#\n|\n#\n|\n#\n|\nS\n", fields["render"])

	rooms := fields["rooms"].([]any)
	require.Len(t, rooms, dungeon.MinDepth+1)
	first := rooms[0].(map[string]any)
	assert.Equal(t, "gate", first["template"])
	assert.NotContains(t, first, "door")

	var throne map[string]any
	for _, r := range rooms {
		if room := r.(map[string]any); room["template"] == "throne" {
			throne = room
		}
	}
	require.NotNil(t, throne)
	assert.Equal(t, float64(dungeon.MinDepth), throne["y"], "numbers arrive as float64")
	assert.Equal(t, float64(dungeon.MinDepth), throne["distance"])
	door := throne["door"].(map[string]any)
	assert.Equal(t, "north", door["direction"])
}

func TestGRPCService_SeedIsReproducible(t *testing.T) {
	client := testGRPCServer(t, corridorCatalog, testOptions(), nil)
	ctx := testContext(t)

	a, err := client.Generate(ctx, 7)
	require.NoError(t, err)
	b, err := client.Generate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, a.AsMap()["rooms"], b.AsMap()["rooms"])
}

func TestGRPCService_LargeSeedKeepsPrecision(t *testing.T) {
	client := testGRPCServer(t, corridorCatalog, testOptions(), nil)
	seed := uint64(1<<64 - 1)

	out, err := client.Generate(testContext(t), seed)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(seed, 10), out.AsMap()["seed"])
}

func TestGRPCService_InfeasibleIsFailedPrecondition(t *testing.T) {
	opts := testOptions()
	opts.MaxSize = 3
	client := testGRPCServer(t, corridorCatalog, opts, nil)

	_, err := client.Generate(testContext(t), 1)
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGRPCService_PersistAndGetLayout(t *testing.T) {
	store := newMemoryStore()
	client := testGRPCServer(t, corridorCatalog, testOptions(), store)
	ctx := testContext(t)

	gen, err := client.Generate(ctx, 9)
	require.NoError(t, err)
	id := gen.AsMap()["id"].(string)
	assert.NotEqual(t, uuid.Nil.String(), id)

	got, err := client.GetLayout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, gen.AsMap(), got.AsMap())
}

func TestGRPCService_GetLayoutErrors(t *testing.T) {
	ctx := testContext(t)

	noStore := testGRPCServer(t, corridorCatalog, testOptions(), nil)
	_, err := noStore.GetLayout(ctx, uuid.NewString())
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	client := testGRPCServer(t, corridorCatalog, testOptions(), newMemoryStore())
	_, err = client.GetLayout(ctx, "not-a-uuid")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetLayout(ctx, uuid.NewString())
	assert.Equal(t, codes.NotFound, status.Code(err))
}
