package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
	"github.com/cory-johannsen/dungeongen/internal/game/random"
	"github.com/cory-johannsen/dungeongen/internal/storage/postgres"
	"github.com/cory-johannsen/dungeongen/internal/testutil"
)

const testCatalog = `
catalog:
  start: gate
  target: throne
  rooms:
    - id: gate
      doors: [north, east]
    - id: throne
      doors: [south]
    - id: hall_ns
      doors: [north, south]
    - id: bend_wn
      doors: [west, north]
    - id: cap_s
      doors: [south]
    - id: cap_w
      doors: [west]
`

func generateLayout(t *testing.T, seed uint64) (*dungeon.Catalog, *dungeon.Layout) {
	t.Helper()
	catalog, err := dungeon.LoadCatalogFromBytes([]byte(testCatalog))
	require.NoError(t, err)
	opts := dungeon.Options{IterationThreshold: 5000, MaxAttempts: 200, Seed: seed}
	g, err := dungeon.NewGenerator(catalog, random.NewSeededSource(seed), dungeon.NopPresenter{}, opts, zap.NewNop())
	require.NoError(t, err)
	layout, err := g.Generate(context.Background())
	require.NoError(t, err)
	return catalog, layout
}

func TestLayoutRepository_SaveAndGet(t *testing.T) {
	repo := postgres.NewLayoutRepository(testutil.NewPool(t))
	ctx := context.Background()
	catalog, layout := generateLayout(t, 1<<63+5)

	id, err := repo.Save(ctx, "test", layout)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	got, err := repo.Get(ctx, id, catalog)
	require.NoError(t, err)
	assert.Equal(t, layout.Rooms, got.Rooms)
	assert.Equal(t, layout.Seed, got.Seed, "seeds above MaxInt64 survive the BIGINT column")
	assert.Equal(t, layout.Attempts, got.Attempts)
	assert.Equal(t, layout.Iterations, got.Iterations)
	assert.NoError(t, got.Validate(catalog))
}

func TestLayoutRepository_GetNotFound(t *testing.T) {
	repo := postgres.NewLayoutRepository(testutil.NewPool(t))
	catalog, _ := generateLayout(t, 2)
	_, err := repo.Get(context.Background(), uuid.New(), catalog)
	assert.ErrorIs(t, err, postgres.ErrLayoutNotFound)
}

func TestLayoutRepository_GetUnknownTemplate(t *testing.T) {
	repo := postgres.NewLayoutRepository(testutil.NewPool(t))
	ctx := context.Background()
	_, layout := generateLayout(t, 3)
	id, err := repo.Save(ctx, "test", layout)
	require.NoError(t, err)

	other, err := dungeon.NewCatalog([]*dungeon.RoomTemplate{
		{ID: "a", Doors: []dungeon.Direction{dungeon.North}},
		{ID: "b", Doors: []dungeon.Direction{dungeon.South}},
	}, "a", "b")
	require.NoError(t, err)
	_, err = repo.Get(ctx, id, other)
	assert.ErrorContains(t, err, "missing from catalog")
}

func TestLayoutRepository_ListAndDelete(t *testing.T) {
	repo := postgres.NewLayoutRepository(testutil.NewPool(t))
	ctx := context.Background()

	var ids []uuid.UUID
	for seed := uint64(10); seed < 13; seed++ {
		_, layout := generateLayout(t, seed)
		id, err := repo.Save(ctx, "test", layout)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	for _, s := range recent {
		assert.Equal(t, "test", s.Catalog)
		assert.GreaterOrEqual(t, s.RoomCount, dungeon.MinDepth+1)
	}

	require.NoError(t, repo.Delete(ctx, ids[0]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[0]), postgres.ErrLayoutNotFound)

	all, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
