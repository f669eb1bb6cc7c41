package dungeon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dungeongen/internal/game/random"
)

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, defaultOptions().Validate())
	assert.Error(t, Options{IterationThreshold: 0, MaxAttempts: 1}.Validate())
	assert.Error(t, Options{IterationThreshold: 1, MaxAttempts: 0}.Validate())
	assert.Error(t, Options{IterationThreshold: 1, MaxAttempts: 1, MaxSize: -1}.Validate())
}

func TestNewGenerator_RejectsInvalidOptions(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	_, err := NewGenerator(c, random.NewSeededSource(1), NopPresenter{}, Options{}, zap.NewNop())
	assert.Error(t, err)
}

func TestGenerator_ChainLayout(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	rec := NewRecordingPresenter()
	g := newTestGenerator(t, c, 11, rec)

	layout, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.NoError(t, layout.Validate(c))

	assert.Equal(t, 1, layout.Attempts)
	assert.Equal(t, uint64(11), layout.Seed)
	require.Len(t, layout.Rooms, 6)
	assert.True(t, layout.Rooms[0].IsStart())
	assert.Len(t, layout.Find("throne"), 1)

	rooms := rec.Rooms()
	require.Len(t, rooms, 6)
	assert.Equal(t, PresentedRoom{TemplateID: "gate", Coord: Coord{}}, rooms[0])

	halls := rec.Hallways()
	assert.Len(t, halls, 5)
	for _, h := range halls {
		assert.False(t, h.Horizontal, "a north-south chain only has vertical hallways")
	}
}

func TestGenerator_RegenerateReleasesPrevious(t *testing.T) {
	c := mustCatalog(t, mixedCatalogYAML)
	rec := NewRecordingPresenter()
	g := newTestGenerator(t, c, 99, rec)

	first, err := g.Generate(context.Background())
	require.NoError(t, err)
	placed := len(first.Rooms)*2 - 1
	assert.Equal(t, 0, rec.Released())

	second, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, placed, rec.Released())
	assert.Len(t, rec.Rooms(), len(second.Rooms))
	assert.Len(t, rec.Hallways(), len(second.Rooms)-1)
}

func TestGenerator_HallwayOrientationFollowsDoor(t *testing.T) {
	c := mustCatalog(t, mixedCatalogYAML)
	rec := NewRecordingPresenter()
	g := newTestGenerator(t, c, 5, rec)

	_, err := g.Generate(context.Background())
	require.NoError(t, err)
	for _, h := range rec.Hallways() {
		assert.Equal(t, h.Door.Direction == East || h.Door.Direction == West, h.Horizontal)
	}
}

func TestGenerator_BareCatalogIsInfeasible(t *testing.T) {
	c := mustCatalog(t, bareCatalogYAML)
	core, logs := observer.New(zap.DebugLevel)
	opts := Options{IterationThreshold: 1000, MaxAttempts: 5}
	g, err := NewGenerator(c, random.NewSeededSource(1), NopPresenter{}, opts, zap.New(core))
	require.NoError(t, err)

	layout, err := g.Generate(context.Background())
	assert.Nil(t, layout)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.ErrorIs(t, err, ErrExhausted)

	assert.Equal(t, 5, logs.FilterMessage("generation attempt failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("dungeon generation infeasible").Len())
}

func TestGenerator_BudgetExhaustionIsRetriedThenInfeasible(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	opts := Options{IterationThreshold: 2, MaxAttempts: 3}
	g, err := NewGenerator(c, random.NewSeededSource(1), NopPresenter{}, opts, zap.NewNop())
	require.NoError(t, err)

	_, err = g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestGenerator_TargetMissingIsRetried(t *testing.T) {
	// The target can only hang off an east door, which nothing provides, so
	// every successful search lacks it.
	c, err := NewCatalog([]*RoomTemplate{
		{ID: "gate", Doors: []Direction{North}},
		{ID: "throne", Doors: []Direction{West}},
		{ID: "hall", Doors: []Direction{North, South}},
		{ID: "end", Doors: []Direction{South}},
	}, "gate", "throne")
	require.NoError(t, err)

	g, err := NewGenerator(c, random.NewSeededSource(3), NopPresenter{}, Options{IterationThreshold: 500, MaxAttempts: 4}, zap.NewNop())
	require.NoError(t, err)
	_, err = g.Generate(context.Background())
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.True(t, errors.Is(err, ErrTargetMissing) || errors.Is(err, ErrBudgetExceeded))
}

func TestGenerator_ContextCancelled(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	g := newTestGenerator(t, c, 1, NopPresenter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingPresenter struct {
	NopPresenter
	failRooms bool
}

func (f failingPresenter) PlaceRoom(*RoomTemplate, Coord) (Handle, error) {
	if f.failRooms {
		return nil, errors.New("scene unavailable")
	}
	return nil, nil
}

func TestGenerator_PresenterErrorSurfaces(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	g := newTestGenerator(t, c, 1, failingPresenter{failRooms: true})
	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInfeasible)
	assert.Contains(t, err.Error(), "scene unavailable")
}

func TestGenerator_SameSeedSameLayout(t *testing.T) {
	c := mustCatalog(t, mixedCatalogYAML)
	for _, seed := range []uint64{1, 7, 12345} {
		recA, recB := NewRecordingPresenter(), NewRecordingPresenter()
		a, err := newTestGenerator(t, c, seed, recA).Generate(context.Background())
		require.NoError(t, err)
		b, err := newTestGenerator(t, c, seed, recB).Generate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, a.Rooms, b.Rooms, "seed %d", seed)
		assert.Equal(t, a.Attempts, b.Attempts)
		assert.Equal(t, recA.Rooms(), recB.Rooms())
		assert.Equal(t, recA.Hallways(), recB.Hallways())
	}
}

func TestGenerator_WeightedRoomWinsFirstCorridor(t *testing.T) {
	c := mustCatalog(t, chainCatalogYAML)
	counts := map[string]int{}
	for seed := uint64(1); seed <= 300; seed++ {
		layout, err := newTestGenerator(t, c, seed, NopPresenter{}).Generate(context.Background())
		require.NoError(t, err)
		counts[layout.Cells()[Coord{X: 0, Y: 1}].ID]++
	}
	assert.Greater(t, counts["heavy"], counts["light"])
}

func TestPropertyGeneratedLayoutsAreValid(t *testing.T) {
	c := mustCatalog(t, mixedCatalogYAML)
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64Range(1, 1<<40).Draw(t, "seed")
		opts := defaultOptions()
		g, err := NewGenerator(c, random.NewSeededSource(seed), NopPresenter{}, opts, zap.NewNop())
		require.NoError(t, err)

		layout, err := g.Generate(context.Background())
		require.NoError(t, err)
		require.NoError(t, layout.Validate(c))

		dist := layout.Distances()
		target := layout.Find(c.Target().ID)
		require.Len(t, target, 1)
		assert.GreaterOrEqual(t, dist[target[0].Coord], MinDepth)
		assert.Equal(t, target[0].Distance, dist[target[0].Coord])
	})
}
