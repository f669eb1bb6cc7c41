package dungeon

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/dungeongen/internal/game/random"
)

// mixedCatalogYAML is a catalog where every side has dead ends, corridors
// and corners, so most seeds settle within a few attempts.
const mixedCatalogYAML = `
catalog:
  start: entrance
  target: vault
  rooms:
    - id: entrance
      title: "Entrance Hall"
      doors: [north, south, east, west]
    - id: vault
      title: "Treasure Vault"
      doors: [north, south, east, west]
    - id: cap_n
      doors: [north]
    - id: cap_s
      doors: [south]
    - id: cap_e
      doors: [east]
    - id: cap_w
      doors: [west]
    - id: hall_ns
      doors: [north, south]
      weight: 3
    - id: hall_ew
      doors: [east, west]
      weight: 3
    - id: bend_ne
      doors: [north, east]
      weight: 2
    - id: bend_nw
      doors: [north, west]
      weight: 2
    - id: bend_se
      doors: [south, east]
      weight: 2
    - id: bend_sw
      doors: [south, west]
      weight: 2
`

// chainCatalogYAML only grows north: a straight corridor ending in the target.
const chainCatalogYAML = `
catalog:
  start: gate
  target: throne
  rooms:
    - id: gate
      doors: [north]
    - id: throne
      doors: [south]
    - id: heavy
      doors: [north, south]
      weight: 10
    - id: light
      doors: [north, south]
      weight: 1
`

func mustCatalog(t testing.TB, src string) *Catalog {
	t.Helper()
	c, err := LoadCatalogFromBytes([]byte(src))
	require.NoError(t, err)
	return c
}

func defaultOptions() Options {
	return Options{IterationThreshold: 5000, MaxSize: 0, MaxAttempts: 200}
}

func newTestGenerator(t *testing.T, catalog *Catalog, seed uint64, p Presenter) *Generator {
	t.Helper()
	opts := defaultOptions()
	opts.Seed = seed
	g, err := NewGenerator(catalog, random.NewSeededSource(seed), p, opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

// constSource always returns 0, which leaves Fisher-Yates input order intact.
type constSource struct{}

func (constSource) Intn(int) int { return 0 }
