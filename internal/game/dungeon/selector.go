package dungeon

import "github.com/cory-johannsen/dungeongen/internal/game/random"

// MinDepth is the shallowest depth at which a branch may terminate and the
// target room may be placed.
const MinDepth = 5

// Selector orders candidate templates for a door.
type Selector struct {
	catalog *Catalog
	src     random.Source
}

// NewSelector creates a Selector drawing randomness from src.
//
// Precondition: catalog and src must be non-nil.
func NewSelector(catalog *Catalog, src random.Source) *Selector {
	return &Selector{catalog: catalog, src: src}
}

// Candidates returns the templates to try at door, in priority order.
//
// Regular templates with a door on the matching side are repeated once per
// unit of weight and shuffled, so heavier templates both lead more often and
// get retried more often. Once depth reaches MinDepth and the target is still
// unplaced, the target is tried first when it fits.
//
// Postcondition: A regular template appears exactly EffectiveWeight times;
// the target appears at most once, at index 0. An empty result is valid.
func (s *Selector) Candidates(door Door, depth int, targetPlaced bool) []*RoomTemplate {
	side := door.MatchingDirection()

	var pool []*RoomTemplate
	for _, t := range s.catalog.Rooms() {
		if !t.HasDoorOnSide(side) {
			continue
		}
		for i := 0; i < t.EffectiveWeight(); i++ {
			pool = append(pool, t)
		}
	}
	random.Shuffle(s.src, pool)

	out := make([]*RoomTemplate, 0, len(pool)+1)
	target := s.catalog.Target()
	if !targetPlaced && depth >= MinDepth && target.HasDoorOnSide(side) {
		out = append(out, target)
	}
	return append(out, pool...)
}
