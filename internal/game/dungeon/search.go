package dungeon

import (
	"errors"
	"fmt"
)

// ErrBudgetExceeded aborts a whole attempt once the search has made more
// recursive calls than its iteration threshold allows.
var ErrBudgetExceeded = errors.New("iteration budget exceeded")

// ErrExhausted is returned when every branch of an attempt dead-ended.
var ErrExhausted = errors.New("search exhausted without a layout")

// Placement is one accepted room: the template, its cell, the door it was
// attached through, and where it sits in the search.
type Placement struct {
	Template *RoomTemplate
	Coord    Coord
	// Door is the parent's door the room attached to. Zero for the start room.
	Door Door
	// Depth is the search depth at which the room was placed; the start is 0.
	Depth int
	// Distance is the number of doors between the start room and this room.
	Distance int
}

// IsStart reports whether p is the start room at the origin.
func (p Placement) IsStart() bool {
	return p.Depth == 0
}

// SearchOptions bounds one search attempt.
type SearchOptions struct {
	// IterationThreshold is the maximum number of recursive calls per attempt.
	IterationThreshold int
	// MaxSize caps the room count, start included. 0 disables the cap.
	MaxSize int
}

// SearchResult is the outcome of a successful attempt.
type SearchResult struct {
	// Placements lists accepted rooms beyond the start in acceptance order:
	// a room is accepted only after everything attached below it succeeded.
	Placements   []Placement
	Cells        map[Coord]*RoomTemplate
	Iterations   int
	TargetPlaced bool
}

// searchState is the per-attempt state threaded through the recursion.
type searchState struct {
	selector     *Selector
	target       *RoomTemplate
	opts         SearchOptions
	occ          *Occupancy
	iterations   int
	targetPlaced bool
	placements   []Placement

	// rollbackHook, when set, receives the occupancy before a candidate was
	// inserted and after it was rolled back.
	rollbackHook func(before, after map[Coord]*RoomTemplate)
}

// Search runs one attempt from the start room at the origin.
//
// Precondition: opts.IterationThreshold > 0.
// Postcondition: Returns a SearchResult, ErrBudgetExceeded, or ErrExhausted.
// The result may lack the target; callers decide whether that is acceptable.
func Search(catalog *Catalog, selector *Selector, opts SearchOptions) (*SearchResult, error) {
	st := newSearchState(catalog, selector, opts)
	return st.run(catalog.Start())
}

func newSearchState(catalog *Catalog, selector *Selector, opts SearchOptions) *searchState {
	return &searchState{
		selector: selector,
		target:   catalog.Target(),
		opts:     opts,
		occ:      NewOccupancy(),
	}
}

func (s *searchState) run(start *RoomTemplate) (*SearchResult, error) {
	s.occ.Insert(Coord{}, start)

	var f *frontier
	for _, d := range start.DoorsAt(Coord{}) {
		f = f.push(d, 0)
	}

	ok, err := s.search(f, 1)
	if err != nil {
		return nil, fmt.Errorf("%w after %d iterations", err, s.iterations)
	}
	if !ok {
		return nil, ErrExhausted
	}
	return &SearchResult{
		Placements:   s.placements,
		Cells:        s.occ.Snapshot(),
		Iterations:   s.iterations,
		TargetPlaced: s.targetPlaced,
	}, nil
}

// search resolves the top door of f. A false result with nil error is a
// local dead end; a non-nil error aborts the attempt.
func (s *searchState) search(f *frontier, depth int) (bool, error) {
	s.iterations++
	if s.iterations > s.opts.IterationThreshold {
		return false, ErrBudgetExceeded
	}

	if f.len() == 0 {
		return depth >= MinDepth, nil
	}

	door, dist, rest := f.pop()
	coord := door.TargetCoord()
	if s.occ.Occupied(coord) {
		return false, nil
	}
	if s.opts.MaxSize > 0 && s.occ.Len() >= s.opts.MaxSize {
		return false, nil
	}

	for _, cand := range s.selector.Candidates(door, dist+1, s.targetPlaced) {
		var before map[Coord]*RoomTemplate
		if s.rollbackHook != nil {
			before = s.occ.Snapshot()
		}

		s.occ.Insert(coord, cand)
		wasPlaced := s.targetPlaced
		if cand == s.target {
			s.targetPlaced = true
		}

		next := rest
		for _, nd := range cand.DoorsAt(coord) {
			if door.Matches(nd) {
				continue
			}
			next = next.push(nd, dist+1)
		}

		ok, err := s.search(next, depth+1)
		if err != nil {
			return false, err
		}
		if ok {
			s.placements = append(s.placements, Placement{
				Template: cand,
				Coord:    coord,
				Door:     door,
				Depth:    depth,
				Distance: dist + 1,
			})
			return true, nil
		}

		s.occ.Remove(coord)
		s.targetPlaced = wasPlaced
		if s.rollbackHook != nil {
			s.rollbackHook(before, s.occ.Snapshot())
		}
	}
	return false, nil
}
