package dungeon

import (
	"fmt"
	"sort"
)

// Layout is an accepted dungeon: the start room followed by every other
// room in acceptance order.
type Layout struct {
	// Rooms starts with the start room at the origin.
	Rooms []Placement
	// Attempts is the number of attempts the generator made, this one included.
	Attempts int
	// Iterations is the recursive call count of the accepted attempt.
	Iterations int
	// Seed is the seed of a reproducible run, or 0 when the source was not seeded.
	Seed uint64
}

// newLayout assembles a Layout from a successful search.
func newLayout(start *RoomTemplate, res *SearchResult) *Layout {
	rooms := make([]Placement, 0, len(res.Placements)+1)
	rooms = append(rooms, Placement{Template: start})
	rooms = append(rooms, res.Placements...)
	return &Layout{Rooms: rooms, Iterations: res.Iterations}
}

// Cells returns the occupancy of the layout.
//
// Postcondition: len(result) == len(l.Rooms) when the layout is valid.
func (l *Layout) Cells() map[Coord]*RoomTemplate {
	cells := make(map[Coord]*RoomTemplate, len(l.Rooms))
	for _, p := range l.Rooms {
		cells[p.Coord] = p.Template
	}
	return cells
}

// Hallways returns the doors that connect accepted rooms, one per non-start room.
func (l *Layout) Hallways() []Door {
	var doors []Door
	for _, p := range l.Rooms {
		if !p.IsStart() {
			doors = append(doors, p.Door)
		}
	}
	return doors
}

// Find returns the placements using the template with the given ID.
func (l *Layout) Find(id string) []Placement {
	var out []Placement
	for _, p := range l.Rooms {
		if p.Template.ID == id {
			out = append(out, p)
		}
	}
	return out
}

// Alternatives returns, for every room except the start, the templates that
// could replace it given its neighbours. In a valid layout every placed
// regular template is among its own alternatives.
func (l *Layout) Alternatives(catalog *Catalog) map[Coord][]*RoomTemplate {
	occ := NewOccupancy()
	for _, p := range l.Rooms {
		occ.Insert(p.Coord, p.Template)
	}
	out := make(map[Coord][]*RoomTemplate, len(l.Rooms)-1)
	for _, p := range l.Rooms {
		if p.IsStart() {
			continue
		}
		occ.Remove(p.Coord)
		out[p.Coord] = CompatibleAt(catalog, occ, p.Coord)
		occ.Insert(p.Coord, p.Template)
	}
	return out
}

// Bounds returns the inclusive corner cells of the layout.
//
// Precondition: l.Rooms must be non-empty.
func (l *Layout) Bounds() (minC, maxC Coord) {
	minC, maxC = l.Rooms[0].Coord, l.Rooms[0].Coord
	for _, p := range l.Rooms[1:] {
		minC.X = min(minC.X, p.Coord.X)
		minC.Y = min(minC.Y, p.Coord.Y)
		maxC.X = max(maxC.X, p.Coord.X)
		maxC.Y = max(maxC.Y, p.Coord.Y)
	}
	return minC, maxC
}

// Distances returns the door-path distance from the origin to every room,
// computed by breadth-first search over matching door pairs.
func (l *Layout) Distances() map[Coord]int {
	cells := l.Cells()
	dist := map[Coord]int{{}: 0}
	queue := []Coord{{}}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		t := cells[c]
		for _, d := range Directions {
			n := c.Step(d)
			nt, ok := cells[n]
			if !ok || !t.HasDoorOnSide(d) || !nt.HasDoorOnSide(d.Opposite()) {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// Validate checks the structural guarantees of an accepted layout against
// the catalog it was generated from.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (l *Layout) Validate(catalog *Catalog) error {
	if len(l.Rooms) == 0 {
		return fmt.Errorf("layout has no rooms")
	}
	if first := l.Rooms[0]; first.Template != catalog.Start() || first.Coord != (Coord{}) {
		return fmt.Errorf("layout must begin with start room %q at the origin", catalog.Start().ID)
	}

	cells := make(map[Coord]*RoomTemplate, len(l.Rooms))
	for _, p := range l.Rooms {
		if prev, dup := cells[p.Coord]; dup {
			return fmt.Errorf("cell %s holds both %q and %q", p.Coord, prev.ID, p.Template.ID)
		}
		cells[p.Coord] = p.Template
	}

	coords := make([]Coord, 0, len(cells))
	for c := range cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})
	for _, c := range coords {
		t := cells[c]
		for _, d := range Directions {
			n, ok := cells[c.Step(d)]
			if !ok {
				continue
			}
			if t.HasDoorOnSide(d) != n.HasDoorOnSide(d.Opposite()) {
				return fmt.Errorf("room %q at %s and %q at %s disagree on their shared %s wall",
					t.ID, c, n.ID, c.Step(d), d)
			}
		}
	}

	targets := l.Find(catalog.Target().ID)
	if len(targets) != 1 {
		return fmt.Errorf("target %q placed %d times, want exactly 1", catalog.Target().ID, len(targets))
	}
	dist := l.Distances()
	td, ok := dist[targets[0].Coord]
	if !ok {
		return fmt.Errorf("target %q at %s is unreachable from the start", catalog.Target().ID, targets[0].Coord)
	}
	if td < MinDepth {
		return fmt.Errorf("target %q at %s is %d rooms from the start, want >= %d",
			catalog.Target().ID, targets[0].Coord, td, MinDepth)
	}
	if len(dist) != len(cells) {
		return fmt.Errorf("%d of %d rooms are unreachable from the start", len(cells)-len(dist), len(cells))
	}
	return nil
}
