package dungeon

// Door is one pending, unattached connection point: the cell of the room it
// belongs to and the side it opens on.
type Door struct {
	Coord     Coord
	Direction Direction
}

// MatchingDirection returns the side a room must have a door on to attach
// to d.
func (d Door) MatchingDirection() Direction {
	return d.Direction.Opposite()
}

// TargetCoord returns the cell d opens into.
func (d Door) TargetCoord() Coord {
	return d.Coord.Step(d.Direction)
}

// Matches reports whether other is the door facing back through d: it sits
// in the cell d opens into and points the opposite way.
func (d Door) Matches(other Door) bool {
	return other.Coord == d.TargetCoord() && other.Direction == d.MatchingDirection()
}

// IsHorizontal reports whether the hallway through d runs east-west.
func (d Door) IsHorizontal() bool {
	return d.Direction.IsHorizontal()
}

// frontier is a persistent LIFO stack of doors. Pushing never mutates an
// existing frontier, so sibling branches of the search can share a tail
// without aliasing. Each entry carries the path distance from the start room
// to the room owning the door.
type frontier struct {
	door Door
	dist int
	next *frontier
	size int
}

// push returns a new frontier with door on top.
func (f *frontier) push(door Door, dist int) *frontier {
	return &frontier{door: door, dist: dist, next: f, size: f.len() + 1}
}

// pop returns the top door, its owner's distance, and the remaining frontier.
//
// Precondition: f must be non-empty.
func (f *frontier) pop() (Door, int, *frontier) {
	return f.door, f.dist, f.next
}

func (f *frontier) len() int {
	if f == nil {
		return 0
	}
	return f.size
}

// doors returns the frontier contents from bottom to top.
func (f *frontier) doors() []Door {
	out := make([]Door, f.len())
	for i, n := len(out)-1, f; n != nil; i, n = i-1, n.next {
		out[i] = n.door
	}
	return out
}
