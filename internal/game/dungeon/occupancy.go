package dungeon

import "maps"

// Occupancy maps grid cells to the templates placing rooms there.
//
// Invariant: each Coord holds at most one template.
type Occupancy struct {
	cells map[Coord]*RoomTemplate
}

// NewOccupancy returns an empty occupancy map.
func NewOccupancy() *Occupancy {
	return &Occupancy{cells: make(map[Coord]*RoomTemplate)}
}

// Occupied reports whether c holds a room.
func (o *Occupancy) Occupied(c Coord) bool {
	_, ok := o.cells[c]
	return ok
}

// At returns the template at c, or nil.
func (o *Occupancy) At(c Coord) *RoomTemplate {
	return o.cells[c]
}

// Insert records t at c.
//
// Precondition: c must not be occupied. A double insert is a programming
// error and panics.
func (o *Occupancy) Insert(c Coord, t *RoomTemplate) {
	if _, ok := o.cells[c]; ok {
		panic("dungeon: Occupancy.Insert on occupied cell " + c.String())
	}
	o.cells[c] = t
}

// Remove clears c. Removing an empty cell is a no-op.
func (o *Occupancy) Remove(c Coord) {
	delete(o.cells, c)
}

// Len returns the number of occupied cells.
func (o *Occupancy) Len() int {
	return len(o.cells)
}

// Snapshot returns a copy of the cell map.
func (o *Occupancy) Snapshot() map[Coord]*RoomTemplate {
	return maps.Clone(o.cells)
}

// CompatibleAt lists the regular templates that could sit at c without a
// door opening into a wall: for every occupied neighbour, the candidate has
// a door on that side exactly when the neighbour has one facing back.
//
// Postcondition: Returned templates keep catalog order.
func CompatibleAt(catalog *Catalog, occ *Occupancy, c Coord) []*RoomTemplate {
	var out []*RoomTemplate
	for _, t := range catalog.Rooms() {
		if fitsNeighbours(t, occ, c) {
			out = append(out, t)
		}
	}
	return out
}

func fitsNeighbours(t *RoomTemplate, occ *Occupancy, c Coord) bool {
	for _, d := range Directions {
		n := occ.At(c.Step(d))
		if n == nil {
			continue
		}
		if t.HasDoorOnSide(d) != n.HasDoorOnSide(d.Opposite()) {
			return false
		}
	}
	return true
}
