// Package dungeon assembles dungeon layouts on an unbounded grid by
// attaching room templates to open doors with a backtracking search.
package dungeon

import "fmt"

// Direction is one of the four compass sides a room can have a door on.
type Direction string

// Compass directions. North is +Y, East is +X.
const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists the compass directions in a fixed order. Door expansion
// iterates in this order so that seeded runs stay reproducible.
var Directions = []Direction{North, South, East, West}

// ParseDirection converts a catalog string into a Direction.
//
// Postcondition: Returns a valid Direction or a non-nil error.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q: must be one of north, south, east, west", s)
	}
	return d, nil
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	switch d {
	case North, South, East, West:
		return true
	}
	return false
}

// Opposite returns the direction a neighbouring door must face for the two
// rooms to connect.
//
// Precondition: d must be valid.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	panic(fmt.Sprintf("dungeon: Opposite called on invalid direction %q", string(d)))
}

// Offset returns the unit grid step for d.
//
// Precondition: d must be valid.
func (d Direction) Offset() Coord {
	switch d {
	case North:
		return Coord{X: 0, Y: 1}
	case South:
		return Coord{X: 0, Y: -1}
	case East:
		return Coord{X: 1, Y: 0}
	case West:
		return Coord{X: -1, Y: 0}
	}
	panic(fmt.Sprintf("dungeon: Offset called on invalid direction %q", string(d)))
}

// IsHorizontal reports whether d runs east-west.
func (d Direction) IsHorizontal() bool {
	return d == East || d == West
}

// Coord is an integer grid cell. The start room sits at the origin.
type Coord struct {
	X int
	Y int
}

// Add returns c translated by o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Step returns the neighbouring cell of c in direction d.
func (c Coord) Step(d Direction) Coord {
	return c.Add(d.Offset())
}

// String renders c as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
