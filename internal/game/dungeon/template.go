package dungeon

import (
	"errors"
	"fmt"
)

// RoomTemplate is an immutable room definition from the catalog.
type RoomTemplate struct {
	// ID uniquely identifies this template within the catalog.
	ID string
	// Title is an optional display name.
	Title string
	// Doors lists the sides that carry a door, in catalog order without duplicates.
	Doors []Direction
	// Weight biases candidate ordering. Values below 1 count as 1.
	Weight int
}

// HasDoorOnSide reports whether t has a door on side d.
func (t *RoomTemplate) HasDoorOnSide(d Direction) bool {
	for _, door := range t.Doors {
		if door == d {
			return true
		}
	}
	return false
}

// EffectiveWeight returns the selection weight, floored at 1.
//
// Postcondition: return value >= 1.
func (t *RoomTemplate) EffectiveWeight() int {
	if t.Weight < 1 {
		return 1
	}
	return t.Weight
}

// DoorsAt returns the doors t exposes when placed at c, in compass order.
func (t *RoomTemplate) DoorsAt(c Coord) []Door {
	doors := make([]Door, 0, len(t.Doors))
	for _, d := range Directions {
		if t.HasDoorOnSide(d) {
			doors = append(doors, Door{Coord: c, Direction: d})
		}
	}
	return doors
}

// Validate checks template invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (t *RoomTemplate) Validate() error {
	if t.ID == "" {
		return errors.New("room template ID must not be empty")
	}
	seen := make(map[Direction]bool, len(t.Doors))
	for _, d := range t.Doors {
		if !d.Valid() {
			return fmt.Errorf("room %q: unknown door direction %q", t.ID, d)
		}
		if seen[d] {
			return fmt.Errorf("room %q: duplicate door %q", t.ID, d)
		}
		seen[d] = true
	}
	return nil
}

// Catalog is the immutable set of templates a generator draws from. The start
// and target templates are held apart from the regular pool: the start only
// ever occupies the origin and the target is injected by the selector.
type Catalog struct {
	rooms  []*RoomTemplate
	byID   map[string]*RoomTemplate
	start  *RoomTemplate
	target *RoomTemplate
}

// NewCatalog validates and indexes the given templates.
//
// Precondition: start and target must be IDs of templates in templates.
// Postcondition: Returns a Catalog or an error describing the first violation.
func NewCatalog(templates []*RoomTemplate, start, target string) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*RoomTemplate, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate room template ID %q", t.ID)
		}
		c.byID[t.ID] = t
	}

	if start == "" {
		return nil, errors.New("catalog start template must not be empty")
	}
	if target == "" {
		return nil, errors.New("catalog target template must not be empty")
	}
	if start == target {
		return nil, fmt.Errorf("catalog start and target must differ, both are %q", start)
	}
	var ok bool
	if c.start, ok = c.byID[start]; !ok {
		return nil, fmt.Errorf("catalog start template %q not found", start)
	}
	if c.target, ok = c.byID[target]; !ok {
		return nil, fmt.Errorf("catalog target template %q not found", target)
	}

	for _, t := range templates {
		if t != c.start && t != c.target {
			c.rooms = append(c.rooms, t)
		}
	}
	return c, nil
}

// Start returns the template placed at the origin.
func (c *Catalog) Start() *RoomTemplate { return c.start }

// Target returns the template that must appear at depth >= MinDepth.
func (c *Catalog) Target() *RoomTemplate { return c.target }

// Rooms returns the regular candidate templates in catalog order.
func (c *Catalog) Rooms() []*RoomTemplate { return c.rooms }

// Len returns the total number of templates, start and target included.
func (c *Catalog) Len() int { return len(c.byID) }

// Lookup returns the template with the given ID.
//
// Postcondition: Returns (template, true) if found, or (nil, false) otherwise.
func (c *Catalog) Lookup(id string) (*RoomTemplate, bool) {
	t, ok := c.byID[id]
	return t, ok
}
