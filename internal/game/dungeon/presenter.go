package dungeon

import (
	"fmt"
	"sync"
)

// Handle is an opaque reference to a realised room or hallway, returned by a
// Presenter and handed back to it on release.
type Handle any

// Presenter realises accepted layouts. The generator calls it only while
// replaying a layout that already passed the search; tentative placements
// never reach it.
type Presenter interface {
	// PlaceRoom realises template t at cell c.
	PlaceRoom(t *RoomTemplate, c Coord) (Handle, error)
	// PlaceHallway realises the hallway through door d; d.IsHorizontal picks
	// the variant.
	PlaceHallway(d Door) (Handle, error)
	// ReleaseAll disposes of every handle from a previous replay.
	ReleaseAll(handles []Handle) error
}

// NopPresenter discards every call.
type NopPresenter struct{}

// PlaceRoom implements Presenter.
func (NopPresenter) PlaceRoom(*RoomTemplate, Coord) (Handle, error) { return nil, nil }

// PlaceHallway implements Presenter.
func (NopPresenter) PlaceHallway(Door) (Handle, error) { return nil, nil }

// ReleaseAll implements Presenter.
func (NopPresenter) ReleaseAll([]Handle) error { return nil }

// PresentedRoom is a room recorded by RecordingPresenter.
type PresentedRoom struct {
	TemplateID string
	Coord      Coord
}

// PresentedHallway is a hallway recorded by RecordingPresenter.
type PresentedHallway struct {
	Door       Door
	Horizontal bool
}

// RecordingPresenter keeps realised rooms and hallways in memory. It backs
// the CLI and tests.
type RecordingPresenter struct {
	mu       sync.Mutex
	rooms    map[int]PresentedRoom
	hallways map[int]PresentedHallway
	order    []int
	nextID   int
	released int
}

// NewRecordingPresenter returns an empty RecordingPresenter.
func NewRecordingPresenter() *RecordingPresenter {
	return &RecordingPresenter{
		rooms:    make(map[int]PresentedRoom),
		hallways: make(map[int]PresentedHallway),
	}
}

// PlaceRoom implements Presenter.
func (r *RecordingPresenter) PlaceRoom(t *RoomTemplate, c Coord) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.rooms[r.nextID] = PresentedRoom{TemplateID: t.ID, Coord: c}
	r.order = append(r.order, r.nextID)
	return r.nextID, nil
}

// PlaceHallway implements Presenter.
func (r *RecordingPresenter) PlaceHallway(d Door) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.hallways[r.nextID] = PresentedHallway{Door: d, Horizontal: d.IsHorizontal()}
	r.order = append(r.order, r.nextID)
	return r.nextID, nil
}

// ReleaseAll implements Presenter.
//
// Postcondition: Returns an error naming the first handle this presenter never issued.
func (r *RecordingPresenter) ReleaseAll(handles []Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handles {
		id, ok := h.(int)
		if !ok {
			return fmt.Errorf("releasing handle %v: not issued by this presenter", h)
		}
		_, isRoom := r.rooms[id]
		_, isHall := r.hallways[id]
		if !isRoom && !isHall {
			return fmt.Errorf("releasing handle %d: unknown or already released", id)
		}
		delete(r.rooms, id)
		delete(r.hallways, id)
		r.released++
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := r.rooms[id]; ok {
			kept = append(kept, id)
		} else if _, ok := r.hallways[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
	return nil
}

// Rooms returns the live rooms in placement order.
func (r *RecordingPresenter) Rooms() []PresentedRoom {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PresentedRoom
	for _, id := range r.order {
		if room, ok := r.rooms[id]; ok {
			out = append(out, room)
		}
	}
	return out
}

// Hallways returns the live hallways in placement order.
func (r *RecordingPresenter) Hallways() []PresentedHallway {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []PresentedHallway
	for _, id := range r.order {
		if h, ok := r.hallways[id]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Released returns the number of handles released so far.
func (r *RecordingPresenter) Released() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
