// Package terminal draws dungeon layouts on a tcell screen and lets the user
// regenerate them interactively.
package terminal

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
)

var (
	styleRoom    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStart   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleTarget  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHallway = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)

const helpText = "g: regenerate  esc: quit"

type shownRoom struct {
	template *dungeon.RoomTemplate
	coord    dungeon.Coord
}

// Viewer is a dungeon.Presenter that keeps realised rooms and hallways and
// draws them on a tcell.Screen using the same grid as Layout.Render.
type Viewer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	catalog  *dungeon.Catalog
	rooms    map[int]shownRoom
	hallways map[int]dungeon.Door
	nextID   int
	status   string
}

// NewViewer creates a Viewer drawing on screen.
//
// Precondition: screen must already be initialised; catalog must be non-nil.
func NewViewer(screen tcell.Screen, catalog *dungeon.Catalog) *Viewer {
	return &Viewer{
		screen:   screen,
		catalog:  catalog,
		rooms:    make(map[int]shownRoom),
		hallways: make(map[int]dungeon.Door),
	}
}

// PlaceRoom implements dungeon.Presenter.
func (v *Viewer) PlaceRoom(t *dungeon.RoomTemplate, c dungeon.Coord) (dungeon.Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	v.rooms[v.nextID] = shownRoom{template: t, coord: c}
	return v.nextID, nil
}

// PlaceHallway implements dungeon.Presenter.
func (v *Viewer) PlaceHallway(d dungeon.Door) (dungeon.Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	v.hallways[v.nextID] = d
	return v.nextID, nil
}

// ReleaseAll implements dungeon.Presenter.
func (v *Viewer) ReleaseAll(handles []dungeon.Handle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, h := range handles {
		id, ok := h.(int)
		if !ok {
			return fmt.Errorf("releasing handle %v: not issued by this viewer", h)
		}
		delete(v.rooms, id)
		delete(v.hallways, id)
	}
	return nil
}

// SetStatus replaces the message shown after the key help.
func (v *Viewer) SetStatus(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = msg
}

// Draw renders the current rooms centred above a status line.
func (v *Viewer) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	w, h := v.screen.Size()

	if len(v.rooms) > 0 {
		minC, maxC := v.bounds()
		gridW := (maxC.X-minC.X)*2 + 1
		gridH := (maxC.Y-minC.Y)*2 + 1
		offX := max(0, (w-gridW)/2)
		offY := max(0, (h-1-gridH)/2)
		at := func(c dungeon.Coord, dx, dy int) (x, y int) {
			return offX + (c.X-minC.X)*2 + dx, offY + (maxC.Y-c.Y)*2 - dy
		}

		for _, d := range v.hallways {
			off := d.Direction.Offset()
			x, y := at(d.Coord, off.X, off.Y)
			glyph := rune(dungeon.GlyphVertical)
			if d.IsHorizontal() {
				glyph = dungeon.GlyphHorizontal
			}
			v.screen.SetContent(x, y, glyph, nil, styleHallway)
		}
		for _, r := range v.rooms {
			glyph, style := v.roomGlyph(r.template)
			x, y := at(r.coord, 0, 0)
			v.screen.SetContent(x, y, glyph, nil, style)
		}
	}

	line := fmt.Sprintf("%s  rooms: %d", helpText, len(v.rooms))
	if v.status != "" {
		line += "  " + v.status
	}
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		v.screen.SetContent(x, h-1, r, nil, styleStatus)
	}
	v.screen.Show()
}

func (v *Viewer) bounds() (minC, maxC dungeon.Coord) {
	first := true
	for _, r := range v.rooms {
		if first {
			minC, maxC = r.coord, r.coord
			first = false
			continue
		}
		minC.X = min(minC.X, r.coord.X)
		minC.Y = min(minC.Y, r.coord.Y)
		maxC.X = max(maxC.X, r.coord.X)
		maxC.Y = max(maxC.Y, r.coord.Y)
	}
	return minC, maxC
}

func (v *Viewer) roomGlyph(t *dungeon.RoomTemplate) (rune, tcell.Style) {
	switch t {
	case v.catalog.Start():
		return dungeon.GlyphStart, styleStart
	case v.catalog.Target():
		return dungeon.GlyphTarget, styleTarget
	default:
		return dungeon.GlyphRoom, styleRoom
	}
}

// pollEvents forwards screen events until the screen is finalised or done is
// closed. The second channel is closed when the polling goroutine exits.
func (v *Viewer) pollEvents(done <-chan struct{}) (<-chan tcell.Event, <-chan struct{}) {
	events := make(chan tcell.Event, 16)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events, stopped
}

// Run draws the viewer and handles keys until the user quits or ctx ends.
// 'g' calls regenerate, which is expected to replay a new layout through
// this viewer; its error is shown on the status line.
//
// Postcondition: Returns nil when the user quits, or ctx.Err().
func (v *Viewer) Run(ctx context.Context, regenerate func(context.Context) error) error {
	done := make(chan struct{})
	defer close(done)
	events, _ := v.pollEvents(done)

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					return nil
				}
				if ev.Key() == tcell.KeyRune && ev.Rune() == 'g' {
					if err := regenerate(ctx); err != nil {
						v.SetStatus("error: " + err.Error())
					} else {
						v.SetStatus("")
					}
					v.Draw()
				}
			case *tcell.EventResize:
				v.screen.Sync()
				v.Draw()
			}
		}
	}
}
