package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
)

// Hook names a presenter script may define. Missing hooks are no-ops.
const (
	HookPlaceRoom    = "place_room"
	HookPlaceHallway = "place_hallway"
	HookReleaseAll   = "release_all"
)

// Presenter implements dungeon.Presenter by calling Lua hooks:
//
//	place_room(id, x, y, doors)          -> handle
//	place_hallway(x, y, dir, horizontal) -> handle
//	release_all(handles)
//
// Handles are whatever the hook returns and are handed back unchanged.
type Presenter struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
	logger    *zap.Logger
}

// NewPresenter loads every *.lua file in scriptDir, in lexicographic order,
// into one sandboxed VM.
//
// Precondition: scriptDir must be a readable directory; logger must be non-nil.
// Postcondition: Returns a ready Presenter or a non-nil error.
func NewPresenter(scriptDir string, instLimit int, logger *zap.Logger) (*Presenter, error) {
	p := &Presenter{L: NewSandboxedState(), instLimit: instLimit, logger: logger}
	p.registerModules(p.L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		p.L.Close()
		return nil, fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		cancel := armLimit(p.L, instLimit)
		err := p.L.DoFile(path)
		cancel()
		if err != nil {
			p.L.Close()
			return nil, fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	return p, nil
}

// Close releases the VM.
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}

// PlaceRoom implements dungeon.Presenter.
func (p *Presenter) PlaceRoom(t *dungeon.RoomTemplate, c dungeon.Coord) (dungeon.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	doors := p.L.NewTable()
	for _, d := range t.Doors {
		doors.Append(lua.LString(d))
	}
	return p.call(HookPlaceRoom, lua.LString(t.ID), lua.LNumber(c.X), lua.LNumber(c.Y), doors)
}

// PlaceHallway implements dungeon.Presenter.
func (p *Presenter) PlaceHallway(d dungeon.Door) (dungeon.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.call(HookPlaceHallway,
		lua.LNumber(d.Coord.X), lua.LNumber(d.Coord.Y),
		lua.LString(d.Direction), lua.LBool(d.IsHorizontal()),
	)
}

// ReleaseAll implements dungeon.Presenter.
func (p *Presenter) ReleaseAll(handles []dungeon.Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	tbl := p.L.NewTable()
	for _, h := range handles {
		if v, ok := h.(lua.LValue); ok {
			tbl.Append(v)
		}
	}
	_, err := p.call(HookReleaseAll, tbl)
	return err
}

// call invokes hook and returns its first result, or nil if the hook is
// undefined or returned nil.
//
// Precondition: p.mu is held.
func (p *Presenter) call(hook string, args ...lua.LValue) (dungeon.Handle, error) {
	fn := p.L.GetGlobal(hook)
	if fn == lua.LNil {
		return nil, nil
	}

	cancel := armLimit(p.L, p.instLimit)
	defer cancel()
	if err := p.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		p.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return nil, fmt.Errorf("scripting: %s: %w", hook, err)
	}

	ret := p.L.Get(-1)
	p.L.Pop(1)
	if ret == lua.LNil {
		return nil, nil
	}
	return ret, nil
}
