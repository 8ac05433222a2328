package script

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/snapback/history"
)

// Session wraps a Lua state bound to a history engine.
//
// gopher-lua's LState is not goroutine-safe; all Session methods must be
// called from a single goroutine.
type Session struct {
	L *lua.LState

	hist  *history.History
	cells map[string]*int64

	closed bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistory supplies a pre-configured engine. The session takes
// ownership and closes it with Close.
func WithHistory(h *history.History) SessionOption {
	return func(s *Session) {
		s.hist = h
	}
}

// NewSession creates a sandboxed Lua session with the history module
// registered.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		cells: make(map[string]*int64),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.hist == nil {
		s.hist = history.New()
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	s.L = L

	openSafeLibraries(L)
	s.registerHistoryModule()

	return s, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// registerHistoryModule installs the global `history` table.
func (s *Session) registerHistoryModule() {
	funcs := map[string]lua.LGFunction{
		"cell":          s.luaCell,
		"set":           s.luaSet,
		"get":           s.luaGet,
		"track":         s.luaTrack,
		"track_all":     s.luaTrackAll,
		"commit":        s.luaCommit,
		"undo":          s.luaUndo,
		"redo":          s.luaRedo,
		"undo_count":    s.luaUndoCount,
		"redo_count":    s.luaRedoCount,
		"pending_count": s.luaPendingCount,
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal("history", mod)
}

// luaCell creates a cell, or resets an existing cell's value without
// changing its address.
func (s *Session) luaCell(L *lua.LState) int {
	name := L.CheckString(1)
	v := int64(L.OptNumber(2, 0))

	c, ok := s.cells[name]
	if !ok {
		c = new(int64)
		s.cells[name] = c
	}
	*c = v
	return 0
}

func (s *Session) luaSet(L *lua.LState) int {
	c := s.checkCell(L, 1)
	*c = int64(L.CheckNumber(2))
	return 0
}

func (s *Session) luaGet(L *lua.LState) int {
	c := s.checkCell(L, 1)
	L.Push(lua.LNumber(*c))
	return 1
}

func (s *Session) luaTrack(L *lua.LState) int {
	c := s.checkCell(L, 1)
	if err := history.Track(s.hist, c); err != nil {
		L.RaiseError("track: %v", err)
	}
	return 0
}

// luaTrackAll registers every cell, in name order so commits are
// deterministic.
func (s *Session) luaTrackAll(L *lua.LState) int {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := history.Track(s.hist, s.cells[name]); err != nil {
			L.RaiseError("track %q: %v", name, err)
		}
	}
	return 0
}

func (s *Session) luaCommit(L *lua.LState) int {
	label := L.OptString(1, "")
	L.Push(lua.LBool(s.hist.Commit(label)))
	return 1
}

func (s *Session) luaUndo(L *lua.LState) int {
	L.Push(lua.LBool(s.hist.Undo()))
	return 1
}

func (s *Session) luaRedo(L *lua.LState) int {
	L.Push(lua.LBool(s.hist.Redo()))
	return 1
}

func (s *Session) luaUndoCount(L *lua.LState) int {
	L.Push(lua.LNumber(s.hist.UndoCount()))
	return 1
}

func (s *Session) luaRedoCount(L *lua.LState) int {
	L.Push(lua.LNumber(s.hist.RedoCount()))
	return 1
}

func (s *Session) luaPendingCount(L *lua.LState) int {
	L.Push(lua.LNumber(s.hist.PendingCount()))
	return 1
}

// checkCell resolves the cell named at the given argument position,
// raising a Lua error if it does not exist.
func (s *Session) checkCell(L *lua.LState, pos int) *int64 {
	name := L.CheckString(pos)
	c, ok := s.cells[name]
	if !ok {
		L.RaiseError("unknown cell %q", name)
	}
	return c
}

// DoString executes a Lua string. Execution is synchronous.
func (s *Session) DoString(code string) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.doWithRecovery(func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file. Execution is synchronous.
func (s *Session) DoFile(path string) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.doWithRecovery(func() error {
		return s.L.DoFile(path)
	})
}

// doWithRecovery executes a function with panic recovery.
func (s *Session) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Cell returns the current value of a named cell.
func (s *Session) Cell(name string) (int64, bool) {
	c, ok := s.cells[name]
	if !ok {
		return 0, false
	}
	return *c, true
}

// History returns the session's engine, for introspection from Go.
func (s *Session) History() *history.History {
	return s.hist
}

// IsClosed returns true if the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state and the history engine. Safe to call more
// than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.hist.Close()
	s.closed = true
	return nil
}
