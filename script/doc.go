// Package script exposes the history engine to Lua so undo/redo
// scenarios can be driven from scripts.
//
// A Session owns a sandboxed Lua state, a history engine, and a set of
// named cells. Cells are heap-allocated integers owned by the session,
// which gives the engine the stable addresses it requires. Scripts see a
// global `history` module:
//
//	history.cell("hp", 100)     -- create (or reset) a cell
//	history.track("hp")         -- register it for the next commit
//	history.set("hp", 75)
//	history.commit("take damage")
//	history.undo()              -- hp is 100 again
//	print(history.get("hp"))
//
// Only the base, table, string, and math libraries are opened; scripts
// have no file system or OS access.
package script
