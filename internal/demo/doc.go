// Package demo implements the interactive snapback demo: a tcell screen
// with a handful of tracked fields, key bindings for commit/undo/redo,
// and a status line fed by the engine's introspection calls.
//
// Configuration is read from an optional TOML file and re-read when the
// file changes on disk.
package demo
