// Package history provides an in-process undo/redo engine that tracks
// fixed-address memory regions by byte-level snapshot instead of per-type
// command objects.
//
// # Model
//
// Callers register the regions an action may touch, mutate them freely,
// then commit:
//
//	h := history.New()
//	history.Track(h, &player.X)
//	history.Track(h, &player.Y)
//	player.X, player.Y = 4, 2
//	h.Commit("Move player")
//
// Commit diffs every registered region against its baseline snapshot.
// Regions that changed are frozen into a single labeled batch on the undo
// stack; unchanged regions are discarded. Undo and Redo exchange a batch's
// stored bytes with live memory, so the same batch flips between "state to
// restore on undo" and "state to restore on redo" as it moves between the
// two stacks.
//
// Both Undo and Redo first auto-commit any still-registered edits under
// the label "SaveCommit". Note the consequence: mutating tracked state and
// calling Redo without an explicit Commit records a new batch, which
// empties the redo stack before Redo tries to pop from it.
//
// # Constraints
//
// Only storage whose address is stable for the tracked lifetime may be
// registered: struct fields, heap-allocated values, slice backing arrays
// that are never grown. Registering storage that a container may relocate
// (an appended-to slice, a map value) is unsupported and will corrupt the
// timeline silently.
//
// Regions larger than the engine's scratch buffer are rejected at
// registration with ErrRegionTooLarge; size the buffer via
// WithScratchCapacity.
//
// The engine performs no locking. Callers that share an engine or its
// tracked regions across goroutines must serialize access externally.
package history
