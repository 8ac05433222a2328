package history

// Checkpoint marks a point in the timeline that can be returned to by
// repeated undo or redo.
type Checkpoint struct {
	undoDepth int
}

// CreateCheckpoint captures the current undo depth.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{undoDepth: len(h.undoStack)}
}

// UndoToCheckpoint undoes every batch recorded since the checkpoint.
// Reports whether any batch was reverted.
func (h *History) UndoToCheckpoint(cp Checkpoint) bool {
	moved := false
	for len(h.undoStack) > cp.undoDepth {
		if !h.Undo() {
			break
		}
		moved = true
	}
	return moved
}

// RedoToCheckpoint redoes batches until the undo depth reaches the
// checkpoint again. Only works while the redo stack still holds them.
func (h *History) RedoToCheckpoint(cp Checkpoint) bool {
	moved := false
	for len(h.undoStack) < cp.undoDepth && h.CanRedo() {
		if !h.Redo() {
			break
		}
		moved = true
	}
	return moved
}
