package history

// Default capacities for a new engine.
const (
	DefaultUndoCapacity    = 64
	DefaultRedoCapacity    = 64
	DefaultScratchCapacity = 4096
	DefaultPendingCapacity = 16
)

// Option configures a History.
type Option func(*History)

// WithUndoCapacity pre-sizes the undo stack. The capacity is a growth
// hint, not a limit; see WithLimit for bounded depth.
func WithUndoCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.undoStack = make([]*batch, 0, n)
		}
	}
}

// WithRedoCapacity pre-sizes the redo stack.
func WithRedoCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.redoStack = make([]*batch, 0, n)
		}
	}
}

// WithScratchCapacity sets the scratch buffer size, which is the largest
// single region the engine will accept. Fixed for the engine's lifetime.
func WithScratchCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.scratch = make([]byte, n)
		}
	}
}

// WithPendingCapacity pre-sizes the pending region tracker.
func WithPendingCapacity(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.pending = make(map[uintptr]*region, n)
			h.order = make([]uintptr, 0, n)
		}
	}
}

// WithLimit bounds the undo stack depth. When a commit would exceed the
// limit the oldest batches are discarded. Zero (the default) means
// unlimited.
func WithLimit(n int) Option {
	return func(h *History) {
		if n >= 0 {
			h.limit = n
		}
	}
}
