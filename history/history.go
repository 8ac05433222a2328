package history

import (
	"bytes"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// autoCommitLabel marks batches recorded implicitly by Undo/Redo to
// capture edits the caller never committed.
const autoCommitLabel = "SaveCommit"

// History tracks pending region snapshots and manages the undo/redo
// stacks. Not safe for concurrent use.
type History struct {
	// Pending baselines, keyed by region address. order preserves
	// registration order so commits iterate deterministically.
	pending map[uintptr]*region
	order   []uintptr

	undoStack []*batch
	redoStack []*batch

	// Reusable buffer for the three-way exchange during undo/redo.
	// Its length is the hard ceiling on a single region's size.
	scratch []byte

	limit  int
	closed bool
}

// New creates a history engine.
func New(opts ...Option) *History {
	h := &History{
		pending:   make(map[uintptr]*region, DefaultPendingCapacity),
		order:     make([]uintptr, 0, DefaultPendingCapacity),
		undoStack: make([]*batch, 0, DefaultUndoCapacity),
		redoStack: make([]*batch, 0, DefaultRedoCapacity),
		scratch:   make([]byte, DefaultScratchCapacity),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Push registers size bytes at addr for change tracking, capturing the
// current contents as the baseline for the next commit. Registering an
// address that is already pending is a no-op, as is size <= 0. Regions
// larger than the scratch buffer are rejected with ErrRegionTooLarge.
func (h *History) Push(addr unsafe.Pointer, size int) error {
	if h.closed {
		return ErrClosed
	}
	if addr == nil {
		return ErrNilAddress
	}
	if size <= 0 {
		return nil
	}
	if size > len(h.scratch) {
		return ErrRegionTooLarge
	}

	key := uintptr(addr)
	if _, ok := h.pending[key]; ok {
		return nil
	}

	snap := make([]byte, size)
	copy(snap, unsafe.Slice((*byte)(addr), size))

	h.pending[key] = &region{ptr: addr, data: snap}
	h.order = append(h.order, key)
	return nil
}

// PushSlice registers count elements of elemSize bytes starting at first.
// A zero count is a no-op.
func (h *History) PushSlice(first unsafe.Pointer, elemSize, count int) error {
	if count <= 0 {
		return nil
	}
	return h.Push(first, elemSize*count)
}

// Commit diffs every pending region against live memory and freezes the
// regions that changed into one labeled batch on the undo stack. A
// recorded batch empties the redo stack. Pending registrations are always
// cleared, whether or not a batch was produced. Reports whether a batch
// was recorded.
func (h *History) Commit(label string) bool {
	if h.closed || len(h.order) == 0 {
		return false
	}

	var changes []change
	for _, key := range h.order {
		r := h.pending[key]
		if bytes.Equal(r.live(), r.data) {
			// Unchanged, the baseline is discarded.
			continue
		}
		changes = append(changes, change{ptr: r.ptr, data: r.data})
	}
	h.resetPending()

	if len(changes) == 0 {
		return false
	}

	// A new action invalidates every redo future.
	h.redoStack = nil

	h.undoStack = append(h.undoStack, &batch{
		id:      uuid.New(),
		label:   label,
		created: time.Now(),
		changes: changes,
	})

	if h.limit > 0 && len(h.undoStack) > h.limit {
		excess := len(h.undoStack) - h.limit
		h.undoStack = h.undoStack[excess:]
	}

	return true
}

// Undo reverts the most recent batch, moving it to the redo stack.
// Uncommitted edits are auto-committed first. Returns false if there is
// nothing to undo.
func (h *History) Undo() bool {
	if h.closed {
		return false
	}
	return h.shift(&h.undoStack, &h.redoStack)
}

// Redo re-applies the most recently undone batch, moving it back to the
// undo stack. Uncommitted edits are auto-committed first; if that records
// a batch it empties the redo stack and Redo returns false. Returns false
// if there is nothing to redo.
func (h *History) Redo() bool {
	if h.closed {
		return false
	}
	return h.shift(&h.redoStack, &h.undoStack)
}

// shift pops the top batch of src, exchanges its stored bytes with live
// memory, and pushes the now-inverted batch onto dst.
func (h *History) shift(src, dst *[]*batch) bool {
	h.Commit(autoCommitLabel)

	n := len(*src)
	if n == 0 {
		return false
	}
	b := (*src)[n-1]
	*src = (*src)[:n-1]

	// Apply in reverse of commit order so composite edits whose later
	// baselines depended on earlier values land consistently. The batch
	// keeps its stored order, which the opposite direction replays
	// forward.
	for i := len(b.changes) - 1; i >= 0; i-- {
		h.exchange(&b.changes[i])
	}

	*dst = append(*dst, b)
	return true
}

// exchange swaps live memory with the change's stored bytes through the
// scratch buffer. Region size was validated against the scratch capacity
// at registration.
func (h *History) exchange(c *change) {
	live := unsafe.Slice((*byte)(c.ptr), len(c.data))
	tmp := h.scratch[:len(c.data)]
	copy(tmp, live)
	copy(live, c.data)
	copy(c.data, tmp)
}

// ClearPending discards every pending baseline without committing.
func (h *History) ClearPending() {
	if h.closed {
		return
	}
	h.resetPending()
}

func (h *History) resetPending() {
	clear(h.pending)
	h.order = h.order[:0]
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of batches on the undo stack.
func (h *History) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of batches on the redo stack.
func (h *History) RedoCount() int {
	return len(h.redoStack)
}

// UndoSize returns the total stored bytes across all undo batches.
// Computed on demand, O(total changes).
func (h *History) UndoSize() int {
	return stackSize(h.undoStack)
}

// RedoSize returns the total stored bytes across all redo batches.
func (h *History) RedoSize() int {
	return stackSize(h.redoStack)
}

func stackSize(stack []*batch) int {
	total := 0
	for _, b := range stack {
		total += b.size()
	}
	return total
}

// PendingCount returns the number of regions awaiting commit.
func (h *History) PendingCount() int {
	return len(h.order)
}

// PendingSize returns the total baseline bytes awaiting commit.
func (h *History) PendingSize() int {
	total := 0
	for _, key := range h.order {
		total += len(h.pending[key].data)
	}
	return total
}

// UndoInfo returns info about every undo batch, oldest first.
func (h *History) UndoInfo() []BatchInfo {
	return stackInfo(h.undoStack)
}

// RedoInfo returns info about every redo batch, oldest first.
func (h *History) RedoInfo() []BatchInfo {
	return stackInfo(h.redoStack)
}

func stackInfo(stack []*batch) []BatchInfo {
	result := make([]BatchInfo, len(stack))
	for i, b := range stack {
		result[i] = b.info()
	}
	return result
}

// PeekUndo returns info about the batch Undo would revert next.
func (h *History) PeekUndo() (BatchInfo, bool) {
	if len(h.undoStack) == 0 {
		return BatchInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the batch Redo would re-apply next.
func (h *History) PeekRedo() (BatchInfo, bool) {
	if len(h.redoStack) == 0 {
		return BatchInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetLimit changes the undo stack depth limit. If the stack is already
// deeper, the oldest batches are discarded. Zero means unlimited.
func (h *History) SetLimit(n int) {
	if h.closed || n < 0 {
		return
	}

	h.limit = n

	if n > 0 && len(h.undoStack) > n {
		excess := len(h.undoStack) - n
		h.undoStack = h.undoStack[excess:]
	}
}

// Limit returns the undo stack depth limit.
func (h *History) Limit() int {
	return h.limit
}

// Clear drops both stacks and all pending baselines. The engine remains
// usable; tracked memory is left as-is.
func (h *History) Clear() {
	if h.closed {
		return
	}
	h.undoStack = nil
	h.redoStack = nil
	h.resetPending()
}

// Close releases everything the engine owns. Safe to call more than
// once; all operations on a closed engine are rejected.
func (h *History) Close() {
	if h.closed {
		return
	}
	h.undoStack = nil
	h.redoStack = nil
	h.pending = nil
	h.order = nil
	h.scratch = nil
	h.closed = true
}
