package history

import (
	"errors"
	"testing"
	"unsafe"
)

// Diff correctness: a batch is produced iff live bytes differ from the
// baseline captured at registration.

func TestCommitRecordsChangedRegion(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	if err := Track(h, &a); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	a = 1

	if !h.Commit("set a") {
		t.Fatal("commit should record a batch")
	}
	if h.UndoCount() != 1 {
		t.Errorf("undo count = %d, want 1", h.UndoCount())
	}
	if h.PendingCount() != 0 {
		t.Errorf("pending count = %d, want 0 after commit", h.PendingCount())
	}
}

func TestCommitSkipsUnchangedRegion(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(7)
	Track(h, &a)

	if h.Commit("nothing") {
		t.Error("commit of unchanged region should not record a batch")
	}
	if h.UndoCount() != 0 {
		t.Errorf("undo count = %d, want 0", h.UndoCount())
	}
	if h.PendingCount() != 0 {
		t.Error("pending should be cleared even when no batch was produced")
	}
}

func TestCommitMixedRegions(t *testing.T) {
	h := New()
	defer h.Close()

	a, b := int64(1), int64(2)
	Track(h, &a)
	Track(h, &b)
	b = 20

	if !h.Commit("partial") {
		t.Fatal("commit should record a batch")
	}

	info, ok := h.PeekUndo()
	if !ok {
		t.Fatal("expected a batch on the undo stack")
	}
	if info.Changes != 1 {
		t.Errorf("batch changes = %d, want 1 (unchanged region discarded)", info.Changes)
	}
	if info.Bytes != 8 {
		t.Errorf("batch bytes = %d, want 8", info.Bytes)
	}
	if info.Label != "partial" {
		t.Errorf("label = %q, want %q", info.Label, "partial")
	}
}

func TestCommitEmptyPending(t *testing.T) {
	h := New()
	defer h.Close()

	if h.Commit("empty") {
		t.Error("commit with nothing pending should be a no-op")
	}
}

// Duplicate registration is a no-op: the first baseline wins.

func TestDuplicatePush(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 5
	Track(h, &a) // must not re-capture the mutated value

	if h.PendingCount() != 1 {
		t.Errorf("pending count = %d, want 1", h.PendingCount())
	}

	h.Commit("set a")
	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if a != 0 {
		t.Errorf("a = %d, want 0 (baseline from first push)", a)
	}
}

// Any recorded commit invalidates all redo futures.

func TestCommitClearsRedoStack(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("first")
	h.Undo()

	if h.RedoCount() != 1 {
		t.Fatalf("redo count = %d, want 1", h.RedoCount())
	}

	Track(h, &a)
	a = 9
	if !h.Commit("second") {
		t.Fatal("commit should record a batch")
	}

	if h.RedoCount() != 0 {
		t.Errorf("redo count = %d, want 0 after new commit", h.RedoCount())
	}
}

// Undo/redo against empty stacks: false, no mutation.

func TestEmptyStacks(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(42)
	if h.Undo() {
		t.Error("undo on empty stack should return false")
	}
	if h.Redo() {
		t.Error("redo on empty stack should return false")
	}
	if a != 42 {
		t.Errorf("a = %d, want 42 (untouched)", a)
	}
}

// Reference scenario: two tracked integers through a full
// undo/undo/redo/redo/undo/undo/undo cycle.

func TestUndoRedoScenario(t *testing.T) {
	h := New()
	defer h.Close()

	a, b := int64(0), int64(0)

	Track(h, &a)
	Track(h, &a) // duplicate, no-op
	a = 1
	h.Commit("A")

	Track(h, &b)
	b = 1
	h.Commit("B")

	steps := []struct {
		name    string
		op      func() bool
		want    bool
		a, bVal int64
	}{
		{"undo B", h.Undo, true, 1, 0},
		{"undo A", h.Undo, true, 0, 0},
		{"redo A", h.Redo, true, 1, 0},
		{"redo B", h.Redo, true, 1, 1},
		{"undo B again", h.Undo, true, 1, 0},
		{"undo A again", h.Undo, true, 0, 0},
		{"undo exhausted", h.Undo, false, 0, 0},
	}

	for _, tt := range steps {
		if got := tt.op(); got != tt.want {
			t.Fatalf("%s: returned %v, want %v", tt.name, got, tt.want)
		}
		if a != tt.a || b != tt.bVal {
			t.Fatalf("%s: state (a=%d, b=%d), want (a=%d, b=%d)", tt.name, a, b, tt.a, tt.bVal)
		}
	}
}

// Round trip: state after each redo matches the post-commit state at the
// corresponding point.

func TestRoundTrip(t *testing.T) {
	h := New()
	defer h.Close()

	v := int64(0)
	var states []int64

	for i := int64(1); i <= 5; i++ {
		Track(h, &v)
		v = i * 10
		h.Commit("step")
		states = append(states, v)
	}

	for i := 0; i < 5; i++ {
		if !h.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if v != 0 {
		t.Fatalf("v = %d, want 0 after full unwind", v)
	}

	for i := 0; i < 5; i++ {
		if !h.Redo() {
			t.Fatalf("redo %d failed", i)
		}
		if v != states[i] {
			t.Errorf("after redo %d: v = %d, want %d", i, v, states[i])
		}
	}
}

// Auto-commit: undo first folds uncommitted edits into a new batch.

func TestAutoCommitBeforeUndo(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("A")

	Track(h, &a)
	a = 2 // never explicitly committed

	if !h.Undo() {
		t.Fatal("undo failed")
	}

	// The stray edit was committed as its own batch, then that batch was
	// the one undone.
	if a != 1 {
		t.Errorf("a = %d, want 1", a)
	}
	if h.UndoCount() != 1 {
		t.Errorf("undo count = %d, want 1", h.UndoCount())
	}

	info, ok := h.PeekRedo()
	if !ok {
		t.Fatal("expected auto-committed batch on redo stack")
	}
	if info.Label != "SaveCommit" {
		t.Errorf("label = %q, want %q", info.Label, "SaveCommit")
	}
}

func TestAutoCommitInvalidatesRedo(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("A")
	h.Undo()

	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	// Mutating tracked state and calling Redo without committing records
	// a new batch, which empties the redo stack Redo was about to pop.
	Track(h, &a)
	a = 99

	if h.Redo() {
		t.Error("redo should fail: the auto-commit invalidated the redo stack")
	}
	if h.CanRedo() {
		t.Error("redo stack should be empty")
	}
	if a != 99 {
		t.Errorf("a = %d, want 99 (live edit kept)", a)
	}
}

// Batches apply their changes in reverse of commit order and keep their
// stored order when re-pushed, so a batch replays symmetrically.

func TestBatchReplaySymmetry(t *testing.T) {
	h := New()
	defer h.Close()

	vals := [3]int64{1, 2, 3}
	for i := range vals {
		Track(h, &vals[i])
	}
	vals = [3]int64{10, 20, 30}
	h.Commit("all three")

	h.Undo()
	if vals != [3]int64{1, 2, 3} {
		t.Errorf("after undo: vals = %v", vals)
	}

	h.Redo()
	if vals != [3]int64{10, 20, 30} {
		t.Errorf("after redo: vals = %v", vals)
	}

	h.Undo()
	if vals != [3]int64{1, 2, 3} {
		t.Errorf("after second undo: vals = %v", vals)
	}
}

// Capacity and limits.

func TestRegionTooLarge(t *testing.T) {
	h := New(WithScratchCapacity(4))
	defer h.Close()

	a := int64(0)
	if err := Track(h, &a); !errors.Is(err, ErrRegionTooLarge) {
		t.Errorf("expected ErrRegionTooLarge, got %v", err)
	}
	if h.PendingCount() != 0 {
		t.Error("rejected region should not be tracked")
	}
}

func TestScratchBoundaryRegion(t *testing.T) {
	h := New(WithScratchCapacity(8))
	defer h.Close()

	a := int64(0)
	if err := Track(h, &a); err != nil {
		t.Fatalf("region equal to scratch capacity should be accepted: %v", err)
	}
	a = 3
	h.Commit("fit")
	if !h.Undo() {
		t.Fatal("undo failed")
	}
	if a != 0 {
		t.Errorf("a = %d, want 0", a)
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	h := New(WithLimit(3))
	defer h.Close()

	v := int64(0)
	for i := int64(1); i <= 5; i++ {
		Track(h, &v)
		v = i
		h.Commit("step")
	}

	if h.UndoCount() != 3 {
		t.Errorf("undo count = %d, want 3", h.UndoCount())
	}

	// Only the newest three batches survive.
	for h.Undo() {
	}
	if v != 2 {
		t.Errorf("v = %d, want 2 (oldest surviving baseline)", v)
	}
}

func TestSetLimit(t *testing.T) {
	h := New()
	defer h.Close()

	v := int64(0)
	for i := int64(1); i <= 5; i++ {
		Track(h, &v)
		v = i
		h.Commit("step")
	}

	h.SetLimit(2)
	if h.Limit() != 2 {
		t.Errorf("limit = %d, want 2", h.Limit())
	}
	if h.UndoCount() != 2 {
		t.Errorf("undo count = %d, want 2 (existing stack trimmed)", h.UndoCount())
	}

	// The new limit caps later commits too.
	Track(h, &v)
	v = 99
	h.Commit("capped")
	if h.UndoCount() != 2 {
		t.Errorf("undo count = %d, want 2 after capped commit", h.UndoCount())
	}

	h.SetLimit(0)
	Track(h, &v)
	v = 100
	h.Commit("unlimited again")
	if h.UndoCount() != 3 {
		t.Errorf("undo count = %d, want 3 with limit removed", h.UndoCount())
	}

	h.SetLimit(-1)
	if h.Limit() != 0 {
		t.Errorf("limit = %d, want 0 (negative ignored)", h.Limit())
	}
}

// Introspection.

func TestSizes(t *testing.T) {
	h := New()
	defer h.Close()

	a, b := int64(0), int32(0)
	Track(h, &a)
	Track(h, &b)

	if h.PendingSize() != 12 {
		t.Errorf("pending size = %d, want 12", h.PendingSize())
	}

	a, b = 1, 1
	h.Commit("both")

	if h.UndoSize() != 12 {
		t.Errorf("undo size = %d, want 12", h.UndoSize())
	}
	if h.RedoSize() != 0 {
		t.Errorf("redo size = %d, want 0", h.RedoSize())
	}

	h.Undo()

	if h.UndoSize() != 0 {
		t.Errorf("undo size = %d, want 0 after undo", h.UndoSize())
	}
	if h.RedoSize() != 12 {
		t.Errorf("redo size = %d, want 12 after undo", h.RedoSize())
	}
}

func TestInfoAndPeek(t *testing.T) {
	h := New()
	defer h.Close()

	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo should return false when empty")
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo should return false when empty")
	}

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("first")
	Track(h, &a)
	a = 2
	h.Commit("second")

	info := h.UndoInfo()
	if len(info) != 2 {
		t.Fatalf("got %d entries, want 2", len(info))
	}
	if info[0].Label != "first" || info[1].Label != "second" {
		t.Errorf("labels = %q, %q; want oldest first", info[0].Label, info[1].Label)
	}
	if info[0].Time.IsZero() {
		t.Error("timestamp not set")
	}
	if info[0].ID == info[1].ID {
		t.Error("batches should have distinct identities")
	}

	top, ok := h.PeekUndo()
	if !ok || top.Label != "second" {
		t.Errorf("PeekUndo = %v, %v; want top batch %q", top.Label, ok, "second")
	}
	if h.UndoCount() != 2 {
		t.Error("peek must not modify the stack")
	}
}

// Lifecycle.

func TestClearPending(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.ClearPending()

	if h.PendingCount() != 0 {
		t.Error("pending should be empty")
	}
	if h.Commit("after clear") {
		t.Error("cleared baselines must not be committed")
	}
}

func TestClear(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("A")
	h.Undo()
	Track(h, &a)

	h.Clear()

	if h.CanUndo() || h.CanRedo() || h.PendingCount() != 0 {
		t.Error("engine should be empty after Clear")
	}
	if a != 0 {
		t.Errorf("a = %d; Clear must not touch tracked memory", a)
	}
}

func TestClose(t *testing.T) {
	h := New()

	a := int64(0)
	Track(h, &a)
	a = 1
	h.Commit("A")

	h.Close()
	h.Close() // idempotent

	if err := Track(h, &a); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if h.Commit("late") {
		t.Error("commit on closed engine should be rejected")
	}
	if h.Undo() || h.Redo() {
		t.Error("undo/redo on closed engine should be rejected")
	}
}

func TestPushNilAddress(t *testing.T) {
	h := New()
	defer h.Close()

	if err := h.Push(nil, 8); !errors.Is(err, ErrNilAddress) {
		t.Errorf("expected ErrNilAddress, got %v", err)
	}
}

func TestPushZeroSize(t *testing.T) {
	h := New()
	defer h.Close()

	a := int64(0)
	if err := h.Push(unsafe.Pointer(&a), 0); err != nil {
		t.Errorf("zero-size push should be a no-op, got %v", err)
	}
	if h.PendingCount() != 0 {
		t.Error("zero-size push must not register a region")
	}
}

// Checkpoints.

func TestCheckpoint(t *testing.T) {
	h := New()
	defer h.Close()

	v := int64(0)
	Track(h, &v)
	v = 1
	h.Commit("base")

	cp := h.CreateCheckpoint()

	for i := int64(2); i <= 4; i++ {
		Track(h, &v)
		v = i
		h.Commit("step")
	}
	top := h.CreateCheckpoint()

	if !h.UndoToCheckpoint(cp) {
		t.Fatal("UndoToCheckpoint should have reverted batches")
	}
	if v != 1 {
		t.Errorf("v = %d, want 1 at checkpoint", v)
	}

	if !h.RedoToCheckpoint(top) {
		t.Fatal("RedoToCheckpoint should have re-applied batches")
	}
	if v != 4 {
		t.Errorf("v = %d, want 4 (top checkpoint restored)", v)
	}

	if h.UndoToCheckpoint(top) {
		t.Error("UndoToCheckpoint at its own depth should be a no-op")
	}
}
