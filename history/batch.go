package history

import (
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// change is one entry of a batch. Its buffer holds the state to restore
// at the address when the batch is applied; the meaning flips between
// "previous" and "current" each time the batch crosses stacks.
type change struct {
	ptr  unsafe.Pointer
	data []byte
}

// batch is the unit stored on the undo/redo stacks: every region that
// changed between two commits, in commit iteration order.
type batch struct {
	id      uuid.UUID
	label   string
	created time.Time
	changes []change
}

// size returns the total stored bytes across the batch's changes.
func (b *batch) size() int {
	total := 0
	for i := range b.changes {
		total += len(b.changes[i].data)
	}
	return total
}

func (b *batch) info() BatchInfo {
	return BatchInfo{
		ID:      b.id,
		Label:   b.label,
		Time:    b.created,
		Changes: len(b.changes),
		Bytes:   b.size(),
	}
}

// BatchInfo describes one committed batch for display purposes.
type BatchInfo struct {
	ID      uuid.UUID
	Label   string
	Time    time.Time
	Changes int
	Bytes   int
}
