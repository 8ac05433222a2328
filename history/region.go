package history

import "unsafe"

// region is a baseline snapshot of a tracked memory region: the address
// the region lives at and the bytes it held when registered.
type region struct {
	ptr  unsafe.Pointer
	data []byte
}

// live returns the current bytes at the region's address.
func (r *region) live() []byte {
	return unsafe.Slice((*byte)(r.ptr), len(r.data))
}

// Track registers the value v points to for change tracking. The pointee
// must stay at the same address until the next commit that stores it and
// for as long as any batch referencing it remains on either stack.
func Track[T any](h *History, v *T) error {
	return h.Push(unsafe.Pointer(v), int(unsafe.Sizeof(*v)))
}

// TrackSlice registers the backing array of s. The slice must not be
// grown while tracked; a reallocation leaves the engine pointing at the
// old array. An empty slice is a no-op.
func TrackSlice[T any](h *History, s []T) error {
	if len(s) == 0 {
		return nil
	}
	return h.PushSlice(unsafe.Pointer(&s[0]), int(unsafe.Sizeof(s[0])), len(s))
}
