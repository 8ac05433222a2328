package history

import "errors"

// Common errors for region registration.
var (
	// ErrClosed is returned when registering regions on a closed engine.
	ErrClosed = errors.New("history engine is closed")

	// ErrRegionTooLarge is returned when a region exceeds the scratch
	// buffer capacity and could not be exchanged during undo/redo.
	ErrRegionTooLarge = errors.New("region exceeds scratch buffer capacity")

	// ErrNilAddress is returned when a nil region address is registered.
	ErrNilAddress = errors.New("nil region address")
)
