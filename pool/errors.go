package pool

import "errors"

var (
	// ErrNoSpace indicates that no free slot is available: the fixed pool is
	// full, or growing a dynamic pool failed. Underlying memory exhaustion
	// surfaces wrapped in this error.
	ErrNoSpace = errors.New("pool: no space left in pool")

	// ErrBadPointer indicates a pointer that is not owned by the pool, or
	// does not point at the start of a slot.
	ErrBadPointer = errors.New("pool: pointer not owned by pool")

	// ErrNotAllocated indicates an attempt to free a slot that is already
	// free (a double free).
	ErrNotAllocated = errors.New("pool: object is not allocated")

	// ErrLiveObjects indicates Close was called while allocations are still
	// outstanding.
	ErrLiveObjects = errors.New("pool: live objects remain")

	// ErrBadCapacity indicates a capacity that is not positive or does not
	// fit the slot index type.
	ErrBadCapacity = errors.New("pool: capacity out of range")

	// ErrBadType indicates an element type the slab cannot store: zero-size
	// types and types containing Go pointers are rejected.
	ErrBadType = errors.New("pool: unsupported element type")
)
