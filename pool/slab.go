package pool

import (
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/poolkit/poolkit/internal/mem"
)

// Slot indices are uint32, matching the index table entries. The value
// capacity itself is the free-list terminator, so a block may hold at most
// math.MaxUint32 slots.
const maxSlots = math.MaxUint32

// slabBlock is one contiguous arena of capacity slots of T plus the index
// table that encodes both occupancy and the free list.
//
// The arena is a single cache-aligned allocation laid out as
//
//	index table  capacity × uint32, padded to the payload alignment
//	payload      capacity × sizeof(T)
//
// For slot i, slots[i] == i means the slot is occupied; any other value is
// the index of the next free slot, forming a singly linked list from
// freeHead terminated by the sentinel value capacity. Every free slot is on
// that list exactly once, so no separate occupancy bitmap is needed.
type slabBlock[T any] struct {
	arena    []byte
	release  func() error
	slots    []uint32
	base     unsafe.Pointer // first payload slot
	stride   uintptr
	capacity uint32
	freeHead uint32
}

// newSlab creates a block with the given slot count. The whole arena is one
// allocation; index table and payload offsets are fixed here and never
// change.
func newSlab[T any](capacity int) (*slabBlock[T], error) {
	if capacity < 1 || uint64(capacity) > maxSlots {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	var zero T
	stride := unsafe.Sizeof(zero)
	if stride == 0 {
		return nil, fmt.Errorf("%w: %s has zero size", ErrBadType, reflect.TypeOf((*T)(nil)).Elem())
	}
	if typeHasPointers(reflect.TypeOf((*T)(nil)).Elem()) {
		return nil, fmt.Errorf("%w: %s contains Go pointers", ErrBadType, reflect.TypeOf((*T)(nil)).Elem())
	}

	align := unsafe.Alignof(zero)
	if align < mem.CacheLineSize {
		align = mem.CacheLineSize
	}
	// The index table is padded so the payload starts on an alignment
	// boundary; the mapping itself is at least page-aligned.
	rawIndex, ok0 := mem.MulOverflowSafe(4, capacity)
	indexBytes, ok := mem.AlignOverflowSafe(rawIndex, int(align))
	payloadBytes, ok2 := mem.MulOverflowSafe(capacity, int(stride))
	total, ok3 := mem.AddOverflowSafe(indexBytes, payloadBytes)
	if !ok0 || !ok || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: %d slots of %d bytes", ErrBadCapacity, capacity, stride)
	}

	arena, release, err := mem.Alloc(total)
	if err != nil {
		return nil, err
	}

	b := &slabBlock[T]{
		arena:    arena,
		release:  release,
		slots:    unsafe.Slice((*uint32)(unsafe.Pointer(&arena[0])), capacity),
		base:     unsafe.Pointer(&arena[indexBytes]),
		stride:   stride,
		capacity: uint32(capacity),
	}
	b.resetFreeList()
	return b, nil
}

// resetFreeList links every slot into the free list in index order.
func (b *slabBlock[T]) resetFreeList() {
	for i := range b.slots {
		b.slots[i] = uint32(i) + 1
	}
	b.freeHead = 0
}

// slotAt returns the address of slot i. No range checking is performed.
func (b *slabBlock[T]) slotAt(i uint32) *T {
	return (*T)(unsafe.Add(b.base, uintptr(i)*b.stride))
}

// alloc pops the free-list head, marks it occupied and copies v into it.
// Returns ErrNoSpace when the block is full.
func (b *slabBlock[T]) alloc(v T) (*T, error) {
	idx := b.freeHead
	if idx == b.capacity {
		return nil, ErrNoSpace
	}
	b.freeHead = b.slots[idx]
	// Flag the slot as occupied by assigning its own index.
	b.slots[idx] = idx
	ptr := b.slotAt(idx)
	*ptr = v
	return ptr, nil
}

// slotIndex maps a pointer back to its slot index. The pointer must lie
// inside this block's payload and on a slot boundary.
func (b *slabBlock[T]) slotIndex(ptr *T) (uint32, error) {
	off := uintptr(unsafe.Pointer(ptr)) - uintptr(b.base)
	if off >= uintptr(b.capacity)*b.stride || off%b.stride != 0 {
		return 0, ErrBadPointer
	}
	return uint32(off / b.stride), nil
}

// free returns ptr's slot to the free list. The slot's memory is zeroed so
// stale contents do not survive into the next allocation.
func (b *slabBlock[T]) free(ptr *T) error {
	idx, err := b.slotIndex(ptr)
	if err != nil {
		return err
	}
	if b.slots[idx] != idx {
		return ErrNotAllocated
	}
	var zero T
	*ptr = zero
	b.slots[idx] = b.freeHead
	b.freeHead = idx
	return nil
}

// freeAll zeroes every occupied slot and reinitializes the free list.
func (b *slabBlock[T]) freeAll() {
	var zero T
	b.forEach(func(ptr *T) {
		*ptr = zero
	})
	b.resetFreeList()
}

// forEach visits every occupied slot in ascending index order. The visitor
// may mutate the pointed-to object but must not allocate from or free into
// the pool.
func (b *slabBlock[T]) forEach(fn func(*T)) {
	for i, s := range b.slots {
		if s == uint32(i) {
			fn(b.slotAt(uint32(i)))
		}
	}
}

// allocated counts occupied slots. O(capacity), intended for stats only.
func (b *slabBlock[T]) allocated() uint32 {
	var n uint32
	for i, s := range b.slots {
		if s == uint32(i) {
			n++
		}
	}
	return n
}

// bounds returns the payload address range [lo, hi). Pools use it to decide
// which block owns a pointer without asking every block to range-check.
func (b *slabBlock[T]) bounds() (lo, hi uintptr) {
	lo = uintptr(b.base)
	return lo, lo + uintptr(b.capacity)*b.stride
}

// close unmaps the arena. Destroying a block that still holds live objects
// is a programming error and is refused.
func (b *slabBlock[T]) close() error {
	if b.release == nil {
		return nil
	}
	if b.allocated() != 0 {
		return ErrLiveObjects
	}
	release := b.release
	b.release = nil
	b.arena = nil
	b.slots = nil
	b.base = nil
	b.freeHead = b.capacity
	return release()
}

// typeHasPointers reports whether values of t contain pointers the garbage
// collector would need to see. Slab memory lives outside the Go heap, so
// such types cannot be stored safely.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointers, slices, maps, strings, channels, funcs, interfaces.
		return true
	}
}
