package pool

// FixedPool is an object pool backed by exactly one slab block. Its capacity
// is set at construction; Alloc fails with ErrNoSpace instead of growing.
type FixedPool[T any] struct {
	block *slabBlock[T]
}

// NewFixed creates a pool holding at most maxEntries objects of type T in a
// single cache-aligned block.
func NewFixed[T any](maxEntries int) (*FixedPool[T], error) {
	block, err := newSlab[T](maxEntries)
	if err != nil {
		return nil, err
	}
	return &FixedPool[T]{block: block}, nil
}

// Alloc places a copy of v into a free slot and returns its address.
// Returns ErrNoSpace when all slots are live.
func (p *FixedPool[T]) Alloc(v T) (*T, error) {
	return p.block.alloc(v)
}

// Free releases the object at ptr back to the pool. The pointer must have
// been returned by Alloc on this pool and not freed since.
func (p *FixedPool[T]) Free(ptr *T) error {
	return p.block.free(ptr)
}

// FreeAll releases every outstanding object at once.
func (p *FixedPool[T]) FreeAll() {
	p.block.freeAll()
}

// ForEach calls fn for every live object in ascending slot order. fn must
// not allocate from or free into the pool.
func (p *FixedPool[T]) ForEach(fn func(*T)) {
	p.block.forEach(fn)
}

// Stats counts the pool's single block and its outstanding allocations.
func (p *FixedPool[T]) Stats() Stats {
	return Stats{Blocks: 1, Allocations: int(p.block.allocated())}
}

// Close releases the backing block. All objects must have been freed first;
// closing a pool with live objects returns ErrLiveObjects and leaves the
// pool intact.
func (p *FixedPool[T]) Close() error {
	return p.block.close()
}
