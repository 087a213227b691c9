package pool

import (
	"fmt"
	"unsafe"
)

// blockInfo keeps the per-block fields the allocation and free paths touch
// most, packed together for locality: the cached free-slot count, the payload
// address range for pointer classification, and the block itself.
type blockInfo[T any] struct {
	freeCount uint32
	lo, hi    uintptr
	block     *slabBlock[T]
}

// DynamicPool is an object pool that grows by whole blocks of entriesPerBlock
// slots as existing blocks fill up. Fully empty blocks are only released on
// an explicit Reclaim call, never as a side effect of Free.
type DynamicPool[T any] struct {
	infos []blockInfo[T]

	// freeCursor is the index of the first block known to have free space;
	// every block before it is full. Alloc starts scanning here, Free and
	// Reclaim lower it as earlier blocks regain space.
	freeCursor int

	entriesPerBlock uint32
}

// NewDynamic creates a pool that grows in blocks of entriesPerBlock slots.
// One block is allocated eagerly; a pool with zero blocks is never a valid
// state.
func NewDynamic[T any](entriesPerBlock int) (*DynamicPool[T], error) {
	block, err := newSlab[T](entriesPerBlock)
	if err != nil {
		return nil, err
	}
	p := &DynamicPool[T]{entriesPerBlock: uint32(entriesPerBlock)}
	p.appendBlock(block)
	return p, nil
}

func (p *DynamicPool[T]) appendBlock(block *slabBlock[T]) {
	lo, hi := block.bounds()
	p.infos = append(p.infos, blockInfo[T]{
		freeCount: p.entriesPerBlock,
		lo:        lo,
		hi:        hi,
		block:     block,
	})
}

// addBlock grows the pool by one block. On failure the pool is unchanged:
// no partial block is left registered.
func (p *DynamicPool[T]) addBlock() error {
	block, err := newSlab[T](int(p.entriesPerBlock))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoSpace, err)
	}
	p.appendBlock(block)
	return nil
}

// Alloc places a copy of v into the first block with free space, appending a
// new block when every existing one is full.
func (p *DynamicPool[T]) Alloc(v T) (*T, error) {
	// Blocks before the cursor are known full; resume the scan there.
	i := p.freeCursor
	for i < len(p.infos) && p.infos[i].freeCount == 0 {
		i++
	}
	p.freeCursor = i

	if i == len(p.infos) {
		if err := p.addBlock(); err != nil {
			return nil, err
		}
	}

	info := &p.infos[i]
	ptr, err := info.block.alloc(v)
	if err != nil {
		// freeCount > 0 guarantees the block has space; reaching this means
		// the cached count and the free list disagree.
		return nil, err
	}
	info.freeCount--
	return ptr, nil
}

// Free releases the object at ptr back to its owning block. The owning block
// is found by address range, so the pointer must have been returned by Alloc
// on this pool and not freed since.
func (p *DynamicPool[T]) Free(ptr *T) error {
	addr := uintptr(unsafe.Pointer(ptr))
	for i := range p.infos {
		info := &p.infos[i]
		if addr < info.lo || addr >= info.hi {
			continue
		}
		if err := info.block.free(ptr); err != nil {
			return err
		}
		info.freeCount++
		// Prefer refilling earlier blocks so later ones drain and become
		// reclaimable.
		if i < p.freeCursor {
			p.freeCursor = i
		}
		return nil
	}
	return ErrBadPointer
}

// FreeAll releases every outstanding object in every block. Blocks are kept;
// releasing emptied blocks is Reclaim's job.
func (p *DynamicPool[T]) FreeAll() {
	for i := range p.infos {
		p.infos[i].block.freeAll()
		p.infos[i].freeCount = p.entriesPerBlock
	}
	p.freeCursor = 0
}

// Reclaim releases every fully empty block, keeping at least one so the pool
// never reaches zero blocks. It runs in O(blocks) and only on explicit
// request; freeing never triggers it.
func (p *DynamicPool[T]) Reclaim() error {
	// Partition in place: shuffle used blocks to the front, empty ones to
	// the back, without disturbing the relative order of the used prefix.
	usedIdx := len(p.infos)
	emptyIdx := len(p.infos)
	for i := range p.infos {
		if p.infos[i].freeCount != p.entriesPerBlock {
			usedIdx = i
		} else if i < emptyIdx {
			emptyIdx = i
		}
		if emptyIdx < usedIdx && usedIdx != len(p.infos) {
			p.infos[emptyIdx], p.infos[usedIdx] = p.infos[usedIdx], p.infos[emptyIdx]
			usedIdx = emptyIdx
			emptyIdx++
		}
	}

	// If no blocks are used, keep one around.
	if usedIdx == len(p.infos) {
		usedIdx = 0
	}

	var firstErr error
	for i := usedIdx + 1; i < len(p.infos); i++ {
		if err := p.infos[i].block.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		p.infos[i] = blockInfo[T]{}
	}
	p.infos = p.infos[: usedIdx+1 : usedIdx+1]

	p.freeCursor = len(p.infos)
	for i := range p.infos {
		if p.infos[i].freeCount > 0 {
			p.freeCursor = i
			break
		}
	}
	return firstErr
}

// ForEach calls fn for every live object, visiting blocks in index order and
// slots within a block in ascending order. Fully empty blocks are skipped.
// fn must not allocate from or free into the pool.
func (p *DynamicPool[T]) ForEach(fn func(*T)) {
	for i := range p.infos {
		if p.infos[i].freeCount == p.entriesPerBlock {
			continue
		}
		p.infos[i].block.forEach(fn)
	}
}

// Stats reports the block count and the outstanding allocations summed from
// the cached per-block free counts.
func (p *DynamicPool[T]) Stats() Stats {
	stats := Stats{Blocks: len(p.infos)}
	for i := range p.infos {
		if p.infos[i].freeCount < p.entriesPerBlock {
			stats.Allocations += int(p.entriesPerBlock - p.infos[i].freeCount)
		}
	}
	return stats
}

// Close releases every block. All objects must have been freed first;
// closing a pool with live objects returns ErrLiveObjects and leaves the
// pool intact.
func (p *DynamicPool[T]) Close() error {
	if p.Stats().Allocations != 0 {
		return ErrLiveObjects
	}
	var firstErr error
	for i := range p.infos {
		if err := p.infos[i].block.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.infos = nil
	p.freeCursor = 0
	return firstErr
}
