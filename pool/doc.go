// Package pool provides fixed-stride object pools that hand out and reclaim
// individually typed objects from pre-allocated, cache-aligned memory blocks.
//
// # Overview
//
// Workloads that create and destroy many same-sized objects pay the
// general-purpose allocator's bookkeeping and fragmentation costs on every
// object. This package amortizes those costs by carving objects out of slab
// blocks: one contiguous arena per block holding an index table followed by
// storage for a fixed number of slots. A singly linked free list is threaded
// through the index table itself, so allocate and free are O(1) with no
// per-object header.
//
// # Pools
//
// FixedPool wraps exactly one slab block. Its capacity is set at
// construction and never grows; Alloc reports ErrNoSpace once every slot is
// live.
//
// DynamicPool owns a growing sequence of equally sized blocks. It appends a
// block when all existing blocks are full and releases fully empty blocks on
// an explicit Reclaim call. A cursor remembers the first block with free
// space so allocation does not rescan full blocks.
//
// # Usage Example
//
//	p, err := pool.NewDynamic[Particle](1024)
//	if err != nil {
//		return err
//	}
//
//	obj, err := p.Alloc(Particle{X: 1, Y: 2})
//	if err != nil {
//		return err
//	}
//
//	// ... use obj ...
//
//	if err := p.Free(obj); err != nil {
//		return err
//	}
//
// # Ownership and lifetime
//
// A pool exclusively owns its blocks and the live objects inside them.
// Pointers returned by Alloc are non-owning handles valid until the matching
// Free, a FreeAll, or Close, whichever comes first. Slab memory comes from
// anonymous page mappings outside the Go heap, so element types must not
// contain Go pointers; construction rejects such types with ErrBadType.
//
// # Concurrency
//
// Pools perform no internal locking. Concurrent calls on the same pool are
// undefined; callers that share a pool across goroutines must serialize
// access themselves, or use one pool per goroutine.
package pool
