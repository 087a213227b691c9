// Package mem provides the raw cache-aligned memory blocks that back slab
// arenas. Allocations come from the platform's anonymous page mapping
// primitives where available, so blocks are invisible to the Go garbage
// collector and never move.
package mem

// CacheLineSize is the alignment guaranteed for every block returned by
// Alloc. 64 bytes covers x86-64 and almost all ARM64 parts.
const CacheLineSize = 64
