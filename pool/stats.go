package pool

// Stats is a point-in-time snapshot of pool usage, computed on demand.
type Stats struct {
	// Blocks is the number of live slab blocks owned by the pool.
	Blocks int

	// Allocations is the number of outstanding objects across all blocks.
	Allocations int
}
