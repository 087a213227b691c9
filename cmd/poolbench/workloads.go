package main

import (
	"fmt"
	"unsafe"

	"github.com/poolkit/poolkit/pool"
)

// The benchmarked element sizes, matching common component sizes: a couple
// of words, one cache line, a few cache lines.
type sized16 struct{ b [16]byte }
type sized64 struct{ b [64]byte }
type sized256 struct{ b [256]byte }

// benchConfig sizes every workload: Objects live allocations per iteration,
// in pools growing by Entries slots per block.
type benchConfig struct {
	Entries int
	Objects int
}

// workload is one named benchmark: setup builds the pool and returns the
// per-iteration body plus a teardown. bytes is the payload volume processed
// per iteration, used for the MB/s figure.
type workload struct {
	name  string
	bytes uint64
	setup func(cfg benchConfig) (fn benchFunc, teardown func() error, err error)
}

func allWorkloads(cfg benchConfig) []workload {
	return []workload{
		fixedAllocFree[sized16]("fixed_alloc_free_16", cfg),
		fixedAllocFree[sized64]("fixed_alloc_free_64", cfg),
		fixedAllocFree[sized256]("fixed_alloc_free_256", cfg),
		dynamicAllocFree[sized16]("dynamic_alloc_free_16", cfg),
		dynamicAllocFree[sized64]("dynamic_alloc_free_64", cfg),
		dynamicAllocFree[sized256]("dynamic_alloc_free_256", cfg),
		dynamicAllocWriteFree[sized64]("dynamic_alloc_write_free_64", cfg),
		dynamicChurnReclaim[sized64]("dynamic_churn_reclaim_64", cfg),
		heapAllocFree[sized16]("heap_alloc_free_16", cfg),
		heapAllocFree[sized64]("heap_alloc_free_64", cfg),
		heapAllocFree[sized256]("heap_alloc_free_256", cfg),
	}
}

func payloadBytes[T any](objects int) uint64 {
	var zero T
	return uint64(objects) * uint64(unsafe.Sizeof(zero))
}

// fixedAllocFree fills a FixedPool to its limit and drains it again.
func fixedAllocFree[T any](name string, cfg benchConfig) workload {
	return workload{
		name:  name,
		bytes: payloadBytes[T](cfg.Objects),
		setup: func(cfg benchConfig) (benchFunc, func() error, error) {
			p, err := pool.NewFixed[T](cfg.Objects)
			if err != nil {
				return nil, nil, err
			}
			var zero T
			fn := func() error {
				for i := 0; i < cfg.Objects; i++ {
					if _, err := p.Alloc(zero); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				p.FreeAll()
				return nil
			}
			return fn, p.Close, nil
		},
	}
}

// dynamicAllocFree grows a DynamicPool across several blocks and drains it.
func dynamicAllocFree[T any](name string, cfg benchConfig) workload {
	return workload{
		name:  name,
		bytes: payloadBytes[T](cfg.Objects),
		setup: func(cfg benchConfig) (benchFunc, func() error, error) {
			p, err := pool.NewDynamic[T](cfg.Entries)
			if err != nil {
				return nil, nil, err
			}
			var zero T
			fn := func() error {
				for i := 0; i < cfg.Objects; i++ {
					if _, err := p.Alloc(zero); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				p.FreeAll()
				return nil
			}
			return fn, p.Close, nil
		},
	}
}

// dynamicAllocWriteFree additionally sweeps every live object a few times,
// measuring iteration locality rather than pure allocation cost.
func dynamicAllocWriteFree[T any](name string, cfg benchConfig) workload {
	const sweeps = 8
	return workload{
		name:  name,
		bytes: payloadBytes[T](cfg.Objects) * sweeps,
		setup: func(cfg benchConfig) (benchFunc, func() error, error) {
			p, err := pool.NewDynamic[T](cfg.Entries)
			if err != nil {
				return nil, nil, err
			}
			var zero T
			fn := func() error {
				for i := 0; i < cfg.Objects; i++ {
					if _, err := p.Alloc(zero); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				for s := 0; s < sweeps; s++ {
					p.ForEach(func(obj *T) {
						*obj = zero
					})
				}
				p.FreeAll()
				return nil
			}
			return fn, p.Close, nil
		},
	}
}

// dynamicChurnReclaim frees every second object, refills the holes and then
// compacts, exercising the free-cursor and reclaim paths.
func dynamicChurnReclaim[T any](name string, cfg benchConfig) workload {
	return workload{
		name:  name,
		bytes: payloadBytes[T](cfg.Objects),
		setup: func(cfg benchConfig) (benchFunc, func() error, error) {
			p, err := pool.NewDynamic[T](cfg.Entries)
			if err != nil {
				return nil, nil, err
			}
			var zero T
			ptrs := make([]*T, cfg.Objects)
			fn := func() error {
				for i := range ptrs {
					obj, err := p.Alloc(zero)
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					ptrs[i] = obj
				}
				for i := 0; i < len(ptrs); i += 2 {
					if err := p.Free(ptrs[i]); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				for i := 0; i < len(ptrs); i += 2 {
					obj, err := p.Alloc(zero)
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					ptrs[i] = obj
				}
				p.FreeAll()
				return p.Reclaim()
			}
			return fn, p.Close, nil
		},
	}
}

// heapAllocFree is the baseline: the same object count through the regular
// Go allocator.
func heapAllocFree[T any](name string, cfg benchConfig) workload {
	return workload{
		name:  name,
		bytes: payloadBytes[T](cfg.Objects),
		setup: func(cfg benchConfig) (benchFunc, func() error, error) {
			ptrs := make([]*T, cfg.Objects)
			fn := func() error {
				for i := range ptrs {
					ptrs[i] = new(T)
				}
				for i := range ptrs {
					ptrs[i] = nil
				}
				return nil
			}
			return fn, func() error { return nil }, nil
		},
	}
}
