package pool

import (
	"math/rand"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dynamic_StartsWithOneBlock(t *testing.T) {
	p, err := NewDynamic[uint32](8)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, Stats{Blocks: 1, Allocations: 0}, p.Stats())
}

func Test_Dynamic_GrowsOnlyWhenFull(t *testing.T) {
	const perBlock = 8
	p, err := NewDynamic[uint32](perBlock)
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < perBlock; i++ {
		_, err := p.Alloc(uint32(i))
		require.NoError(t, err)
		assert.Equal(t, 1, p.Stats().Blocks, "no growth while the first block has space")
	}

	obj, err := p.Alloc(99)
	require.NoError(t, err)
	assert.Equal(t, Stats{Blocks: 2, Allocations: perBlock + 1}, p.Stats())

	// Freeing the overflow object empties the second block, but only
	// Reclaim releases it.
	require.NoError(t, p.Free(obj))
	assert.Equal(t, Stats{Blocks: 2, Allocations: perBlock}, p.Stats())

	p.FreeAll()
}

// Mirrors the canonical growth/reclaim scenario: 128 objects across 4 blocks
// of 32, free the middle two blocks' worth, reclaim down to 2 blocks.
func Test_Dynamic_ReclaimScenario(t *testing.T) {
	p, err := NewDynamic[uint64](32)
	require.NoError(t, err)
	defer p.Close()

	ptrs := make([]*uint64, 128)
	for i := range ptrs {
		ptrs[i], err = p.Alloc(uint64(i))
		require.NoError(t, err)
	}
	assert.Equal(t, Stats{Blocks: 4, Allocations: 128}, p.Stats())

	for i := 32; i < 96; i++ {
		require.NoError(t, p.Free(ptrs[i]))
	}
	assert.Equal(t, Stats{Blocks: 4, Allocations: 64}, p.Stats(),
		"freeing does not release blocks")

	require.NoError(t, p.Reclaim())
	assert.Equal(t, Stats{Blocks: 2, Allocations: 64}, p.Stats())

	// Survivors are untouched by the compaction.
	for i := 0; i < 32; i++ {
		assert.Equal(t, uint64(i), *ptrs[i])
	}
	for i := 96; i < 128; i++ {
		assert.Equal(t, uint64(i), *ptrs[i])
	}

	p.FreeAll()
}

func Test_Dynamic_ReclaimKeepsOneBlock(t *testing.T) {
	p, err := NewDynamic[uint32](4)
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < 16; i++ {
		_, err := p.Alloc(uint32(i))
		require.NoError(t, err)
	}
	p.FreeAll()
	assert.Equal(t, Stats{Blocks: 4, Allocations: 0}, p.Stats())

	require.NoError(t, p.Reclaim())
	assert.Equal(t, Stats{Blocks: 1, Allocations: 0}, p.Stats())

	// The pool is still usable after reclaiming everything.
	obj, err := p.Alloc(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), *obj)
	require.NoError(t, p.Free(obj))
}

func Test_Dynamic_ReclaimRecomputesCursor(t *testing.T) {
	const perBlock = 4
	p, err := NewDynamic[uint32](perBlock)
	require.NoError(t, err)
	defer p.Close()

	// Fill three blocks, then empty the middle one.
	ptrs := make([]*uint32, 3*perBlock)
	for i := range ptrs {
		ptrs[i], err = p.Alloc(uint32(i))
		require.NoError(t, err)
	}
	for i := perBlock; i < 2*perBlock; i++ {
		require.NoError(t, p.Free(ptrs[i]))
	}

	require.NoError(t, p.Reclaim())
	assert.Equal(t, Stats{Blocks: 2, Allocations: 2 * perBlock}, p.Stats())

	// Both kept blocks are full, so the next allocation must grow.
	_, err = p.Alloc(42)
	require.NoError(t, err)
	assert.Equal(t, Stats{Blocks: 3, Allocations: 2*perBlock + 1}, p.Stats())

	p.FreeAll()
}

func Test_Dynamic_FreePrefersEarlierBlocks(t *testing.T) {
	const perBlock = 4
	p, err := NewDynamic[uint32](perBlock)
	require.NoError(t, err)
	defer p.Close()

	ptrs := make([]*uint32, 2*perBlock)
	for i := range ptrs {
		ptrs[i], err = p.Alloc(uint32(i))
		require.NoError(t, err)
	}

	// Free one slot in the first block; the next allocation must land back
	// there rather than growing or using the second block.
	freedAddr := uintptr(unsafe.Pointer(ptrs[1]))
	require.NoError(t, p.Free(ptrs[1]))

	obj, err := p.Alloc(77)
	require.NoError(t, err)
	assert.Equal(t, freedAddr, uintptr(unsafe.Pointer(obj)))
	assert.Equal(t, 2, p.Stats().Blocks)

	p.FreeAll()
}

func Test_Dynamic_ForEachSkipsEmptyBlocks(t *testing.T) {
	const perBlock = 4
	p, err := NewDynamic[uint32](perBlock)
	require.NoError(t, err)
	defer p.Close()

	ptrs := make([]*uint32, 3*perBlock)
	for i := range ptrs {
		ptrs[i], err = p.Alloc(uint32(i))
		require.NoError(t, err)
	}
	// Empty the middle block and punch holes in the others.
	for i := perBlock; i < 2*perBlock; i++ {
		require.NoError(t, p.Free(ptrs[i]))
	}
	require.NoError(t, p.Free(ptrs[1]))
	require.NoError(t, p.Free(ptrs[2*perBlock+2]))

	var got []uint32
	p.ForEach(func(v *uint32) {
		got = append(got, *v)
	})
	assert.Equal(t, []uint32{0, 2, 3, 8, 9, 11}, got)

	p.FreeAll()
}

func Test_Dynamic_FreeErrors(t *testing.T) {
	p, err := NewDynamic[uint32](4)
	require.NoError(t, err)
	defer p.Close()

	obj, err := p.Alloc(1)
	require.NoError(t, err)

	var foreign uint32
	require.ErrorIs(t, p.Free(&foreign), ErrBadPointer)

	require.NoError(t, p.Free(obj))
	require.ErrorIs(t, p.Free(obj), ErrNotAllocated)
	assert.Equal(t, 0, p.Stats().Allocations)
}

func Test_Dynamic_FreeAllKeepsBlocks(t *testing.T) {
	p, err := NewDynamic[uint32](8)
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < 24; i++ {
		_, err := p.Alloc(uint32(i))
		require.NoError(t, err)
	}
	before := p.Stats().Blocks
	p.FreeAll()
	assert.Equal(t, Stats{Blocks: before, Allocations: 0}, p.Stats())
}

func Test_Dynamic_CloseRequiresAllFreed(t *testing.T) {
	p, err := NewDynamic[uint32](4)
	require.NoError(t, err)

	obj, err := p.Alloc(1)
	require.NoError(t, err)
	require.ErrorIs(t, p.Close(), ErrLiveObjects)

	require.NoError(t, p.Free(obj))
	require.NoError(t, p.Close())
}

func Test_Dynamic_ConstructionErrors(t *testing.T) {
	_, err := NewDynamic[uint32](0)
	require.ErrorIs(t, err, ErrBadCapacity)

	_, err = NewDynamic[map[string]int](8)
	require.ErrorIs(t, err, ErrBadType)
}

// Churn a pool with a random alloc/free mix and check that Stats tracks the
// outstanding count exactly at every step.
func Test_Dynamic_ChurnStats(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p, err := NewDynamic[uint64](16)
	require.NoError(t, err)
	defer p.Close()

	live := make([]*uint64, 0, 512)
	for step := 0; step < 4096; step++ {
		if len(live) == 0 || rng.Intn(100) < 60 {
			obj, err := p.Alloc(uint64(step))
			require.NoError(t, err)
			live = append(live, obj)
		} else {
			i := rng.Intn(len(live))
			require.NoError(t, p.Free(live[i]))
			live[i] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		require.Equal(t, len(live), p.Stats().Allocations)

		if step%512 == 0 {
			require.NoError(t, p.Reclaim())
			require.Equal(t, len(live), p.Stats().Allocations,
				"reclaim must not disturb live objects")
		}
	}

	seen := 0
	p.ForEach(func(*uint64) { seen++ })
	require.Equal(t, len(live), seen)

	p.FreeAll()
	assert.Equal(t, 0, p.Stats().Allocations)
}
