package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Fixed_SingleAllocFree(t *testing.T) {
	p, err := NewFixed[uint32](16)
	require.NoError(t, err)
	defer p.Close()

	obj, err := p.Alloc(0xaabbccdd)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xaabbccdd), *obj)
	assert.Equal(t, Stats{Blocks: 1, Allocations: 1}, p.Stats())

	require.NoError(t, p.Free(obj))
	assert.Equal(t, Stats{Blocks: 1, Allocations: 0}, p.Stats())
}

func Test_Fixed_CapacityIsExact(t *testing.T) {
	const n = 33
	p, err := NewFixed[uint64](n)
	require.NoError(t, err)
	defer p.Close()

	ptrs := make([]*uint64, 0, n)
	for i := 0; i < n; i++ {
		obj, err := p.Alloc(uint64(i))
		require.NoErrorf(t, err, "alloc %d", i)
		ptrs = append(ptrs, obj)
	}

	// The (n+1)th allocation fails while all n stay live and intact.
	_, err = p.Alloc(0)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, Stats{Blocks: 1, Allocations: n}, p.Stats())
	for i, obj := range ptrs {
		assert.Equal(t, uint64(i), *obj)
	}

	require.NoError(t, p.Free(ptrs[0]))
	obj, err := p.Alloc(99)
	require.NoError(t, err)
	assert.Same(t, ptrs[0], obj, "freed slot should be reused")

	p.FreeAll()
	assert.Equal(t, Stats{Blocks: 1, Allocations: 0}, p.Stats())
}

func Test_Fixed_ForEach(t *testing.T) {
	p, err := NewFixed[uint32](8)
	require.NoError(t, err)
	defer p.Close()

	ptrs := make([]*uint32, 8)
	for i := range ptrs {
		ptrs[i], err = p.Alloc(uint32(i * 10))
		require.NoError(t, err)
	}
	require.NoError(t, p.Free(ptrs[2]))
	require.NoError(t, p.Free(ptrs[5]))

	var got []uint32
	p.ForEach(func(v *uint32) {
		got = append(got, *v)
	})
	assert.Equal(t, []uint32{0, 10, 30, 40, 60, 70}, got)

	// The visitor may mutate objects in place.
	p.ForEach(func(v *uint32) { *v++ })
	assert.Equal(t, uint32(1), *ptrs[0])

	p.FreeAll()
}

func Test_Fixed_ConstructionErrors(t *testing.T) {
	_, err := NewFixed[uint32](0)
	require.ErrorIs(t, err, ErrBadCapacity)

	type node struct {
		next *node
	}
	_, err = NewFixed[node](8)
	require.ErrorIs(t, err, ErrBadType)
}

func Test_Fixed_CloseRequiresAllFreed(t *testing.T) {
	p, err := NewFixed[uint32](4)
	require.NoError(t, err)

	obj, err := p.Alloc(1)
	require.NoError(t, err)

	require.ErrorIs(t, p.Close(), ErrLiveObjects)
	require.NoError(t, p.Free(obj))
	require.NoError(t, p.Close())
}
