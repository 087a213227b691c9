//go:build !unix

package mem

import (
	"fmt"
	"unsafe"
)

// Alloc returns a heap-backed block when anonymous mappings are not
// available. The buffer is over-allocated and re-sliced so the first byte
// still lands on a cache-line boundary; release only drops the reference.
func Alloc(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mem: invalid block size %d", size)
	}
	raw := make([]byte, size+CacheLineSize)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	off := 0
	if rem := int(addr & (CacheLineSize - 1)); rem != 0 {
		off = CacheLineSize - rem
	}
	data := raw[off : off+size : off+size]
	return data, func() error { return nil }, nil
}
