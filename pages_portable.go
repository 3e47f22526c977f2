//go:build !unix

package qcgc

import "unsafe"

// PortablePageAllocator backs arenas with plain Go-heap byte slices,
// over-allocated and trimmed to ArenaSize alignment. Used on platforms
// without mmap; it cannot actually return memory to the OS, so
// UnmapArena just drops the reference for the Go runtime's own
// collector to reclaim eventually.
type PortablePageAllocator struct{}

// NewUnixPageAllocator keeps the constructor name stable across build
// tags so callers don't need build-tagged setup code of their own.
func NewUnixPageAllocator() *PortablePageAllocator { return &PortablePageAllocator{} }

func (PortablePageAllocator) MapArena(size int) ([]byte, error) {
	size = roundUpArenaSize(size)
	raw := make([]byte, size+ArenaSize)

	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + ArenaSize - 1) &^ (ArenaSize - 1)
	headTrim := int(aligned - base)
	return raw[headTrim : headTrim+size], nil
}

func (PortablePageAllocator) UnmapArena(mem []byte) error {
	return nil
}
