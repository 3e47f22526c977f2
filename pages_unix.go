//go:build unix

package qcgc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// UnixPageAllocator backs arenas and huge blocks with real anonymous
// mmap regions, trimmed to ArenaSize alignment. This realizes spec.md
// §4.1c's concrete page allocator using the one OS-facing dependency the
// teacher already carries, golang.org/x/sys.
type UnixPageAllocator struct{}

// NewUnixPageAllocator returns the default mmap-backed page allocator.
func NewUnixPageAllocator() *UnixPageAllocator { return &UnixPageAllocator{} }

func (UnixPageAllocator) MapArena(size int) ([]byte, error) {
	size = roundUpArenaSize(size)

	// mmap one extra ArenaSize beyond the requested size so we can trim to
	// an ArenaSize-aligned sub-slice, then release the unused head and tail.
	raw, err := unix.Mmap(-1, 0, size+ArenaSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("qcgc: mmap %d bytes: %w", size, err)
	}

	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + ArenaSize - 1) &^ (ArenaSize - 1)
	headTrim := int(aligned - base)

	if headTrim > 0 {
		unix.Munmap(raw[:headTrim])
	}
	region := raw[headTrim : headTrim+size]
	tailTrim := raw[headTrim+size:]
	if len(tailTrim) > 0 {
		unix.Munmap(tailTrim)
	}
	return region, nil
}

func (UnixPageAllocator) UnmapArena(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	return unix.Munmap(mem)
}
