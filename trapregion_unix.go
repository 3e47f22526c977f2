//go:build unix

package qcgc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// guardedBuffer is a slot array of uintptr-sized cells immediately
// followed by one inaccessible (PROT_NONE) guard page, the concrete
// realization of spec.md §4.5's trap-page technique.
type guardedBuffer struct {
	region   []byte // accessible data cells followed by the guard page
	capacity int    // number of valid uintptr slots
}

func newGuardedBuffer(capacity int) (*guardedBuffer, error) {
	pageSize := unix.Getpagesize()
	dataBytes := capacity * 8
	rounded := ((dataBytes + pageSize - 1) / pageSize) * pageSize
	if rounded == 0 {
		rounded = pageSize
	}
	mem, err := unix.Mmap(-1, 0, rounded+pageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	if err := unix.Mprotect(mem[rounded:], unix.PROT_NONE); err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	return &guardedBuffer{region: mem, capacity: capacity}, nil
}

func (g *guardedBuffer) close() error {
	return unix.Munmap(g.region)
}

// slot returns a pointer to the i-th uintptr slot. The guard page only
// starts on a page boundary, which for most capacities lands well past
// the requested slot count, so capacity is enforced explicitly here
// first; a genuinely runaway caller that skips this check entirely would
// still fault against the guard page once the offset reaches the end of
// the page-rounded region.
func (g *guardedBuffer) slot(i int) *uintptr {
	if i >= g.capacity {
		panic(fmt.Sprintf("shadow stack slot %d exceeds capacity %d", i, g.capacity))
	}
	off := i * 8
	return (*uintptr)(unsafe.Pointer(&g.region[off]))
}
