package qcgc

import (
	"math/bits"
	"unsafe"
)

// freeBlock is one entry in the fit allocator's free lists: a run of
// contiguous FREE cells within a single arena.
type freeBlock struct {
	arena  *Arena
	cell   int
	length int
}

// fitAllocator buckets free blocks by a floor-log2 size class so a
// request for n cells only has to scan buckets that are guaranteed (by
// class) to hold a block of at least n cells, once past the first one
// (spec.md §4.7's "size-classed free lists").
type fitAllocator struct {
	classes [][]*freeBlock
}

// numFitClasses covers every possible run length within one arena.
const numFitClasses = 13 // bits.Len(ArenaCells) == 13

func newFitAllocator() *fitAllocator {
	return &fitAllocator{classes: make([][]*freeBlock, numFitClasses)}
}

func fitClassOf(length int) int {
	if length <= 0 {
		return 0
	}
	c := bits.Len(uint(length)) - 1
	if c >= numFitClasses {
		c = numFitClasses - 1
	}
	return c
}

func (f *fitAllocator) insert(b *freeBlock) {
	if b.length <= 0 {
		return
	}
	c := fitClassOf(b.length)
	f.classes[c] = append(f.classes[c], b)
}

// pop removes and returns a free block of at least `needed` cells, or
// nil if none exists. Blocks in fitClassOf(needed) may be too small
// (lengths in that class can fall below needed), so that bucket is
// scanned linearly; every class above it is guaranteed large enough.
func (f *fitAllocator) pop(needed int) *freeBlock {
	start := fitClassOf(needed)
	for c := start; c < len(f.classes); c++ {
		bucket := f.classes[c]
		for i, b := range bucket {
			if b.length >= needed {
				f.classes[c] = append(bucket[:i:i], bucket[i+1:]...)
				return b
			}
		}
	}
	return nil
}

// reset empties every free list; sweep calls this before repopulating
// from the freshly computed cell-type bitmap (spec.md §4.7 step 5).
func (f *fitAllocator) reset() {
	for i := range f.classes {
		f.classes[i] = nil
	}
}

// Allocate is allocate() from spec.md §4.2: it first runs whatever
// threshold-triggered collection work is due, then serves the request
// from either the arena allocators or the huge-block path, and finally
// advances both byte counters.
func (c *Collector) Allocate(size int) Object {
	if size <= 0 {
		size = 1
	}
	c.logger().Event(LogDebug, EventAllocateStart, F("size", size))

	if c.bytesSinceCollection > c.config.MajorCollection {
		c.Collect()
	} else if c.bytesSinceIncMark > c.config.IncMark {
		c.mark(true)
	}

	var obj Object
	huge := size > (1 << LargeAllocExp)
	if huge {
		obj = c.allocateHuge(size)
	} else {
		obj = c.allocateNormal(size)
	}

	if obj == nil {
		c.logger().Event(LogInfo, EventAllocateDone, F("size", size), F("ok", false))
		return nil
	}
	c.bytesSinceCollection += uint64(size)
	c.bytesSinceIncMark += uint64(size)
	c.logger().Event(LogDebug, EventAllocateDone, F("size", size), F("ok", true), F("huge", huge))
	return obj
}

func (c *Collector) allocateNormal(size int) Object {
	needed := (size + CellSize - 1) / CellSize
	if needed < 1 {
		needed = 1
	}

	if c.useBumpAllocator {
		if obj := c.allocBump(needed); obj != nil {
			return obj
		}
		return c.allocFit(needed)
	}
	if obj := c.allocFit(needed); obj != nil {
		return obj
	}
	return c.allocBump(needed)
}

func (c *Collector) allocFit(needed int) Object {
	b := c.fit.pop(needed)
	if b == nil {
		return nil
	}
	if b.length > needed {
		c.fit.insert(&freeBlock{arena: b.arena, cell: b.cell + needed, length: b.length - needed})
	}
	return c.commitNormal(b.arena, b.cell, needed)
}

func (c *Collector) allocBump(needed int) Object {
	if c.bumpArena == nil || c.bumpArena.bumpNext+needed > ArenaCells {
		arena, err := c.acquireArena()
		if err != nil {
			return nil
		}
		c.bumpArena = arena
	}
	if c.bumpArena.bumpNext+needed > ArenaCells {
		return nil
	}
	cell := c.bumpArena.bumpNext
	c.bumpArena.bumpNext += needed
	return c.commitNormal(c.bumpArena, cell, needed)
}

func (c *Collector) commitNormal(arena *Arena, cell, needed int) Object {
	arena.setTag(cell, CellWhite)
	for i := cell + 1; i < cell+needed; i++ {
		arena.setTag(i, CellExtent)
	}
	return &normalObject{arena: arena, addr: arena.addrFromCell(cell), cell: cell, cells: needed}
}

// acquireArena reuses a swept, returned-to-the-pool arena if one is
// available, otherwise maps a fresh one.
func (c *Collector) acquireArena() (*Arena, error) {
	if n := len(c.freeArenas); n > 0 {
		a := c.freeArenas[n-1]
		c.freeArenas = c.freeArenas[:n-1]
		a.cellType.Reset()
		a.bumpNext = 0
		c.arenas = append(c.arenas, a)
		return a, nil
	}
	mem, err := c.pages.MapArena(ArenaSize)
	if err != nil {
		return nil, err
	}
	base := uintptr(unsafe.Pointer(&mem[0]))
	a := newArena(base, mem)
	c.arenaIndex[base] = a
	c.arenas = append(c.arenas, a)
	return a, nil
}

func (c *Collector) allocateHuge(size int) Object {
	mem, err := c.pages.MapArena(size)
	if err != nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&mem[0]))
	obj := &hugeObject{addr: addr, mem: mem}
	c.hugeTable.register(obj)
	return obj
}

// Collect is collect() from spec.md §4.2: a full mark followed by a
// sweep, run synchronously to completion.
func (c *Collector) Collect() {
	c.mark(false)
	c.sweep()
	c.bytesSinceCollection = 0
}
