package qcgc

// sweep is sweep() from spec.md §4.7. Precondition: phase == COLLECT.
// It sweeps the huge-block table first, then every arena, updates the
// fragmentation policy bit, transitions to PAUSE, and only then
// resolves weak references — by that point every surviving cell has
// already been re-tagged WHITE and every dead cell FREE/EXTENT, so
// weakref resolution can read liveness straight off the final tags.
func (c *Collector) sweep() {
	c.logger().Event(LogInfo, EventSweepStart, F("arenas", len(c.arenas)))

	c.hugeTable.sweep()

	c.fit.reset()
	freeCells := 0
	largestFreeBlock := 0

	stillActive := c.arenas[:0:0]
	for _, a := range c.arenas {
		f, largest, empty := c.sweepArena(a)
		freeCells += f
		if largest > largestFreeBlock {
			largestFreeBlock = largest
		}
		if empty && a != c.bumpArena {
			c.freeArenas = append(c.freeArenas, a)
			continue
		}
		stillActive = append(stillActive, a)
	}
	c.arenas = stillActive

	c.phase = Pause
	c.freeCells = freeCells
	c.largestFreeBlock = largestFreeBlock
	c.useBumpAllocator = freeCells < 2*largestFreeBlock

	c.resolveWeakrefs()

	c.logger().Event(LogInfo, EventSweepDone,
		F("free_cells", freeCells),
		F("largest_free_block", largestFreeBlock),
		F("use_bump_allocator", c.useBumpAllocator))
}

// sweepArena performs the two-pass reclaim for one arena (spec.md
// §4.7): pass one rewrites cell tags using the pre-sweep tag of each
// cell (BLACK survivors become WHITE, a WHITE dead head and its
// trailing EXTENT run become FREE, FREE stays FREE, and the EXTENT
// cells of a survivor are left untouched); pass two scans the
// now-final tags for contiguous FREE runs and registers each with the
// fit allocator. It returns the arena's free cell count, its largest
// single free run, and whether the arena came out entirely free (always
// false for the active bump arena).
func (c *Collector) sweepArena(a *Arena) (freeCells, largestFreeBlock int, empty bool) {
	n := a.Cells()

	for i := 0; i < n; {
		switch a.getTag(i) {
		case CellBlack:
			a.setTag(i, CellWhite)
			i++
		case CellWhite:
			j := i + 1
			for j < n && a.getTag(j) == CellExtent {
				j++
			}
			for k := i; k < j; k++ {
				a.setTag(k, CellFree)
			}
			i = j
		default: // CellFree, CellExtent (of a surviving head)
			i++
		}
	}

	// The active bump arena's tail past bumpNext is untouched reserve,
	// never handed to any allocator; it must not be double-owned by
	// registering it with the fit allocator too.
	limit := n
	empty = a != c.bumpArena
	if a == c.bumpArena {
		limit = a.bumpNext
	}

	type run struct{ start, length int }
	var runs []run
	for i := 0; i < limit; {
		if a.getTag(i) != CellFree {
			empty = false
			i++
			continue
		}
		start := i
		for i < limit && a.getTag(i) == CellFree {
			i++
		}
		length := i - start
		runs = append(runs, run{start, length})
		freeCells += length
		if length > largestFreeBlock {
			largestFreeBlock = length
		}
	}

	// A wholly-free, non-bump arena is about to be handed to freeArenas
	// for full recycling (bitmap reset, bumpNext rewound to 0 by
	// acquireArena). Registering its cells with the fit allocator here
	// would let the same cells be owned by both allocators at once.
	if !(empty && a != c.bumpArena) {
		for _, r := range runs {
			c.fit.insert(&freeBlock{arena: a, cell: r.start, length: r.length})
		}
	}
	return freeCells, largestFreeBlock, empty
}

// resolveWeakrefs is update_weakrefs() from spec.md §4.8, run after
// arena and huge-table sweeping have already settled every tag/entry
// for this cycle. A holder whose own cells were reclaimed drops its
// record untouched; otherwise the target is checked and, if dead,
// nulled out of the slot before the record is dropped.
func (c *Collector) resolveWeakrefs() {
	kept := c.weakrefs.records[:0:0]
	for _, r := range c.weakrefs.records {
		if c.isDeadPostSweep(r.holder) {
			continue
		}
		target := r.slot.Get()
		if target == nil {
			continue
		}
		if c.isDeadPostSweep(target) {
			r.slot.Clear()
			continue
		}
		kept = append(kept, r)
	}
	c.weakrefs.records = kept
}

func (c *Collector) isDeadPostSweep(obj Object) bool {
	if obj.Prebuilt() {
		return false
	}
	if c.isHuge(obj) {
		return !c.hugeTable.has(obj.Address())
	}
	arena, cell, ok := c.locateNormal(obj)
	if !ok {
		return false
	}
	switch arena.getTag(cell) {
	case CellFree, CellExtent:
		return true
	default:
		return false
	}
}
