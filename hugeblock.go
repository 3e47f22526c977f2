package qcgc

// hugeEntry is the side-table record for one oversized object: its mark
// bit plus the backing memory so sweep can return it to the OS.
type hugeEntry struct {
	obj    *hugeObject
	marked bool
}

// HugeBlockTable maps huge-object addresses to a mark bit (spec.md §4.6).
// An entry exists iff the huge object is currently live.
type HugeBlockTable struct {
	entries map[uintptr]*hugeEntry
	pages   PageAllocator
}

func newHugeBlockTable(pages PageAllocator) *HugeBlockTable {
	return &HugeBlockTable{entries: make(map[uintptr]*hugeEntry), pages: pages}
}

// has reports whether addr names a currently-live huge object.
func (t *HugeBlockTable) has(addr uintptr) bool {
	_, ok := t.entries[addr]
	return ok
}

// isMarked reports the current mark bit of a live huge object.
func (t *HugeBlockTable) isMarked(addr uintptr) bool {
	e, ok := t.entries[addr]
	return ok && e.marked
}

// mark atomically sets the mark bit, returning whether it flipped from
// unmarked to marked.
func (t *HugeBlockTable) mark(addr uintptr) bool {
	e, ok := t.entries[addr]
	if !ok || e.marked {
		return false
	}
	e.marked = true
	return true
}

// register adds a freshly allocated huge object to the table, unmarked.
func (t *HugeBlockTable) register(obj *hugeObject) {
	t.entries[obj.addr] = &hugeEntry{obj: obj}
}

// sweep releases every entry whose mark bit is clear and clears the mark
// bits of survivors, ready for the next cycle (spec.md §4.6).
func (t *HugeBlockTable) sweep() {
	for addr, e := range t.entries {
		if !e.marked {
			t.pages.UnmapArena(e.obj.mem)
			delete(t.entries, addr)
			continue
		}
		e.marked = false
	}
}
