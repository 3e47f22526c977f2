package qcgc

import "testing"

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	mem := make([]byte, ArenaSize)
	return newArena(uintptr(0x10000), mem)
}

func TestSweepArenaReclaimsDeadHeadAndItsExtents(t *testing.T) {
	c := &Collector{fit: newFitAllocator()}
	a := newTestArena(t)
	a.bumpNext = 6

	a.setTag(0, CellBlack) // survivor, 1 cell
	a.setTag(1, CellWhite) // dead head
	a.setTag(2, CellExtent)
	a.setTag(3, CellExtent) // dead object spans cells 1-3
	a.setTag(4, CellBlack)  // survivor head
	a.setTag(5, CellExtent) // its extent, must be left alone
	c.bumpArena = a

	free, largest, empty := c.sweepArena(a)

	if empty {
		t.Error("arena has survivors, should not be reported empty")
	}
	if got, want := a.getTag(0), CellWhite; got != want {
		t.Errorf("cell0 = %v, want %v", got, want)
	}
	for i := 1; i <= 3; i++ {
		if got := a.getTag(i); got != CellFree {
			t.Errorf("cell%d = %v, want free", i, got)
		}
	}
	if got, want := a.getTag(4), CellWhite; got != want {
		t.Errorf("cell4 = %v, want %v", got, want)
	}
	if got, want := a.getTag(5), CellExtent; got != want {
		t.Errorf("cell5 = %v, want extent (untouched)", got)
	}
	if free != 3 {
		t.Errorf("freeCells = %d, want 3", free)
	}
	if largest != 3 {
		t.Errorf("largestFreeBlock = %d, want 3", largest)
	}
	if b := c.fit.pop(3); b == nil || b.length != 3 {
		t.Errorf("expected a registered 3-cell free block, got %v", b)
	}
}

func TestSweepArenaSkipsBumpArenaReserveTail(t *testing.T) {
	c := &Collector{fit: newFitAllocator()}
	a := newTestArena(t)
	a.bumpNext = 2 // only cells 0-1 have ever been handed out
	a.setTag(0, CellWhite) // dead
	a.setTag(1, CellBlack) // survivor
	c.bumpArena = a

	free, largest, empty := c.sweepArena(a)

	if empty {
		t.Error("bump arena must never be reported empty")
	}
	if free != 1 || largest != 1 {
		t.Errorf("free=%d largest=%d, want 1,1 (reserve tail must not be counted)", free, largest)
	}
	if b := c.fit.pop(2); b != nil {
		t.Error("fit allocator should not see a 2-cell block; the reserve tail is bump-owned")
	}
}

func TestSweepArenaWhollyFreeIsReportedEmpty(t *testing.T) {
	c := &Collector{fit: newFitAllocator()}
	a := newTestArena(t)
	a.bumpNext = ArenaCells
	// every cell defaults to CellFree already.

	_, _, empty := c.sweepArena(a)
	if !empty {
		t.Error("arena with no survivors should be reported empty")
	}
}

func TestFitAllocatorPopReturnsWholeBlock(t *testing.T) {
	f := newFitAllocator()
	a := newTestArena(t)
	f.insert(&freeBlock{arena: a, cell: 0, length: 10})

	b := f.pop(4)
	if b == nil || b.length != 10 {
		t.Fatalf("pop(4) = %v, want the 10-cell block", b)
	}
	if got := f.pop(4); got != nil {
		t.Errorf("pop(4) after removal = %v, want nil (block was not split by pop itself)", got)
	}
}
