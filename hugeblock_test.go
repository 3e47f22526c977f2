package qcgc

import "testing"

type stubPages struct {
	unmapped [][]byte
}

func (p *stubPages) MapArena(size int) ([]byte, error) {
	return make([]byte, roundUpArenaSize(size)), nil
}

func (p *stubPages) UnmapArena(mem []byte) error {
	p.unmapped = append(p.unmapped, mem)
	return nil
}

func TestHugeBlockTableMarkFlipsOnce(t *testing.T) {
	pages := &stubPages{}
	table := newHugeBlockTable(pages)
	obj := &hugeObject{addr: 0x1000, mem: []byte{1, 2, 3}}
	table.register(obj)

	if table.isMarked(obj.addr) {
		t.Fatal("freshly registered entry should be unmarked")
	}
	if !table.mark(obj.addr) {
		t.Error("first mark() should flip unmarked -> marked")
	}
	if table.mark(obj.addr) {
		t.Error("second mark() should report no flip")
	}
	if !table.isMarked(obj.addr) {
		t.Error("isMarked should be true after mark()")
	}
}

func TestHugeBlockTableSweepReclaimsUnmarked(t *testing.T) {
	pages := &stubPages{}
	table := newHugeBlockTable(pages)
	dead := &hugeObject{addr: 0x2000, mem: []byte{1}}
	alive := &hugeObject{addr: 0x3000, mem: []byte{2}}
	table.register(dead)
	table.register(alive)
	table.mark(alive.addr)

	table.sweep()

	if table.has(dead.addr) {
		t.Error("dead entry should have been removed by sweep")
	}
	if !table.has(alive.addr) {
		t.Error("alive entry should survive sweep")
	}
	if table.isMarked(alive.addr) {
		t.Error("surviving entry's mark bit should be cleared for the next cycle")
	}
	if len(pages.unmapped) != 1 {
		t.Fatalf("expected exactly one UnmapArena call, got %d", len(pages.unmapped))
	}
}
