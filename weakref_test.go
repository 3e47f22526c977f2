package qcgc

import "testing"

type testSlot struct {
	target Object
}

func (s *testSlot) Get() Object { return s.target }
func (s *testSlot) Clear()      { s.target = nil }

func TestWeakrefBagRegisterAndLen(t *testing.T) {
	bag := newWeakrefBag()
	holder := &normalObject{addr: 1}
	target := &normalObject{addr: 2}
	slot := &testSlot{target: target}

	bag.register(holder, slot)
	if got := bag.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if bag.records[0].holder != Object(holder) {
		t.Errorf("recorded holder = %v, want holder", bag.records[0].holder)
	}
	if bag.records[0].slot.Get() != Object(target) {
		t.Errorf("recorded slot target = %v, want target", bag.records[0].slot.Get())
	}
}
