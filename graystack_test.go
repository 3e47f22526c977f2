package qcgc

import "testing"

func TestGrayStackLIFOOrder(t *testing.T) {
	s := newGrayStack()
	a := &normalObject{addr: 1}
	b := &normalObject{addr: 2}
	c := &normalObject{addr: 3}

	s.Push(a)
	s.Push(b)
	s.Push(c)

	if got := s.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	if got := s.Pop(); got != Object(c) {
		t.Errorf("first Pop = %v, want c", got)
	}
	if got := s.Pop(); got != Object(b) {
		t.Errorf("second Pop = %v, want b", got)
	}
	if got := s.Pop(); got != Object(a) {
		t.Errorf("third Pop = %v, want a", got)
	}
	if got := s.Pop(); got != nil {
		t.Errorf("Pop on empty stack = %v, want nil", got)
	}
}

func TestGrayStackPopEmptyIsNilSafe(t *testing.T) {
	s := newGrayStack()
	if got := s.Pop(); got != nil {
		t.Errorf("Pop() on fresh stack = %v, want nil", got)
	}
}
