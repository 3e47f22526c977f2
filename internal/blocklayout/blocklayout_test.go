package blocklayout

import "testing"

func TestGetSetRoundTrip(t *testing.T) {
	b := New(10)
	for i := 0; i < b.Len(); i++ {
		b.Set(i, Tag(i%4))
	}
	for i := 0; i < b.Len(); i++ {
		if got, want := b.Get(i), Tag(i%4); got != want {
			t.Errorf("cell %d: got %v, want %v", i, got, want)
		}
	}
}

func TestSetDoesNotDisturbNeighbors(t *testing.T) {
	b := New(4) // one backing byte
	b.Set(0, 3)
	b.Set(1, 1)
	b.Set(2, 2)
	b.Set(3, 0)

	b.Set(1, 3)

	if got := b.Get(0); got != 3 {
		t.Errorf("cell 0 disturbed: got %v", got)
	}
	if got := b.Get(1); got != 3 {
		t.Errorf("cell 1: got %v, want 3", got)
	}
	if got := b.Get(2); got != 2 {
		t.Errorf("cell 2 disturbed: got %v", got)
	}
	if got := b.Get(3); got != 0 {
		t.Errorf("cell 3 disturbed: got %v", got)
	}
}

func TestReset(t *testing.T) {
	b := New(9)
	for i := 0; i < b.Len(); i++ {
		b.Set(i, Mask)
	}
	b.Reset()
	for i := 0; i < b.Len(); i++ {
		if got := b.Get(i); got != 0 {
			t.Errorf("cell %d not reset: got %v", i, got)
		}
	}
}

func TestNewRoundsByteCountUp(t *testing.T) {
	b := New(5) // 5 cells at 4/byte needs 2 bytes
	if got, want := len(b.bytes), 2; got != want {
		t.Errorf("len(bytes) = %d, want %d", got, want)
	}
}
