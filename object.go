package qcgc

import "sync/atomic"

// Object is the capability the collector needs from anything it tracks:
// a stable identity address and a mutable flags word. Normal and huge
// objects get both from the allocator; prebuilt objects are supplied by
// the mutator and only need to satisfy this interface.
//
// This mirrors the teacher's approach to its tracer (gc_precise.go's
// gcLayout): the collector only needs a capability, not a concrete type.
type Object interface {
	// Address is the object's identity: for a normal object, its head
	// cell's address; for a huge object, its backing block's address
	// (which is also its own arena base, the huge-object recognition
	// predicate); for a prebuilt object, any stable value.
	Address() uintptr
	// Flags returns the current flags word.
	Flags() Flags
	// SetFlags ORs bits into the flags word.
	SetFlags(Flags)
	// ClearFlags ANDs bits out of the flags word.
	ClearFlags(Flags)
	// Prebuilt reports whether this object lives outside managed arenas.
	Prebuilt() bool
}

// normalObject is a head-cell-addressed object living inside an arena.
type normalObject struct {
	arena *Arena
	addr  uintptr
	cell  int
	cells int
	flags atomic.Uint32
}

func (o *normalObject) Address() uintptr   { return o.addr }
func (o *normalObject) Flags() Flags       { return Flags(o.flags.Load()) }
func (o *normalObject) SetFlags(f Flags)   { o.flags.Store(uint32(Flags(o.flags.Load()) | f)) }
func (o *normalObject) ClearFlags(f Flags) { o.flags.Store(uint32(Flags(o.flags.Load()) &^ f)) }
func (o *normalObject) Prebuilt() bool     { return false }

// hugeObject is an oversized object whose own address is its arena base.
type hugeObject struct {
	addr  uintptr
	mem   []byte
	flags atomic.Uint32
}

func (o *hugeObject) Address() uintptr   { return o.addr }
func (o *hugeObject) Flags() Flags       { return Flags(o.flags.Load()) }
func (o *hugeObject) SetFlags(f Flags)   { o.flags.Store(uint32(Flags(o.flags.Load()) | f)) }
func (o *hugeObject) ClearFlags(f Flags) { o.flags.Store(uint32(Flags(o.flags.Load()) &^ f)) }
func (o *hugeObject) Prebuilt() bool     { return false }

// PrebuiltObject is a convenience Object implementation for mutator-owned
// statically-allocated values that should be treated as always-reachable
// roots once registered.
type PrebuiltObject struct {
	addr  uintptr
	flags atomic.Uint32
}

// NewPrebuiltObject wraps a stable address (e.g. the address of a global
// variable in the mutator's own data segment) as a prebuilt root.
func NewPrebuiltObject(addr uintptr) *PrebuiltObject {
	p := &PrebuiltObject{addr: addr}
	p.flags.Store(uint32(FlagPrebuilt))
	return p
}

func (o *PrebuiltObject) Address() uintptr   { return o.addr }
func (o *PrebuiltObject) Flags() Flags       { return Flags(o.flags.Load()) }
func (o *PrebuiltObject) SetFlags(f Flags)   { o.flags.Store(uint32(Flags(o.flags.Load()) | f)) }
func (o *PrebuiltObject) ClearFlags(f Flags) { o.flags.Store(uint32(Flags(o.flags.Load()) &^ f)) }
func (o *PrebuiltObject) Prebuilt() bool     { return true }
