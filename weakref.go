package qcgc

// WeakrefSlot is the holder-owned storage location a weak reference
// clears when its target dies. Mutators pass a pointer to one of their
// own fields.
type WeakrefSlot interface {
	// Get returns the current target, or nil if already cleared.
	Get() Object
	// Clear nulls the slot out.
	Clear()
}

type weakrefRecord struct {
	holder Object
	slot   WeakrefSlot
}

// WeakrefBag is the unordered multiset of (holder, slot) records from
// spec.md §3/§4.8.
type WeakrefBag struct {
	records []weakrefRecord
}

func newWeakrefBag() *WeakrefBag { return &WeakrefBag{} }

// Len reports how many weakrefs are currently registered.
func (b *WeakrefBag) Len() int { return len(b.records) }

// register records a weak reference. Precondition (spec.md §3): at
// registration time slot.Get() must already point at a valid,
// non-prebuilt object.
func (b *WeakrefBag) register(holder Object, slot WeakrefSlot) {
	b.records = append(b.records, weakrefRecord{holder: holder, slot: slot})
}
