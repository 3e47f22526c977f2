package qcgc

// startMarkCycle performs the start-of-cycle work the PAUSE→MARK
// transition requires (spec.md §4.4): push every shadow-stack root
// through push_object, then enqueue every registered prebuilt object
// directly, with no color test.
func (c *Collector) startMarkCycle() {
	c.phase = Mark
	c.logger().Event(LogInfo, EventMarkStart, F("gray", c.grayStackSize))

	for _, root := range c.shadow.roots() {
		c.pushObject(root)
	}
	for _, p := range c.prebuiltObjects {
		p.SetFlags(FlagGray)
		c.gpGray.Push(p)
		c.grayStackSize++
	}
	c.bytesSinceIncMark = 0
}

// pushObject is push_object from spec.md §4.4: enqueue obj onto the
// appropriate gray stack if and only if it is currently white (or, for
// huge objects, currently unmarked). Prebuilt objects are a no-op here;
// they are enqueued only by startMarkCycle and the write barrier.
func (c *Collector) pushObject(obj Object) {
	if obj == nil || obj.Prebuilt() {
		return
	}
	if c.isHuge(obj) {
		if c.hugeTable.mark(obj.Address()) {
			obj.SetFlags(FlagGray)
			c.gpGray.Push(obj)
			c.grayStackSize++
		}
		return
	}
	arena, cell, ok := c.locateNormal(obj)
	if !ok {
		return
	}
	if arena.getTag(cell) == CellWhite {
		obj.SetFlags(FlagGray)
		arena.setTag(cell, CellBlack)
		arena.gray.Push(obj)
		c.grayStackSize++
	}
}

// popObject is pop_object from spec.md §4.4: clear obj's GRAY flag, then
// trace its outgoing references, pushing each through push_object. The
// object's block-type tag (already BLACK) is left untouched.
func (c *Collector) popObject(obj Object) {
	obj.ClearFlags(FlagGray)
	c.tracer.Trace(obj, c.pushObject)
}

// incrementCount implements k = min(n, max(n/2, INC_MARK_MIN)) from
// spec.md §4.4.
func incrementCount(n int) int {
	if n <= 0 {
		return 0
	}
	half := n / 2
	if half < IncMarkMin {
		half = IncMarkMin
	}
	if half > n {
		half = n
	}
	return half
}

// mark runs the mark engine. If incremental, it processes one sized
// increment of the general-purpose gray stack and of every arena's
// gray stack, then returns. Otherwise it loops until the gray frontier
// is exhausted. Either way, phase is left at MARK unless the frontier
// emptied out, in which case mark transitions to COLLECT (spec.md §4.4).
func (c *Collector) mark(incremental bool) {
	if c.phase == Collect {
		return
	}
	if c.phase == Pause {
		c.startMarkCycle()
	}

	for c.grayStackSize > 0 {
		c.drainOnce(c.gpGray, incremental)
		for _, a := range c.arenas {
			c.drainOnce(a.gray, incremental)
		}
		if incremental {
			break
		}
	}

	if c.grayStackSize == 0 {
		c.phase = Collect
		c.logger().Event(LogInfo, EventMarkDone, F("incremental", incremental))
	}
}

func (c *Collector) drainOnce(stack *GrayStack, incremental bool) {
	n := stack.Len()
	k := n
	if incremental {
		k = incrementCount(n)
	}
	for i := 0; i < k; i++ {
		obj := stack.Pop()
		if obj == nil {
			return
		}
		c.grayStackSize--
		c.popObject(obj)
	}
}

// reGray re-applies push_object to a root that has just been pushed onto
// the shadow stack outside of PAUSE (spec.md §4.5): a mutator surfacing a
// white root mid-mark must not let it escape tracing just because it
// isn't BLACK yet. This is push_object itself, not the write barrier's
// shade-the-source rule, which only re-enqueues already-BLACK containers.
// pushObject always no-ops for prebuilt objects (they have no color of
// their own), so a prebuilt root is instead enqueued directly here, the
// same unconditional-but-idempotent rule startMarkCycle and the write
// barrier use for prebuilt objects elsewhere.
func (c *Collector) reGray(obj Object) {
	if obj == nil {
		return
	}
	if obj.Prebuilt() {
		if obj.Flags()&FlagGray != 0 {
			return
		}
		obj.SetFlags(FlagGray)
		c.gpGray.Push(obj)
		c.grayStackSize++
		return
	}
	c.pushObject(obj)
}

// Write is the Dijkstra write barrier (spec.md §4.3): shade the source,
// i.e. the container being mutated, not the value being stored into it.
func (c *Collector) Write(container Object) {
	c.barrierGray(container, true)
}

func (c *Collector) barrierGray(container Object, registerPrebuilt bool) {
	if container == nil {
		return
	}
	if container.Flags()&FlagGray != 0 {
		return
	}
	container.SetFlags(FlagGray)

	if registerPrebuilt && container.Prebuilt() {
		if container.Flags()&FlagPrebuiltRegistered == 0 {
			container.SetFlags(FlagPrebuiltRegistered)
			c.prebuiltObjects = append(c.prebuiltObjects, container)
		}
	}

	if c.phase == Pause {
		// GRAY is observed by the next mark-start as a prior dirtying;
		// no stack is live to enqueue onto yet.
		return
	}
	c.phase = Mark

	switch {
	case container.Prebuilt():
		c.gpGray.Push(container)
		c.grayStackSize++
	case c.isHuge(container):
		if c.hugeTable.isMarked(container.Address()) {
			c.gpGray.Push(container)
			c.grayStackSize++
		}
	default:
		arena, cell, ok := c.locateNormal(container)
		if ok && arena.getTag(cell) == CellBlack {
			arena.gray.Push(container)
			c.grayStackSize++
		}
	}
}
