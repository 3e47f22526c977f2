package qcgc

import "runtime/debug"

// DefaultShadowStackCapacity is the default root-stack depth (spec.md
// §3's "fixed-capacity buffer").
const DefaultShadowStackCapacity = 4096

// IncMarkMin is the floor on how many gray-stack entries one increment
// processes, regardless of how small the sampled frontier is (spec.md
// §4.4's increment sizing rationale).
const IncMarkMin = 32

// Collector is the single owning record for all collector state
// (spec.md §9: "An implementation should encapsulate state in one
// owning record... rather than relying on a hidden global").
type Collector struct {
	phase Phase

	bytesSinceCollection uint64
	bytesSinceIncMark    uint64
	grayStackSize        int

	freeCells        int
	largestFreeBlock int
	useBumpAllocator bool

	config    Config
	tracer    Tracer
	log       Logger
	pages     PageAllocator
	panicHook func(error)

	shadow         *ShadowStack
	shadowCapacity int
	hugeTable      *HugeBlockTable
	weakrefs       *WeakrefBag
	gpGray         *GrayStack

	prebuiltObjects []Object

	arenas     []*Arena
	freeArenas []*Arena
	arenaIndex map[uintptr]*Arena
	bumpArena  *Arena

	fit *fitAllocator
}

// Option configures a Collector at construction time.
type Option func(*Collector)

// WithLogger installs a non-default event Logger.
func WithLogger(l Logger) Option { return func(c *Collector) { c.log = l } }

// WithPageAllocator installs a non-default arena-page allocator.
func WithPageAllocator(p PageAllocator) Option { return func(c *Collector) { c.pages = p } }

// WithPanicHook overrides how fatal conditions terminate the process;
// tests install one that records the error instead of crashing.
func WithPanicHook(h func(error)) Option { return func(c *Collector) { c.panicHook = h } }

// WithShadowStackCapacity overrides the root-stack depth.
func WithShadowStackCapacity(n int) Option {
	return func(c *Collector) { c.shadowCapacity = n }
}

// New constructs and initializes a collector (spec.md §4.1's
// initialize()): it builds the shadow stack with its trap page, the
// arena pool, the huge-block table, and installs the fault translator
// that converts a shadow-stack overflow into a diagnostic.
func New(tracer Tracer, cfg Config, opts ...Option) (*Collector, error) {
	c := &Collector{
		phase:          Pause,
		config:         cfg,
		tracer:         tracer,
		log:            NullLogger{},
		pages:          NewUnixPageAllocator(),
		panicHook:      func(err error) { panic(err) },
		gpGray:         newGrayStack(),
		weakrefs:       newWeakrefBag(),
		arenaIndex:     make(map[uintptr]*Arena),
		shadowCapacity: DefaultShadowStackCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hugeTable = newHugeBlockTable(c.pages)
	c.fit = newFitAllocator()

	shadow, err := newShadowStack(c, c.shadowCapacity)
	if err != nil {
		return nil, err
	}
	c.shadow = shadow

	// Converts a hardware fault against the shadow stack's guard page
	// into a recoverable Go panic instead of crashing the process; the
	// portable analog of spec.md §4.1's installed signal handler.
	debug.SetPanicOnFault(true)
	return c, nil
}

func (c *Collector) logger() Logger {
	if c.log == nil {
		return NullLogger{}
	}
	return c.log
}

// Destroy unmaps the shadow-stack buffer together with its guard page,
// then returns every arena and huge block to the page allocator
// (spec.md §4.1's destroy()).
func (c *Collector) Destroy() error {
	if err := c.shadow.close(); err != nil {
		return err
	}
	for _, a := range c.arenas {
		c.pages.UnmapArena(a.mem)
	}
	for _, a := range c.freeArenas {
		c.pages.UnmapArena(a.mem)
	}
	for _, e := range c.hugeTable.entries {
		c.pages.UnmapArena(e.obj.mem)
	}
	return nil
}

// Phase reports the collector's current phase, for diagnostics and tests.
func (c *Collector) Phase() Phase { return c.phase }

// GrayStackSize reports the sum of the general-purpose and every arena
// gray stack's depth (spec.md invariant 2).
func (c *Collector) GrayStackSize() int { return c.grayStackSize }

// FreeCells and LargestFreeBlock report the last sweep's accounting
// (spec.md invariant 9).
func (c *Collector) FreeCells() int        { return c.freeCells }
func (c *Collector) LargestFreeBlock() int { return c.largestFreeBlock }

// UseBumpAllocator reports the fragmentation policy bit sweep last set
// (spec.md §4.7 step 6).
func (c *Collector) UseBumpAllocator() bool { return c.useBumpAllocator }

// ShadowStackPush and ShadowStackPop expose mutator root management.
func (c *Collector) ShadowStackPush(obj Object) { c.shadow.Push(obj) }
func (c *Collector) ShadowStackPop() Object     { return c.shadow.Pop() }

// RegisterWeakref records a weak reference. Preconditions are the
// caller's responsibility (spec.md §3): slot must currently point at a
// valid, non-prebuilt object.
func (c *Collector) RegisterWeakref(holder Object, slot WeakrefSlot) {
	c.weakrefs.register(holder, slot)
}

// GetMarkColor is the diagnostic surface from spec.md §6.
func (c *Collector) GetMarkColor(obj Object) Color {
	if obj == nil {
		return ColorInvalid
	}
	if obj.Prebuilt() {
		return ColorBlack
	}
	gray := obj.Flags()&FlagGray != 0
	if c.isHuge(obj) {
		switch {
		case c.hugeTable.isMarked(obj.Address()) && gray:
			return ColorDarkGray
		case c.hugeTable.isMarked(obj.Address()):
			return ColorBlack
		case gray:
			return ColorLightGray
		default:
			return ColorWhite
		}
	}
	arena, cell, ok := c.locateNormal(obj)
	if !ok {
		return ColorInvalid
	}
	switch arena.getTag(cell) {
	case CellWhite:
		if gray {
			return ColorLightGray
		}
		return ColorWhite
	case CellBlack:
		if gray {
			return ColorDarkGray
		}
		return ColorBlack
	default:
		return ColorInvalid
	}
}

func (c *Collector) isHuge(obj Object) bool {
	if _, ok := obj.(*hugeObject); ok {
		return true
	}
	return c.hugeTable.has(obj.Address())
}

func (c *Collector) locateNormal(obj Object) (*Arena, int, bool) {
	if no, ok := obj.(*normalObject); ok {
		return no.arena, no.cell, true
	}
	return nil, 0, false
}
