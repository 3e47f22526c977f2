package qcgc

// BlockType is the per-cell tag stored in an arena's block map.
type BlockType uint8

const (
	// CellFree cells are available for allocation.
	CellFree BlockType = iota
	// CellWhite cells hold an object not yet proven reachable this cycle.
	CellWhite
	// CellBlack cells hold an object already traced this cycle.
	CellBlack
	// CellExtent cells belong to the interior of a multi-cell object; the
	// object's color lives on its head cell only.
	CellExtent
)

func (t BlockType) String() string {
	switch t {
	case CellFree:
		return "free"
	case CellWhite:
		return "white"
	case CellBlack:
		return "black"
	case CellExtent:
		return "extent"
	default:
		return "invalid"
	}
}

// Flags is the per-object bitmask every object carries.
type Flags uint32

const (
	// FlagGray marks an object as pending trace (see Color).
	FlagGray Flags = 1 << iota
	// FlagPrebuilt marks an object that lives outside managed arenas and
	// is statically reachable.
	FlagPrebuilt
	// FlagPrebuiltRegistered marks a prebuilt object already appended to
	// the collector's prebuilt-roots list.
	FlagPrebuiltRegistered
)

// Color is the derived tri-color state reported to diagnostics.
type Color uint8

const (
	ColorWhite Color = iota
	ColorLightGray
	ColorDarkGray
	ColorBlack
	ColorInvalid
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorLightGray:
		return "light-gray"
	case ColorDarkGray:
		return "dark-gray"
	case ColorBlack:
		return "black"
	default:
		return "invalid"
	}
}

// Phase is the collector's current half of the tri-color cycle.
type Phase uint8

const (
	Pause Phase = iota
	Mark
	Collect
)

func (p Phase) String() string {
	switch p {
	case Pause:
		return "pause"
	case Mark:
		return "mark"
	case Collect:
		return "collect"
	default:
		return "invalid"
	}
}
