package qcgc

import (
	"unsafe"

	"github.com/quasiconcurrent/qcgc/internal/blocklayout"
)

const (
	// CellSize is the unit of allocation alignment within an arena.
	CellSize = 16
	// ArenaCells is the number of cells per arena.
	ArenaCells = 4096
	// ArenaSize is the byte size (and required alignment) of an arena.
	ArenaSize = CellSize * ArenaCells
	// LargeAllocExp is the size-class exponent above which allocate()
	// delegates to the huge-block allocator instead of the arena
	// allocators.
	LargeAllocExp = 12 // 2^12 == ArenaSize/16, i.e. 4096 bytes
)

func cellTag(t BlockType) blocklayout.Tag { return blocklayout.Tag(t) }
func blockType(t blocklayout.Tag) BlockType { return BlockType(t) }

// Arena owns a contiguous, arena-size-aligned region of memory together
// with the block-type bitmap describing every cell in it, and a gray
// stack for objects whose head lives here.
type Arena struct {
	base     uintptr
	mem      []byte
	cellType *blocklayout.Bitmap
	gray     *GrayStack

	// bumpNext is the first cell not yet handed out by the bump
	// allocator. Cells at or past bumpNext are untouched reserve space,
	// not tracked by the fit allocator's free lists.
	bumpNext int
}

func newArena(base uintptr, mem []byte) *Arena {
	return &Arena{
		base:     base,
		mem:      mem,
		cellType: blocklayout.New(ArenaCells),
		gray:     newGrayStack(),
	}
}

// Cells returns the number of cells in the arena.
func (a *Arena) Cells() int { return ArenaCells }

// Base returns the arena's aligned base address.
func (a *Arena) Base() uintptr { return a.base }

// cellFromAddr converts an address known to lie within this arena to a
// cell index.
func (a *Arena) cellFromAddr(addr uintptr) int {
	return int((addr - a.base) / CellSize)
}

// addrFromCell converts a cell index back to its address.
func (a *Arena) addrFromCell(cell int) uintptr {
	return a.base + uintptr(cell)*CellSize
}

func (a *Arena) pointer(cell int) unsafe.Pointer {
	return unsafe.Pointer(&a.mem[cell*CellSize])
}

func (a *Arena) getTag(cell int) BlockType { return blockType(a.cellType.Get(cell)) }
func (a *Arena) setTag(cell int, t BlockType) { a.cellType.Set(cell, cellTag(t)) }

// findHead walks backwards from a cell that may be an extent cell to the
// head cell of the object it belongs to.
func (a *Arena) findHead(cell int) int {
	for a.getTag(cell) == CellExtent {
		cell--
	}
	return cell
}

// findNext returns the cell index just past the tail of the object whose
// head is at cell.
func (a *Arena) findNext(cell int) int {
	cell++
	for cell < ArenaCells && a.getTag(cell) == CellExtent {
		cell++
	}
	return cell
}

// arenaBaseOf masks an address down to its containing arena's base
// address. A huge object's address always equals its own arenaBaseOf,
// but so does the address of a normal object in cell 0 of an arena, so
// the collector does not use this to recognize huge objects: isHuge
// checks the object's type and the huge-block table instead.
func arenaBaseOf(addr uintptr) uintptr {
	return addr &^ (ArenaSize - 1)
}
