package vgatext

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// DefaultBase is the physical address of colour text-mode memory
const DefaultBase uintptr = 0xB8000

// Region is a bounds-checked view over a fixed range of cell memory.
//
// Cells are two bytes each and are packed two to a 32-bit word. Every access
// is a single atomic load or store of the word holding the cell, so the
// compiler can neither elide nor reorder it, and an observer reading the same
// memory (the display, or a host viewer goroutine) never sees a torn cell.
// The accessors are the only way to reach the memory.
type Region struct {
	words []uint32
	cells int
	base  uintptr
}

// littleEndian reports whether the lower-addressed half of a word is its
// low 16 bits on this machine
var littleEndian = func() bool {
	var w uint32 = 1
	return *(*byte)(unsafe.Pointer(&w)) == 1
}()

// MapRegion binds a region to cells of memory starting at base.
// The base must be 4-byte aligned. The mapping is never moved or resized.
func MapRegion(base uintptr, cells int) *Region {
	if cells <= 0 {
		panic(fmt.Sprintf("vgatext: region of %d cells", cells))
	}
	if base&3 != 0 {
		panic(fmt.Sprintf("vgatext: region base %#x is not word aligned", base))
	}
	words := unsafe.Slice((*uint32)(unsafe.Pointer(base)), (cells+1)/2)
	return &Region{words: words, cells: cells, base: base}
}

// NewRegion allocates a zeroed region in ordinary memory. Hosted machines and
// tests use it in place of the physical mapping.
func NewRegion(cells int) *Region {
	if cells <= 0 {
		panic(fmt.Sprintf("vgatext: region of %d cells", cells))
	}
	words := make([]uint32, (cells+1)/2)
	return &Region{words: words, cells: cells, base: uintptr(unsafe.Pointer(&words[0]))}
}

// Len returns the number of cells in the region
func (r *Region) Len() int {
	return r.cells
}

// Base returns the address of the first cell
func (r *Region) Base() uintptr {
	return r.base
}

// shift returns the bit offset of cell i inside its word
func shift(i int) uint {
	lower := i&1 == 0
	if lower == littleEndian {
		return 0
	}
	return 16
}

// toMemory converts a packed cell to the 16-bit value whose in-memory byte
// order is char then attribute
func toMemory(v uint16) uint16 {
	if littleEndian {
		return v
	}
	return v<<8 | v>>8
}

func (r *Region) check(i int) {
	if i < 0 || i >= r.cells {
		panic(fmt.Sprintf("vgatext: cell index %d out of range [0,%d)", i, r.cells))
	}
}

// Load reads cell i
func (r *Region) Load(i int) Cell {
	r.check(i)
	w := atomic.LoadUint32(&r.words[i>>1])
	return unpack(toMemory(uint16(w >> shift(i))))
}

// Store writes cell i. The neighbouring cell in the same word is preserved.
func (r *Region) Store(i int, c Cell) {
	r.check(i)
	p := &r.words[i>>1]
	s := shift(i)
	mask := uint32(0xFFFF) << s
	v := uint32(toMemory(c.pack())) << s
	for {
		old := atomic.LoadUint32(p)
		if atomic.CompareAndSwapUint32(p, old, old&^mask|v) {
			return
		}
	}
}

// Dump returns the region's byte image in memory order:
// char, attribute, char, attribute ...
func (r *Region) Dump() []byte {
	out := make([]byte, 2*r.cells)
	for i := 0; i < r.cells; i++ {
		c := r.Load(i)
		out[2*i] = c.Char
		out[2*i+1] = byte(c.Attr)
	}
	return out
}
