package vgatext

// Placeholder is the glyph stored in place of any byte the glyph set cannot show
const Placeholder byte = 0xFE

// Cell represents a single character cell in the text grid.
// In memory a cell is two bytes: Char first, then Attr.
type Cell struct {
	Char byte      // Code point in the adapter's single-byte glyph set
	Attr Attribute // Packed foreground/background colour
}

// Blank returns a space cell with the given attribute
func Blank(attr Attribute) Cell {
	return Cell{Char: ' ', Attr: attr}
}

// Foreground returns the cell's foreground colour
func (c Cell) Foreground() Color {
	return c.Attr.Foreground()
}

// Background returns the cell's background colour
func (c Cell) Background() Color {
	return c.Attr.Background()
}

// pack returns the 16-bit little-endian cell word (char in the low byte)
func (c Cell) pack() uint16 {
	return uint16(c.Char) | uint16(c.Attr)<<8
}

func unpack(v uint16) Cell {
	return Cell{Char: byte(v), Attr: Attribute(v >> 8)}
}
