package vgatext

// lineFeed is the only control byte the writer acts on
const lineFeed = '\n'

// Writer writes text to the bottom row of a Grid, scrolling the whole grid up
// on line feed or when the row is full. There is no row cursor; vertical
// movement is always a scroll.
//
// A Writer is not safe for concurrent use. Share it through a Console.
type Writer struct {
	grid   *Grid
	column int
	attr   Attribute
}

// NewWriter creates a writer over grid with the cursor at column 0
func NewWriter(grid *Grid, attr Attribute) *Writer {
	return &Writer{grid: grid, attr: attr}
}

// Grid returns the grid the writer draws on
func (w *Writer) Grid() *Grid {
	return w.grid
}

// Column returns the cursor column, in [0, Cols]
func (w *Writer) Column() int {
	return w.column
}

// Attribute returns the attribute used for new cells
func (w *Writer) Attribute() Attribute {
	return w.attr
}

// SetAttribute changes the attribute used for new cells
func (w *Writer) SetAttribute(attr Attribute) {
	w.attr = attr
}

// SetColor changes the colours used for new cells
func (w *Writer) SetColor(fg, bg Color) {
	w.attr = NewAttribute(fg, bg)
}

// WriteByte writes one raw byte. A line feed scrolls; any other byte is
// stored as-is at the cursor, wrapping (by scrolling) first if the row is
// already full. It never fails.
func (w *Writer) WriteByte(b byte) error {
	if b == lineFeed {
		w.Scroll()
		return nil
	}
	if w.column >= w.grid.cols {
		w.Scroll()
	}
	w.grid.Write(w.grid.rows-1, w.column, Cell{Char: b, Attr: w.attr})
	w.column++
	return nil
}

// Sanitize maps b to what the writer stores: printable ASCII and line feed
// pass through, everything else becomes Placeholder
func Sanitize(b byte) byte {
	if (b >= 0x20 && b <= 0x7E) || b == lineFeed {
		return b
	}
	return Placeholder
}

// WriteString writes s byte by byte after sanitising each byte
func (w *Writer) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		w.WriteByte(Sanitize(s[i]))
	}
	return len(s), nil
}

// Write implements io.Writer with the same sanitising as WriteString
func (w *Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		w.WriteByte(Sanitize(b))
	}
	return len(p), nil
}

// Scroll moves every row up by one, discarding the top row, blanks the
// bottom row with the current attribute, and returns the cursor to column 0
func (w *Writer) Scroll() {
	g := w.grid
	for row := 1; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			g.Write(row-1, col, g.Read(row, col))
		}
	}
	w.clearRow(g.rows - 1)
	w.column = 0
}

// Clear blanks the whole grid with the current attribute and returns the
// cursor to column 0
func (w *Writer) Clear() {
	w.grid.Fill(Blank(w.attr))
	w.column = 0
}

func (w *Writer) clearRow(row int) {
	blank := Blank(w.attr)
	for col := 0; col < w.grid.cols; col++ {
		w.grid.Write(row, col, blank)
	}
}
