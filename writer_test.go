package vgatext

import (
	"strings"
	"testing"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	grid := NewGrid(NewRegion(DefaultRows*DefaultCols), DefaultRows, DefaultCols)
	w := NewWriter(grid, NewAttribute(LightGray, Blue))
	w.Clear()
	return w
}

// TestWriteBytePrintable verifies every printable byte lands at the cursor
func TestWriteBytePrintable(t *testing.T) {
	w := newTestWriter(t)
	bottom := DefaultRows - 1

	for b := 0x20; b <= 0x7E; b++ {
		if w.Column() == DefaultCols {
			w.Scroll()
		}
		col := w.Column()
		w.WriteByte(byte(b))

		got := w.Grid().Read(bottom, col)
		want := Cell{Char: byte(b), Attr: w.Attribute()}
		if got != want {
			t.Fatalf("byte %#x: got %+v at column %d, want %+v", b, got, col, want)
		}
		if w.Column() != col+1 {
			t.Fatalf("byte %#x: column %d, want %d", b, w.Column(), col+1)
		}
	}
}

// TestWriteStringPlaceholder verifies unprintable bytes are stored as the placeholder
func TestWriteStringPlaceholder(t *testing.T) {
	for b := 0; b < 256; b++ {
		if (b >= 0x20 && b <= 0x7E) || b == '\n' {
			continue
		}
		w := newTestWriter(t)
		w.WriteString(string([]byte{byte(b)}))

		got := w.Grid().Read(DefaultRows-1, 0)
		if got.Char != Placeholder {
			t.Errorf("byte %#x stored as %#x, want %#x", b, got.Char, Placeholder)
		}
		if w.Column() != 1 {
			t.Errorf("byte %#x: column %d, want 1", b, w.Column())
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{' ', ' '},
		{'~', '~'},
		{'A', 'A'},
		{'\n', '\n'},
		{'\r', Placeholder},
		{'\t', Placeholder},
		{0x00, Placeholder},
		{0x7F, Placeholder},
		{0x80, Placeholder},
		{0xFE, Placeholder},
		{0xFF, Placeholder},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%#x) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

// TestWrapOnOverflow verifies the wrap happens on the byte after a full row
func TestWrapOnOverflow(t *testing.T) {
	w := newTestWriter(t)
	bottom := DefaultRows - 1

	w.WriteString(strings.Repeat("x", DefaultCols))
	if w.Column() != DefaultCols {
		t.Fatalf("column after a full row = %d, want %d", w.Column(), DefaultCols)
	}
	if got := w.Grid().Read(bottom-1, 0).Char; got != ' ' {
		t.Fatalf("scrolled too early: row above bottom holds %q", got)
	}

	w.WriteString("y")
	if w.Column() != 1 {
		t.Fatalf("column after wrap = %d, want 1", w.Column())
	}
	if got := w.Grid().Text(bottom - 1); got != strings.Repeat("x", DefaultCols) {
		t.Errorf("full row not scrolled up intact: %q", got)
	}
	if got := w.Grid().Read(bottom, 0).Char; got != 'y' {
		t.Errorf("bottom row column 0 = %q, want 'y'", got)
	}
	if got := w.Grid().Read(bottom-2, 0).Char; got != ' ' {
		t.Errorf("wrapped more than once: row %d holds %q", bottom-2, got)
	}
}

// TestLineFeedScrollsOnce verifies a line feed resets the cursor from any column
func TestLineFeedScrollsOnce(t *testing.T) {
	for _, n := range []int{0, 1, 40, DefaultCols} {
		w := newTestWriter(t)
		w.WriteString(strings.Repeat("z", n))
		w.WriteByte('\n')

		if w.Column() != 0 {
			t.Errorf("after %d bytes and LF: column %d, want 0", n, w.Column())
		}
		if got := w.Grid().Text(DefaultRows - 2); got != strings.Repeat("z", n)+strings.Repeat(" ", DefaultCols-n) {
			t.Errorf("after %d bytes and LF: row above bottom is %q", n, got)
		}
		if got := w.Grid().Text(DefaultRows - 3); strings.TrimSpace(got) != "" {
			t.Errorf("after %d bytes and LF: more than one scroll, row %d is %q", n, DefaultRows-3, got)
		}
	}
}

// TestScrollShiftLaw verifies every row moves up by exactly one
func TestScrollShiftLaw(t *testing.T) {
	w := newTestWriter(t)
	g := w.Grid()

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			g.Write(row, col, Cell{Char: byte('A' + (row+col)%26), Attr: Attribute(row)})
		}
	}
	before := make([][]Cell, g.Rows())
	for row := range before {
		before[row] = g.Row(row)
	}

	w.SetColor(White, Red)
	w.Scroll()

	for row := 1; row < g.Rows(); row++ {
		got := g.Row(row - 1)
		for col := range got {
			if got[col] != before[row][col] {
				t.Fatalf("cell (%d,%d) = %+v, want former (%d,%d) %+v", row-1, col, got[col], row, col, before[row][col])
			}
		}
	}
	blank := Blank(NewAttribute(White, Red))
	for col, c := range g.Row(g.Rows() - 1) {
		if c != blank {
			t.Fatalf("bottom row column %d = %+v, want %+v", col, c, blank)
		}
	}
	if w.Column() != 0 {
		t.Errorf("column after scroll = %d, want 0", w.Column())
	}
}

// TestRoundTripHi writes "hi\n" into a cleared grid
func TestRoundTripHi(t *testing.T) {
	w := newTestWriter(t)
	w.WriteString("hi\n")
	g := w.Grid()
	attr := w.Attribute()

	for col, c := range g.Row(DefaultRows - 1) {
		if c != Blank(attr) {
			t.Fatalf("bottom row column %d = %+v, want blank", col, c)
		}
	}
	if got := g.Read(DefaultRows-2, 0); got != (Cell{Char: 'h', Attr: attr}) {
		t.Errorf("(%d,0) = %+v, want 'h'", DefaultRows-2, got)
	}
	if got := g.Read(DefaultRows-2, 1); got != (Cell{Char: 'i', Attr: attr}) {
		t.Errorf("(%d,1) = %+v, want 'i'", DefaultRows-2, got)
	}
	if w.Column() != 0 {
		t.Errorf("column = %d, want 0", w.Column())
	}
}

// TestSanitizeScenario verifies an invalid byte is neither dropped nor treated as a line feed
func TestSanitizeScenario(t *testing.T) {
	w := newTestWriter(t)
	w.WriteString("A\x01B")
	g := w.Grid()
	bottom := DefaultRows - 1

	want := []byte{'A', Placeholder, 'B'}
	for col, ch := range want {
		if got := g.Read(bottom, col).Char; got != ch {
			t.Errorf("column %d = %#x, want %#x", col, got, ch)
		}
	}
	if w.Column() != 3 {
		t.Errorf("column = %d, want 3", w.Column())
	}
	if got := strings.TrimSpace(g.Text(bottom - 1)); got != "" {
		t.Errorf("row above bottom should be blank, got %q", got)
	}
}

func TestWriteMatchesWriteString(t *testing.T) {
	a := newTestWriter(t)
	b := newTestWriter(t)
	text := "mixed\x00\xffbytes\nand more"

	n, err := a.Write([]byte(text))
	if err != nil || n != len(text) {
		t.Fatalf("Write = %d, %v", n, err)
	}
	b.WriteString(text)

	for row := 0; row < DefaultRows; row++ {
		if a.Grid().Text(row) != b.Grid().Text(row) {
			t.Fatalf("row %d differs: %q vs %q", row, a.Grid().Text(row), b.Grid().Text(row))
		}
	}
	if a.Column() != b.Column() {
		t.Errorf("columns differ: %d vs %d", a.Column(), b.Column())
	}
}

func TestWriteByteRaw(t *testing.T) {
	w := newTestWriter(t)
	w.WriteByte(0x01)
	if got := w.Grid().Read(DefaultRows-1, 0).Char; got != 0x01 {
		t.Errorf("WriteByte stored %#x, want raw 0x01", got)
	}
}

// TestClearBlanksWithCurrentAttribute verifies Clear fills the whole grid
// with blanks in the current colours and homes the column
func TestClearBlanksWithCurrentAttribute(t *testing.T) {
	w := newTestWriter(t)
	w.WriteString("some text\nmore")
	w.SetColor(White, Red)
	w.Clear()

	want := Blank(NewAttribute(White, Red))
	g := w.Grid()
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if got := g.Read(row, col); got != want {
				t.Fatalf("cell (%d,%d) = %+v, want %+v", row, col, got, want)
			}
		}
	}
	if w.Column() != 0 {
		t.Errorf("column = %d after Clear, want 0", w.Column())
	}
}
