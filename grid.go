package vgatext

import "fmt"

// Default text-mode dimensions
const (
	DefaultRows = 25
	DefaultCols = 80
)

// Source is a read-only view of a cell grid, as used by display adapters
type Source interface {
	Rows() int
	Cols() int
	Read(row, col int) Cell
}

// Grid is a fixed ROWS x COLS matrix of cells over a Region, row-major with
// the top row first. It is never resized or remapped.
type Grid struct {
	region *Region
	rows   int
	cols   int
}

// NewGrid lays out a rows x cols grid over the region
func NewGrid(region *Region, rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("vgatext: grid of %dx%d", rows, cols))
	}
	if rows*cols > region.Len() {
		panic(fmt.Sprintf("vgatext: %dx%d grid does not fit a region of %d cells", rows, cols, region.Len()))
	}
	return &Grid{region: region, rows: rows, cols: cols}
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Region returns the memory the grid is laid over
func (g *Grid) Region() *Region { return g.region }

func (g *Grid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("vgatext: cell (%d,%d) outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// Read returns the cell at (row, col)
func (g *Grid) Read(row, col int) Cell {
	return g.region.Load(g.index(row, col))
}

// Write stores cell at (row, col)
func (g *Grid) Write(row, col int, cell Cell) {
	g.region.Store(g.index(row, col), cell)
}

// Row returns a snapshot of one row
func (g *Grid) Row(row int) []Cell {
	out := make([]Cell, g.cols)
	for col := range out {
		out[col] = g.Read(row, col)
	}
	return out
}

// Fill sets every cell of the grid to cell
func (g *Grid) Fill(cell Cell) {
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			g.Write(row, col, cell)
		}
	}
}

// Text returns the characters of one row as a string, trailing blanks kept
func (g *Grid) Text(row int) string {
	buf := make([]byte, g.cols)
	for col := range buf {
		buf[col] = g.Read(row, col).Char
	}
	return string(buf)
}
