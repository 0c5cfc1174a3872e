package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/glyph"
)

// FrameInterval is how often the render loop polls the buffer
const FrameInterval = 16 * time.Millisecond

// Renderer draws the buffer into the host terminal
type Renderer struct {
	view *Viewer
	mu   sync.Mutex

	lastCells [][]vgatext.Cell // Previous frame for differential rendering
	frames    int

	// Output buffer for batching writes
	output strings.Builder

	borderChars borderCharSet
}

// borderCharSet contains the characters for drawing borders
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var borderStyles = map[BorderStyle]borderCharSet{
	BorderSingle: {
		topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
	BorderDouble: {
		topLeft: '╔', topRight: '╗', bottomLeft: '╚', bottomRight: '╝',
		horizontal: '═', vertical: '║', titleLeft: '╡', titleRight: '╞',
	},
	BorderHeavy: {
		topLeft: '┏', topRight: '┓', bottomLeft: '┗', bottomRight: '┛',
		horizontal: '━', vertical: '┃', titleLeft: '┫', titleRight: '┣',
	},
	BorderRounded: {
		topLeft: '╭', topRight: '╮', bottomLeft: '╰', bottomRight: '╯',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
}

// NewRenderer creates a renderer for the viewer
func NewRenderer(v *Viewer) *Renderer {
	r := &Renderer{view: v}
	if v.options.BorderStyle != BorderNone {
		r.borderChars = borderStyles[v.options.BorderStyle]
	}
	return r
}

// RenderLoop polls the buffer until the viewer stops. The buffer has no
// change notification, so every tick renders; unchanged frames cost only
// the comparison.
func (r *Renderer) RenderLoop() {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Render()
		case <-r.view.stopRender:
			return
		}
	}
}

// Render draws the cells that changed since the last frame
func (r *Renderer) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.output.Reset()
	r.lastCells = r.renderTo(&r.output, r.lastCells)
	r.frames++

	io.WriteString(r.view.options.Output, r.output.String())
}

// RenderToString renders a complete frame and returns the escape sequence
// string instead of writing it, for embedding in another TUI
func (r *Renderer) RenderToString() string {
	var out strings.Builder
	r.renderTo(&out, nil)
	return out.String()
}

// ForceFullRedraw drops the previous frame so the next Render draws every cell
func (r *Renderer) ForceFullRedraw() {
	r.mu.Lock()
	r.lastCells = nil
	r.mu.Unlock()
}

// Frames returns how many frames Render has drawn
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// renderTo writes a frame to out, skipping cells equal to prev, and returns
// the frame it read
func (r *Renderer) renderTo(out *strings.Builder, prev [][]vgatext.Cell) [][]vgatext.Cell {
	r.view.mu.Lock()
	opts := r.view.options
	r.view.mu.Unlock()

	src := r.view.src
	rows, cols := src.Rows(), src.Cols()

	contentX, contentY := opts.OffsetX, opts.OffsetY
	if opts.BorderStyle != BorderNone {
		contentX++
		contentY++
	}

	out.WriteString("\033[?25l")

	full := prev == nil || len(prev) != rows
	if full && opts.BorderStyle != BorderNone {
		r.renderBorderTo(out, opts.OffsetX, opts.OffsetY, cols, rows, opts.Title)
	}

	cells := make([][]vgatext.Cell, rows)
	var current vgatext.Attribute
	first := true
	cursorX, cursorY := -1, -1

	for y := 0; y < rows; y++ {
		cells[y] = make([]vgatext.Cell, cols)
		rowFull := full || len(prev[y]) != cols
		for x := 0; x < cols; x++ {
			cell := src.Read(y, x)
			cells[y][x] = cell
			if !rowFull && prev[y][x] == cell {
				continue
			}

			// Consecutive changed cells need no cursor movement
			if x != cursorX || y != cursorY {
				fmt.Fprintf(out, "\033[%d;%dH", contentY+y+1, contentX+x+1)
			}
			if first || cell.Attr != current {
				fmt.Fprintf(out, "\033[0;%s;%sm",
					cell.Foreground().ToSGRCode(true), cell.Background().ToSGRCode(false))
				current = cell.Attr
				first = false
			}
			out.WriteRune(glyph.Rune(cell.Char))
			cursorX, cursorY = x+1, y
		}
	}

	if opts.ShowStatusBar {
		r.renderStatusBarTo(out, opts, contentY+rows, cols)
	}

	out.WriteString("\033[0m")
	return cells
}

// renderBorderTo draws the window border
func (r *Renderer) renderBorderTo(out *strings.Builder, x, y, innerCols, innerRows int, title string) {
	bc := r.borderChars

	fmt.Fprintf(out, "\033[%d;%dH\033[0m", y+1, x+1)
	out.WriteRune(bc.topLeft)

	if title != "" && len(title) < innerCols-4 {
		padding := (innerCols - len(title) - 2) / 2
		out.WriteString(strings.Repeat(string(bc.horizontal), padding))
		out.WriteRune(bc.titleLeft)
		out.WriteString(" " + title + " ")
		out.WriteRune(bc.titleRight)
		out.WriteString(strings.Repeat(string(bc.horizontal), innerCols-padding-len(title)-4))
	} else {
		out.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	}
	out.WriteRune(bc.topRight)

	for row := 0; row < innerRows; row++ {
		fmt.Fprintf(out, "\033[%d;%dH", y+row+2, x+1)
		out.WriteRune(bc.vertical)
		fmt.Fprintf(out, "\033[%d;%dH", y+row+2, x+innerCols+2)
		out.WriteRune(bc.vertical)
	}

	fmt.Fprintf(out, "\033[%d;%dH", y+innerRows+2, x+1)
	out.WriteRune(bc.bottomLeft)
	out.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	out.WriteRune(bc.bottomRight)
}

// renderStatusBarTo draws the reverse-video status line below the buffer
func (r *Renderer) renderStatusBarTo(out *strings.Builder, opts Options, y, width int) {
	x := opts.OffsetX
	if opts.BorderStyle != BorderNone {
		y++ // below the bottom border
		width += 2
	}
	fmt.Fprintf(out, "\033[%d;%dH\033[0m\033[7m", y+1, x+1)

	src := r.view.src
	status := fmt.Sprintf(" Size: %dx%d ", src.Cols(), src.Rows())
	if opts.Status != nil {
		if extra := opts.Status(); extra != "" {
			status += "| " + extra + " "
		}
	}
	if len(status) < width {
		status += strings.Repeat(" ", width-len(status))
	} else if len(status) > width {
		status = status[:width]
	}
	out.WriteString(status)
	out.WriteString("\033[27m")
}
