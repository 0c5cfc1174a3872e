package vgatextgtk

import (
	"sync"

	"github.com/gotk3/gotk3/cairo"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/glyph"
)

// Padding around the cell area (pixels)
const padding = 8

// Widget is a GTK drawing area showing a text buffer
type Widget struct {
	mu sync.Mutex

	drawingArea *gtk.DrawingArea
	src         vgatext.Source

	// Font settings
	fontFamily string
	fontSize   int
	charWidth  int
	charHeight int
	charAscent int

	refreshTimerID glib.SourceHandle

	// Callback for typed bytes
	onInput func([]byte)
}

// NewWidget creates a widget polling src every refreshMillis milliseconds
func NewWidget(src vgatext.Source, refreshMillis uint) (*Widget, error) {
	w := &Widget{
		src:        src,
		fontFamily: "Monospace",
		fontSize:   14,
	}
	w.updateFontMetrics()

	var err error
	w.drawingArea, err = gtk.DrawingAreaNew()
	if err != nil {
		return nil, err
	}
	w.drawingArea.AddEvents(int(gdk.KEY_PRESS_MASK | gdk.BUTTON_PRESS_MASK))
	w.drawingArea.SetCanFocus(true)
	w.drawingArea.Connect("draw", w.onDraw)
	w.drawingArea.Connect("key-press-event", w.onKeyPress)
	w.drawingArea.Connect("button-press-event", func(da *gtk.DrawingArea, ev *gdk.Event) bool {
		da.GrabFocus()
		return false
	})
	w.updateSizeRequest()

	// The buffer has no change notification; repaint on a timer the way the
	// adapter rescans memory every frame
	w.refreshTimerID = glib.TimeoutAdd(refreshMillis, func() bool {
		w.drawingArea.QueueDraw()
		return true
	})

	return w, nil
}

// DrawingArea returns the drawing area widget
func (w *Widget) DrawingArea() *gtk.DrawingArea {
	return w.drawingArea
}

// SetFont sets the font used for glyphs
func (w *Widget) SetFont(family string, size int) {
	w.mu.Lock()
	w.fontFamily = family
	w.fontSize = size
	w.updateFontMetrics()
	w.mu.Unlock()

	w.updateSizeRequest()
	w.drawingArea.QueueDraw()
}

// SetInputCallback sets the callback for typed bytes
func (w *Widget) SetInputCallback(fn func([]byte)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onInput = fn
}

// Close stops the refresh timer
func (w *Widget) Close() {
	glib.SourceRemove(w.refreshTimerID)
}

// updateFontMetrics estimates cell metrics from the font size. Must be
// called with w.mu held or before the widget is shared.
func (w *Widget) updateFontMetrics() {
	w.charWidth = w.fontSize * 6 / 10
	if w.charWidth < 1 {
		w.charWidth = 10
	}
	w.charHeight = w.fontSize * 12 / 10
	if w.charHeight < 1 {
		w.charHeight = 20
	}
	w.charAscent = w.fontSize
}

func (w *Widget) updateSizeRequest() {
	w.mu.Lock()
	width := w.src.Cols()*w.charWidth + 2*padding
	height := w.src.Rows()*w.charHeight + 2*padding
	w.mu.Unlock()
	w.drawingArea.SetSizeRequest(width, height)
}

func setSource(cr *cairo.Context, c vgatext.Color) {
	rgb := c.RGB()
	cr.SetSourceRGB(float64(rgb.R)/255.0, float64(rgb.G)/255.0, float64(rgb.B)/255.0)
}

func (w *Widget) onDraw(da *gtk.DrawingArea, cr *cairo.Context) bool {
	w.mu.Lock()
	fontFamily := w.fontFamily
	fontSize := w.fontSize
	charWidth := float64(w.charWidth)
	charHeight := float64(w.charHeight)
	charAscent := float64(w.charAscent)
	w.mu.Unlock()

	alloc := da.GetAllocation()
	setSource(cr, vgatext.Black)
	cr.Rectangle(0, 0, float64(alloc.GetWidth()), float64(alloc.GetHeight()))
	cr.Fill()

	cr.SelectFontFace(fontFamily, cairo.FONT_SLANT_NORMAL, cairo.FONT_WEIGHT_NORMAL)
	cr.SetFontSize(float64(fontSize))

	rows, cols := w.src.Rows(), w.src.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := w.src.Read(y, x)
			cellX := padding + float64(x)*charWidth
			cellY := padding + float64(y)*charHeight

			if bg := cell.Background(); bg != vgatext.Black {
				setSource(cr, bg)
				cr.Rectangle(cellX, cellY, charWidth, charHeight)
				cr.Fill()
			}
			r := glyph.Rune(cell.Char)
			if r == ' ' || r == '\u00a0' {
				continue
			}
			setSource(cr, cell.Foreground())
			cr.MoveTo(cellX, cellY+charAscent)
			cr.ShowText(string(r))
		}
	}
	return false
}

func (w *Widget) onKeyPress(da *gtk.DrawingArea, ev *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(ev)
	keyval := key.KeyVal()
	hasCtrl := key.State()&uint(gdk.CONTROL_MASK) != 0

	w.mu.Lock()
	onInput := w.onInput
	w.mu.Unlock()
	if onInput == nil {
		return false
	}

	var data []byte
	switch keyval {
	case gdk.KEY_Return, gdk.KEY_KP_Enter:
		data = []byte{'\r'}
	case gdk.KEY_BackSpace:
		data = []byte{0x7f}
	case gdk.KEY_Tab:
		data = []byte{'\t'}
	case gdk.KEY_Escape:
		data = []byte{0x1b}
	default:
		r := gdk.KeyvalToUnicode(keyval)
		switch {
		case r == 0 || r >= 0x80:
			return false
		case hasCtrl && r >= 'a' && r <= 'z':
			data = []byte{byte(r-'a') + 1}
		case hasCtrl && r >= 'A' && r <= 'Z':
			data = []byte{byte(r-'A') + 1}
		default:
			data = []byte{byte(r)}
		}
	}
	onInput(data)
	return true
}
