package vgatextqt

import (
	"runtime"
	"sync"

	"github.com/mappu/miqt/qt"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/glyph"
)

// Padding around the cell area (pixels)
const padding = 8

// Qt font size scale factor to match GTK/Pango font rendering
const qtFontSizeScale = 1.333

// Widget is a Qt widget showing a text buffer
type Widget struct {
	mu sync.Mutex

	widget *qt.QWidget
	src    vgatext.Source

	// Font settings
	fontFamily string
	fontSize   int
	charWidth  int
	charHeight int
	charAscent int

	refreshTimer *qt.QTimer

	// Callback for typed bytes
	onInput func([]byte)
}

// NewWidget creates a widget repainting src every refreshMillis milliseconds
func NewWidget(src vgatext.Source, refreshMillis int) *Widget {
	w := &Widget{
		widget:     qt.NewQWidget2(),
		src:        src,
		fontFamily: "Monospace",
		fontSize:   14,
	}
	w.updateFontMetrics()
	w.updateMinimumSize()

	w.widget.SetFocusPolicy(qt.StrongFocus)

	// The buffer has no change notification; repaint on a timer the way the
	// adapter rescans memory every frame
	w.refreshTimer = qt.NewQTimer2(w.widget.QObject)
	w.refreshTimer.OnTimeout(func() {
		w.widget.Update()
	})
	w.refreshTimer.Start(refreshMillis)

	w.widget.OnPaintEvent(func(super func(event *qt.QPaintEvent), event *qt.QPaintEvent) {
		w.paintEvent(event)
	})
	w.widget.OnKeyPressEvent(func(super func(event *qt.QKeyEvent), event *qt.QKeyEvent) {
		w.keyPressEvent(super, event)
	})

	return w
}

// QWidget returns the underlying widget
func (w *Widget) QWidget() *qt.QWidget {
	return w.widget
}

// SetFont sets the font used for glyphs
func (w *Widget) SetFont(family string, size int) {
	w.mu.Lock()
	w.fontFamily = family
	w.fontSize = size
	w.updateFontMetrics()
	w.mu.Unlock()

	w.updateMinimumSize()
	w.widget.Update()
}

// SetInputCallback sets the callback for typed bytes
func (w *Widget) SetInputCallback(fn func([]byte)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onInput = fn
}

// Close stops the refresh timer
func (w *Widget) Close() {
	w.refreshTimer.Stop()
}

// effectiveFontSize returns the font size scaled for Qt rendering
func (w *Widget) effectiveFontSize() int {
	return int(float64(w.fontSize) * qtFontSizeScale)
}

// updateFontMetrics must be called with w.mu held or before the widget is
// shared
func (w *Widget) updateFontMetrics() {
	effectiveSize := w.effectiveFontSize()
	font := qt.NewQFont6(w.fontFamily, effectiveSize)
	font.SetFixedPitch(true)
	metrics := qt.NewQFontMetrics(font)
	w.charWidth = metrics.AverageCharWidth()
	w.charHeight = metrics.Height()
	w.charAscent = metrics.Ascent()
	if w.charWidth < 1 {
		w.charWidth = effectiveSize * 6 / 10
	}
	if w.charHeight < 1 {
		w.charHeight = effectiveSize * 12 / 10
	}
}

func (w *Widget) updateMinimumSize() {
	w.mu.Lock()
	width := w.src.Cols()*w.charWidth + 2*padding
	height := w.src.Rows()*w.charHeight + 2*padding
	w.mu.Unlock()
	w.widget.SetMinimumSize2(width, height)
}

func qcolor(c vgatext.Color) *qt.QColor {
	rgb := c.RGB()
	return qt.NewQColor3(int(rgb.R), int(rgb.G), int(rgb.B))
}

func (w *Widget) paintEvent(event *qt.QPaintEvent) {
	w.mu.Lock()
	fontFamily := w.fontFamily
	fontSize := w.effectiveFontSize()
	charWidth := w.charWidth
	charHeight := w.charHeight
	charAscent := w.charAscent
	w.mu.Unlock()

	painter := qt.NewQPainter2(w.widget.QPaintDevice)
	defer painter.End()

	painter.FillRect5(0, 0, w.widget.Width(), w.widget.Height(), qcolor(vgatext.Black))

	font := qt.NewQFont6(fontFamily, fontSize)
	font.SetFixedPitch(true)
	painter.SetFont(font)

	rows, cols := w.src.Rows(), w.src.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := w.src.Read(y, x)
			cellX := padding + x*charWidth
			cellY := padding + y*charHeight

			if bg := cell.Background(); bg != vgatext.Black {
				painter.FillRect5(cellX, cellY, charWidth, charHeight, qcolor(bg))
			}
			r := glyph.Rune(cell.Char)
			if r == ' ' || r == '\u00a0' {
				continue
			}
			painter.SetPen(qcolor(cell.Foreground()))
			painter.DrawText3(cellX, cellY+charAscent, string(r))
		}
	}
}

func (w *Widget) keyPressEvent(super func(event *qt.QKeyEvent), event *qt.QKeyEvent) {
	w.mu.Lock()
	onInput := w.onInput
	w.mu.Unlock()

	if onInput == nil {
		super(event)
		return
	}
	event.Accept()

	hasCtrl := event.Modifiers()&qt.ControlModifier != 0
	if runtime.GOOS == "darwin" {
		hasCtrl = event.Modifiers()&qt.MetaModifier != 0
	}

	var data []byte
	switch qt.Key(event.Key()) {
	case qt.Key_Return, qt.Key_Enter:
		data = []byte{'\r'}
	case qt.Key_Backspace:
		data = []byte{0x7f}
	case qt.Key_Tab:
		data = []byte{'\t'}
	case qt.Key_Escape:
		data = []byte{0x1b}
	default:
		text := event.Text()
		if len(text) != 1 || text[0] >= 0x80 {
			return
		}
		b := text[0]
		if hasCtrl && b >= 'a' && b <= 'z' {
			b = b - 'a' + 1
		}
		data = []byte{b}
	}
	onInput(data)
}
