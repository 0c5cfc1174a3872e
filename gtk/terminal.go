package vgatextgtk

import (
	"fmt"

	"github.com/gotk3/gotk3/gtk"

	"github.com/phroun/vgatext"
)

// Options configures a View
type Options struct {
	FontFamily    string // Font family (default: Monospace)
	FontSize      int    // Font size in points (default: 14)
	RefreshMillis uint   // Repaint interval (default: 16)
}

// View wraps a Widget in a frame sized to the buffer
type View struct {
	widget *Widget
	box    *gtk.Box
}

// New creates a view of src
func New(src vgatext.Source, opts Options) (*View, error) {
	if src == nil {
		return nil, fmt.Errorf("vgatextgtk: nil source")
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "Monospace"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	if opts.RefreshMillis == 0 {
		opts.RefreshMillis = 16
	}

	widget, err := NewWidget(src, opts.RefreshMillis)
	if err != nil {
		return nil, fmt.Errorf("failed to create widget: %w", err)
	}
	widget.SetFont(opts.FontFamily, opts.FontSize)

	box, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create box: %w", err)
	}
	box.PackStart(widget.DrawingArea(), true, true, 0)

	return &View{widget: widget, box: box}, nil
}

// Widget returns the container to add to a window
func (v *View) Widget() *gtk.Box {
	return v.box
}

// SetInputCallback sets the callback for typed bytes
func (v *View) SetInputCallback(fn func([]byte)) {
	v.widget.SetInputCallback(fn)
}

// SetFont sets the glyph font
func (v *View) SetFont(family string, size int) {
	v.widget.SetFont(family, size)
}

// Close stops repainting
func (v *View) Close() error {
	v.widget.Close()
	return nil
}
