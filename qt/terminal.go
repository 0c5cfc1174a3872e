package vgatextqt

import (
	"fmt"

	"github.com/mappu/miqt/qt"

	"github.com/phroun/vgatext"
)

// Options configures a View
type Options struct {
	FontFamily    string // Font family (default: Monospace)
	FontSize      int    // Font size in points (default: 12)
	RefreshMillis int    // Repaint interval (default: 16)
}

// View is a Widget configured from Options
type View struct {
	widget *Widget
}

// New creates a view of src
func New(src vgatext.Source, opts Options) (*View, error) {
	if src == nil {
		return nil, fmt.Errorf("vgatextqt: nil source")
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "Monospace"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if opts.RefreshMillis <= 0 {
		opts.RefreshMillis = 16
	}

	w := NewWidget(src, opts.RefreshMillis)
	w.SetFont(opts.FontFamily, opts.FontSize)
	return &View{widget: w}, nil
}

// Widget returns the widget to place in a window
func (v *View) Widget() *qt.QWidget {
	return v.widget.QWidget()
}

// SetInputCallback sets the callback for typed bytes
func (v *View) SetInputCallback(fn func([]byte)) {
	v.widget.SetInputCallback(fn)
}

// Close stops repainting
func (v *View) Close() error {
	v.widget.Close()
	return nil
}
