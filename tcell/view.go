// Package vgatexttcell shows a text buffer on a tcell screen.
package vgatexttcell

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/glyph"
)

// FrameInterval is how often Run redraws the buffer
const FrameInterval = 16 * time.Millisecond

// View draws a Source onto a tcell screen and forwards keys typed on it
type View struct {
	screen tcell.Screen
	src    vgatext.Source

	mu      sync.Mutex
	onInput func([]byte)
	status  func() string

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a view of src on an initialised screen
func New(screen tcell.Screen, src vgatext.Source) *View {
	return &View{
		screen: screen,
		src:    src,
		quit:   make(chan struct{}),
	}
}

// Style returns the tcell style for a cell attribute
func Style(attr vgatext.Attribute) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.PaletteColor(attr.Foreground().ANSI())).
		Background(tcell.PaletteColor(attr.Background().ANSI()))
}

// SetInputCallback sets the callback for typed bytes
func (v *View) SetInputCallback(fn func([]byte)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onInput = fn
}

// SetStatus sets a function whose result is shown on the line below the
// buffer
func (v *View) SetStatus(fn func() string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = fn
}

// Draw copies the buffer to the screen and shows it
func (v *View) Draw() {
	rows, cols := v.src.Rows(), v.src.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cell := v.src.Read(y, x)
			v.screen.SetContent(x, y, glyph.Rune(cell.Char), nil, Style(cell.Attr))
		}
	}

	v.mu.Lock()
	status := v.status
	v.mu.Unlock()
	if status != nil {
		st := tcell.StyleDefault.Reverse(true)
		text := []rune(status())
		for x := 0; x < cols; x++ {
			r := ' '
			if x < len(text) {
				r = text[x]
			}
			v.screen.SetContent(x, rows, r, nil, st)
		}
	}
	v.screen.Show()
}

// HandleEvent processes one screen event. It returns false once the user
// has asked to quit with Ctrl+].
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyGS, tcell.KeyCtrlRightSq:
			v.Quit()
			return false
		case tcell.KeyFF, tcell.KeyCtrlL:
			v.screen.Sync()
			return true
		}
		if b := keyBytes(ev); b != nil {
			v.mu.Lock()
			fn := v.onInput
			v.mu.Unlock()
			if fn != nil {
				fn(b)
			}
		}
	}
	return true
}

// keyBytes converts a key event to what a serial terminal would send
func keyBytes(ev *tcell.EventKey) []byte {
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		if r := ev.Rune(); r < 0x80 {
			return []byte{byte(r)}
		}
		return []byte(string(ev.Rune()))
	case k == tcell.KeyBackspace || k == tcell.KeyDEL:
		return []byte{0x7f}
	case k >= tcell.KeyCtrlSpace && k <= tcell.KeyCtrlUnderscore:
		return []byte{byte(k - tcell.KeyCtrlSpace)}
	case k < 0x20:
		return []byte{byte(k)}
	}
	return nil
}

// Quit ends Run
func (v *View) Quit() {
	v.quitOnce.Do(func() { close(v.quit) })
}

// Done is closed once the view has been asked to quit
func (v *View) Done() <-chan struct{} {
	return v.quit
}

// Run redraws every frame and handles events until Quit, Ctrl+] or ctx
// ends
func (v *View) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go v.screen.ChannelEvents(events, stop)

	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-v.quit:
			return nil
		case ev := <-events:
			if ev == nil {
				return nil
			}
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Draw()
		}
	}
}
