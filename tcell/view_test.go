package vgatexttcell

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phroun/vgatext"
)

func newTestView(t *testing.T) (*View, tcell.SimulationScreen, *vgatext.Writer) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(vgatext.DefaultCols, vgatext.DefaultRows+1)

	grid := vgatext.NewGrid(vgatext.NewRegion(vgatext.DefaultRows*vgatext.DefaultCols), vgatext.DefaultRows, vgatext.DefaultCols)
	w := vgatext.NewWriter(grid, vgatext.DefaultAttribute)
	w.Clear()
	return New(screen, grid), screen, w
}

func cellAt(screen tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, width, _ := screen.GetContents()
	return cells[y*width+x]
}

func TestDraw(t *testing.T) {
	v, screen, w := newTestView(t)
	w.WriteString("ok\x01")
	v.Draw()

	bottom := vgatext.DefaultRows - 1
	for x, want := range []rune{'o', 'k', '■'} {
		got := cellAt(screen, x, bottom)
		if len(got.Runes) == 0 || got.Runes[0] != want {
			t.Errorf("column %d = %q, want %q", x, got.Runes, want)
		}
	}

	fg, bg, _ := cellAt(screen, 0, bottom).Style.Decompose()
	if fg != tcell.PaletteColor(vgatext.Yellow.ANSI()) || bg != tcell.PaletteColor(vgatext.Black.ANSI()) {
		t.Errorf("style = %v on %v, want yellow on black", fg, bg)
	}
}

func TestStyle(t *testing.T) {
	fg, bg, _ := Style(vgatext.NewAttribute(vgatext.White, vgatext.Blue)).Decompose()
	if fg != tcell.PaletteColor(15) {
		t.Errorf("fg = %v, want palette 15", fg)
	}
	if bg != tcell.PaletteColor(4) {
		t.Errorf("bg = %v, want palette 4", bg)
	}
}

func TestDrawStatus(t *testing.T) {
	v, screen, _ := newTestView(t)
	v.SetStatus(func() string { return "halted" })
	v.Draw()

	got := cellAt(screen, 0, vgatext.DefaultRows)
	if len(got.Runes) == 0 || got.Runes[0] != 'h' {
		t.Errorf("status cell = %q", got.Runes)
	}
	_, _, attrs := got.Style.Decompose()
	if attrs&tcell.AttrReverse == 0 {
		t.Error("status line not in reverse video")
	}
}

func TestHandleEventForwardsKeys(t *testing.T) {
	v, _, _ := newTestView(t)
	var got []byte
	v.SetInputCallback(func(b []byte) { got = append(got, b...) })

	events := []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl),
		tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone),
	}
	for _, ev := range events {
		if !v.HandleEvent(ev) {
			t.Fatalf("%v ended the view", ev.Name())
		}
	}
	if want := []byte{'a', '\r', 0x03, 0x7f}; string(got) != string(want) {
		t.Errorf("forwarded % x, want % x", got, want)
	}
}

func TestQuitKey(t *testing.T) {
	v, _, _ := newTestView(t)
	if v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 0x1d, tcell.ModNone)) {
		t.Fatal("Ctrl+] did not end the view")
	}
	select {
	case <-v.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	v, screen, w := newTestView(t)
	w.WriteString("run")

	errc := make(chan error, 1)
	go func() { errc <- v.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, 0x1d, tcell.ModNone)
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop on Ctrl+]")
	}
}

func TestRunContext(t *testing.T) {
	v, _, _ := newTestView(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := v.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run = %v", err)
	}
}
