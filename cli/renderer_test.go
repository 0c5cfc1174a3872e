package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phroun/vgatext"
)

func newTestViewer(t *testing.T, opts Options) (*Viewer, *vgatext.Writer, *bytes.Buffer) {
	t.Helper()
	grid := vgatext.NewGrid(vgatext.NewRegion(vgatext.DefaultRows*vgatext.DefaultCols), vgatext.DefaultRows, vgatext.DefaultCols)
	w := vgatext.NewWriter(grid, vgatext.DefaultAttribute)
	w.Clear()

	var out bytes.Buffer
	opts.Output = &out
	v, err := New(grid, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v, w, &out
}

func TestRenderToString(t *testing.T) {
	v, w, _ := newTestViewer(t, Options{})
	w.WriteString("hi\x01")

	s := v.Renderer().RenderToString()
	if !strings.HasPrefix(s, "\033[?25l\033[1;1H\033[0;93;40m") {
		t.Errorf("frame starts %q", s[:min(len(s), 40)])
	}
	if !strings.Contains(s, "hi■") {
		t.Error("bottom row text or placeholder glyph missing")
	}
	if !strings.HasSuffix(s, "\033[0m") {
		t.Error("frame does not reset attributes")
	}
}

func TestRenderColourChange(t *testing.T) {
	v, w, _ := newTestViewer(t, Options{})
	w.SetColor(vgatext.White, vgatext.Blue)
	w.WriteString("x")

	s := v.Renderer().RenderToString()
	if !strings.Contains(s, "\033[0;97;44mx") {
		t.Errorf("white on blue cell not rendered: %q", s[len(s)-60:])
	}
}

func TestRenderDifferential(t *testing.T) {
	v, w, out := newTestViewer(t, Options{})
	r := v.Renderer()

	r.Render()
	if out.Len() == 0 {
		t.Fatal("first frame empty")
	}

	out.Reset()
	r.Render()
	if got := out.String(); got != "\033[?25l\033[0m" {
		t.Errorf("unchanged frame = %q", got)
	}

	out.Reset()
	w.Grid().Write(3, 7, vgatext.Cell{Char: 'Q', Attr: vgatext.DefaultAttribute})
	r.Render()
	got := out.String()
	if strings.Count(got, "H") != 1 || !strings.Contains(got, "\033[4;8H") {
		t.Errorf("single-cell frame = %q", got)
	}
	if !strings.Contains(got, "Q") {
		t.Error("changed cell not drawn")
	}
	if r.Frames() != 3 {
		t.Errorf("frames = %d", r.Frames())
	}

	out.Reset()
	r.ForceFullRedraw()
	r.Render()
	if strings.Count(out.String(), "Q") != 1 || out.Len() < vgatext.DefaultRows*vgatext.DefaultCols {
		t.Error("forced redraw did not draw the whole buffer")
	}
}

func TestRenderBorder(t *testing.T) {
	v, _, _ := newTestViewer(t, Options{BorderStyle: BorderRounded, Title: "vga"})
	s := v.Renderer().RenderToString()

	for _, want := range []string{"╭", "╮", "╰", "╯", "┤ vga ├"} {
		if !strings.Contains(s, want) {
			t.Errorf("border missing %q", want)
		}
	}
	// content starts inside the border
	if !strings.Contains(s, "\033[2;2H") {
		t.Error("content not offset by the border")
	}
}

func TestRenderStatusBar(t *testing.T) {
	v, _, _ := newTestViewer(t, Options{
		ShowStatusBar: true,
		Status:        func() string { return "halted" },
	})
	s := v.Renderer().RenderToString()

	if !strings.Contains(s, "\033[26;1H\033[0m\033[7m Size: 80x25 | halted ") {
		t.Errorf("status bar not found in %q", s[len(s)-120:])
	}
}
