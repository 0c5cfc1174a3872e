package cli

import (
	"strings"
	"testing"
)

func TestInputForwarded(t *testing.T) {
	v, _, _ := newTestViewer(t, Options{})
	var got []string
	v.SetInputCallback(func(b []byte) { got = append(got, string(b)) })

	v.Renderer().Render()
	v.input.processInput([]byte("ab\x0c\033[Acd"))

	if strings.Join(got, "|") != "ab|\033[Acd" {
		t.Errorf("forwarded %q", got)
	}
	v.Renderer().mu.Lock()
	dropped := v.Renderer().lastCells == nil
	v.Renderer().mu.Unlock()
	if !dropped {
		t.Error("Ctrl+L did not force a redraw")
	}
}

func TestInputQuit(t *testing.T) {
	v, _, _ := newTestViewer(t, Options{})
	var got []string
	v.SetInputCallback(func(b []byte) { got = append(got, string(b)) })

	v.input.readFrom(strings.NewReader("x\x1dy"))

	select {
	case <-v.Done():
	default:
		t.Fatal("Ctrl+] did not close the viewer")
	}
	if strings.Join(got, "|") != "x" {
		t.Errorf("forwarded %q", got)
	}
}
