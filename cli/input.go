package cli

import "io"

// Control keys handled by the viewer itself
const (
	keyRedraw = 0x0C // Ctrl+L
	keyQuit   = 0x1D // Ctrl+]
)

// InputHandler reads keyboard input from the host terminal
type InputHandler struct {
	view *Viewer
}

// NewInputHandler creates an input handler for the viewer
func NewInputHandler(v *Viewer) *InputHandler {
	return &InputHandler{view: v}
}

// InputLoop reads and processes input until the input closes or the viewer
// stops
func (h *InputHandler) InputLoop() {
	h.readFrom(h.view.options.Input)
}

func (h *InputHandler) readFrom(in io.Reader) {
	buf := make([]byte, 256)
	for {
		select {
		case <-h.view.stopRender:
			return
		default:
		}

		n, err := in.Read(buf)
		if n > 0 {
			h.processInput(buf[:n])
		}
		if err != nil {
			return
		}
	}
}

// processInput handles raw input bytes. Escape sequences are forwarded
// untouched; only the two viewer keys are intercepted.
func (h *InputHandler) processInput(data []byte) {
	start := 0
	for i, b := range data {
		switch b {
		case keyQuit:
			h.forward(data[start:i])
			h.view.quit()
			return
		case keyRedraw:
			h.forward(data[start:i])
			start = i + 1
			h.view.renderer.ForceFullRedraw()
		}
	}
	h.forward(data[start:])
}

func (h *InputHandler) forward(b []byte) {
	if len(b) == 0 {
		return
	}
	h.view.mu.Lock()
	fn := h.view.onInput
	h.view.mu.Unlock()
	if fn != nil {
		fn(append([]byte(nil), b...))
	}
}
