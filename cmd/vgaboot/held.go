package main

import (
	"bytes"
	"sync"
)

// heldOutput buffers serial output while a viewer owns the terminal
type heldOutput struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (h *heldOutput) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buf.Write(p)
}

// Bytes returns a copy of everything written so far
func (h *heldOutput) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]byte(nil), h.buf.Bytes()...)
}
