//go:build linux

package emu

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestPTYCarriesSerial(t *testing.T) {
	p, err := OpenPTY()
	if err != nil {
		t.Skipf("no pseudo-terminals here: %v", err)
	}
	defer p.Close()

	term, err := os.OpenFile(p.Name(), os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("open %s: %v", p.Name(), err)
	}
	defer term.Close()

	if _, err := p.Write([]byte("[ok]\r\n")); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 6)
		n, _ := io.ReadFull(term, buf)
		got <- string(buf[:n])
	}()
	select {
	case s := <-got:
		if s != "[ok]\r\n" {
			t.Errorf("read %q", s)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("nothing arrived on the terminal side")
	}
}

func TestPTYWriteAfterClose(t *testing.T) {
	p, err := OpenPTY()
	if err != nil {
		t.Skipf("no pseudo-terminals here: %v", err)
	}
	p.Close()
	if _, err := p.Write([]byte("x")); err == nil {
		t.Error("write after Close succeeded")
	}
}

// TestPTYCloseWithUnreadOutput verifies Close returns while the pump is
// blocked on a line nobody reads
func TestPTYCloseWithUnreadOutput(t *testing.T) {
	p, err := OpenPTY()
	if err != nil {
		t.Skipf("no pseudo-terminals here: %v", err)
	}

	chunk := make([]byte, 1024)
	for i := range chunk {
		chunk[i] = 'x'
	}
	for i := 0; i < 400; i++ {
		if _, err := p.Write(chunk); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	time.Sleep(50 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("Close blocked with unread output (dropped=%d)", p.Dropped())
	}
	if p.Dropped() == 0 {
		t.Error("400 KiB written with no reader and nothing dropped")
	}
}

func TestMachineCloseWithUnreadPTY(t *testing.T) {
	m, err := New(Options{SerialPTY: true})
	if err != nil {
		t.Skipf("no serial pty: %v", err)
	}
	line := []byte(strings.Repeat("x", 79) + "\n")
	for i := 0; i < 2000; i++ {
		m.Serial().Write(line)
	}

	closed := make(chan error, 1)
	go func() { closed <- m.Close() }()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Machine.Close blocked on the serial pty")
	}
}
