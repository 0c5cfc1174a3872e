package main

import (
	"strings"
	"testing"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/emu"
)

func TestHeldOutput(t *testing.T) {
	var h heldOutput
	h.Write([]byte("Running 1 tests\n"))
	b := h.Bytes()
	h.Write([]byte("more"))
	if string(b) != "Running 1 tests\n" {
		t.Errorf("Bytes = %q", b)
	}
}

func TestPrintScreen(t *testing.T) {
	c := vgatext.New(vgatext.Options{
		Region: vgatext.NewRegion(vgatext.DefaultRows * vgatext.DefaultCols),
		Clear:  true,
	})
	c.Print("boot\x01")

	var out strings.Builder
	printScreen(&out, c)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != vgatext.DefaultRows {
		t.Fatalf("%d lines", len(lines))
	}
	if lines[vgatext.DefaultRows-1] != "boot■" {
		t.Errorf("bottom line = %q", lines[vgatext.DefaultRows-1])
	}
}

func TestStatus(t *testing.T) {
	m, err := emu.New(emu.Options{Serial: &heldOutput{}})
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if got := status(m); got != "running | Ctrl+] quits" {
		t.Errorf("status = %q", got)
	}
}
