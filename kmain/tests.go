package kmain

import (
	"strings"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/ktest"
)

// Tests returns the kernel's in-kernel test suite for p
func Tests(p Platform) []ktest.Test {
	return []ktest.Test{
		{Name: "basic_boot::test_println", Fn: func() {
			vgatext.Println("test_println output")
		}},
		{Name: "vga::println_simple", Fn: func() {
			vgatext.Println("test_println_simple output")
		}},
		{Name: "vga::println_many", Fn: func() {
			for i := 0; i < 200; i++ {
				vgatext.Println("test_println_many output")
			}
		}},
		{Name: "vga::println_output", Fn: testPrintlnOutput},
		{Name: "vga::wrap_long_line", Fn: testWrapLongLine},
		{Name: "interrupts::breakpoint_exception", Fn: p.Breakpoint},
	}
}

func testPrintlnOutput() {
	const s = "Some test string that fits on a single line"
	c := vgatext.Default()
	vgatext.Println(s)
	row := c.Rows() - 2
	for i := 0; i < len(s); i++ {
		got := c.Read(row, i).Char
		ktest.Assert(got == s[i], "row %d column %d: got %q, want %q", row, i, got, s[i])
	}
}

func testWrapLongLine() {
	c := vgatext.Default()
	line := strings.Repeat("w", c.Cols()) + "rap"
	vgatext.Println(line)
	full := c.Grid().Text(c.Rows() - 3)
	ktest.Assert(full == strings.Repeat("w", c.Cols()), "wrapped row: %q", full)
	tail := c.Grid().Text(c.Rows() - 2)[:3]
	ktest.Assert(tail == "rap", "continuation: %q", tail)
}

// ShouldPanic is the test that passes only by panicking
var ShouldPanic = ktest.Test{
	Name: "should_panic::should_fail",
	Fn: func() {
		vgatext.Println("should_fail")
		ktest.Assert(0 == 1, "assertion failed: 0 == 1")
	},
}
