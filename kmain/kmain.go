// Package kmain is the kernel's boot sequence, written against a Platform so
// the same code runs on the bare machine and on a hosted emulator.
package kmain

import (
	"io"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/ktest"
	"github.com/phroun/vgatext/port"
)

// Platform is what the boot sequence needs from the machine
type Platform interface {
	// Console returns the display console; Boot installs it
	Console() *vgatext.Console

	// Serial returns the diagnostic channel
	Serial() io.Writer

	// Bus returns the I/O port bus (carrying the exit device)
	Bus() port.Bus

	// InitInterrupts installs the interrupt table with h as the handler
	// for every CPU exception. Faults are only reportable after it returns.
	InitInterrupts(h InterruptHandler)

	// Breakpoint executes a breakpoint trap
	Breakpoint()

	// Halt stops the CPU for good. It does not return.
	Halt()
}

// Boot installs the platform's console and interrupt table, runs main, and
// halts. A panic escaping main is reported on the console before halting.
func Boot(p Platform, main func()) {
	start(p)
	defer vgatext.Recover(func(any) { p.Halt() })
	main()
	p.Halt()
}

// RunTests boots far enough to print and runs tests, reporting over the
// serial channel and signalling the verdict on the exit device
func RunTests(p Platform, tests []ktest.Test) {
	start(p)
	r := &ktest.Runner{Out: p.Serial(), Bus: p.Bus(), Halt: p.Halt}
	r.Run(tests)
}

// RunShouldPanic boots and runs a single test that must panic
func RunShouldPanic(p Platform, t ktest.Test) {
	start(p)
	r := &ktest.Runner{Out: p.Serial(), Bus: p.Bus(), Halt: p.Halt}
	r.RunShouldPanic(t)
}

func start(p Platform) {
	vgatext.Install(p.Console())
	p.InitInterrupts(Handler(p))
}

// Hello prints the boot greeting: one raw string write, one formatted write,
// and a formatted line
func Hello() {
	c := vgatext.Default()
	w := c.Lock()
	w.WriteString("Hello world!\n")
	c.Unlock()

	c.Printf("Numero: %d", 95)
	c.Println("\nTeste")
}
