package vgatext

import (
	"fmt"
	"io"
	"sync/atomic"
)

// Options configures console creation
type Options struct {
	Rows      int       // Grid height in rows (default: 25)
	Cols      int       // Grid width in columns (default: 80)
	Base      uintptr   // Physical address of cell memory (default: DefaultBase); ignored if Region is set
	Region    *Region   // Pre-made cell memory, e.g. from NewRegion on a host
	Attribute Attribute // Initial colours (default: DefaultAttribute unless AttributeSet)
	Clear     bool      // Blank the grid with Attribute when the console is created
	Mirror    io.Writer // Receives a copy of all printed text (e.g. a serial port)

	// AttributeSet makes a zero Attribute mean black on black rather than
	// the default
	AttributeSet bool
}

// Console is the single process-wide text output state: one Writer over one
// Grid, guarded by a SpinLock. Both ordinary code and the fault path print
// through it.
type Console struct {
	lock   SpinLock
	writer *Writer
	mirror io.Writer
}

// New creates a console and binds its grid. It does not install it; call
// Install once during startup to make it the package default.
func New(opts Options) *Console {
	// Apply defaults
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Base == 0 {
		opts.Base = DefaultBase
	}
	if opts.Attribute == 0 && !opts.AttributeSet {
		opts.Attribute = DefaultAttribute
	}

	region := opts.Region
	if region == nil {
		region = MapRegion(opts.Base, opts.Rows*opts.Cols)
	}

	c := &Console{
		writer: NewWriter(NewGrid(region, opts.Rows, opts.Cols), opts.Attribute),
		mirror: opts.Mirror,
	}
	if opts.Clear {
		c.writer.Clear()
	}
	return c
}

// Lock acquires the console and returns its writer. The writer must not be
// used after Unlock. Lock spins; see ReportFault for the hazard this implies.
func (c *Console) Lock() *Writer {
	c.lock.Lock()
	return c.writer
}

// Unlock releases the console
func (c *Console) Unlock() {
	c.lock.Unlock()
}

// Locked reports whether some caller currently holds the console
func (c *Console) Locked() bool {
	return c.lock.Locked()
}

// Grid returns the grid for read-only observers such as display adapters.
// Reads need no lock.
func (c *Console) Grid() *Grid {
	return c.writer.grid
}

// Rows returns the grid height
func (c *Console) Rows() int { return c.writer.grid.rows }

// Cols returns the grid width
func (c *Console) Cols() int { return c.writer.grid.cols }

// Read returns the cell at (row, col) without taking the lock
func (c *Console) Read(row, col int) Cell { return c.writer.grid.Read(row, col) }

// Write prints p under the lock. It implements io.Writer.
func (c *Console) Write(p []byte) (int, error) {
	w := c.Lock()
	defer c.Unlock()
	w.Write(p)
	c.mirrorBytes(p)
	return len(p), nil
}

// Print writes s under the lock
func (c *Console) Print(s string) {
	w := c.Lock()
	defer c.Unlock()
	w.WriteString(s)
	if c.mirror != nil {
		io.WriteString(c.mirror, s)
	}
}

// Println formats its operands like fmt.Println and writes the result
func (c *Console) Println(a ...any) {
	c.print(func(w io.Writer) (int, error) { return fmt.Fprintln(w, a...) })
}

// Printf formats according to a format specifier and writes the result
func (c *Console) Printf(format string, a ...any) {
	c.print(func(w io.Writer) (int, error) { return fmt.Fprintf(w, format, a...) })
}

// print runs a formatter against the locked writer (and the mirror).
// A formatting failure is fatal.
func (c *Console) print(format func(io.Writer) (int, error)) {
	w := c.Lock()
	defer c.Unlock()
	var sink io.Writer = w
	if c.mirror != nil {
		sink = io.MultiWriter(w, c.mirror)
	}
	if _, err := format(sink); err != nil {
		panic(fmt.Sprintf("vgatext: formatted print failed: %v", err))
	}
}

func (c *Console) mirrorBytes(p []byte) {
	if c.mirror != nil {
		c.mirror.Write(p)
	}
}

var installed atomic.Pointer[Console]

// Install makes c the process-wide console. It must be called exactly once,
// during startup, before any package-level print or fault report.
func Install(c *Console) {
	if c == nil {
		panic("vgatext: Install(nil)")
	}
	if !installed.CompareAndSwap(nil, c) {
		panic("vgatext: console already installed")
	}
}

// Uninstall removes c as the process-wide console, for hosted machines that
// shut down and boot again. It reports whether c was installed.
func Uninstall(c *Console) bool {
	return installed.CompareAndSwap(c, nil)
}

// Default returns the installed console. It panics if none is installed.
func Default() *Console {
	c := installed.Load()
	if c == nil {
		panic("vgatext: no console installed")
	}
	return c
}

// Print writes s to the installed console
func Print(s string) {
	Default().Print(s)
}

// Println writes its operands and a newline to the installed console
func Println(a ...any) {
	Default().Println(a...)
}

// Printf writes formatted text to the installed console
func Printf(format string, a ...any) {
	Default().Printf(format, a...)
}
