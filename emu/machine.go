// Package emu is a hosted machine for the kernel: a heap-backed text
// buffer, an I/O port bus carrying a 16550 serial model and a debug-exit
// device, and a software interrupt table. A Machine implements
// kmain.Platform, so the boot sequence and the test runner run unmodified
// inside an ordinary process.
package emu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/exitdev"
	"github.com/phroun/vgatext/kmain"
	"github.com/phroun/vgatext/port"
	"github.com/phroun/vgatext/uart"
)

var (
	// ErrHalted is returned by Wait when the kernel halted without writing
	// an exit code
	ErrHalted = errors.New("emu: kernel halted without exit code")

	// ErrNoInterruptTable is the fault raised when a trap is taken before
	// InitInterrupts
	ErrNoInterruptTable = errors.New("emu: trap with no interrupt table loaded")
)

// Options configures a Machine
type Options struct {
	Rows int
	Cols int

	// Attribute is the console's starting color. Zero means the default
	// unless AttributeSet is true.
	Attribute    vgatext.Attribute
	AttributeSet bool

	// Serial receives bytes transmitted on COM1. Nil means os.Stdout
	// unless SerialPTY is set.
	Serial io.Writer

	// SerialPTY attaches COM1 to a new pseudo-terminal instead of Serial
	SerialPTY bool

	// MirrorConsole copies console text to the serial line
	MirrorConsole bool

	// Chime plays a tone when the exit device is written
	Chime bool

	// Logger traces device activity; nil discards it
	Logger *log.Logger
}

// Machine is one hosted machine
type Machine struct {
	opts      Options
	logger    *log.Logger
	console   *vgatext.Console
	bus       *port.Map
	serialDev *SerialDevice
	exitDev   *ExitDevice
	serial    *uart.Console
	pty       *PTY
	chime     *Chime

	mu      sync.Mutex
	handler kmain.InterruptHandler

	halted   chan struct{}
	haltOnce sync.Once
	stop     chan struct{}
	stopOnce sync.Once
}

// New builds a machine and runs its firmware: the serial port is
// initialised and self-tested before New returns
func New(opts Options) (*Machine, error) {
	if opts.Rows <= 0 {
		opts.Rows = vgatext.DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = vgatext.DefaultCols
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m := &Machine{
		opts:   opts,
		logger: logger,
		bus:    port.NewMap(),
		halted: make(chan struct{}),
		stop:   make(chan struct{}),
	}
	m.bus.Logger = logger

	sink := opts.Serial
	if opts.SerialPTY {
		pty, err := OpenPTY()
		if err != nil {
			return nil, fmt.Errorf("failed to open serial pty: %w", err)
		}
		m.pty = pty
		sink = pty
		logger.Printf("serial: COM1 on %s", pty.Name())
	} else if sink == nil {
		sink = os.Stdout
	}
	if opts.Chime {
		m.chime = &Chime{}
	}

	m.serialDev = NewSerialDevice(sink, logger)
	m.exitDev = NewExitDevice(m.onExit)
	if err := m.bus.Attach(uart.COM1, 8, m.serialDev); err != nil {
		m.closePTY()
		return nil, err
	}
	if err := m.bus.Attach(exitdev.Port, exitdev.Size, m.exitDev); err != nil {
		m.closePTY()
		return nil, err
	}

	com1 := uart.New(m.bus, uart.COM1)
	com1.CRLF = opts.SerialPTY
	if err := com1.Init(); err != nil {
		m.closePTY()
		return nil, fmt.Errorf("serial firmware: %w", err)
	}
	m.serial = uart.NewConsole(com1)

	var mirror io.Writer
	if opts.MirrorConsole {
		mirror = m.serial
	}
	m.console = vgatext.New(vgatext.Options{
		Rows:         opts.Rows,
		Cols:         opts.Cols,
		Region:       vgatext.NewRegion(opts.Rows * opts.Cols),
		Attribute:    opts.Attribute,
		AttributeSet: opts.AttributeSet,
		Clear:        true,
		Mirror:       mirror,
	})
	return m, nil
}

func (m *Machine) Console() *vgatext.Console { return m.console }
func (m *Machine) Serial() io.Writer         { return m.serial }
func (m *Machine) Bus() port.Bus             { return m.bus }

// SerialDevice returns the COM1 model, e.g. to inject input
func (m *Machine) SerialDevice() *SerialDevice { return m.serialDev }

// PTY returns the serial pseudo-terminal, or nil
func (m *Machine) PTY() *PTY { return m.pty }

// InitInterrupts loads h as the handler for every exception vector
func (m *Machine) InitInterrupts(h kmain.InterruptHandler) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
	m.logger.Printf("idt: loaded")
}

// Breakpoint raises vector 3 with the caller's program counter in the frame
func (m *Machine) Breakpoint() {
	pc, _, _, _ := runtime.Caller(1)
	m.Raise(kmain.VectorBreakpoint, uint64(pc))
}

// Raise delivers an exception to the loaded handler. With no table loaded
// the trap escalates to a panic, the hosted analogue of a triple fault.
func (m *Machine) Raise(vector uint8, ip uint64) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h == nil {
		panic(fmt.Errorf("%w: vector %d", ErrNoInterruptTable, vector))
	}
	h(vector, kmain.Frame{
		InstructionPointer: ip,
		CodeSegment:        0x08,
		CPUFlags:           0x202,
		StackSegment:       0x10,
	})
}

// Halt parks the calling goroutine until the machine is closed, then
// exits it. It never returns.
func (m *Machine) Halt() {
	m.haltOnce.Do(func() {
		m.logger.Printf("cpu: halted")
		close(m.halted)
	})
	<-m.stop
	runtime.Goexit()
}

// Start runs kernel on its own goroutine, the machine's CPU
func (m *Machine) Start(kernel func(kmain.Platform)) {
	go kernel(m)
}

// Done is closed when the exit device has been written
func (m *Machine) Done() <-chan struct{} { return m.exitDev.Done() }

// Halted is closed when the kernel first halts
func (m *Machine) Halted() <-chan struct{} { return m.halted }

// ExitCode reports the code written to the exit device, if any
func (m *Machine) ExitCode() (exitdev.Code, bool) { return m.exitDev.Code() }

// Wait blocks until the kernel exits through the exit device or halts. A
// halt without an exit code yields ErrHalted.
func (m *Machine) Wait(ctx context.Context) (exitdev.Code, error) {
	select {
	case <-m.Done():
	case <-m.halted:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	if code, ok := m.ExitCode(); ok {
		return code, nil
	}
	return 0, ErrHalted
}

// Close releases halted goroutines, uninstalls the console if it is the
// installed one, and closes the serial pty
func (m *Machine) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	vgatext.Uninstall(m.console)
	return m.closePTY()
}

func (m *Machine) closePTY() error {
	if m.pty == nil {
		return nil
	}
	if n := m.pty.Dropped(); n > 0 {
		m.logger.Printf("serial: %d bytes dropped on %s", n, m.pty.Name())
	}
	return m.pty.Close()
}

func (m *Machine) onExit(code exitdev.Code) {
	m.logger.Printf("debug-exit: %v, host status %d", code, exitdev.HostStatus(code))
	if m.chime == nil {
		return
	}
	if err := m.chime.Play(code); err != nil {
		m.logger.Printf("chime: %v", err)
	}
}
