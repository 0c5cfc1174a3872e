// Package uart drives a 16550-compatible serial port, the diagnostic channel
// a test harness on the host watches.
package uart

import (
	"errors"
	"fmt"
	"io"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/port"
)

// COM1 is the conventional base port of the first serial port
const COM1 uint16 = 0x3F8

// Register offsets from the base port
const (
	RegData      = 0 // THR on write, RBR on read; divisor low byte when DLAB is set
	RegIntEnable = 1 // IER; divisor high byte when DLAB is set
	RegFIFO      = 2 // FCR on write, IIR on read
	RegLineCtrl  = 3
	RegModemCtrl = 4
	RegLineStat  = 5
	RegModemStat = 6
	RegScratch   = 7
)

// Register bits
const (
	LineCtrlDLAB  = 0x80
	LineCtrl8N1   = 0x03
	FIFOEnable    = 0xC7 // enable, clear both, 14-byte threshold
	ModemCtrlOn   = 0x0B // DTR, RTS, OUT2
	ModemLoopback = 0x10
	LineStatReady = 0x01 // data ready
	LineStatTHRE  = 0x20 // transmit holding register empty
)

// ErrLoopback is returned by Init when the port fails its loopback self-test
var ErrLoopback = errors.New("uart: loopback self-test failed")

const loopbackProbe = 0xAE

// Port is one 16550 UART
type Port struct {
	bus  port.Bus
	base uint16

	// CRLF makes Write send "\r\n" for every "\n"
	CRLF bool
}

// New returns a port at base on bus. Call Init before use.
func New(bus port.Bus, base uint16) *Port {
	return &Port{bus: bus, base: base}
}

// Init programs the port for 38400 baud 8N1 with FIFOs enabled, checks it in
// loopback mode, and leaves it in normal operation with interrupts off
func (p *Port) Init() error {
	p.out(RegIntEnable, 0x00)
	p.out(RegLineCtrl, LineCtrlDLAB)
	p.out(RegData, 0x03)      // divisor low: 38400 baud
	p.out(RegIntEnable, 0x00) // divisor high
	p.out(RegLineCtrl, LineCtrl8N1)
	p.out(RegFIFO, FIFOEnable)

	p.out(RegModemCtrl, ModemCtrlOn|ModemLoopback)
	p.out(RegData, loopbackProbe)
	if got := p.in(RegData); got != loopbackProbe {
		return fmt.Errorf("%w: port %#x read back %#02x", ErrLoopback, p.base, got)
	}
	p.out(RegModemCtrl, ModemCtrlOn)
	return nil
}

func (p *Port) in(reg uint16) uint8 {
	return p.bus.In8(p.base + reg)
}

func (p *Port) out(reg uint16, v uint8) {
	p.bus.Out8(p.base+reg, v)
}

// Send transmits one byte, spinning until the transmitter can take it
func (p *Port) Send(b byte) {
	for p.in(RegLineStat)&LineStatTHRE == 0 {
	}
	p.out(RegData, b)
}

// Receive spins until a byte has arrived and returns it
func (p *Port) Receive() byte {
	for p.in(RegLineStat)&LineStatReady == 0 {
	}
	return p.in(RegData)
}

// Write sends p byte by byte. It implements io.Writer and never fails.
func (p *Port) Write(b []byte) (int, error) {
	for _, c := range b {
		if c == '\n' && p.CRLF {
			p.Send('\r')
		}
		p.Send(c)
	}
	return len(b), nil
}

// Console is the process-wide serial port, shared under a spin lock the
// same way as the display console
type Console struct {
	lock vgatext.SpinLock
	port *Port
}

// NewConsole wraps an initialised port
func NewConsole(p *Port) *Console {
	return &Console{port: p}
}

// Write sends b under the lock
func (c *Console) Write(b []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.port.Write(b)
}

// Print sends s
func (c *Console) Print(s string) {
	io.WriteString(c, s)
}

// Println formats like fmt.Println and sends the result
func (c *Console) Println(a ...any) {
	c.Print(fmt.Sprintln(a...))
}

// Printf formats according to a format specifier and sends the result
func (c *Console) Printf(format string, a ...any) {
	c.Print(fmt.Sprintf(format, a...))
}
