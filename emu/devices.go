package emu

import (
	"io"
	"log"
	"sync"

	"github.com/phroun/vgatext/exitdev"
	"github.com/phroun/vgatext/uart"
)

// SerialDevice models the parts of a 16550 a polling driver touches:
// the divisor latch, line/modem control, loopback, and an always-ready
// transmitter that forwards bytes to a host writer
type SerialDevice struct {
	mu      sync.Mutex
	out     io.Writer
	logger  *log.Logger
	lcr     uint8
	mcr     uint8
	ier     uint8
	scratch uint8
	divisor uint16
	rx      []byte
	failed  bool
}

// NewSerialDevice creates a serial model writing transmitted bytes to out
func NewSerialDevice(out io.Writer, logger *log.Logger) *SerialDevice {
	return &SerialDevice{out: out, logger: logger}
}

// Divisor returns the programmed baud divisor
func (d *SerialDevice) Divisor() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.divisor
}

// Inject queues bytes as if they arrived on the line
func (d *SerialDevice) Inject(b []byte) {
	d.mu.Lock()
	d.rx = append(d.rx, b...)
	d.mu.Unlock()
}

// In8 reads a register
func (d *SerialDevice) In8(off uint16) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch off {
	case uart.RegData:
		if d.lcr&uart.LineCtrlDLAB != 0 {
			return uint8(d.divisor)
		}
		if len(d.rx) == 0 {
			return 0
		}
		b := d.rx[0]
		d.rx = d.rx[1:]
		return b
	case uart.RegIntEnable:
		if d.lcr&uart.LineCtrlDLAB != 0 {
			return uint8(d.divisor >> 8)
		}
		return d.ier
	case uart.RegFIFO:
		return 0xC1 // FIFOs enabled, no interrupt pending
	case uart.RegLineCtrl:
		return d.lcr
	case uart.RegModemCtrl:
		return d.mcr
	case uart.RegLineStat:
		v := uint8(uart.LineStatTHRE | 0x40) // transmitter idle
		if len(d.rx) > 0 {
			v |= uart.LineStatReady
		}
		return v
	case uart.RegModemStat:
		return 0xB0 // CTS, DSR, DCD
	case uart.RegScratch:
		return d.scratch
	}
	return 0xFF
}

// Out8 writes a register
func (d *SerialDevice) Out8(off uint16, v uint8) {
	d.mu.Lock()
	switch off {
	case uart.RegData:
		if d.lcr&uart.LineCtrlDLAB != 0 {
			d.divisor = d.divisor&0xFF00 | uint16(v)
			break
		}
		if d.mcr&uart.ModemLoopback != 0 {
			d.rx = append(d.rx, v)
			break
		}
		out := d.out
		d.mu.Unlock()
		d.transmit(out, v)
		return
	case uart.RegIntEnable:
		if d.lcr&uart.LineCtrlDLAB != 0 {
			d.divisor = d.divisor&0x00FF | uint16(v)<<8
		} else {
			d.ier = v
		}
	case uart.RegLineCtrl:
		d.lcr = v
	case uart.RegModemCtrl:
		d.mcr = v
	case uart.RegScratch:
		d.scratch = v
	}
	d.mu.Unlock()
}

func (d *SerialDevice) transmit(out io.Writer, b byte) {
	if out == nil {
		return
	}
	if _, err := out.Write([]byte{b}); err != nil {
		d.mu.Lock()
		first := !d.failed
		d.failed = true
		d.mu.Unlock()
		if first && d.logger != nil {
			d.logger.Printf("serial: host write failed, dropping output: %v", err)
		}
	}
}

// ExitDevice models isa-debug-exit: the first write ends the machine
type ExitDevice struct {
	mu     sync.Mutex
	code   exitdev.Code
	exited bool
	done   chan struct{}
	onExit func(exitdev.Code)
}

// NewExitDevice creates an exit device; onExit, if set, runs once on the
// first write
func NewExitDevice(onExit func(exitdev.Code)) *ExitDevice {
	return &ExitDevice{done: make(chan struct{}), onExit: onExit}
}

// In8 reads as an empty bus
func (d *ExitDevice) In8(off uint16) uint8 { return 0xFF }

// Out8 signals exit with a byte-wide code
func (d *ExitDevice) Out8(off uint16, v uint8) { d.Out32(off, uint32(v)) }

// Out32 signals exit
func (d *ExitDevice) Out32(off uint16, v uint32) {
	d.mu.Lock()
	if d.exited {
		d.mu.Unlock()
		return
	}
	d.exited = true
	d.code = exitdev.Code(v)
	d.mu.Unlock()

	if d.onExit != nil {
		d.onExit(exitdev.Code(v))
	}
	close(d.done)
}

// Done is closed once the guest has written an exit code
func (d *ExitDevice) Done() <-chan struct{} {
	return d.done
}

// Code returns the exit code and whether one has been written
func (d *ExitDevice) Code() (exitdev.Code, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.code, d.exited
}
