// Package exitdev signals a pass/fail status to the host through an
// isa-debug-exit style device: a single 32-bit port write that ends the
// virtual machine.
package exitdev

import (
	"strconv"

	"github.com/phroun/vgatext/port"
)

// Port is the device's conventional I/O base
const Port uint16 = 0xF4

// Size is the device's port width in bytes
const Size = 4

// Code is the value written to the device
type Code uint32

const (
	Success Code = 0x10
	Failed  Code = 0x11
)

// String names the code
func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "code(" + strconv.FormatUint(uint64(c), 10) + ")"
	}
}

// Exit writes code to the exit device on bus. On a real machine the write
// does not return; callers halt afterwards in case the device is missing.
func Exit(bus port.Bus, code Code) {
	bus.Out32(Port, uint32(code))
}

// HostStatus is the process status the host sees after the guest writes code
func HostStatus(code Code) int {
	return int(code)<<1 | 1
}

// FromHostStatus recovers the code from a host process status. It reports
// false for statuses the device cannot produce (even numbers).
func FromHostStatus(status int) (Code, bool) {
	if status&1 == 0 || status < 0 {
		return 0, false
	}
	return Code(status >> 1), true
}
