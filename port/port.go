// Package port provides x86 I/O port access behind a small interface, so
// drivers run unchanged against real hardware and against a hosted machine.
package port

// Bus reads and writes I/O ports
type Bus interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
	Out32(port uint16, v uint32)
}

// Device is a peripheral occupying a range of ports on a Map.
// Offsets are relative to the base it was attached at.
type Device interface {
	In8(offset uint16) uint8
	Out8(offset uint16, v uint8)
}

// WideDevice is a Device that also accepts 32-bit writes
type WideDevice interface {
	Device
	Out32(offset uint16, v uint32)
}
