package port

import (
	"fmt"
	"log"
	"sync"
)

type mapping struct {
	base, size uint16
	dev        Device
}

// Map is a Bus that dispatches port accesses to attached Devices.
// Reads from unclaimed ports return 0xFF, writes to them are dropped.
type Map struct {
	mu       sync.Mutex
	mappings []mapping

	// Logger, if set, receives a line for every unclaimed access
	Logger *log.Logger
}

// NewMap creates an empty port map
func NewMap() *Map {
	return &Map{}
}

// Attach claims size ports starting at base for dev
func (m *Map) Attach(base, size uint16, dev Device) error {
	if size == 0 {
		return fmt.Errorf("attach at %#x: zero-sized device", base)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	end := uint32(base) + uint32(size)
	for _, mp := range m.mappings {
		if uint32(base) < uint32(mp.base)+uint32(mp.size) && uint32(mp.base) < end {
			return fmt.Errorf("attach at %#x: overlaps device at %#x", base, mp.base)
		}
	}
	m.mappings = append(m.mappings, mapping{base: base, size: size, dev: dev})
	return nil
}

// lookup finds the device claiming port
func (m *Map) lookup(port uint16) (Device, uint16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mp := range m.mappings {
		if port >= mp.base && uint32(port) < uint32(mp.base)+uint32(mp.size) {
			return mp.dev, port - mp.base, true
		}
	}
	return nil, 0, false
}

func (m *Map) unclaimed(format string, args ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, args...)
	}
}

// In8 reads a byte from port
func (m *Map) In8(port uint16) uint8 {
	dev, off, ok := m.lookup(port)
	if !ok {
		m.unclaimed("in8 %#04x: no device", port)
		return 0xFF
	}
	return dev.In8(off)
}

// Out8 writes a byte to port
func (m *Map) Out8(port uint16, v uint8) {
	dev, off, ok := m.lookup(port)
	if !ok {
		m.unclaimed("out8 %#04x <- %#02x: no device", port, v)
		return
	}
	dev.Out8(off, v)
}

// Out32 writes a doubleword to port. Devices without 32-bit support see
// the low byte.
func (m *Map) Out32(port uint16, v uint32) {
	dev, off, ok := m.lookup(port)
	if !ok {
		m.unclaimed("out32 %#04x <- %#08x: no device", port, v)
		return
	}
	if wide, ok := dev.(WideDevice); ok {
		wide.Out32(off, v)
		return
	}
	dev.Out8(off, uint8(v))
}
