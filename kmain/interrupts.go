package kmain

import (
	"fmt"

	"github.com/phroun/vgatext"
)

// Exception vectors the handler distinguishes
const (
	VectorDivideError = 0
	VectorBreakpoint  = 3
	VectorDoubleFault = 8
	VectorPageFault   = 14
)

// Frame is the state the CPU pushes when it takes an exception
type Frame struct {
	InstructionPointer uint64
	CodeSegment        uint64
	CPUFlags           uint64
	StackPointer       uint64
	StackSegment       uint64
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{ip: %#x, cs: %#x, flags: %#x, sp: %#x, ss: %#x}",
		f.InstructionPointer, f.CodeSegment, f.CPUFlags, f.StackPointer, f.StackSegment)
}

// InterruptHandler handles one CPU exception
type InterruptHandler func(vector uint8, frame Frame)

// Handler returns the kernel's exception handler for p. A breakpoint is
// reported and execution resumes; any other exception is fatal.
//
// The handler prints through the installed console, so an exception taken
// while the console is held spins forever (see vgatext.ReportFault).
func Handler(p Platform) InterruptHandler {
	return func(vector uint8, frame Frame) {
		if vector == VectorBreakpoint {
			vgatext.Printf("EXCEPTION: BREAKPOINT\n%v\n", frame)
			return
		}
		vgatext.ReportFault(fmt.Sprintf("EXCEPTION: %s\n%v", vectorName(vector), frame))
		p.Halt()
	}
}

func vectorName(v uint8) string {
	switch v {
	case VectorDivideError:
		return "DIVIDE ERROR"
	case VectorBreakpoint:
		return "BREAKPOINT"
	case VectorDoubleFault:
		return "DOUBLE FAULT"
	case VectorPageFault:
		return "PAGE FAULT"
	default:
		return fmt.Sprintf("VECTOR %d", v)
	}
}
