// Package ktest runs in-kernel tests and reports them over the diagnostic
// channel in the format the host harness parses:
//
//	Running 3 tests
//	println_simple...	[ok]
//	println_many...	[ok]
//	println_output...	[failed]
//
//	Error: row 23 column 4: got 'x', want 'y'
//
// The verdict goes to the exit device, so the host sees it as the process
// status.
package ktest

import (
	"fmt"
	"io"

	"github.com/phroun/vgatext/exitdev"
	"github.com/phroun/vgatext/port"
)

// Test is one named in-kernel test. It fails by panicking.
type Test struct {
	Name string
	Fn   func()
}

// Runner runs tests and signals the result
type Runner struct {
	Out  io.Writer // Diagnostic channel (usually the serial console)
	Bus  port.Bus  // Bus carrying the exit device
	Halt func()    // Called after the exit signal; on hardware it never returns
}

// Run runs tests in order, stopping at the first failure, and signals
// Success or Failed on the exit device. It returns the code it signalled
// if Halt returns.
func (r *Runner) Run(tests []Test) exitdev.Code {
	fmt.Fprintf(r.Out, "Running %d tests\n", len(tests))
	for _, t := range tests {
		if err := r.runOne(t); err != nil {
			fmt.Fprintf(r.Out, "[failed]\n\nError: %v\n\n", err)
			return r.finish(exitdev.Failed)
		}
		fmt.Fprintln(r.Out, "[ok]")
	}
	return r.finish(exitdev.Success)
}

// RunShouldPanic runs a test that passes only by panicking
func (r *Runner) RunShouldPanic(t Test) exitdev.Code {
	if err := r.runOne(t); err != nil {
		fmt.Fprintln(r.Out, "[ok]")
		return r.finish(exitdev.Success)
	}
	fmt.Fprintln(r.Out, "[test did not panic]")
	return r.finish(exitdev.Failed)
}

// runOne prints the test name, runs it and converts a panic into an error
func (r *Runner) runOne(t Test) (err error) {
	fmt.Fprintf(r.Out, "%s...\t", t.Name)
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	t.Fn()
	return nil
}

func (r *Runner) finish(code exitdev.Code) exitdev.Code {
	exitdev.Exit(r.Bus, code)
	if r.Halt != nil {
		r.Halt()
	}
	return code
}

// PanicError carries the value a failing test panicked with
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprint(e.Value)
}

// Assert panics with a formatted message when cond is false
func Assert(cond bool, format string, a ...any) {
	if !cond {
		panic(fmt.Sprintf(format, a...))
	}
}
