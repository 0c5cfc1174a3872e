// Command vgaboot boots the kernel on a hosted machine and shows its text
// buffer in the terminal.
//
// Usage:
//
//	vgaboot [-viewer cli|tcell|none] [-serial stdout|pty|none] [-tests] [-should-panic]
//	        [-fg yellow] [-bg black] [-chime] [-dump] [-v]
//
// With -tests or -should-panic the process exits with the status the exit
// device would give a virtual machine: 33 for success and 35 for failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/cli"
	"github.com/phroun/vgatext/emu"
	"github.com/phroun/vgatext/exitdev"
	"github.com/phroun/vgatext/glyph"
	"github.com/phroun/vgatext/kmain"
	vgatexttcell "github.com/phroun/vgatext/tcell"
)

func main() {
	viewer := flag.String("viewer", "cli", "display: cli, tcell or none")
	serial := flag.String("serial", "stdout", "COM1 destination: stdout, pty or none")
	tests := flag.Bool("tests", false, "run the in-kernel test suite")
	shouldPanic := flag.Bool("should-panic", false, "run the should-panic test")
	fg := flag.String("fg", "yellow", "foreground colour")
	bg := flag.String("bg", "black", "background colour")
	chime := flag.Bool("chime", false, "sound the exit status")
	dump := flag.Bool("dump", false, "print the final screen to stdout")
	verbose := flag.Bool("v", false, "trace device activity to stderr")
	flag.Parse()

	fgColor, ok := vgatext.ParseColor(*fg)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown colour %q\n", *fg)
		os.Exit(2)
	}
	bgColor, ok := vgatext.ParseColor(*bg)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown colour %q\n", *bg)
		os.Exit(2)
	}

	opts := emu.Options{
		Attribute:    vgatext.NewAttribute(fgColor, bgColor),
		AttributeSet: true,
		Chime:        *chime,
	}
	if *verbose {
		opts.Logger = log.New(os.Stderr, "vgaboot: ", log.LstdFlags)
	}

	// A full-screen viewer owns stdout, so serial output is held until it exits
	var held heldOutput
	switch *serial {
	case "stdout":
		if *viewer == "none" {
			opts.Serial = os.Stdout
		} else {
			opts.Serial = &held
		}
	case "pty":
		opts.SerialPTY = true
	case "none":
		opts.Serial = io.Discard
	default:
		fmt.Fprintf(os.Stderr, "Unknown serial destination %q\n", *serial)
		os.Exit(2)
	}

	m, err := emu.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create machine: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()
	if m.PTY() != nil {
		fmt.Fprintf(os.Stderr, "COM1 is on %s\n", m.PTY().Name())
	}

	kernel := func(p kmain.Platform) { kmain.Boot(p, kmain.Hello) }
	switch {
	case *tests:
		kernel = func(p kmain.Platform) { kmain.RunTests(p, kmain.Tests(p)) }
	case *shouldPanic:
		kernel = func(p kmain.Platform) { kmain.RunShouldPanic(p, kmain.ShouldPanic) }
	}
	m.Start(kernel)

	switch *viewer {
	case "cli":
		err = runCLI(m, os.Stdin, os.Stdout)
	case "tcell":
		err = runTcell(m)
	case "none":
		_, err = m.Wait(context.Background())
		if errors.Is(err, emu.ErrHalted) {
			err = nil
		}
	default:
		err = fmt.Errorf("unknown viewer %q", *viewer)
	}

	os.Stdout.Write(held.Bytes())
	if *dump {
		printScreen(os.Stdout, m.Console())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vgaboot: %v\n", err)
		os.Exit(1)
	}
	if code, ok := m.ExitCode(); ok {
		m.Close()
		os.Exit(exitdev.HostStatus(code))
	}
}

// status describes the machine for a viewer's status line
func status(m *emu.Machine) string {
	var parts []string
	if code, ok := m.ExitCode(); ok {
		parts = append(parts, fmt.Sprintf("exit: %v (status %d)", code, exitdev.HostStatus(code)))
	} else {
		select {
		case <-m.Halted():
			parts = append(parts, "halted")
		default:
			parts = append(parts, "running")
		}
	}
	if p := m.PTY(); p != nil {
		parts = append(parts, "COM1: "+p.Name())
	}
	parts = append(parts, "Ctrl+] quits")
	return strings.Join(parts, " | ")
}

func runCLI(m *emu.Machine, in *os.File, out io.Writer) error {
	v, err := cli.New(m.Console(), cli.Options{
		BorderStyle:   cli.BorderRounded,
		Title:         "vgaboot",
		ShowStatusBar: true,
		Status:        func() string { return status(m) },
		Input:         in,
		Output:        out,
	})
	if err != nil {
		return err
	}
	v.SetInputCallback(m.SerialDevice().Inject)
	if err := v.Start(); err != nil {
		return err
	}
	if v.Interactive() {
		v.Wait()
		return v.Stop()
	}

	// Nobody can press Ctrl+], so the viewer closes with the machine
	select {
	case <-v.Done():
	case <-m.Done():
	case <-m.Halted():
	}
	v.Renderer().Render()
	return v.Stop()
}

func runTcell(m *emu.Machine) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise screen: %w", err)
	}
	defer screen.Fini()

	v := vgatexttcell.New(screen, m.Console())
	v.SetInputCallback(m.SerialDevice().Inject)
	v.SetStatus(func() string { return status(m) })
	return v.Run(context.Background())
}

func printScreen(w io.Writer, c *vgatext.Console) {
	for row := 0; row < c.Rows(); row++ {
		fmt.Fprintln(w, strings.TrimRight(glyph.String([]byte(c.Grid().Text(row))), " "))
	}
}
