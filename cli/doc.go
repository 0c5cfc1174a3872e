// Package cli shows a text buffer inside the host terminal.
//
// The viewer polls a vgatext.Source the way the display adapter scans video
// memory: it never takes the console lock and only ever reads cells. Each
// frame is compared with the last one drawn and only changed cells are
// rewritten.
//
// # Features
//
//   - Attribute colours mapped onto the host's 16 ANSI colours
//   - Code page 437 glyphs through package glyph
//   - Border styles (single, double, heavy, rounded) with a title
//   - Optional status bar
//   - Redraw on host resize (SIGWINCH)
//   - Keyboard input forwarded to a callback, e.g. a serial line
//
// # Basic Usage
//
//	v, err := cli.New(console, cli.Options{
//	    BorderStyle:   cli.BorderRounded,
//	    Title:         "vgaboot",
//	    ShowStatusBar: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := v.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Stop()
//	v.Wait()
//
// Ctrl+] closes the viewer and Ctrl+L forces a full redraw. Everything else
// typed goes to the input callback. When Input is not a terminal no keys are
// read, Interactive reports false, and the caller decides when to Stop.
package cli
