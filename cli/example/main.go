// Example program demonstrating the CLI viewer
//
// A writer prints a counter in changing colours into an in-memory text
// buffer while the viewer shows the buffer inside your terminal.
//
// Controls:
//   - Ctrl+]: quit
//   - Ctrl+L: redraw
//
// Usage:
//
//	go run main.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/phroun/vgatext"
	"github.com/phroun/vgatext/cli"
)

func main() {
	console := vgatext.New(vgatext.Options{
		Region: vgatext.NewRegion(vgatext.DefaultRows * vgatext.DefaultCols),
		Clear:  true,
	})

	view, err := cli.New(console, cli.Options{
		BorderStyle:   cli.BorderRounded,
		Title:         "vgatext CLI",
		ShowStatusBar: true,
		Status:        func() string { return "Ctrl+] quits" },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create viewer: %v\n", err)
		os.Exit(1)
	}
	if err := view.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start viewer: %v\n", err)
		os.Exit(1)
	}
	defer view.Stop()

	go func() {
		for i := 0; ; i++ {
			fg := vgatext.Color(1 + i%15)
			w := console.Lock()
			w.SetColor(fg, vgatext.Black)
			console.Unlock()
			console.Printf("line %d in %v\n", i, fg)
			time.Sleep(200 * time.Millisecond)
		}
	}()

	view.Wait()
}
