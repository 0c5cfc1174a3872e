package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/phroun/vgatext"
)

// BorderStyle defines the visual style for the window border
type BorderStyle int

const (
	BorderNone    BorderStyle = iota // No border
	BorderSingle                     // Single-line box drawing characters
	BorderDouble                     // Double-line box drawing characters
	BorderHeavy                      // Heavy/thick box drawing characters
	BorderRounded                    // Rounded corners (single line)
)

// Options configures a viewer
type Options struct {
	BorderStyle BorderStyle // Border style around the buffer
	Title       string      // Displayed in the top border
	OffsetX     int         // X offset from the top-left of the host terminal
	OffsetY     int         // Y offset from the top-left of the host terminal

	// If true, render a status bar below the buffer
	ShowStatusBar bool

	// Status supplies extra status bar text; it is called once per frame
	Status func() string

	Output io.Writer // Host terminal output (default: os.Stdout)
	Input  *os.File  // Host terminal input (default: os.Stdin)
}

// Viewer displays a Source in the host terminal
type Viewer struct {
	mu sync.Mutex

	src     vgatext.Source
	options Options

	renderer *Renderer
	input    *InputHandler

	done       chan struct{}
	doneOnce   sync.Once
	stopRender chan struct{}
	stopOnce   sync.Once

	// Original terminal state for restoration
	oldState *term.State

	// Set when Input is a terminal and keys are being read
	interactive bool

	hostCols int
	hostRows int

	onInput func([]byte)
}

// New creates a viewer for src
func New(src vgatext.Source, opts Options) (*Viewer, error) {
	if src == nil {
		return nil, fmt.Errorf("cli: nil source")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	v := &Viewer{
		src:        src,
		options:    opts,
		done:       make(chan struct{}),
		stopRender: make(chan struct{}),
	}
	v.hostCols, v.hostRows = v.hostSize()
	v.renderer = NewRenderer(v)
	v.input = NewInputHandler(v)
	return v, nil
}

// hostSize returns the current size of the host terminal
func (v *Viewer) hostSize() (cols, rows int) {
	f, ok := v.options.Output.(*os.File)
	if !ok {
		return 80, 25
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 80, 25
	}
	return cols, rows
}

// Start enters raw mode on the input and starts rendering
func (v *Viewer) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	fd := int(v.options.Input.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		v.oldState = oldState
		v.interactive = true
		go v.input.InputLoop()
	}

	// Alternate screen, hidden cursor, cleared
	fmt.Fprint(v.options.Output, "\033[?1049h\033[?25l\033[2J\033[H")

	go v.handleSIGWINCH()
	go v.renderer.RenderLoop()
	return nil
}

// handleSIGWINCH listens for host terminal resize signals
func (v *Viewer) handleSIGWINCH() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGWINCH)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-sigChan:
			v.handleResize()
		case <-v.stopRender:
			return
		}
	}
}

// handleResize clears the host screen and redraws everything after a resize
func (v *Viewer) handleResize() {
	cols, rows := v.hostSize()

	v.mu.Lock()
	if cols == v.hostCols && rows == v.hostRows {
		v.mu.Unlock()
		return
	}
	v.hostCols, v.hostRows = cols, rows
	v.mu.Unlock()

	fmt.Fprint(v.options.Output, "\033[2J")
	v.renderer.ForceFullRedraw()
}

// Interactive reports whether the viewer is reading keys from a terminal.
// A viewer that is not can only be closed with Stop.
func (v *Viewer) Interactive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.interactive
}

// Renderer returns the viewer's renderer
func (v *Viewer) Renderer() *Renderer {
	return v.renderer
}

// SetTitle sets the title shown in the top border
func (v *Viewer) SetTitle(title string) {
	v.mu.Lock()
	v.options.Title = title
	v.mu.Unlock()
	v.renderer.ForceFullRedraw()
}

// SetInputCallback sets the callback that receives typed bytes
func (v *Viewer) SetInputCallback(fn func([]byte)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onInput = fn
}

// Done is closed when the user closes the viewer or Stop is called
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

// Wait blocks until the viewer is closed
func (v *Viewer) Wait() {
	<-v.done
}

// Stop stops rendering and restores the host terminal
func (v *Viewer) Stop() error {
	v.stopOnce.Do(func() { close(v.stopRender) })
	v.doneOnce.Do(func() { close(v.done) })

	v.mu.Lock()
	oldState := v.oldState
	v.oldState = nil
	v.mu.Unlock()

	fmt.Fprint(v.options.Output, "\033[0m\033[?25h\033[?1049l")
	if oldState != nil {
		return term.Restore(int(v.options.Input.Fd()), oldState)
	}
	return nil
}

// Close is an alias for Stop
func (v *Viewer) Close() error {
	return v.Stop()
}

func (v *Viewer) quit() {
	v.doneOnce.Do(func() { close(v.done) })
}
