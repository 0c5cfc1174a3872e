//go:build !linux

package emu

import (
	"errors"
	"os"
)

// ErrNoPTY is returned by OpenPTY where pseudo-terminals are not supported
var ErrNoPTY = errors.New("emu: serial pty not supported on this platform")

func openPTY() (master, slave *os.File, name string, err error) {
	return nil, nil, "", ErrNoPTY
}
