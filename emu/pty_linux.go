//go:build linux

package emu

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

func openPTY() (master, slave *os.File, name string, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, nil, "", err
	}
	fd := int(master.Fd())

	if err := unix.IoctlSetPointerInt(fd, unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, nil, "", fmt.Errorf("unlockpt: %w", err)
	}
	n, err := unix.IoctlGetInt(fd, unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, nil, "", fmt.Errorf("ptsname: %w", err)
	}
	name = fmt.Sprintf("/dev/pts/%d", n)

	// Holding the slave open keeps master writes from failing with EIO
	// before a host program attaches
	slave, err = os.OpenFile(name, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		master.Close()
		return nil, nil, "", err
	}
	if _, err := term.MakeRaw(int(slave.Fd())); err != nil {
		slave.Close()
		master.Close()
		return nil, nil, "", fmt.Errorf("raw mode on %s: %w", name, err)
	}
	if err := unix.IoctlSetWinsize(int(slave.Fd()), unix.TIOCSWINSZ, &unix.Winsize{Row: 25, Col: 80}); err != nil {
		slave.Close()
		master.Close()
		return nil, nil, "", fmt.Errorf("winsize on %s: %w", name, err)
	}
	return master, slave, name, nil
}
