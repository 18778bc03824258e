//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// muteInterruptEcho clears ECHOCTL on tty so Ctrl+C leaves no "^C" in phase output.
// the returned func puts the saved termios back, it is a no-op when tty is not a terminal.
func muteInterruptEcho(tty *os.File) (restore func()) {
	restore = func() {}
	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return restore
	}
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return restore
	}
	muted := *saved
	muted.Lflag &^= unix.ECHOCTL
	if unix.IoctlSetTermios(fd, ioctlWriteTermios, &muted) != nil {
		return restore
	}
	return func() { _ = unix.IoctlSetTermios(fd, ioctlWriteTermios, saved) }
}
