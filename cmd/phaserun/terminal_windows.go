//go:build windows

package main

import "os"

// muteInterruptEcho does nothing on windows, the console never echoes ^C.
func muteInterruptEcho(*os.File) (restore func()) { return func() {} }
