//go:build windows

package notifications

import (
	"io"

	"golang.org/x/sys/windows"
)

var procBeep = windows.NewLazySystemDLL("kernel32.dll").NewProc("Beep")

// ring plays a 1 kHz tone for half a second, falling back to the terminal bell.
func ring(out io.Writer) error {
	if err := procBeep.Find(); err != nil {
		return writeBell(out)
	}
	if r, _, _ := procBeep.Call(1000, 500); r == 0 {
		return writeBell(out)
	}
	return nil
}
