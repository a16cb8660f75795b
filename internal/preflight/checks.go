package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"pagecap/internal/deps"
)

// CheckADB verifies the adb binary resolves.
func CheckADB(binary string) Result {
	status := deps.CheckBinaries([]deps.Requirement{deps.ADB(binary)})[0]
	if !status.Available {
		return Result{Name: "adb", Detail: status.Detail}
	}
	return Result{Name: "adb", Passed: true, Detail: status.Resolved}
}

// CheckDevice reports whether a device is ready for capture.
func CheckDevice(ctx context.Context, lister DeviceLister, serial string) Result {
	const name = "Device"
	conn, err := Connect(ctx, lister, serial)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoDevice):
			return Result{Name: name, Detail: "no device in state 'device'"}
		case errors.Is(err, ErrSerialNotReady):
			return Result{Name: name, Detail: fmt.Sprintf("%s not ready", serial)}
		default:
			return Result{Name: name, Detail: err.Error()}
		}
	}
	detail := conn.Serial
	if len(conn.Ready) > 1 {
		detail = fmt.Sprintf("%s (%d ready)", conn.Serial, len(conn.Ready))
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := statDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := checkAccess(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func statDir(path string) (os.FileInfo, error) {
	return os.Stat(strings.TrimSpace(path))
}
