package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ReadyDevice is an `adb devices` listing with a single authorized device.
const ReadyDevice = "List of devices attached\nemulator-5554\tdevice\n"

// NoDevices is an `adb devices` listing with nothing attached.
const NoDevices = "List of devices attached\n"

// ADBStub describes the behaviour of a fake adb executable.
type ADBStub struct {
	// Devices is printed verbatim for `adb devices`.
	Devices string
	// FailPullAt makes the n-th pull exit non-zero. Zero never fails.
	FailPullAt int
	// FrameWidth and FrameHeight size the PNG every pull delivers.
	FrameWidth  int
	FrameHeight int
}

// WithStubADB installs a fake adb and points the config at it. Every
// invocation is appended to adb.log in the base directory.
func WithStubADB(stub ADBStub) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Device.ADBBinary = InstallADB(b.t, b.baseDir, stub)
	}
}

// InstallADB writes the fake adb under dir/bin and returns its path.
func InstallADB(t testing.TB, dir string, stub ADBStub) string {
	t.Helper()

	if stub.FrameWidth <= 0 {
		stub.FrameWidth = 60
	}
	if stub.FrameHeight <= 0 {
		stub.FrameHeight = 230
	}
	fixture := filepath.Join(dir, "fixture.png")
	WritePNG(t, fixture, stub.FrameWidth, stub.FrameHeight)

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "echo \"$@\" >> %q\n", filepath.Join(dir, "adb.log"))
	script.WriteString("if [ \"$1\" = \"-s\" ]; then shift 2; fi\n")
	script.WriteString("case \"$1\" in\n")
	script.WriteString("devices)\n\tcat <<'LISTING'\n")
	script.WriteString(strings.TrimSuffix(stub.Devices, "\n"))
	script.WriteString("\nLISTING\n\t;;\n")
	script.WriteString("pull)\n")
	fmt.Fprintf(&script, "\tcounter=%q\n", filepath.Join(dir, "pulls"))
	script.WriteString("\tn=$(( $(cat \"$counter\" 2>/dev/null || echo 0) + 1 ))\n")
	script.WriteString("\techo \"$n\" > \"$counter\"\n")
	fmt.Fprintf(&script, "\tif [ \"$n\" -eq %d ]; then echo 'adb: error: device offline' >&2; exit 1; fi\n", stub.FailPullAt)
	fmt.Fprintf(&script, "\tcp %q \"$3\"\n", fixture)
	script.WriteString("\t;;\n")
	script.WriteString("esac\nexit 0\n")

	path := filepath.Join(dir, "bin", "adb")
	writeExecutable(t, path, []byte(script.String()))
	return path
}

// ADBInvocations returns the argument lines the fake adb recorded.
func ADBInvocations(t testing.TB, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "adb.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read adb log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
