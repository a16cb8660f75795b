package adb_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pagecap/internal/services/adb"
)

type stubExecutor struct {
	lines []string
	err   error
	calls int
	args  [][]string
	block bool
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	s.calls++
	s.args = append(s.args, append([]string(nil), args...))
	for _, line := range s.lines {
		onOutput(line)
	}
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func newClient(t *testing.T, exec adb.Executor, opts ...adb.Option) *adb.Client {
	t.Helper()
	client, err := adb.New("adb", append([]adb.Option{adb.WithExecutor(exec)}, opts...)...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := adb.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestDevicesParsesListing(t *testing.T) {
	exec := &stubExecutor{lines: []string{
		"* daemon not running; starting now at tcp:5037",
		"* daemon started successfully",
		"List of devices attached",
		"R58M123ABC\tdevice",
		"emulator-5554\tunauthorized",
		"",
	}}
	client := newClient(t, exec, adb.WithSerial("ignored-for-listing"))

	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices returned error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %+v", devices)
	}
	if devices[0] != (adb.Device{Serial: "R58M123ABC", State: "device"}) || !devices[0].Ready() {
		t.Fatalf("unexpected first device: %+v", devices[0])
	}
	if devices[1].Ready() {
		t.Fatalf("unauthorized device must not be ready: %+v", devices[1])
	}
	if got := exec.args[0]; len(got) != 1 || got[0] != "devices" {
		t.Fatalf("devices must not be scoped to a serial, got %v", got)
	}
}

func TestCommandArguments(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)
	ctx := context.Background()

	if err := client.Screencap(ctx, "/sdcard/screen.png"); err != nil {
		t.Fatalf("Screencap: %v", err)
	}
	if err := client.Pull(ctx, "/sdcard/screen.png", "/tmp/raw_001.png"); err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if err := client.Swipe(ctx, adb.Swipe{StartX: 800, StartY: 500, EndX: 200, EndY: 500, DurationMS: 300}); err != nil {
		t.Fatalf("Swipe: %v", err)
	}

	want := [][]string{
		{"shell", "screencap", "-p", "/sdcard/screen.png"},
		{"pull", "/sdcard/screen.png", "/tmp/raw_001.png"},
		{"shell", "input", "swipe", "800", "500", "200", "500", "300"},
	}
	if len(exec.args) != len(want) {
		t.Fatalf("expected %d invocations, got %d", len(want), len(exec.args))
	}
	for i := range want {
		if strings.Join(exec.args[i], " ") != strings.Join(want[i], " ") {
			t.Fatalf("call %d: got %v want %v", i, exec.args[i], want[i])
		}
	}
}

func TestPinnedSerialPrefixesCommands(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec).Pin("R58M123ABC")
	if client.Serial() != "R58M123ABC" {
		t.Fatalf("unexpected serial: %q", client.Serial())
	}
	if err := client.Screencap(context.Background(), "/sdcard/screen.png"); err != nil {
		t.Fatalf("Screencap: %v", err)
	}
	if got := strings.Join(exec.args[0], " "); got != "-s R58M123ABC shell screencap -p /sdcard/screen.png" {
		t.Fatalf("unexpected args: %s", got)
	}
}

func TestCommandErrorIncludesOutputTail(t *testing.T) {
	exec := &stubExecutor{
		lines: []string{"adb: error: failed to stat remote object '/sdcard/screen.png': No such file or directory"},
		err:   errors.New("exit status 1"),
	}
	client := newClient(t, exec)
	err := client.Pull(context.Background(), "/sdcard/screen.png", "/tmp/raw.png")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, fragment := range []string{"adb pull", "exit status 1", "No such file or directory"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err)
		}
	}
}

func TestSwipeRejectsNonPositiveDuration(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)
	if err := client.Swipe(context.Background(), adb.Swipe{}); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if exec.calls != 0 {
		t.Fatal("expected no adb invocation")
	}
}

func TestCommandTimeout(t *testing.T) {
	exec := &stubExecutor{block: true}
	client := newClient(t, exec, adb.WithCommandTimeout(20*time.Millisecond))
	err := client.Screencap(context.Background(), "/sdcard/screen.png")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	client, err := adb.New("adb-not-installed")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Devices(context.Background())
	if !errors.Is(err, adb.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestRealExecutorCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "adb")
	body := "#!/bin/sh\nprintf 'List of devices attached\\nserial-1\\tdevice\\n'\necho 'warning' >&2\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	client, err := adb.New(script)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	devices, err := client.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if len(devices) != 1 || devices[0].Serial != "serial-1" {
		t.Fatalf("unexpected devices: %+v", devices)
	}
}
