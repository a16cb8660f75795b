package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pagecap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Captures run without delay, notifications are silent, and logs stay
// inside the temp tree.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Capture.Pages = 3
	cfgVal.Capture.DelaySeconds = 0
	cfgVal.Capture.OutputDir = filepath.Join(base, "screenshots")
	cfgVal.Capture.OutputDocument = filepath.Join(base, "book.pdf")
	cfgVal.Notifications.Bell = false
	cfgVal.Logging.File = filepath.Join(base, "logs", "pagecap.log")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithPages sets the number of pages to capture.
func WithPages(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Capture.Pages = n
	}
}

// WithOnError sets the capture error policy.
func WithOnError(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Capture.OnError = policy
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"adb"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			writeExecutable(b.t, filepath.Join(binDir, name), script)
		}
		PrependPath(b.t, binDir)
	}
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Capture.OutputDocument)
}

func writeExecutable(t testing.TB, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
}
