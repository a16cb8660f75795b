package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecap/internal/config"
	"pagecap/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, stub testsupport.ADBStub) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGECAP_ADB", "")
	t.Setenv("PAGECAP_NTFY_TOPIC", "")

	cfg := testsupport.NewConfig(t, testsupport.WithStubADB(stub))
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "pagecap.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, stdin, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[device]
adb_binary = %q

[capture]
pages = %d
delay_seconds = 0
output_dir = %q
output_document = %q
on_error = %q

[notifications]
bell = false

[logging]
file = %q
`,
		cfg.Device.ADBBinary,
		cfg.Capture.Pages,
		cfg.Capture.OutputDir,
		cfg.Capture.OutputDocument,
		cfg.Capture.OnError,
		cfg.Logging.File,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
