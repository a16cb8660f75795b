package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pagecap/internal/config"
	"pagecap/internal/logging"
	"pagecap/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller", logging.String(logging.FieldComponent, "capture"), logging.Int("bytes", 42))

	content := readLog(t, logPath)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if !strings.Contains(content, "INFO  [capture] | message without caller bytes=42") {
		t.Fatalf("unexpected console layout: %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Debug("message with caller")

	if content := readLog(t, logPath); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerRendersContextSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithStage(context.Background(), "capture")
	ctx = services.WithPage(ctx, 7)
	ctx = services.WithRunID(ctx, "run-1")
	logging.WithContext(ctx, logger).Warn("pull failed", logging.Error(errors.New("device offline")))

	content := readLog(t, logPath)
	for _, want := range []string{"WARN  capture p007 | pull failed", "run_id=run-1", `error="device offline"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
}

func TestJSONLoggerFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("frame saved", logging.Int(logging.FieldPage, 3))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "info" || entry["message"] != "frame saved" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry["page"] != float64(3) {
		t.Fatalf("unexpected page field: %v", entry["page"])
	}
}

func TestConsoleLoggerLiftsSerialAndFlattensGroups(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.With(logging.Component("adb"), logging.String(logging.FieldSerial, "emulator-5554")).
		WithGroup("swipe").
		Info("page turned", logging.Int("duration_ms", 300), logging.String("note", "two words"))

	content := readLog(t, logPath)
	for _, want := range []string{"INFO  [adb] @emulator-5554 | page turned", "swipe.duration_ms=300", `swipe.note="two words"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesToConfiguredFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "pagecap.log")

	logger, err := logging.NewFromConfig(&cfg, false)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("hidden at info level")
	logger.Info("visible")

	content := readLog(t, cfg.Logging.File)
	if strings.Contains(content, "hidden at info level") {
		t.Fatalf("debug line leaked at info level: %q", content)
	}
	if !strings.Contains(content, "visible") {
		t.Fatalf("expected info line, got %q", content)
	}
}

func TestNewFromConfigWithoutOutputsIsNop(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = ""
	logger, err := logging.NewFromConfig(&cfg, false)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger")
	}
}

func TestLevelParsingAcceptsWarningAlias(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "pagecap.log")
	logger, err := logging.New(logging.Options{Level: "WARNING", Destinations: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	content := readLog(t, logPath)
	if strings.Contains(content, "dropped") || !strings.Contains(content, "kept") {
		t.Fatalf("unexpected level filtering: %q", content)
	}
}
