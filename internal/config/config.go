package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Device contains configuration for the adb device bridge.
type Device struct {
	ADBBinary  string `toml:"adb_binary"`
	Serial     string `toml:"serial"`
	RemotePath string `toml:"remote_path"`
	// CommandTimeout bounds each adb invocation in seconds. Zero disables the limit.
	CommandTimeout int `toml:"command_timeout"`
}

// Gesture contains the synthetic swipe used to turn a page. The defaults are
// tuned for a portrait 1080px-wide reader; other devices need recalibration.
type Gesture struct {
	StartX     int `toml:"start_x"`
	StartY     int `toml:"start_y"`
	EndX       int `toml:"end_x"`
	EndY       int `toml:"end_y"`
	DurationMS int `toml:"duration_ms"`
}

// Crop contains the fixed ratio of the frame height that is kept. The bottom
// remainder holds the reading-progress overlay.
type Crop struct {
	RatioNumerator   float64 `toml:"ratio_numerator"`
	RatioDenominator float64 `toml:"ratio_denominator"`
}

// Capture contains the defaults offered by the interactive prompts and the
// loop error policy.
type Capture struct {
	Pages          int     `toml:"pages"`
	DelaySeconds   float64 `toml:"delay_seconds"`
	OutputDir      string  `toml:"output_dir"`
	OutputDocument string  `toml:"output_document"`
	ClearOutput    bool    `toml:"clear_output"`
	OnError        string  `toml:"on_error"`
	IndexWidth     int     `toml:"index_width"`
}

// Document contains PDF assembly settings.
type Document struct {
	DPI float64 `toml:"dpi"`
}

// Notifications contains completion signal settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Bell           bool   `toml:"bell"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for pagecap.
//
// Configuration sections by subsystem:
//   - Device: adb binary, device serial, device-side capture path
//   - Gesture: page-turn swipe coordinates and duration
//   - Crop: kept fraction of the frame height
//   - Capture: prompt defaults and error policy
//   - Document: PDF page sizing
//   - Notifications: terminal bell and ntfy push on completion
//   - Logging: log format, level, and file
type Config struct {
	Device        Device        `toml:"device"`
	Gesture       Gesture       `toml:"gesture"`
	Crop          Crop          `toml:"crop"`
	Capture       Capture       `toml:"capture"`
	Document      Document      `toml:"document"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pagecap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pagecap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CommandTimeout returns the per-command adb timeout, or zero when unbounded.
func (c *Config) CommandTimeout() time.Duration {
	if c.Device.CommandTimeout <= 0 {
		return 0
	}
	return time.Duration(c.Device.CommandTimeout) * time.Second
}

// CaptureDelay converts the configured delay into a duration.
func (c *Config) CaptureDelay() time.Duration {
	return SecondsToDuration(c.Capture.DelaySeconds)
}

// SecondsToDuration converts fractional seconds, clamping negatives to zero.
func SecondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
