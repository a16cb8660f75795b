package preflight

import (
	"context"
	"path/filepath"

	"pagecap/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every readiness check for the given config. The device
// check is skipped when the adb binary itself is unavailable.
func RunAll(ctx context.Context, cfg *config.Config, lister DeviceLister) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckADB(cfg.Device.ADBBinary)}
	if results[0].Passed && lister != nil {
		results = append(results, CheckDevice(ctx, lister, cfg.Device.Serial))
	}
	results = append(results, CheckOutputLocation("Output directory", cfg.Capture.OutputDir))
	return results
}

// CheckOutputLocation checks the output directory when it exists, otherwise
// the directory it would be created in.
func CheckOutputLocation(name, dir string) Result {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if _, statErr := statDir(abs); statErr == nil {
		return CheckDirectoryAccess(name, abs)
	}
	parent := CheckDirectoryAccess(name, filepath.Dir(abs))
	if parent.Passed {
		parent.Detail = abs + " (will be created)"
	}
	return parent
}
