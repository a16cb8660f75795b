package workflow

import (
	"time"

	"pagecap/internal/capture"
	"pagecap/internal/config"
	"pagecap/internal/document"
)

// Stage names a pipeline step.
type Stage string

const (
	StageConnectivity Stage = "connectivity"
	StageWorkspace    Stage = "workspace"
	StageCapture      Stage = "capture"
	StageAssemble     Stage = "assemble"
)

// Request holds the per-run answers, usually gathered by the interactive prompts.
type Request struct {
	Pages          int
	Delay          time.Duration
	OutputDir      string
	OutputDocument string
	Clear          bool
}

// RequestFromConfig seeds a Request with the configured defaults.
func RequestFromConfig(cfg *config.Config) Request {
	return Request{
		Pages:          cfg.Capture.Pages,
		Delay:          cfg.CaptureDelay(),
		OutputDir:      cfg.Capture.OutputDir,
		OutputDocument: cfg.Capture.OutputDocument,
		Clear:          cfg.Capture.ClearOutput,
	}
}

// Summary reports what a run did.
type Summary struct {
	RunID    string
	Serial   string
	Capture  capture.Result
	Document document.Result
	// NoFrames is set when assembly found nothing to convert.
	NoFrames bool
	// CaptureErr carries the capture failure that was deferred past assembly.
	CaptureErr error
	Elapsed    time.Duration
}

// Observer receives stage transitions and per-page progress.
type Observer interface {
	StageStarted(stage Stage)
	StageFinished(stage Stage, err error)
	PageCaptured(page, total int)
}

type nopObserver struct{}

func (nopObserver) StageStarted(Stage)         {}
func (nopObserver) StageFinished(Stage, error) {}
func (nopObserver) PageCaptured(int, int)      {}
