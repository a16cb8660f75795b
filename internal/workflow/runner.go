package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"pagecap/internal/capture"
	"pagecap/internal/config"
	"pagecap/internal/document"
	"pagecap/internal/frames"
	"pagecap/internal/logging"
	"pagecap/internal/notifications"
	"pagecap/internal/preflight"
	"pagecap/internal/services"
	"pagecap/internal/services/adb"
	"pagecap/internal/workspace"
)

// Runner executes capture sessions for one configuration.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	notifier   notifications.Service
	observer   Observer
	adbOptions []adb.Option
	sleep      func(context.Context, time.Duration) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNotifier sets the completion notifier.
func WithNotifier(n notifications.Service) Option {
	return func(r *Runner) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithADBOptions passes extra options to the adb client (primarily for tests).
func WithADBOptions(opts ...adb.Option) Option {
	return func(r *Runner) {
		r.adbOptions = append(r.adbOptions, opts...)
	}
}

// WithSleeper replaces the inter-page wait (primarily for tests).
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(r *Runner) {
		r.sleep = fn
	}
}

// NewRunner constructs a Runner. Notifications default to the configured transports.
func NewRunner(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow requires config")
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewNop(),
		notifier: notifications.NewService(nil, nil),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(logging.Component("workflow"))
	return r, nil
}

// Run executes one capture session. The returned error is non-nil when the
// run must exit non-zero: a fatal setup failure, a capture failure (reported
// after assembly), or an assembly failure other than "no frames".
// Cancelling ctx stops the capture loop but not assembly.
func (r *Runner) Run(ctx context.Context, req Request) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.Int("pages", req.Pages),
		logging.Duration("delay", req.Delay),
		logging.String("output_dir", req.OutputDir),
		logging.String("output_document", req.OutputDocument),
		logging.Bool("clear", req.Clear),
	)
	finish := func(stage Stage, err error) (Summary, error) {
		summary.Elapsed = time.Since(started)
		if err != nil {
			logger.Error("run failed",
				logging.String(logging.FieldStage, string(stage)),
				logging.Error(err),
				logging.Duration("elapsed", summary.Elapsed),
			)
			r.notifyFailure(ctx, stage, err)
		} else {
			logger.Info("run finished", logging.Duration("elapsed", summary.Elapsed))
		}
		return summary, err
	}

	policy, err := capture.ParsePolicy(r.cfg.Capture.OnError)
	if err != nil {
		return finish(StageCapture, err)
	}

	client, conn, err := r.connect(ctx)
	if err != nil {
		return finish(StageConnectivity, err)
	}
	summary.Serial = conn.Serial

	lock, err := r.prepareWorkspace(ctx, req)
	if err != nil {
		return finish(StageWorkspace, err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("workspace lock not released", logging.Error(err))
		}
	}()

	summary.Capture, summary.CaptureErr = r.capture(ctx, client, req, policy)

	// Assembly must still run after an interrupt.
	assembleCtx := context.WithoutCancel(ctx)
	doc, err := r.assemble(assembleCtx, req.OutputDir, req.OutputDocument)
	switch {
	case errors.Is(err, document.ErrNoFrames):
		summary.NoFrames = true
	case err != nil:
		return finish(StageAssemble, errors.Join(summary.CaptureErr, err))
	default:
		summary.Document = doc
	}
	return finish(StageCapture, summary.CaptureErr)
}

// Assemble runs only the document stage over an existing directory.
func (r *Runner) Assemble(ctx context.Context, dir, output string) (document.Result, error) {
	ctx = services.WithRunID(ctx, uuid.NewString())
	return r.assemble(ctx, dir, output)
}

func (r *Runner) connect(ctx context.Context) (*adb.Client, preflight.Connection, error) {
	ctx = services.WithStage(ctx, string(StageConnectivity))
	r.observer.StageStarted(StageConnectivity)
	client, conn, err := r.connectDevice(ctx)
	r.observer.StageFinished(StageConnectivity, err)
	return client, conn, err
}

func (r *Runner) connectDevice(ctx context.Context) (*adb.Client, preflight.Connection, error) {
	logger := logging.WithContext(ctx, r.logger)
	if err := preflight.RequireADB(r.cfg.Device.ADBBinary); err != nil {
		return nil, preflight.Connection{}, err
	}
	opts := append([]adb.Option{
		adb.WithCommandTimeout(r.cfg.CommandTimeout()),
		adb.WithLogger(r.logger),
	}, r.adbOptions...)
	client, err := adb.New(r.cfg.Device.ADBBinary, opts...)
	if err != nil {
		return nil, preflight.Connection{}, services.Wrap(services.ErrEnvironment, string(StageConnectivity), "adb client", "", err)
	}
	conn, err := preflight.Connect(ctx, client, r.cfg.Device.Serial)
	if err != nil {
		return nil, conn, err
	}
	preflight.LogConnection(logger, conn)
	if strings.TrimSpace(r.cfg.Device.Serial) != "" || len(conn.Ready) > 1 {
		client = client.Pin(conn.Serial)
	}
	return client, conn, nil
}

func (r *Runner) prepareWorkspace(ctx context.Context, req Request) (*workspace.Lock, error) {
	ctx = services.WithStage(ctx, string(StageWorkspace))
	r.observer.StageStarted(StageWorkspace)
	lock, err := workspace.Acquire(req.OutputDir)
	if err == nil {
		if prepErr := workspace.Prepare(req.OutputDir, req.Clear); prepErr != nil {
			_ = lock.Release()
			lock = nil
			err = services.Wrap(services.ErrEnvironment, string(StageWorkspace), "prepare", req.OutputDir, prepErr)
		}
	}
	if err == nil {
		logging.WithContext(ctx, r.logger).Info("workspace ready",
			logging.String("dir", req.OutputDir),
			logging.Bool("cleared", req.Clear),
		)
	}
	r.observer.StageFinished(StageWorkspace, err)
	return lock, err
}

func (r *Runner) capture(ctx context.Context, client *adb.Client, req Request, policy capture.Policy) (capture.Result, error) {
	r.observer.StageStarted(StageCapture)
	loop := capture.New(client,
		capture.WithLogger(r.logger),
		capture.WithReporter(capture.ReporterFunc(r.observer.PageCaptured)),
		capture.WithSleeper(r.sleep),
	)
	result, err := loop.Run(ctx, capture.Options{
		Pages:      req.Pages,
		Delay:      req.Delay,
		RemotePath: r.cfg.Device.RemotePath,
		Gesture: adb.Swipe{
			StartX:     r.cfg.Gesture.StartX,
			StartY:     r.cfg.Gesture.StartY,
			EndX:       r.cfg.Gesture.EndX,
			EndY:       r.cfg.Gesture.EndY,
			DurationMS: r.cfg.Gesture.DurationMS,
		},
		Ratio: frames.Ratio{
			Numerator:   r.cfg.Crop.RatioNumerator,
			Denominator: r.cfg.Crop.RatioDenominator,
		},
		Namer:  frames.NewNamer(req.OutputDir, r.cfg.Capture.IndexWidth),
		Policy: policy,
	})
	logging.WithContext(services.WithStage(ctx, string(StageCapture)), r.logger).Info("capture finished",
		logging.Int("captured", len(result.Captured)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Bool("interrupted", result.Interrupted),
	)
	r.observer.StageFinished(StageCapture, err)
	return result, err
}

func (r *Runner) assemble(ctx context.Context, dir, output string) (document.Result, error) {
	ctx = services.WithStage(ctx, string(StageAssemble))
	logger := logging.WithContext(ctx, r.logger)
	r.observer.StageStarted(StageAssemble)

	doc, err := document.Assemble(dir, output, r.cfg.Document.DPI)
	switch {
	case errors.Is(err, document.ErrNoFrames):
		logger.Warn("no frames to assemble", logging.String("dir", dir))
	case err != nil:
		err = services.Wrap(services.ErrDecode, string(StageAssemble), "pdf", output, err)
	default:
		logger.Info("document saved",
			logging.String("path", doc.Path),
			logging.Int("pages", doc.Pages()),
		)
		if notifyErr := r.notifier.NotifyDocumentSaved(ctx, doc.Path, doc.Pages()); notifyErr != nil {
			logger.Warn("completion notification failed", logging.Error(notifyErr))
		}
	}
	r.observer.StageFinished(StageAssemble, err)
	return doc, err
}

func (r *Runner) notifyFailure(ctx context.Context, stage Stage, err error) {
	if notifyErr := r.notifier.NotifyRunFailed(context.WithoutCancel(ctx), err, string(stage)); notifyErr != nil {
		r.logger.Warn("failure notification failed", logging.Error(notifyErr))
	}
}
