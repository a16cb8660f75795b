package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"pagecap/internal/frames"
	"pagecap/internal/logging"
	"pagecap/internal/services"
	"pagecap/internal/services/adb"
)

// Policy selects how the loop reacts to a failed step.
type Policy string

const (
	// PolicyStop ends the loop at the first failure.
	PolicyStop Policy = "stop"
	// PolicySkip drops the failed page and continues.
	PolicySkip Policy = "skip"
)

// ParsePolicy maps a config value onto a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicyStop, "":
		return PolicyStop, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown error policy %q", value)
	}
}

const stageName = "capture"

// Device is the subset of the adb client the loop drives.
type Device interface {
	Screencap(ctx context.Context, remotePath string) error
	Pull(ctx context.Context, remotePath, localPath string) error
	Swipe(ctx context.Context, s adb.Swipe) error
}

// Reporter receives progress after each persisted page.
type Reporter interface {
	PageCaptured(page, total int)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(page, total int)

// PageCaptured implements Reporter.
func (f ReporterFunc) PageCaptured(page, total int) { f(page, total) }

// Options configures one run of the loop.
type Options struct {
	Pages      int
	Delay      time.Duration
	RemotePath string
	Gesture    adb.Swipe
	Ratio      frames.Ratio
	Namer      frames.Namer
	Policy     Policy
}

// Result summarizes a finished loop.
type Result struct {
	Requested   int
	Captured    []int
	Skipped     []int
	Interrupted bool
	Stopped     bool
}

// Loop drives a device through the capture sequence.
type Loop struct {
	device   Device
	reporter Reporter
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Loop.
type Option func(*Loop)

// WithReporter sets the progress sink.
func WithReporter(r Reporter) Option {
	return func(l *Loop) {
		if r != nil {
			l.reporter = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSleeper replaces the inter-page wait (primarily for tests).
func WithSleeper(fn func(context.Context, time.Duration) error) Option {
	return func(l *Loop) {
		if fn != nil {
			l.sleep = fn
		}
	}
}

// New constructs a Loop for device.
func New(device Device, opts ...Option) *Loop {
	l := &Loop{
		device:   device,
		reporter: ReporterFunc(func(int, int) {}),
		logger:   logging.NewNop(),
		sleep:    Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes opts.Pages iterations. The returned error is nil on success
// and on interruption; otherwise it carries the first failure (PolicyStop)
// or every failure (PolicySkip).
func (l *Loop) Run(ctx context.Context, opts Options) (Result, error) {
	result := Result{Requested: opts.Pages}
	if opts.Policy == "" {
		opts.Policy = PolicyStop
	}
	ctx = services.WithStage(ctx, stageName)

	var failures *multierror.Error
	for page := 1; page <= opts.Pages; page++ {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}
		pageCtx := services.WithPage(ctx, page)
		logger := logging.WithContext(pageCtx, l.logger)

		err := l.capturePage(pageCtx, opts, page)
		if err != nil && ctx.Err() != nil {
			removeQuietly(opts.Namer.Raw(page))
			result.Interrupted = true
			logger.Info("capture interrupted")
			break
		}
		if err != nil {
			logger.Error("page capture failed", logging.Error(err))
			if opts.Policy == PolicyStop {
				result.Stopped = true
				return result, err
			}
			result.Skipped = append(result.Skipped, page)
			failures = multierror.Append(failures, err)
		} else {
			result.Captured = append(result.Captured, page)
			l.reporter.PageCaptured(page, opts.Pages)
			logger.Info("page captured", logging.String("frame", opts.Namer.Final(page)))
		}

		if err := l.advance(pageCtx, opts); err != nil {
			if ctx.Err() != nil {
				result.Interrupted = true
				break
			}
			logger.Error("page turn failed", logging.Error(err))
			if opts.Policy == PolicyStop {
				result.Stopped = true
				return result, err
			}
			failures = multierror.Append(failures, err)
		}
	}
	return result, failures.ErrorOrNil()
}

func (l *Loop) capturePage(ctx context.Context, opts Options, page int) error {
	raw := opts.Namer.Raw(page)
	final := opts.Namer.Final(page)

	if err := l.device.Screencap(ctx, opts.RemotePath); err != nil {
		return services.Wrap(services.ErrDevice, stageName, "screencap", pageLabel(page), err)
	}
	if err := l.device.Pull(ctx, opts.RemotePath, raw); err != nil {
		removeQuietly(raw)
		return services.Wrap(services.ErrDevice, stageName, "pull", pageLabel(page), err)
	}
	if ctx.Err() != nil {
		removeQuietly(raw)
		return ctx.Err()
	}
	if _, err := frames.Crop(raw, final, opts.Ratio); err != nil {
		removeQuietly(raw)
		if errors.Is(err, frames.ErrEncode) {
			removeQuietly(final)
		}
		return services.Wrap(services.ErrDecode, stageName, "crop", pageLabel(page), err)
	}
	if err := os.Remove(raw); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("raw frame not removed", logging.Page(page), logging.String("path", raw), logging.Error(err))
	}
	return nil
}

func (l *Loop) advance(ctx context.Context, opts Options) error {
	if err := l.device.Swipe(ctx, opts.Gesture); err != nil {
		return services.Wrap(services.ErrDevice, stageName, "swipe", "", err)
	}
	return l.sleep(ctx, opts.Delay)
}

// Sleep waits for d or until ctx is done. Non-positive durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func pageLabel(page int) string {
	return fmt.Sprintf("page %d", page)
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
