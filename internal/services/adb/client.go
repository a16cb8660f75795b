package adb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"pagecap/internal/logging"
)

// ErrBinaryNotFound reports that the adb executable could not be started.
var ErrBinaryNotFound = errors.New("adb binary not found")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Swipe describes a synthetic touch gesture in device pixels.
type Swipe struct {
	StartX     int
	StartY     int
	EndX       int
	EndY       int
	DurationMS int
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithSerial pins every device command to the given serial.
func WithSerial(serial string) Option {
	return func(c *Client) {
		c.serial = strings.TrimSpace(serial)
	}
}

// WithCommandTimeout bounds each adb invocation. Zero waits forever.
func WithCommandTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger routes adb command output to the given logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps adb CLI interactions.
type Client struct {
	binary  string
	serial  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// New constructs an adb client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("adb binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = client.logger.With(logging.Component("adb"))
	return client, nil
}

// Binary returns the adb executable the client invokes.
func (c *Client) Binary() string {
	return c.binary
}

// Serial returns the pinned device serial, if any.
func (c *Client) Serial() string {
	return c.serial
}

// Pin returns a copy of the client bound to serial.
func (c *Client) Pin(serial string) *Client {
	clone := *c
	clone.serial = strings.TrimSpace(serial)
	return &clone
}

// Devices lists attached devices. The listing is never scoped to the pinned serial.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var lines []string
	if err := c.runRaw(ctx, []string{"devices"}, func(line string) {
		lines = append(lines, line)
	}); err != nil {
		return nil, err
	}
	return ParseDevices(lines), nil
}

// Screencap writes a PNG of the current screen to remotePath on the device.
func (c *Client) Screencap(ctx context.Context, remotePath string) error {
	if strings.TrimSpace(remotePath) == "" {
		return errors.New("device path required")
	}
	return c.run(ctx, "shell", "screencap", "-p", remotePath)
}

// Pull copies remotePath from the device to localPath on the host.
func (c *Client) Pull(ctx context.Context, remotePath, localPath string) error {
	if strings.TrimSpace(remotePath) == "" || strings.TrimSpace(localPath) == "" {
		return errors.New("device and local paths required")
	}
	return c.run(ctx, "pull", remotePath, localPath)
}

// Swipe injects a synthetic swipe gesture.
func (c *Client) Swipe(ctx context.Context, s Swipe) error {
	if s.DurationMS <= 0 {
		return fmt.Errorf("swipe duration must be positive, got %d", s.DurationMS)
	}
	return c.run(ctx, "shell", "input", "swipe",
		strconv.Itoa(s.StartX), strconv.Itoa(s.StartY),
		strconv.Itoa(s.EndX), strconv.Itoa(s.EndY),
		strconv.Itoa(s.DurationMS))
}

func (c *Client) run(ctx context.Context, args ...string) error {
	if c.serial != "" {
		args = append([]string{"-s", c.serial}, args...)
	}
	var tail []string
	err := c.runRaw(ctx, args, func(line string) {
		tail = appendTail(tail, line, 3)
	})
	if err != nil && len(tail) > 0 {
		return fmt.Errorf("%w (%s)", err, strings.Join(tail, "; "))
	}
	return err
}

func (c *Client) runRaw(ctx context.Context, args []string, onOutput func(string)) error {
	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		line = strings.TrimRight(line, "\r")
		c.logger.Debug("adb output", logging.String("line", line))
		if onOutput != nil {
			onOutput(line)
		}
	})
	c.logger.Debug("adb command finished",
		logging.String("args", strings.Join(args, " ")),
		logging.Duration("elapsed", time.Since(started)),
		logging.Bool("ok", err == nil),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBinaryNotFound, c.binary)
	}
	if ctx.Err() == nil && runCtx.Err() != nil {
		return fmt.Errorf("adb %s: timed out after %s", firstNonFlag(args), c.timeout)
	}
	return fmt.Errorf("adb %s: %w", firstNonFlag(args), err)
}

func firstNonFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-s" {
			i++
			continue
		}
		return strings.Join(args[i:min(len(args), i+2)], " ")
	}
	return ""
}

func appendTail(tail []string, line string, limit int) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return tail
	}
	tail = append(tail, line)
	if len(tail) > limit {
		tail = tail[len(tail)-limit:]
	}
	return tail
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput == nil {
				continue
			}
			mu.Lock()
			onOutput(scanner.Text())
			mu.Unlock()
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
