package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pagecap/internal/notifications"
	"pagecap/internal/preflight"
	"pagecap/internal/services"
	"pagecap/internal/services/adb"
	"pagecap/internal/workflow"
	"pagecap/internal/workspace"
)

const (
	msgBanner       = "📚 Kindle Screenshot Tool (Interactive Mode)\n"
	msgNoDevice     = "❌ No device connected. Please connect your Android device with USB debugging ON."
	msgADBMissing   = "❌ adb command not found. Please install Android Platform Tools and ensure adb is on your PATH."
	msgNoImages     = "❌ No images found to convert."
	msgPressToExit  = "Press Enter to exit..."
	msgPressToClose = "\n✅ Done. Press Enter to close..."
)

func runInteractive(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := newConsole(cmd.OutOrStdout())
	prompt := newPrompter(cmd)

	out.line(msgBanner)
	req := prompt.askRequest(cfg)

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := workflow.NewRunner(cfg,
		workflow.WithLogger(logger),
		workflow.WithNotifier(notifications.NewService(cfg, cmd.OutOrStdout())),
		workflow.WithObserver(newTerminalObserver(runCtx, out)),
	)
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(runCtx, req)
	stop()

	if runErr != nil && services.IsFatal(runErr) {
		out.failure("%s", fatalMessage(runErr, req.OutputDir))
		prompt.pause(msgPressToExit)
		return &reportedError{err: runErr}
	}

	switch {
	case summary.NoFrames:
		out.failure(msgNoImages)
	case summary.Document.Path != "":
		out.success("\n✅ PDF saved as: %s", summary.Document.Path)
	}
	out.line("\n%s", renderRunSummary(summary))

	if runErr != nil {
		out.failure("❌ %s", runErr)
		prompt.pause(msgPressToExit)
		return &reportedError{err: runErr}
	}
	prompt.pause(msgPressToClose)
	return nil
}

func fatalMessage(err error, outputDir string) string {
	switch {
	case errors.Is(err, adb.ErrBinaryNotFound):
		return msgADBMissing
	case errors.Is(err, preflight.ErrNoDevice):
		return msgNoDevice
	case errors.Is(err, preflight.ErrSerialNotReady):
		return "❌ The configured device is not connected or not authorized. Check device.serial and USB debugging."
	case errors.Is(err, workspace.ErrBusy):
		return "❌ Another pagecap run is using " + outputDir + ". Wait for it to finish and try again."
	case errors.Is(err, context.Canceled):
		return "🛑 Process interrupted by user."
	default:
		return "❌ " + err.Error()
	}
}
