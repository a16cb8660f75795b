package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"pagecap/internal/document"
	"pagecap/internal/notifications"
	"pagecap/internal/workflow"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assemble [dir] [output]",
		Short: "Convert existing page frames into a PDF without capturing",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dir := cfg.Capture.OutputDir
			output := cfg.Capture.OutputDocument
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				dir = args[0]
			}
			if len(args) > 1 && strings.TrimSpace(args[1]) != "" {
				output = args[1]
			}

			out := newConsole(cmd.OutOrStdout())
			runner, err := workflow.NewRunner(cfg,
				workflow.WithLogger(logger),
				workflow.WithNotifier(notifications.NewService(cfg, cmd.OutOrStdout())),
				workflow.WithObserver(newTerminalObserver(cmd.Context(), out)),
			)
			if err != nil {
				return err
			}

			doc, err := runner.Assemble(cmd.Context(), dir, output)
			if errors.Is(err, document.ErrNoFrames) {
				out.failure(msgNoImages)
				return nil
			}
			if err != nil {
				return err
			}
			out.success("✅ PDF saved as: %s (%d pages)", doc.Path, doc.Pages())
			return nil
		},
	}
}
