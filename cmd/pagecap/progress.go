package main

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"

	"pagecap/internal/workflow"
)

// terminalObserver renders workflow progress for the interactive session.
// On a terminal the capture loop drives a progress bar and assembly shows a
// spinner; otherwise plain lines are printed.
type terminalObserver struct {
	ctx     context.Context
	console *console
	fancy   bool

	bar     *progressbar.ProgressBar
	spinner *spinner.Spinner
}

func newTerminalObserver(ctx context.Context, c *console) *terminalObserver {
	return &terminalObserver{ctx: ctx, console: c, fancy: isTerminal(c.out)}
}

func (o *terminalObserver) StageStarted(stage workflow.Stage) {
	switch stage {
	case workflow.StageCapture:
		o.console.line("\n📷 Starting capture process...")
	case workflow.StageAssemble:
		o.console.line("\n🧾 Converting to PDF...")
		if o.fancy {
			o.spinner = newSpinner(o.console.out, "assembling pages")
			o.spinner.Start()
		}
	}
}

func (o *terminalObserver) StageFinished(stage workflow.Stage, err error) {
	switch stage {
	case workflow.StageCapture:
		if o.bar != nil {
			if !o.bar.IsFinished() {
				_ = o.bar.Exit()
				o.console.line("")
			}
			o.bar = nil
		}
		if o.ctx.Err() != nil {
			o.console.notice("\n🛑 Process interrupted by user.")
		}
	case workflow.StageAssemble:
		if o.spinner != nil {
			o.spinner.Stop()
			o.spinner = nil
		}
	}
}

func (o *terminalObserver) PageCaptured(page, total int) {
	if !o.fancy {
		o.console.line("Captured page %d/%d", page, total)
		return
	}
	if o.bar == nil {
		o.bar = newProgressBar(o.console.out, total)
	}
	_ = o.bar.Set(page)
}

func newProgressBar(out io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Captured page"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func newSpinner(out io.Writer, message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.Suffix = " " + message
	return s
}
