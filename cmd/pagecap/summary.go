package main

import (
	"strconv"
	"strings"
	"time"

	"pagecap/internal/workflow"
)

// renderRunSummary tabulates a finished run for the closing screen.
func renderRunSummary(summary workflow.Summary) string {
	result := summary.Capture
	outcome := "completed"
	switch {
	case result.Interrupted:
		outcome = "interrupted"
	case result.Stopped:
		outcome = "stopped on error"
	case len(result.Skipped) > 0:
		outcome = "completed with skipped pages"
	}

	document := summary.Document.Path
	if summary.NoFrames {
		document = "not written (no frames)"
	} else if document == "" {
		document = "not written"
	}

	rows := [][]string{
		{"Device", fallback(summary.Serial, "-")},
		{"Pages captured", strconv.Itoa(len(result.Captured)) + " of " + strconv.Itoa(result.Requested)},
		{"Skipped pages", joinPages(result.Skipped)},
		{"Outcome", outcome},
		{"Document", document},
		{"Elapsed", summary.Elapsed.Round(100 * time.Millisecond).String()},
	}
	return renderTable([]string{"Run", summary.RunID}, rows)
}

func joinPages(pages []int) string {
	if len(pages) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, strconv.Itoa(page))
	}
	return strings.Join(parts, ", ")
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
