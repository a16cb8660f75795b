package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"pagecap/internal/config"
	"pagecap/internal/workflow"
)

// readLine prints label and returns the trimmed answer. EOF yields an empty answer.
func (p *prompter) readLine(label string) string {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(line)
}

func (p *prompter) askInt(label string, fallback int) int {
	answer := p.readLine(label)
	if answer == "" {
		return fallback
	}
	value, err := strconv.Atoi(answer)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func (p *prompter) askFloat(label string, fallback float64) float64 {
	answer := p.readLine(label)
	if answer == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fallback
	}
	return value
}

func (p *prompter) askString(label, fallback string) string {
	if answer := p.readLine(label); answer != "" {
		return answer
	}
	return fallback
}

func (p *prompter) askYesNo(label string, fallback bool) bool {
	switch strings.ToLower(p.readLine(label)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return fallback
	}
}

// pause blocks until the user presses Enter (or input ends).
func (p *prompter) pause(message string) {
	p.readLine(message)
}

// askRequest runs the interactive questionnaire, offering config values as defaults.
func (p *prompter) askRequest(cfg *config.Config) workflow.Request {
	defaults := cfg.Capture
	pages := p.askInt(fmt.Sprintf("Enter number of pages to capture [default %d]: ", defaults.Pages), defaults.Pages)
	delay := p.askFloat(fmt.Sprintf("Delay between page turns (seconds) [default %s]: ", formatSeconds(defaults.DelaySeconds)), defaults.DelaySeconds)
	dir := p.askString(fmt.Sprintf("Directory to save screenshots [default '%s']: ", defaults.OutputDir), defaults.OutputDir)
	output := p.askString(fmt.Sprintf("Name of output PDF file [default '%s']: ", defaults.OutputDocument), defaults.OutputDocument)
	clearLabel := "Clear existing screenshot directory? (y/N): "
	if defaults.ClearOutput {
		clearLabel = "Clear existing screenshot directory? (Y/n): "
	}
	clearDir := p.askYesNo(clearLabel, defaults.ClearOutput)

	return workflow.Request{
		Pages:          pages,
		Delay:          config.SecondsToDuration(delay),
		OutputDir:      dir,
		OutputDocument: output,
		Clear:          clearDir,
	}
}

// formatSeconds keeps one decimal for whole numbers so 2 renders as "2.0".
func formatSeconds(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', 1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
