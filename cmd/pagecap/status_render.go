package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

// console writes user-facing lines, colouring them only on a terminal.
type console struct {
	out      io.Writer
	colorize bool
}

func newConsole(out io.Writer) *console {
	return &console{out: out, colorize: shouldColorize(out)}
}

func (c *console) line(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *console) success(format string, args ...any) {
	c.paint(statusOK).Fprintf(c.out, format+"\n", args...)
}

func (c *console) failure(format string, args ...any) {
	c.paint(statusError).Fprintf(c.out, format+"\n", args...)
}

func (c *console) notice(format string, args ...any) {
	c.paint(statusWarn).Fprintf(c.out, format+"\n", args...)
}

func (c *console) paint(kind statusKind) *color.Color {
	col := statusKindColor(kind)
	if c.colorize {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if !colorize {
		return base
	}
	col := statusKindColor(kind)
	col.EnableColor()
	return col.Sprint(base)
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) *color.Color {
	switch kind {
	case statusOK:
		return color.New(color.FgGreen)
	case statusWarn:
		return color.New(color.FgYellow)
	case statusError:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		col := color.New(color.FgBlue)
		col.EnableColor()
		line = col.Sprint(line)
		rule = col.Sprint(rule)
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	return isTerminal(writer) && !color.NoColor
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
