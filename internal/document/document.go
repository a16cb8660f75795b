// Package document assembles final frames into a single PDF.
//
// Only files named page_*.png (extension matched case-insensitively) are
// treated as final frames. Other PNGs in the directory, such as a hand-added
// cover.png or leftover raw_*.png captures, are not included in the document.
package document

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"pagecap/internal/frames"
)

// ErrNoFrames reports that the directory held no final frames.
var ErrNoFrames = errors.New("no images found to convert")

// DefaultDPI sizes pages when no density is configured.
const DefaultDPI = 96

// Result describes a written document.
type Result struct {
	Path   string
	Frames []string
}

// Pages returns the number of pages written.
func (r Result) Pages() int {
	return len(r.Frames)
}

// Assemble writes one page per final frame in dir, ascending by file name, to
// output. Each page matches its frame's pixel size at dpi. When dir holds no
// final frames nothing is written and ErrNoFrames is returned.
func Assemble(dir, output string, dpi float64) (Result, error) {
	paths, err := frames.List(dir)
	if err != nil {
		return Result{}, err
	}
	if len(paths) == 0 {
		return Result{}, ErrNoFrames
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{OrientationStr: "P", UnitStr: "pt", SizeStr: "A4"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("pagecap", true)

	for _, path := range paths {
		width, height, err := pixelSize(path)
		if err != nil {
			return Result{}, err
		}
		size := fpdf.SizeType{Wd: width * 72 / dpi, Ht: height * 72 / dpi}
		pdf.AddPageFormat("P", size)
		pdf.ImageOptions(path, 0, 0, size.Wd, size.Ht, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		if err := pdf.Error(); err != nil {
			return Result{}, fmt.Errorf("add %s: %w", filepath.Base(path), err)
		}
	}

	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create document directory: %w", err)
		}
	}
	if err := pdf.OutputFileAndClose(output); err != nil {
		return Result{}, fmt.Errorf("write document: %w", err)
	}
	return Result{Path: output, Frames: paths}, nil
}

func pixelSize(path string) (float64, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("read frame header %s: %w", filepath.Base(path), err)
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}
