package frames

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	rawPrefix   = "raw_"
	finalPrefix = "page_"
	extension   = ".png"

	// DefaultIndexWidth pads page indices to three digits.
	DefaultIndexWidth = 3
)

// Namer builds frame paths inside one output directory.
type Namer struct {
	Dir   string
	Width int
}

// NewNamer returns a Namer, falling back to DefaultIndexWidth for widths below one.
func NewNamer(dir string, width int) Namer {
	if width < 1 {
		width = DefaultIndexWidth
	}
	return Namer{Dir: dir, Width: width}
}

// Raw returns the path of the transient full-screen capture for page i.
func (n Namer) Raw(i int) string {
	return filepath.Join(n.Dir, n.name(rawPrefix, i))
}

// Final returns the path of the cropped frame for page i.
func (n Namer) Final(i int) string {
	return filepath.Join(n.Dir, n.name(finalPrefix, i))
}

func (n Namer) name(prefix string, i int) string {
	return fmt.Sprintf("%s%0*d%s", prefix, n.Width, i, extension)
}

// IsFinal reports whether a file name denotes a final frame.
func IsFinal(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, finalPrefix) && strings.EqualFold(filepath.Ext(base), extension)
}

// List returns the final frames in dir ordered ascending by file name.
// Raw captures and unrelated files are ignored.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsFinal(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}
