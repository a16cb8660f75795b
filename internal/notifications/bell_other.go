//go:build !windows

package notifications

import "io"

func ring(out io.Writer) error {
	return writeBell(out)
}
