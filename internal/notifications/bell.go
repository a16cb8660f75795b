package notifications

import (
	"context"
	"io"
)

// bellService rings once when the document is saved.
type bellService struct {
	out  io.Writer
	ring func(io.Writer) error
}

func (b *bellService) NotifyDocumentSaved(context.Context, string, int) error {
	return b.ring(b.out)
}

func (b *bellService) NotifyRunFailed(context.Context, error, string) error {
	return nil
}

func writeBell(out io.Writer) error {
	_, err := io.WriteString(out, "\a")
	return err
}
