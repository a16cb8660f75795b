package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEnvironment marks fatal setup failures: adb missing, no device, workspace busy.
	ErrEnvironment = errors.New("environment error")
	// ErrDevice marks a failed device command (capture, pull, swipe).
	ErrDevice = errors.New("device command error")
	// ErrDecode marks a raw frame that could not be decoded, cropped, or saved.
	ErrDecode = errors.New("frame decode error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrDevice
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err must abort the run before any capture happens.
func IsFatal(err error) bool {
	return errors.Is(err, ErrEnvironment)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
