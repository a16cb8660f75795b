// Package notifications signals the end of a capture run.
//
// Two transports are available: a terminal bell (a kernel beep on Windows)
// and an optional ntfy push when a topic is configured. NewService fans out
// to every enabled transport and degrades to a no-op when none are.
package notifications
