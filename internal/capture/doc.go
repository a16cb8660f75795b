// Package capture runs the per-page loop: screencap, pull, crop, report,
// swipe, and wait.
//
// Every step returns an explicit error and every failure goes through one
// policy. PolicyStop ends the loop at the first failure, exactly like an
// interrupt, so the frames captured so far can still be assembled.
// PolicySkip discards the failed page and keeps going, aggregating errors.
// Context cancellation stops the loop before the next step and discards the
// raw capture of a half-captured page; it is never reported as a failure.
// A final frame left by an earlier run is only replaced by a successful save.
package capture
