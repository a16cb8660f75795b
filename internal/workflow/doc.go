// Package workflow runs a capture session end to end.
//
// The Runner executes four stages strictly in order: connectivity,
// workspace, capture, and assemble. No stage calls back into an earlier one
// and none is retried. Connectivity and workspace failures are fatal and
// leave the output directory untouched. A capture failure or an interrupt
// still falls through to assembly so the frames already on disk end up in
// the document; the failure is reported afterwards.
//
// Callers observe progress through Observer. Each run carries a UUID that is
// attached to every log line as run_id.
package workflow
