// Package services defines shared utilities consumed by the capture pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp the run identifier, stage name, and page
//     index for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into environment, device, and decode errors.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
