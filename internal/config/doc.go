// Package config loads, normalizes, and validates pagecap configuration data.
//
// It supplies repository defaults for the device bridge, swipe gesture, crop
// ratio, and capture prompts, expands user paths (including tilde shortcuts),
// reads TOML files, and honours environment fallbacks such as PAGECAP_ADB.
// Prompted answers are layered on top by the CLI and are never written back.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
