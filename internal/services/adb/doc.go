// Package adb mediates access to the Android Debug Bridge CLI used to drive
// the capture device.
//
// It normalizes command invocation (device pinning with -s, optional
// per-command timeouts), parses `adb devices` listings, and exposes the three
// device operations the capture loop needs: screencap, pull, and a synthetic
// swipe. Command output is captured and logged, never shown to the user.
//
// Prefer this package over ad-hoc exec.Command usage so error wrapping and
// test injection stay consistent.
package adb
