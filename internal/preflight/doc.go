// Package preflight provides readiness checks for the adb toolchain, the
// attached device, and the output location that pagecap depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls Connect before touching the output directory.
//     Any failure is fatal and nothing is written.
//   - The CLI "pagecap devices" command uses RunAll to display readiness.
//
// Nothing here retries; a failed check is reported once.
package preflight
