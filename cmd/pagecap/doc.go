// Package main hosts the pagecap CLI entrypoint and command graph.
//
// Running pagecap without a subcommand starts the interactive capture: it
// asks for the page count, delay, output directory, document name, and
// whether to clear old frames, then hands the answers to the workflow
// runner. The devices, assemble, and config subcommands expose the
// individual pieces for scripting and troubleshooting.
//
// Keep this package lean: behaviour lives in internal/, this package only
// gathers input and renders output.
package main
