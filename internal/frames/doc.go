// Package frames names, crops, and enumerates the per-page images a capture
// run produces.
//
// Each page passes through two files in the output directory: raw_NNN.png,
// the full screen as pulled from the device, and page_NNN.png, the cropped
// frame that survives into the document. Only final frames are ever listed.
package frames
