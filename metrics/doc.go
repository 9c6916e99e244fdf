// Package metrics provides width oracles for the layout package that do not
// need a rendering backend.
//
//   - Fixed gives every rune the same advance; tests and examples use it.
//   - Cells measures terminal cells and ignores ANSI escape sequences.
//   - TTF reads horizontal advances straight from TrueType/OpenType bytes.
//
// The shaped oracle backed by tdewolff/canvas lives in renderer/canvas.
package metrics
