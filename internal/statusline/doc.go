// Package statusline composes independently updated display cells into one
// fixed-width line suitable for redrawing in place on a terminal.
//
// Key types:
//   - Text: a plain label with Auto or Fixed sizing and left/right alignment
//   - Bar: a bracketed progress indicator driven by a fraction in [0,1]
//   - Template: a label formatted from a template and rebindable values
//   - Line: an ordered set of cells, a separator, and a target width
//
// Every Line.Render call is a full layout pass: Auto and Fixed cells reserve
// their widths, the remainder is split across Elastic cells (the last Elastic
// cell absorbs the rounding remainder) and each cell is rendered to exactly
// its resolved width. Widths are counted in runes; East Asian wide characters
// and combining sequences are not measured by display width.
//
// The package performs no terminal I/O. Callers own the write discipline
// (carriage return to overwrite, newline to finalize) and must serialise
// mutation and rendering: none of the types are safe for concurrent use.
package statusline
