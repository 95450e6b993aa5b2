// Package preflight provides readiness checks for the binaries and
// filesystem paths chapsplit depends on.
//
// These checks run in two contexts:
//   - The split command calls RunAll before cutting anything, so a missing
//     ffmpeg or an unwritable output directory fails before the first chapter.
//   - The "chapsplit doctor" command displays every check with its detail.
package preflight
