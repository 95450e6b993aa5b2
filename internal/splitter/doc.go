// Package splitter cuts an input file into one output file per chapter.
//
// A run probes the input, selects chapters, names each output from the
// configured template and cuts them one at a time with ffmpeg. While it
// works it redraws a single status line:
//
//	Chapter  3/12 [#####------] ( 17%): Progress [###########---------]
//
// The left bar tracks chapters done; the right bar tracks the chapter being
// cut and is omitted with stream copy, where cuts finish too quickly to
// report progress. A terminal too narrow for the line skips that redraw.
//
// The output directory is locked for the duration of a run. Completed
// chapters are written to the journal so a later run with Resume skips them.
package splitter
