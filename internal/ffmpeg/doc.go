// Package ffmpeg cuts a time range out of a media file with the ffmpeg CLI
// and reports progress parsed from ffmpeg's -progress stream.
//
// Output is written to a uniquely named .part file next to the target and
// renamed into place only when ffmpeg exits cleanly, so an interrupted run
// never leaves a truncated chapter under its final name.
//
// Progress callbacks are delivered from a single goroutine, in order.
package ffmpeg
