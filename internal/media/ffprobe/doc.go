// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams, chapters and format metadata
//   - Chapter: one chapter marker with its time range and tags
//   - Format: container-level metadata (duration, size, bitrate, tags)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods convert ffprobe's string-encoded numbers and pick tags
// case-insensitively, since containers disagree on tag key casing.
package ffprobe
