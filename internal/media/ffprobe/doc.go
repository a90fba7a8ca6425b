// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including frame rate rationals
//   - Video: the condensed per-file metadata the pipeline consumes
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns a parsed Result
//   - ProbeVideo: extracts frame count, rounded and raw fps, and dimensions
package ffprobe
