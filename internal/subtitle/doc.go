// Package subtitle converts consolidated frame groups into time-coded cues
// and serializes them as caption files.
//
// Timeline owns the timing policy: cues end when the next caption starts or
// after the configured maximum display duration, and the final cue gets a
// synthetic lifetime since nothing follows it. Render produces the two
// supported textual layouts byte for byte; WriteFile places the result in
// an output directory beside the source video, atomically.
package subtitle
