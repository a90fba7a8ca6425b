// Package frames decodes sampled video frames through an ffmpeg subprocess
// and applies the configured preprocessing chain before OCR.
//
// Sampling uses a select filter built from the frame range so skipped frames
// never cross the pipe. Preprocessing steps (crop, grayscale, scale,
// binarize) are composable Transform values, each contributing one filter
// stage.
package frames
