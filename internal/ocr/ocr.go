// Package ocr defines the boundary between the extraction pipeline and the
// external text recognition engine.
package ocr

import (
	"context"

	"subsnap/internal/media/frames"
)

// Point is one vertex of a detection polygon, in frame pixel coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Detection is a single raw OCR hit on a single frame. Immutable once
// produced; Score is only meaningful for ranking detections against each
// other, not as an absolute probability.
type Detection struct {
	Box      []Point
	Text     string
	Score    float64
	FrameIdx int
}

// Result is one recognized region as reported by an engine, before it is
// tagged with the originating frame index.
type Result struct {
	Box   []Point `json:"box"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Engine recognizes text in decoded video frames.
//
// Engine instances are not safe for concurrent use: callers that process
// videos in parallel must construct one engine per worker and never share
// one instance across goroutines.
type Engine interface {
	// Recognize returns zero or more detections for one frame. No ordering
	// is guaranteed among the returned results.
	Recognize(ctx context.Context, frame *frames.Frame) ([]Result, error)
	// Close releases the engine and any resources held by it.
	Close() error
}

// Tag converts raw engine results into Detections carrying the frame index.
// Results whose text is empty after engine-side cleanup are dropped.
func Tag(results []Result, frameIdx int) []Detection {
	detections := make([]Detection, 0, len(results))
	for _, res := range results {
		if res.Text == "" {
			continue
		}
		detections = append(detections, Detection{
			Box:      res.Box,
			Text:     res.Text,
			Score:    res.Score,
			FrameIdx: frameIdx,
		})
	}
	return detections
}
