// Package consolidate collapses noisy per-frame OCR detections into a
// minimal ordered sequence of distinct subtitle groups.
//
// OCR run independently on sampled frames produces overlapping, near
// duplicate detections while one caption stays on screen. Grouping buckets
// detections by originating frame; the collapse pass then removes adjacent
// groups whose joined text is similar, keeping the higher-confidence
// variant. Comparison is always against the last kept group rather than the
// immediate predecessor so a long run of slightly different groups cannot
// drift away from the caption it started as.
package consolidate

import (
	"sort"
	"strings"

	"subsnap/internal/ocr"
	"subsnap/internal/textutil"
)

// DefaultThreshold is the similarity score at or above which two adjacent
// frame groups are considered the same caption.
const DefaultThreshold = 70

// FrameGroup holds every detection that originated from one frame.
// A group is never empty and all members share FrameIdx.
type FrameGroup struct {
	FrameIdx   int
	Detections []ocr.Detection
}

// Text joins the texts of all detections in the group with single spaces,
// forming the comparison string for similarity scoring and the final cue
// content.
func (g FrameGroup) Text() string {
	parts := make([]string, 0, len(g.Detections))
	for _, det := range g.Detections {
		parts = append(parts, det.Text)
	}
	return strings.Join(parts, " ")
}

// AvgScore returns the mean per-detection confidence of the group.
func (g FrameGroup) AvgScore() float64 {
	if len(g.Detections) == 0 {
		return 0
	}
	var sum float64
	for _, det := range g.Detections {
		sum += det.Score
	}
	return sum / float64(len(g.Detections))
}

// Engine performs similarity-based consolidation with an explicit threshold.
type Engine struct {
	threshold int
}

// NewEngine constructs an Engine. Thresholds outside 0-100 fall back to
// DefaultThreshold.
func NewEngine(threshold int) *Engine {
	if threshold < 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	return &Engine{threshold: threshold}
}

// Threshold returns the configured similarity threshold.
func (e *Engine) Threshold() int {
	return e.threshold
}

// GroupByFrame buckets detections by frame index and orders the buckets
// ascending. The input order is irrelevant; grouping the same detections
// twice yields identical output.
func GroupByFrame(detections []ocr.Detection) []FrameGroup {
	if len(detections) == 0 {
		return nil
	}

	buckets := make(map[int][]ocr.Detection)
	for _, det := range detections {
		buckets[det.FrameIdx] = append(buckets[det.FrameIdx], det)
	}

	indices := make([]int, 0, len(buckets))
	for idx := range buckets {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	groups := make([]FrameGroup, 0, len(indices))
	for _, idx := range indices {
		groups = append(groups, FrameGroup{FrameIdx: idx, Detections: buckets[idx]})
	}
	return groups
}

// Collapse removes near-duplicate adjacent groups. Each incoming group is
// compared against the last kept group; when the similarity ratio reaches
// the threshold the kept entry is replaced by whichever of the two has the
// strictly higher average confidence, so a tie keeps the existing entry.
func (e *Engine) Collapse(groups []FrameGroup) []FrameGroup {
	if len(groups) == 0 {
		return nil
	}

	kept := make([]FrameGroup, 0, len(groups))
	kept = append(kept, groups[0])
	for _, group := range groups[1:] {
		last := kept[len(kept)-1]
		if textutil.Ratio(group.Text(), last.Text()) >= e.threshold {
			if group.AvgScore() > last.AvgScore() {
				kept[len(kept)-1] = group
			}
			continue
		}
		kept = append(kept, group)
	}
	return kept
}

// Consolidate groups detections by frame and collapses similar neighbors.
// Empty input yields an empty sequence; the caller decides whether that is
// a reportable condition.
func (e *Engine) Consolidate(detections []ocr.Detection) []FrameGroup {
	return e.Collapse(GroupByFrame(detections))
}
