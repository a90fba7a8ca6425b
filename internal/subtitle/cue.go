package subtitle

import (
	"errors"
	"time"

	"subsnap/internal/consolidate"
)

// ErrNoSubtitles indicates consolidation produced zero groups: no text was
// detected across the whole sampled range. Reported distinctly so batch
// tooling can tell "nothing to caption" from a pipeline failure.
var ErrNoSubtitles = errors.New("no subtitles found")

// DefaultMaxShowSeconds caps how long one cue may stay on screen when the
// next caption is far away.
const DefaultMaxShowSeconds = 10

// Cue is one output subtitle unit with wall-clock display bounds.
type Cue struct {
	Content string
	Start   time.Duration
	End     time.Duration
}

// Timeline assigns start and end times to every consolidated frame group.
//
// fps is the rounded frame rate; originFPS the unrounded rate used for the
// actual time math. A cue ends when the next caption starts or after
// maxShowSeconds, whichever comes first. The final cue has no successor, so
// a synthetic boundary of maxShowSeconds*fps frames bounds its lifetime.
func Timeline(groups []consolidate.FrameGroup, fps int, originFPS float64, maxShowSeconds int) ([]Cue, error) {
	if len(groups) == 0 {
		return nil, ErrNoSubtitles
	}
	if maxShowSeconds <= 0 {
		maxShowSeconds = DefaultMaxShowSeconds
	}

	boundaries := make([]int, 0, len(groups)+1)
	for _, group := range groups {
		boundaries = append(boundaries, group.FrameIdx)
	}
	boundaries = append(boundaries, groups[len(groups)-1].FrameIdx+maxShowSeconds*fps)

	cues := make([]Cue, 0, len(groups))
	for i, group := range groups {
		if len(group.Detections) == 0 {
			continue
		}
		alive := boundaries[i+1] - boundaries[i]
		start := float64(group.FrameIdx) / originFPS
		end := min(start+float64(maxShowSeconds), float64(group.FrameIdx+alive)/originFPS)
		cues = append(cues, Cue{
			Content: group.Text(),
			Start:   time.Duration(start * float64(time.Second)),
			End:     time.Duration(end * float64(time.Second)),
		})
	}
	if len(cues) == 0 {
		return nil, ErrNoSubtitles
	}
	return cues, nil
}
