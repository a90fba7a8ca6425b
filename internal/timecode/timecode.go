package timecode

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTimeFormat indicates a time string that is not 2 or 3
	// colon-separated numeric fields.
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidRange indicates a range whose end resolves before its start.
	ErrInvalidRange = errors.New("invalid time range")
)

// ParseTime converts an "H:MM:SS" or "M:SS" style string into a frame index
// at the given frame rate. Seconds may be fractional. An empty string maps
// to frame 0. The product of total seconds and fps is truncated, not rounded.
func ParseTime(value string, fps int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	fields := strings.Split(value, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return 0, fmt.Errorf("%w: %q does not match H:MM:SS or M:SS", ErrInvalidTimeFormat, value)
	}

	parts := make([]float64, len(fields))
	for i, field := range fields {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q has non-numeric field %q", ErrInvalidTimeFormat, value, field)
		}
		parts[i] = parsed
	}

	var seconds float64
	if len(parts) == 3 {
		seconds = parts[0]*3600 + parts[1]*60 + parts[2]
	} else {
		seconds = parts[0]*60 + parts[1]
	}
	return int(seconds * float64(fps)), nil
}

// Range describes the frame indices to sample: [Start, End) at the given step.
type Range struct {
	Start int
	End   int
	Step  int
}

// NewRange resolves a time window and capture interval into a frame Range.
// An empty start maps to frame 0 and an empty end to totalFrames-1. The step
// is 1 when intervalSeconds is zero, otherwise round(intervalSeconds*fps)
// clamped to at least 1.
func NewRange(timeStart, timeEnd string, fps, totalFrames int, intervalSeconds float64) (Range, error) {
	start, err := ParseTime(timeStart, fps)
	if err != nil {
		return Range{}, err
	}

	end := totalFrames - 1
	if strings.TrimSpace(timeEnd) != "" {
		end, err = ParseTime(timeEnd, fps)
		if err != nil {
			return Range{}, err
		}
	}

	if end < start {
		return Range{}, fmt.Errorf("%w: start %q resolves past end %q", ErrInvalidRange, timeStart, timeEnd)
	}

	step := 1
	if intervalSeconds > 0 {
		step = int(math.Round(intervalSeconds * float64(fps)))
		if step < 1 {
			step = 1
		}
	}

	return Range{Start: start, End: end, Step: step}, nil
}

// Count returns the number of frame indices the range yields.
func (r Range) Count() int {
	if r.End <= r.Start || r.Step <= 0 {
		return 0
	}
	return (r.End - r.Start + r.Step - 1) / r.Step
}

// All iterates the frame indices in ascending order. The sequence is
// restartable: callers may range over it more than once.
func (r Range) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if r.Step <= 0 {
			return
		}
		for idx := r.Start; idx < r.End; idx += r.Step {
			if !yield(idx) {
				return
			}
		}
	}
}

// Contains reports whether the range yields the given frame index.
func (r Range) Contains(idx int) bool {
	if idx < r.Start || idx >= r.End || r.Step <= 0 {
		return false
	}
	return (idx-r.Start)%r.Step == 0
}
