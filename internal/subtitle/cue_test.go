package subtitle

import (
	"errors"
	"math"
	"testing"
	"time"

	"subsnap/internal/consolidate"
	"subsnap/internal/ocr"
)

func group(frameIdx int, text string, score float64) consolidate.FrameGroup {
	return consolidate.FrameGroup{
		FrameIdx: frameIdx,
		Detections: []ocr.Detection{
			{Text: text, Score: score, FrameIdx: frameIdx},
		},
	}
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func TestTimelineScenario(t *testing.T) {
	// fps=10: the first cue is capped at max_show_seconds, the last cue gets
	// the synthetic tail.
	cues, err := Timeline([]consolidate.FrameGroup{
		group(0, "Hi there", 90),
		group(40, "Bye", 95),
	}, 10, 10.0, 10)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("got %d cues, want 2", len(cues))
	}

	if cues[0].Content != "Hi there" {
		t.Errorf("cue 0 content = %q, want %q", cues[0].Content, "Hi there")
	}
	if got := seconds(cues[0].Start); got != 0 {
		t.Errorf("cue 0 start = %v, want 0", got)
	}
	// Next caption starts 40 frames later (4s), but the cap is 10s, so the
	// cue ends at min(0+10, 4) = 4s.
	if got := seconds(cues[0].End); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("cue 0 end = %v, want 4.0", got)
	}

	if got := seconds(cues[1].Start); math.Abs(got-4.0) > 1e-9 {
		t.Errorf("cue 1 start = %v, want 4.0", got)
	}
	// Synthetic tail: 10s * 10fps = 100 frames alive, capped at 10s.
	if got := seconds(cues[1].End); math.Abs(got-14.0) > 1e-9 {
		t.Errorf("cue 1 end = %v, want 14.0", got)
	}
}

func TestTimelineCapEnforcement(t *testing.T) {
	// The next caption is 300 frames (30s) away; display must cap at 10s.
	cues, err := Timeline([]consolidate.FrameGroup{
		group(0, "slow scene", 90),
		group(300, "eventually", 90),
	}, 10, 10.0, 10)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	for i, cue := range cues {
		if span := seconds(cue.End) - seconds(cue.Start); span > 10+1e-9 {
			t.Errorf("cue %d displays %vs, cap is 10s", i, span)
		}
	}
	if got := seconds(cues[0].End); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("cue 0 end = %v, want 10.0 (capped)", got)
	}
}

func TestTimelineMonotonic(t *testing.T) {
	cues, err := Timeline([]consolidate.FrameGroup{
		group(0, "a", 90), group(12, "b", 90), group(40, "c", 90), group(41, "d", 90),
	}, 10, 9.97, 10)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	for i := 1; i < len(cues); i++ {
		if cues[i].Start < cues[i-1].Start {
			t.Errorf("cue %d starts at %v before cue %d at %v", i, cues[i].Start, i-1, cues[i-1].Start)
		}
	}
}

func TestTimelineUsesOriginFPS(t *testing.T) {
	// NTSC-style rate: frame 100 at 24000/1001 fps starts at ~4.171s, not
	// the 4.166s the rounded rate would give.
	origin := 24000.0 / 1001.0
	cues, err := Timeline([]consolidate.FrameGroup{group(100, "text", 90)}, 24, origin, 10)
	if err != nil {
		t.Fatalf("Timeline returned error: %v", err)
	}
	want := 100.0 / origin
	if got := seconds(cues[0].Start); math.Abs(got-want) > 1e-9 {
		t.Errorf("start = %v, want %v", got, want)
	}
}

func TestTimelineEmpty(t *testing.T) {
	if _, err := Timeline(nil, 25, 25.0, 10); !errors.Is(err, ErrNoSubtitles) {
		t.Errorf("Timeline(empty) error = %v, want ErrNoSubtitles", err)
	}
}
