package consolidate

import (
	"math/rand"
	"testing"

	"subsnap/internal/ocr"
)

func det(frameIdx int, text string, score float64) ocr.Detection {
	return ocr.Detection{Text: text, Score: score, FrameIdx: frameIdx}
}

func texts(groups []FrameGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Text())
	}
	return out
}

func TestGroupByFrame(t *testing.T) {
	groups := GroupByFrame([]ocr.Detection{
		det(5, "later", 80),
		det(0, "Hi", 90),
		det(0, "there", 90),
	})

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].FrameIdx != 0 || groups[1].FrameIdx != 5 {
		t.Errorf("groups not ordered by frame: %d, %d", groups[0].FrameIdx, groups[1].FrameIdx)
	}
	if groups[0].Text() != "Hi there" {
		t.Errorf("group text = %q, want %q", groups[0].Text(), "Hi there")
	}
}

func TestGroupByFrameOrderIndependent(t *testing.T) {
	detections := []ocr.Detection{
		det(10, "a", 50), det(3, "b", 60), det(10, "c", 70), det(0, "d", 80), det(3, "e", 90),
	}

	reference := GroupByFrame(detections)
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]ocr.Detection, len(detections))
		copy(shuffled, detections)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		groups := GroupByFrame(shuffled)
		if len(groups) != len(reference) {
			t.Fatalf("trial %d: %d groups, want %d", trial, len(groups), len(reference))
		}
		for i := range groups {
			if groups[i].FrameIdx != reference[i].FrameIdx {
				t.Errorf("trial %d: group %d at frame %d, want %d", trial, i, groups[i].FrameIdx, reference[i].FrameIdx)
			}
		}
	}
}

func TestGroupByFrameEmpty(t *testing.T) {
	if groups := GroupByFrame(nil); len(groups) != 0 {
		t.Errorf("GroupByFrame(nil) = %v, want empty", groups)
	}
}

func TestCollapseSimilarRun(t *testing.T) {
	// All pairwise similar to the first; the highest average score wins.
	engine := NewEngine(70)
	groups := []FrameGroup{
		{FrameIdx: 0, Detections: []ocr.Detection{det(0, "hello world", 80)}},
		{FrameIdx: 5, Detections: []ocr.Detection{det(5, "hello w0rld", 95)}},
		{FrameIdx: 10, Detections: []ocr.Detection{det(10, "hello worlb", 85)}},
	}

	kept := engine.Collapse(groups)
	if len(kept) != 1 {
		t.Fatalf("got %d kept groups, want 1: %v", len(kept), texts(kept))
	}
	if kept[0].FrameIdx != 5 {
		t.Errorf("kept frame %d, want 5 (highest average score)", kept[0].FrameIdx)
	}
}

func TestCollapseComparesAgainstKept(t *testing.T) {
	// Each neighbor pair is close, but the run slowly drifts. Anchoring to
	// the kept entry must split once the drift crosses the threshold.
	engine := NewEngine(80)
	groups := []FrameGroup{
		{FrameIdx: 0, Detections: []ocr.Detection{det(0, "aaaaaaaaaa", 90)}},
		{FrameIdx: 1, Detections: []ocr.Detection{det(1, "aaaaaaaabb", 90)}},
		{FrameIdx: 2, Detections: []ocr.Detection{det(2, "aaaaaabbbb", 90)}},
		{FrameIdx: 3, Detections: []ocr.Detection{det(3, "aaaabbbbbb", 90)}},
	}

	kept := engine.Collapse(groups)
	if len(kept) != 2 {
		t.Fatalf("got %d kept groups, want 2: %v", len(kept), texts(kept))
	}
	if kept[0].FrameIdx != 0 || kept[1].FrameIdx != 2 {
		t.Errorf("kept frames %d,%d; want 0,2", kept[0].FrameIdx, kept[1].FrameIdx)
	}
}

func TestCollapseThresholdBoundary(t *testing.T) {
	a := FrameGroup{FrameIdx: 0, Detections: []ocr.Detection{det(0, "ab", 90)}}
	b := FrameGroup{FrameIdx: 1, Detections: []ocr.Detection{det(1, "ac", 90)}}
	// Ratio("ab", "ac") is exactly 50.

	atThreshold := NewEngine(50).Collapse([]FrameGroup{a, b})
	if len(atThreshold) != 1 {
		t.Errorf("score == threshold should collapse, got %d groups", len(atThreshold))
	}

	aboveThreshold := NewEngine(51).Collapse([]FrameGroup{a, b})
	if len(aboveThreshold) != 2 {
		t.Errorf("score == threshold-1 should not collapse, got %d groups", len(aboveThreshold))
	}
}

func TestCollapseTieKeepsExisting(t *testing.T) {
	engine := NewEngine(70)
	groups := []FrameGroup{
		{FrameIdx: 0, Detections: []ocr.Detection{det(0, "same text", 90)}},
		{FrameIdx: 5, Detections: []ocr.Detection{det(5, "same text", 90)}},
	}

	kept := engine.Collapse(groups)
	if len(kept) != 1 {
		t.Fatalf("got %d kept groups, want 1", len(kept))
	}
	if kept[0].FrameIdx != 0 {
		t.Errorf("tie kept frame %d, want 0 (existing entry)", kept[0].FrameIdx)
	}
}

func TestConsolidateScenario(t *testing.T) {
	// Groups at frames 0 and 5 join to identical text and collapse; frame 40
	// is a genuinely new caption.
	engine := NewEngine(70)
	kept := engine.Consolidate([]ocr.Detection{
		det(0, "Hi", 90),
		det(0, "there", 90),
		det(5, "Hi there", 85),
		det(40, "Bye", 95),
	})

	if len(kept) != 2 {
		t.Fatalf("got %d groups, want 2: %v", len(kept), texts(kept))
	}
	if kept[0].FrameIdx != 0 || kept[0].Text() != "Hi there" {
		t.Errorf("first group = frame %d %q, want frame 0 %q", kept[0].FrameIdx, kept[0].Text(), "Hi there")
	}
	if kept[1].FrameIdx != 40 || kept[1].Text() != "Bye" {
		t.Errorf("second group = frame %d %q, want frame 40 %q", kept[1].FrameIdx, kept[1].Text(), "Bye")
	}
}

func TestConsolidateEmpty(t *testing.T) {
	if groups := NewEngine(70).Consolidate(nil); len(groups) != 0 {
		t.Errorf("Consolidate(nil) = %v, want empty", groups)
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	engine := NewEngine(70)
	detections := []ocr.Detection{
		det(0, "first", 90), det(8, "second", 80), det(16, "sec0nd", 85),
	}

	once := engine.Consolidate(detections)
	twice := engine.Consolidate(detections)
	if len(once) != len(twice) {
		t.Fatalf("repeat consolidation changed group count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].FrameIdx != twice[i].FrameIdx || once[i].Text() != twice[i].Text() {
			t.Errorf("group %d differs across runs", i)
		}
	}
}

func TestNewEngineClampsThreshold(t *testing.T) {
	if got := NewEngine(-5).Threshold(); got != DefaultThreshold {
		t.Errorf("NewEngine(-5).Threshold() = %d, want %d", got, DefaultThreshold)
	}
	if got := NewEngine(250).Threshold(); got != DefaultThreshold {
		t.Errorf("NewEngine(250).Threshold() = %d, want %d", got, DefaultThreshold)
	}
}

func TestAvgScore(t *testing.T) {
	group := FrameGroup{Detections: []ocr.Detection{det(0, "a", 80), det(0, "b", 90)}}
	if got := group.AvgScore(); got != 85 {
		t.Errorf("AvgScore() = %v, want 85", got)
	}
	if got := (FrameGroup{}).AvgScore(); got != 0 {
		t.Errorf("empty AvgScore() = %v, want 0", got)
	}
}
