package testsupport

import (
	"context"

	"subsnap/internal/media/frames"
	"subsnap/internal/ocr"
)

// FakeEngine is an ocr.Engine that serves scripted results keyed by frame
// index. Frames with no scripted entry yield no detections.
type FakeEngine struct {
	// ResultsByFrame maps a frame index to the results Recognize returns.
	ResultsByFrame map[int][]ocr.Result
	// Err, when set, is returned by every Recognize call.
	Err error

	Recognized int
	Closed     bool
}

func (f *FakeEngine) Recognize(_ context.Context, frame *frames.Frame) ([]ocr.Result, error) {
	f.Recognized++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ResultsByFrame[frame.Index], nil
}

func (f *FakeEngine) Close() error {
	f.Closed = true
	return nil
}
