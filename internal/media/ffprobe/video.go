package ffprobe

import (
	"context"
	"fmt"
	"math"
)

// Video holds the per-file metadata the extraction pipeline needs.
type Video struct {
	Path string
	// FrameCount is the total number of frames in the primary video stream.
	FrameCount int
	// FPS is the frame rate rounded to the nearest integer, used for
	// time-string to frame-index conversion.
	FPS int
	// OriginFPS is the unrounded frame rate, used for timestamp math so
	// NTSC-style rates (30000/1001) do not accumulate drift.
	OriginFPS float64
	Width     int
	Height    int
}

// ProbeVideo inspects a video file and extracts the primary stream metadata.
func ProbeVideo(ctx context.Context, binary, path string) (Video, error) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return Video{}, err
	}

	stream, ok := result.VideoStream()
	if !ok {
		return Video{}, fmt.Errorf("probe %s: no video stream", path)
	}

	originFPS := stream.FrameRate()
	if originFPS <= 0 {
		return Video{}, fmt.Errorf("probe %s: could not determine frame rate", path)
	}

	frameCount := stream.FrameCount()
	if frameCount <= 0 {
		if duration := result.DurationSeconds(); duration > 0 {
			frameCount = int(duration * originFPS)
		}
	}
	if frameCount <= 0 {
		return Video{}, fmt.Errorf("probe %s: could not determine frame count", path)
	}

	return Video{
		Path:       path,
		FrameCount: frameCount,
		FPS:        int(math.Round(originFPS)),
		OriginFPS:  originFPS,
		Width:      stream.Width,
		Height:     stream.Height,
	}, nil
}
