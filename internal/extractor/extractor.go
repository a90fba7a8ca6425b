package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"subsnap/internal/config"
	"subsnap/internal/consolidate"
	"subsnap/internal/logging"
	"subsnap/internal/media/ffprobe"
	"subsnap/internal/media/frames"
	"subsnap/internal/ocr"
	"subsnap/internal/subtitle"
	"subsnap/internal/timecode"
)

// Result summarizes one successful extraction.
type Result struct {
	Video         ffprobe.Video
	FramesSampled int
	Detections    int
	CueCount      int
	OutputPath    string
}

// Extractor runs the per-video pipeline: probe, sample frames, recognize,
// consolidate, time, serialize. One Extractor drives one ocr.Engine and is
// therefore not safe for concurrent use.
type Extractor struct {
	cfg      *config.Config
	engine   ocr.Engine
	logger   *slog.Logger
	progress bool
}

// New builds an extractor around an already started recognition engine.
func New(cfg *config.Config, engine ocr.Engine, logger *slog.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		engine: engine,
		logger: logging.WithComponent(logger, "extractor"),
	}
}

// WithProgress enables a terminal progress bar over the sampled frames.
func (e *Extractor) WithProgress(enabled bool) *Extractor {
	e.progress = enabled
	return e
}

// Extract processes one video and writes its subtitle file next to it under
// an output directory. A video with no recognized text returns
// subtitle.ErrNoSubtitles and writes nothing.
func (e *Extractor) Extract(ctx context.Context, videoPath string) (Result, error) {
	started := time.Now()

	format, err := subtitle.ParseFormat(e.cfg.Extraction.OutputFormat)
	if err != nil {
		return Result{}, err
	}

	video, err := ffprobe.ProbeVideo(ctx, e.cfg.FFprobeBinary(), videoPath)
	if err != nil {
		return Result{}, err
	}

	rng, err := timecode.NewRange(
		e.cfg.Extraction.TimeStart,
		e.cfg.Extraction.TimeEnd,
		video.FPS,
		video.FrameCount,
		e.cfg.Extraction.CaptureInterval,
	)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", videoPath, err)
	}

	e.logger.Debug("sampling plan",
		logging.String("video", videoPath),
		logging.Int("frames", video.FrameCount),
		logging.Int("fps", video.FPS),
		logging.Float64("origin_fps", video.OriginFPS),
		logging.Int("sampled", rng.Count()),
		logging.Int("step", rng.Step))

	detections, sampled, err := e.recognizeRange(ctx, video, rng)
	if err != nil {
		return Result{}, err
	}

	groups := consolidate.NewEngine(e.cfg.Extraction.SimilarityThreshold).Consolidate(detections)
	cues, err := subtitle.Timeline(groups, video.FPS, video.OriginFPS, e.cfg.Extraction.MaxShowSeconds)
	if err != nil {
		return Result{}, err
	}

	outputPath, err := subtitle.WriteFile(videoPath, cues, format)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("wrote subtitles",
		logging.String("video", videoPath),
		logging.String("output", outputPath),
		logging.Int("cues", len(cues)),
		logging.Duration("elapsed", time.Since(started)))

	return Result{
		Video:         video,
		FramesSampled: sampled,
		Detections:    len(detections),
		CueCount:      len(cues),
		OutputPath:    outputPath,
	}, nil
}

func (e *Extractor) recognizeRange(ctx context.Context, video ffprobe.Video, rng timecode.Range) ([]ocr.Detection, int, error) {
	reader, err := frames.NewReader(ctx, e.cfg.FFmpegBinary(), video, rng, e.transforms(video))
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	var bar *progressbar.ProgressBar
	if e.progress {
		bar = progressbar.NewOptions(rng.Count(),
			progressbar.OptionSetDescription(fmt.Sprintf("scanning %s", video.Path)),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	var (
		detections []ocr.Detection
		sampled    int
	)
	for reader.Next() {
		frame := reader.Frame()
		sampled++

		results, err := e.engine.Recognize(ctx, frame)
		if err != nil {
			return nil, sampled, fmt.Errorf("frame %d: %w", frame.Index, err)
		}
		detections = append(detections, ocr.Tag(results, frame.Index)...)

		if bar != nil {
			bar.Add(1)
		}
	}
	if err := reader.Err(); err != nil {
		return nil, sampled, err
	}
	return detections, sampled, nil
}

// transforms builds the preprocessing chain from config in fixed order:
// crop, grayscale or binarize, scale.
func (e *Extractor) transforms(video ffprobe.Video) []frames.Transform {
	ext := e.cfg.Extraction
	var chain []frames.Transform

	if len(ext.ROI) == 4 {
		chain = append(chain, frames.Crop{
			X:      ext.ROI[0],
			Y:      ext.ROI[1],
			Width:  ext.ROI[2],
			Height: ext.ROI[3],
		})
	}
	if ext.BinarizeThreshold >= 0 {
		chain = append(chain, frames.Binarize{Threshold: ext.BinarizeThreshold})
	} else if ext.Grayscale {
		chain = append(chain, frames.Grayscale{})
	}
	if ext.Scale > 0 && ext.Scale != 1 {
		chain = append(chain, frames.Scale{Factor: ext.Scale})
	}
	return chain
}
