package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"subsnap/internal/extractor"
	"subsnap/internal/services/paddleocr"
	"subsnap/internal/subtitle"
)

func newExtractCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		format     string
		threshold  int
		interval   float64
		timeStart  string
		timeEnd    string
		roi        []int
		grayscale  bool
		scale      float64
		binarize   int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "extract <video>",
		Short: "Extract hardcoded subtitles from a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("format") {
				cfg.Extraction.OutputFormat = format
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Extraction.SimilarityThreshold = threshold
			}
			if cmd.Flags().Changed("interval") {
				cfg.Extraction.CaptureInterval = interval
			}
			if cmd.Flags().Changed("start") {
				cfg.Extraction.TimeStart = timeStart
			}
			if cmd.Flags().Changed("end") {
				cfg.Extraction.TimeEnd = timeEnd
			}
			if cmd.Flags().Changed("roi") {
				cfg.Extraction.ROI = roi
			}
			if cmd.Flags().Changed("grayscale") {
				cfg.Extraction.Grayscale = grayscale
			}
			if cmd.Flags().Changed("scale") {
				cfg.Extraction.Scale = scale
			}
			if cmd.Flags().Changed("binarize") {
				cfg.Extraction.BinarizeThreshold = binarize
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			engine, err := paddleocr.Start(ctx, paddleocr.ConfigFromApp(cfg), logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			ext := extractor.New(cfg, engine, logger).
				WithProgress(!noProgress && stdoutIsTerminal())

			result, err := ext.Extract(ctx, args[0])
			if errors.Is(err, subtitle.ErrNoSubtitles) {
				fmt.Fprintf(cmd.OutOrStdout(), "No subtitles found in %s\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", result.CueCount, result.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "lrc", "Output format (lrc or txt)")
	cmd.Flags().IntVar(&threshold, "threshold", 70, "Similarity threshold for merging adjacent captions (0-100)")
	cmd.Flags().Float64VarP(&interval, "interval", "i", 0.5, "Sampling interval in seconds (0 samples every frame)")
	cmd.Flags().StringVar(&timeStart, "start", "", "Only process frames after this timestamp (MM:SS or HH:MM:SS)")
	cmd.Flags().StringVar(&timeEnd, "end", "", "Only process frames before this timestamp (MM:SS or HH:MM:SS)")
	cmd.Flags().IntSliceVar(&roi, "roi", nil, "Restrict OCR to a rectangle: x,y,width,height")
	cmd.Flags().BoolVar(&grayscale, "grayscale", false, "Convert frames to grayscale before recognition")
	cmd.Flags().Float64Var(&scale, "scale", 1.0, "Resize factor applied before recognition")
	cmd.Flags().IntVar(&binarize, "binarize", -1, "Binarize at the given luma cutoff (0-255, -1 disables)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}
