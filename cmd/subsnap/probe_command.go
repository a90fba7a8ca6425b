package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subsnap/internal/media/ffprobe"
)

func newProbeCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <video>",
		Short: "Show the video metadata the extraction pipeline would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			video, err := ffprobe.ProbeVideo(ctx, cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(video)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Property", "Value"},
				[][]string{
					{"Path", video.Path},
					{"Resolution", fmt.Sprintf("%dx%d", video.Width, video.Height)},
					{"Frames", strconv.Itoa(video.FrameCount)},
					{"Frame rate", fmt.Sprintf("%.3f", video.OriginFPS)},
					{"Frame rate (rounded)", strconv.Itoa(video.FPS)},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print metadata as JSON")
	return cmd
}
