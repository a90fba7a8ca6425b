package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subsnap/internal/batch"
	"subsnap/internal/ocr"
	"subsnap/internal/queue"
	"subsnap/internal/services/paddleocr"
)

func newBatchCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		workers int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Extract subtitles from every unprocessed video under a directory",
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

			if cmd.Flags().Changed("workers") {
				cfg.Batch.Workers = workers
			}
			if cmd.Flags().Changed("format") {
				cfg.Extraction.OutputFormat = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if reset, err := store.ResetStale(cmd.Context()); err != nil {
				return err
			} else if reset > 0 {
				logger.Warn("reset items left extracting by an interrupted run")
			}

			ctx, cancel := signalContext()
			defer cancel()

			factory := func(ctx context.Context) (ocr.Engine, error) {
				return paddleocr.Start(ctx, paddleocr.ConfigFromApp(cfg), logger)
			}
			runner := batch.NewRunner(cfg, store, factory, logger)

			outcome, err := runner.Run(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s finished in %s\n", outcome.RunID, outcome.Elapsed.Round(timeRounding))
			fmt.Fprintln(out, renderTable(
				[]string{"Outcome", "Count"},
				[][]string{
					{"Completed", strconv.Itoa(outcome.Summary.Completed)},
					{"No subtitles", strconv.Itoa(outcome.Summary.NoSubtitles)},
					{"Failed", strconv.Itoa(outcome.Summary.Failed)},
					{"Skipped (existing output)", strconv.Itoa(outcome.Skipped)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			if outcome.Summary.Failed > 0 {
				fmt.Fprintln(out, "Inspect failures with `subsnap queue list --status failed`")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker pool size (0 uses the CPU count)")
	cmd.Flags().StringVarP(&format, "format", "f", "lrc", "Output format (lrc or txt)")
	return cmd
}
