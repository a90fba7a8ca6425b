package main

import (
	"fmt"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"subsnap/internal/queue"
)

func newQueueCommand(cmdCtx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage recorded batch outcomes",
	}

	queueCmd.AddCommand(newQueueListCommand(cmdCtx))
	queueCmd.AddCommand(newQueueStatusCommand(cmdCtx))
	queueCmd.AddCommand(newQueueClearCommand(cmdCtx))
	queueCmd.AddCommand(newQueueRetryCommand(cmdCtx))
	queueCmd.AddCommand(newQueueRemoveCommand(cmdCtx))
	return queueCmd
}

func newQueueRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a single recorded item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("no item with id %d", id)
			}
			if !item.Status.IsTerminal() && item.Status != queue.StatusPending {
				return fmt.Errorf("item %d is still %s; wait for the run to finish", id, item.Status)
			}

			if _, err := store.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d (%s)\n", id, item.SourcePath)
			return nil
		},
	}
}

func newQueueRetryCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Return failed items to pending for the next batch run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			retried, err := store.RetryFailed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d item(s) for retry\n", retried)
			return nil
		},
	}
}

func newQueueListCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		statusFlag string
		matchFlag  string
		runFlag    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded videos and their outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var items []*queue.Item
			if runFlag != "" {
				items, err = store.ItemsByRun(cmd.Context(), runFlag)
			} else if statusFlag != "" {
				status, ok := queue.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q (one of: %v)", statusFlag, queue.AllStatuses())
				}
				items, err = store.List(cmd.Context(), status)
			} else {
				items, err = store.List(cmd.Context())
			}
			if err != nil {
				return err
			}

			if matchFlag != "" {
				filtered := items[:0]
				for _, item := range items {
					if fuzzy.MatchFold(matchFlag, item.SourcePath) {
						filtered = append(filtered, item)
					}
				}
				items = filtered
			}

			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				detail := item.OutputPath
				if item.Status == queue.StatusFailed {
					detail = truncateText(item.ErrorMessage, 60)
				}
				rows = append(rows, []string{
					strconv.FormatInt(item.ID, 10),
					item.SourcePath,
					string(item.Status),
					strconv.Itoa(item.CueCount),
					detail,
					formatWhen(item.UpdatedAt),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Video", "Status", "Cues", "Output / Error", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", "", "Only show items with this status")
	cmd.Flags().StringVarP(&matchFlag, "match", "m", "", "Fuzzy-filter items by source path")
	cmd.Flags().StringVar(&runFlag, "run", "", "Only show items from this run")
	return cmd
}

func newQueueStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var runFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show aggregated queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Summarize(cmd.Context(), runFlag)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Status", "Count"},
				[][]string{
					{"Pending", strconv.Itoa(summary.Pending)},
					{"Extracting", strconv.Itoa(summary.Extracting)},
					{"Completed", strconv.Itoa(summary.Completed)},
					{"No subtitles", strconv.Itoa(summary.NoSubtitles)},
					{"Failed", strconv.Itoa(summary.Failed)},
					{"Total", strconv.Itoa(summary.Total)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Limit counts to one run")
	return cmd
}

func newQueueClearCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		completedOnly bool
		failedOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove recorded items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var removed int64
			switch {
			case completedOnly && failedOnly:
				return fmt.Errorf("--completed and --failed are mutually exclusive")
			case completedOnly:
				removed, err = store.ClearCompleted(cmd.Context())
			case failedOnly:
				removed, err = store.ClearFailed(cmd.Context())
			default:
				removed, err = store.Clear(cmd.Context())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&completedOnly, "completed", false, "Remove only completed and no-subtitles items")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Remove only failed items")
	return cmd
}
