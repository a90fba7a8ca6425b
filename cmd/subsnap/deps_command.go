package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsnap/internal/deps"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that the external tools subsnap needs are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				available := "missing"
				detail := status.Detail
				if status.Available {
					available = "ok"
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, available, detail, status.Description})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Status", "Detail", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))

			if !deps.AllRequired(statuses) {
				return fmt.Errorf("required tools are missing")
			}
			return nil
		},
	}
}
