package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit int64

func init() {
	historyCmd.Flags().Int64Var(&historyLimit, "limit", 20, "The number of most recent runs to show.")
	rootCmd.AddCommand(historyCmd)
}

func shortRunId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var historyCmd = &cobra.Command{
	Use:   "history [--limit <n>]",
	Short: "Lists the most recent report runs.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := env.qry.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Run", "Command", "Output", "Records", "Started", "Duration", "Error"})
		for _, run := range runs {
			started := time.Unix(run.StartedAt, 0)
			duration := "running"
			if run.FinishedAt.Valid {
				duration = time.Unix(run.FinishedAt.Int64, 0).Sub(started).String()
			}
			t.AppendRow(table.Row{
				shortRunId(run.ID),
				run.Command,
				run.Output,
				run.Records,
				started.Format(time.DateTime),
				duration,
				run.Error.String,
			})
		}
		t.Render()
		return nil
	},
}
