package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-agent/internal/library"
	"github.com/pdiddy/doc-agent/internal/scholar"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded download runs",
	Long: `History lists past scholar runs from the download database, newest
first. Given a run id, it prints that run's individual attempts.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("db", "doc-agent.db", "download history database file")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")

	store, err := library.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		var runID int64
		if _, err := fmt.Sscanf(args[0], "%d", &runID); err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		attempts, err := store.Attempts(ctx, runID)
		if err != nil {
			return err
		}
		if len(attempts) == 0 {
			fmt.Fprintf(os.Stdout, "no attempts recorded for run %d\n", runID)
			return nil
		}
		scholar.FormatAttempts(attempts, os.Stdout)
		return nil
	}

	runs, err := store.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tOK\tFAIL\tSKIP\tQUERY")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Successes, r.Failures, r.Skips, r.Query)
	}
	return tw.Flush()
}
