package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/housekeeper/internal/config"
	"github.com/papapumpkin/housekeeper/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show archived runs and their removals",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("history", "", "history database path")
	historyCmd.Flags().Int("last", 10, "number of recent runs to list")
	historyCmd.Flags().Int64("run", 0, "show the removals of one run by ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	path := cfg.HistoryPath
	if v, _ := cmd.Flags().GetString("history"); v != "" {
		path = v
	}
	if path == "" {
		path = history.DefaultPath
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no history database at %s", path)
	}

	store, err := history.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID, _ := cmd.Flags().GetInt64("run"); runID != 0 {
		return printRemovals(cmd, store, runID)
	}

	limit, _ := cmd.Flags().GetInt("last")
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no archived runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tREMOVED\tKEPT\tEXCLUDED\tSKIPPED\tDRY")
	for _, r := range runs {
		dry := ""
		if r.DryRun {
			dry = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Removed, r.Kept, r.Excluded, r.Skipped, dry)
	}
	return w.Flush()
}

func printRemovals(cmd *cobra.Command, store *history.Store, runID int64) error {
	removals, err := store.RemovalsForRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(removals) == 0 {
		fmt.Fprintf(os.Stderr, "run %d removed nothing\n", runID)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tENTRY TIME\tPATH")
	for _, r := range removals {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			r.Kind, r.EntryTime.Local().Format("2006-01-02 15:04:05"), r.Path)
	}
	return w.Flush()
}
