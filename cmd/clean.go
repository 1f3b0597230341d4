package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/housekeeper/internal/config"
	"github.com/papapumpkin/housekeeper/internal/history"
	"github.com/papapumpkin/housekeeper/internal/reltime"
	"github.com/papapumpkin/housekeeper/internal/report"
	"github.com/papapumpkin/housekeeper/internal/sweep"
	"github.com/papapumpkin/housekeeper/internal/telemetry"
	"github.com/papapumpkin/housekeeper/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [pattern:ref_time ...]",
	Short: "Sweep selections and remove matching entries",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().StringP("rules", "c", "", "INI rules file with one [pattern] section per selection")
	cleanCmd.Flags().BoolP("dry-run", "n", false, "log what would be removed without removing")
	cleanCmd.Flags().BoolP("force", "f", false, "remove without asking for confirmation")
	cleanCmd.Flags().Bool("mtime", false, "compare modification time (default)")
	cleanCmd.Flags().Bool("ctime", false, "compare inode change time")
	cleanCmd.Flags().Bool("atime", false, "compare access time")
	cleanCmd.Flags().Bool("revert", false, "remove entries younger than the reference time (ad hoc rules only)")
	cleanCmd.Flags().Bool("follow-symlinks", false, "sweep symlink targets too (ad hoc rules only)")
	cleanCmd.Flags().Bool("keep-dirs", false, "never remove directories (ad hoc rules only)")
	cleanCmd.Flags().Bool("keep-files", false, "never remove regular files (ad hoc rules only)")
	cleanCmd.Flags().Bool("keep-links", false, "never remove symbolic links (ad hoc rules only)")
	cleanCmd.Flags().String("telemetry", "", "append JSONL audit events to this file")
	cleanCmd.Flags().String("history", "", "archive the run into this history database")
	cleanCmd.Flags().String("state", "", "write the last-run state file here")
	cleanCmd.MarkFlagsMutuallyExclusive("mtime", "ctime", "atime")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyCleanOverrides(cmd, &cfg)

	selections, err := gatherSelections(cmd, args)
	if err != nil {
		return err
	}
	if len(selections) == 0 {
		return fmt.Errorf("nothing to clean: give pattern:ref_time arguments or --rules")
	}

	attr, err := timeAttr(&cfg)
	if err != nil {
		return err
	}

	printer := ui.New(cfg.Verbose)

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	mode := sweep.Interactive
	if cfg.Force {
		mode = sweep.Force
	}
	resolver := reltime.NewResolver(time.Now())
	engine := &sweep.Engine{
		Mode:         mode,
		DryRun:       cfg.DryRun,
		TimeAttr:     attr,
		ManifestName: cfg.ManifestName,
		Resolver:     resolver,
		Printer:      printer,
		Emitter:      emitter,
	}

	sum, err := engine.Clean(selections...)
	if err != nil {
		return err
	}

	printer.Summary(sum.Removed, sum.Kept, sum.Excluded, sum.Skipped, sum.DryRun)
	return persistRun(cmd.Context(), &cfg, resolver, selections, sum, printer)
}

// persistRun writes the optional state file and history rows after a
// successful run. Failures here are warnings, not run failures: the sweep
// already happened.
func persistRun(ctx context.Context, cfg *config.Config, resolver *reltime.Resolver,
	selections []sweep.Selection, sum *sweep.Summary, printer *ui.Printer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.StatePath != "" {
		st := &report.RunState{
			StartedAt:  sum.StartedAt,
			FinishedAt: sum.FinishedAt,
			DryRun:     sum.DryRun,
			Removed:    sum.Removed,
			Kept:       sum.Kept,
			Excluded:   sum.Excluded,
			Skipped:    sum.Skipped,
		}
		for _, sel := range selections {
			resolved, err := resolver.Resolve(sel.RefTime)
			if err != nil {
				continue // already reported during the sweep
			}
			st.Selections = append(st.Selections, report.SelectionRecord{
				Pattern:  sel.Pattern,
				RefTime:  sel.RefTime,
				Resolved: resolved,
				Revert:   sel.Revert,
			})
		}
		if err := report.Save(cfg.StatePath, st); err != nil {
			printer.Warn("%v", err)
		}
	}

	if cfg.HistoryPath != "" {
		store, err := history.Open(ctx, cfg.HistoryPath)
		if err != nil {
			printer.Warn("%v", err)
			return nil
		}
		defer store.Close()
		if _, err := store.RecordRun(ctx, sum); err != nil {
			printer.Warn("%v", err)
		}
	}
	return nil
}

// gatherSelections combines rules-file selections with ad hoc
// pattern:ref_time arguments. CLI behavior flags shape only the ad hoc
// selections; rules-file sections carry their own flags.
func gatherSelections(cmd *cobra.Command, args []string) ([]sweep.Selection, error) {
	var selections []sweep.Selection

	if rules, _ := cmd.Flags().GetString("rules"); rules != "" {
		fromFile, err := config.LoadRules(rules)
		if err != nil {
			return nil, err
		}
		selections = append(selections, fromFile...)
	}

	revert, _ := cmd.Flags().GetBool("revert")
	follow, _ := cmd.Flags().GetBool("follow-symlinks")
	keepDirs, _ := cmd.Flags().GetBool("keep-dirs")
	keepFiles, _ := cmd.Flags().GetBool("keep-files")
	keepLinks, _ := cmd.Flags().GetBool("keep-links")

	for _, arg := range args {
		sel, err := config.ParseRule(arg)
		if err != nil {
			return nil, err
		}
		sel.Revert = revert
		sel.FollowSymlinks = follow
		sel.RemoveDirs = !keepDirs
		sel.RemoveFiles = !keepFiles
		sel.RemoveLinks = !keepLinks
		selections = append(selections, sel)
	}
	return selections, nil
}

// applyCleanOverrides applies CLI flag values to the loaded config.
func applyCleanOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := rootCmd.PersistentFlags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	if v, _ := cmd.Flags().GetBool("dry-run"); v {
		cfg.DryRun = true
	}
	if v, _ := cmd.Flags().GetBool("force"); v {
		cfg.Force = true
	}
	if v, _ := cmd.Flags().GetString("telemetry"); v != "" {
		cfg.TelemetryPath = v
	}
	if v, _ := cmd.Flags().GetString("history"); v != "" {
		cfg.HistoryPath = v
	}
	if v, _ := cmd.Flags().GetString("state"); v != "" {
		cfg.StatePath = v
	}
	if v, _ := cmd.Flags().GetBool("atime"); v {
		cfg.TimeAttr = "atime"
	}
	if v, _ := cmd.Flags().GetBool("ctime"); v {
		cfg.TimeAttr = "ctime"
	}
	if v, _ := cmd.Flags().GetBool("mtime"); v {
		cfg.TimeAttr = "mtime"
	}
}

// timeAttr validates the configured time attribute. The three CLI flags are
// mutually exclusive.
func timeAttr(cfg *config.Config) (sweep.TimeAttr, error) {
	switch cfg.TimeAttr {
	case "", "mtime":
		return sweep.Mtime, nil
	case "ctime":
		return sweep.Ctime, nil
	case "atime":
		return sweep.Atime, nil
	}
	return sweep.Mtime, fmt.Errorf("invalid time attribute %q (want mtime, ctime, or atime)", cfg.TimeAttr)
}
