package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/housekeeper/internal/config"
	"github.com/papapumpkin/housekeeper/internal/reltime"
	"github.com/papapumpkin/housekeeper/internal/sweep"
	"github.com/papapumpkin/housekeeper/internal/telemetry"
	"github.com/papapumpkin/housekeeper/internal/ui"
	"github.com/papapumpkin/housekeeper/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously re-sweep selections when their directories change",
	Long: "Watch runs an initial sweep, then monitors each selection's directory\n" +
		"and re-sweeps it after filesystem activity. Because no operator sits at\n" +
		"a prompt mid-watch, watch mode requires --force or --dry-run.",
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("rules", "c", "", "INI rules file with one [pattern] section per selection")
	watchCmd.Flags().BoolP("dry-run", "n", false, "log what would be removed without removing")
	watchCmd.Flags().BoolP("force", "f", false, "remove without asking for confirmation")
	watchCmd.Flags().Bool("mtime", false, "compare modification time (default)")
	watchCmd.Flags().Bool("ctime", false, "compare inode change time")
	watchCmd.Flags().Bool("atime", false, "compare access time")
	watchCmd.Flags().String("telemetry", "", "append JSONL audit events to this file")
	watchCmd.MarkFlagsMutuallyExclusive("mtime", "ctime", "atime")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyCleanOverrides(cmd, &cfg)

	if !cfg.Force && !cfg.DryRun {
		return fmt.Errorf("watch mode requires --force or --dry-run")
	}

	rules, _ := cmd.Flags().GetString("rules")
	if rules == "" {
		return fmt.Errorf("watch needs --rules")
	}
	selections, err := config.LoadRules(rules)
	if err != nil {
		return err
	}
	if len(selections) == 0 {
		return fmt.Errorf("rules file %s defines no selections", rules)
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

	// Each sweep gets a fresh engine: a new frozen "now" snapshot and a new
	// visited set, since a watch trigger starts a new run.
	sweepOnce := func(sels ...sweep.Selection) error {
		engine := &sweep.Engine{
			Mode:         sweep.Force,
			DryRun:       cfg.DryRun,
			TimeAttr:     attr,
			ManifestName: cfg.ManifestName,
			Resolver:     reltime.NewResolver(time.Now()),
			Printer:      printer,
			Emitter:      emitter,
		}
		sum, err := engine.Clean(sels...)
		if err != nil {
			return err
		}
		printer.Summary(sum.Removed, sum.Kept, sum.Excluded, sum.Skipped, sum.DryRun)
		return nil
	}

	if err := sweepOnce(selections...); err != nil {
		return err
	}

	w, err := watch.New(selections)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer.Debug("watching %d selection(s); interrupt to stop", len(selections))
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return nil
		case trig := <-w.Triggers:
			emitter.Emit(telemetry.Event{
				Kind: telemetry.KindWatchTrigger,
				Data: map[string]any{"dir": trig.Dir, "selections": len(trig.Selections)},
			})
			if err := sweepOnce(trig.Selections...); err != nil {
				w.Stop()
				return err
			}
		}
	}
}
