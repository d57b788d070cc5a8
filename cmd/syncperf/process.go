package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"syncperf/internal/config"
	"syncperf/internal/db"
	"syncperf/internal/metrics"
	"syncperf/internal/notify"
	"syncperf/internal/report"
	"syncperf/internal/simulation"
	"syncperf/internal/telemetry"
)

// eventNotifier is what process needs from the notification manager.
type eventNotifier interface {
	Notify(ctx context.Context, eventType, message string) error
}

// Factories, replaced in tests.
var (
	newStoreFunc    = func(cfg db.StoreConfig) (db.Store, error) { return db.NewStore(cfg) }
	newNotifierFunc = func() eventNotifier { return notify.NewManager() }
)

type processOptions struct {
	dirs     []string
	numerics bool
	ratios   bool
	matrix   bool
	summary  bool
	archive  bool
	notify   bool
	pretty   bool
}

func newProcessCmd() *cobra.Command {
	opts := &processOptions{}
	cmd := &cobra.Command{
		Use:   "process -d DIR...",
		Short: "Analyze simulation directories and write their reports",
		Long: `Each directory holds a data.json describing the simulation and a runs.json
with the measured times. Directories are analyzed concurrently; a failing
directory is reported without stopping the others. Without any of
--numerics, --ratios, --matrix or --summary every report is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.dirs, "dir", "d", nil, "Simulation directory (repeatable)")
	f.BoolVar(&opts.numerics, "numerics", false, "Write numerics.csv")
	f.BoolVar(&opts.ratios, "ratios", false, "Write ratios.txt")
	f.BoolVar(&opts.matrix, "matrix", false, "Write matrix.csv")
	f.BoolVar(&opts.summary, "summary", false, "Write summary.txt")
	f.BoolVar(&opts.archive, "archive", false, "Archive selections (also enabled by archive.enabled)")
	f.BoolVar(&opts.notify, "notify", false, "Send results to Slack")
	f.BoolVar(&opts.pretty, "pretty", false, "Render a markdown summary per directory")
	f.IntP("workers", "j", 0, "Directories analyzed concurrently (default from config)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runProcess(cmd *cobra.Command, opts *processOptions) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	rs := config.Report()
	outputs := simulation.OutputOptions{
		Numerics: opts.numerics,
		Ratios:   opts.ratios,
		Matrix:   opts.matrix,
		Summary:  opts.summary,
		Settings: report.RatioSettings{Baseline: rs.Baseline, Family: rs.Family, Param: rs.Param},
	}
	if !outputs.Numerics && !outputs.Ratios && !outputs.Matrix && !outputs.Summary {
		outputs.Numerics, outputs.Ratios, outputs.Matrix, outputs.Summary = true, true, true, true
	}

	var store db.Store
	if archive := config.Archive(); opts.archive || archive.Enabled {
		s, err := newStoreFunc(db.StoreConfig{Type: archive.Type, ConnectionString: archive.DSN})
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer s.Close()
		store = s
	}

	var notifier eventNotifier
	if opts.notify {
		notifier = newNotifierFunc()
	}

	workers := intFlagOrConfig(cmd.Flags(), "workers", "workers")
	results, err := simulation.NewAnalyzer(metrics.Default()).AnalyzeDirs(ctx, opts.dirs, workers)
	if err != nil {
		return err
	}

	failed := len(simulation.Failed(results))
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "%s %s: %v\n", report.Failure("FAILED"), res.Dir, res.Err)
			sendNotification(ctx, notifier, notify.EventFailure, notify.FailureMessage(res.Dir, res.Err))
			continue
		}

		written, err := simulation.WriteReports(res, outputs)
		if err != nil {
			fmt.Fprintf(errOut, "%s %s: %v\n", report.Failure("FAILED"), res.Dir, err)
			failed++
			continue
		}
		telemetry.LogInfo("Reports written", "dir", res.Dir, "files", len(written))

		if opts.pretty {
			if err := printPretty(cmd, res, outputs.Settings); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(out, "%s: %s\n", res.Dir, report.SelectionLine(*res.Selection))
		}

		if store != nil {
			if id, err := simulation.Archive(ctx, store, res); err != nil {
				telemetry.LogError("Archiving failed", err, "dir", res.Dir)
			} else {
				telemetry.LogDebug("Archived selection", "dir", res.Dir, "id", id)
			}
		}
		sendNotification(ctx, notifier, notify.EventSuccess, notify.SelectionMessage(res.Dir, *res.Selection))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d directories failed", failed, len(results))
	}
	return nil
}

func printPretty(cmd *cobra.Command, res *simulation.Analysis, settings report.RatioSettings) error {
	ratios, err := report.Ratios(res.Groups, settings)
	if err != nil {
		return err
	}
	rendered, err := report.RenderPretty(report.Markdown(res.Dir, res.Summary(), ratios))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

func sendNotification(ctx context.Context, n eventNotifier, event, message string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event, message); err != nil {
		telemetry.LogWarn("Notification failed", "event", event, "error", err)
	}
}
