package main

import (
	"fmt"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"syncperf/internal/benchmark"
	"syncperf/internal/metrics"
	"syncperf/internal/report"
	"syncperf/internal/simulation"
)

type bestOptions struct {
	dir      string
	family   string
	region   string
	families bool
}

func newBestCmd() *cobra.Command {
	opts := &bestOptions{}
	cmd := &cobra.Command{
		Use:   "best -d DIR",
		Short: "Print the fastest strategy of a simulation directory",
		Long: `Resolves every parameterized family to its best member and prints the
overall winner. With --family only that strategy is considered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBest(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.dir, "dir", "d", ".", "Directory holding runs.json")
	f.StringVar(&opts.family, "family", "", "Only consider this strategy")
	f.StringVar(&opts.region, "region", "", "Restrict --family to one region")
	f.BoolVar(&opts.families, "families", false, "List the representative of every family")
	return cmd
}

func runBest(cmd *cobra.Command, opts *bestOptions) error {
	groups, err := simulation.NewAnalyzer(metrics.Default()).LoadGroups(opts.dir)
	if err != nil {
		return err
	}

	if opts.families {
		reps, err := benchmark.ResolveFamilies(groups)
		if err != nil {
			return err
		}
		t := tabby.NewCustom(newTabWriter(cmd.OutOrStdout()))
		t.AddHeader("Family", "Members", "Best", "Average")
		for _, r := range reps {
			t.AddLine(r.Family.String(), r.Members, r.Group.Identity().Name(), report.FormatFloat(r.Mean))
		}
		t.Print()
		return nil
	}

	var sel benchmark.SelectionResult
	if opts.family != "" {
		sel, err = benchmark.SelectFamily(groups, opts.family, opts.region)
	} else {
		sel, err = benchmark.Select(groups)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", opts.dir, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.SelectionLine(sel))
	return nil
}

