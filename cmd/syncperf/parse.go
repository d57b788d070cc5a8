package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"syncperf/internal/benchmark"
	"syncperf/internal/metrics"
	"syncperf/internal/report"
	"syncperf/internal/simulation"
	"syncperf/internal/telemetry"
)

type parseOptions struct {
	avg        bool
	table      bool
	ratios     bool
	csv        bool
	csvDst     string
	autoRename bool
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Analyze a raw timing log",
		Long: `Reads a line based timing log ("<tag> <strategy> <region> <sec>.<nsec>",
lines starting with // are comments) from a file or stdin, then prints
statistics per strategy and region, the efficiency matrix or the verdict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.avg, "avg", "a", false, "Print statistics as CSV")
	f.BoolVar(&opts.table, "table", false, "Print statistics as an aligned table")
	f.BoolVar(&opts.ratios, "ratios", false, "Compute the efficiency matrix")
	f.BoolVar(&opts.csv, "csv", false, "Print the matrix as CSV on stdout")
	f.StringVar(&opts.csvDst, "csv-dst", "", "Write the matrix CSV to this file")
	f.BoolVar(&opts.autoRename, "csv-auto-rename", false, "Write the matrix CSV next to the input file")
	cmd.MarkFlagsMutuallyExclusive("csv", "csv-dst", "csv-auto-rename")
	return cmd
}

// matrixPath derives the matrix file written by --csv-auto-rename.
func matrixPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_ratios.csv"
}

func runParse(cmd *cobra.Command, args []string, opts *parseOptions) error {
	var (
		in   io.Reader = cmd.InOrStdin()
		name           = "stdin"
	)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open log: %w", err)
		}
		defer f.Close()
		in, name = f, args[0]
	}
	if opts.autoRename && len(args) == 0 {
		return fmt.Errorf("--csv-auto-rename needs an input file")
	}

	m := metrics.Default()
	samples, err := benchmark.ParseReader(in)
	if err != nil {
		m.ObserveParseFailure(simulation.ModeLine)
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	telemetry.LogDebug("Parsed timing log", "source", name, "samples", len(samples))

	verdict := !opts.avg && !opts.table && !opts.ratios
	res, err := simulation.NewAnalyzer(m).AnalyzeSamples(nil, samples)
	if err != nil {
		// Statistics and the matrix are still valid when only the selection failed.
		if verdict || !errors.Is(err, benchmark.ErrSelection) || res.Matrix == nil {
			return fmt.Errorf("failed to analyze %s: %w", name, err)
		}
	}

	out := cmd.OutOrStdout()
	if opts.avg {
		if err := report.WriteStatsCSV(out, res.Stats); err != nil {
			return err
		}
	}
	if opts.table {
		report.WriteTable(out, res.Stats)
	}
	if opts.ratios {
		if err := writeParseMatrix(cmd, res.Matrix, opts, args); err != nil {
			return err
		}
	}
	if verdict {
		fmt.Fprintf(out, "Best synchronization: %s\n", report.SelectionLine(*res.Selection))
	}
	return nil
}

func writeParseMatrix(cmd *cobra.Command, m *benchmark.EfficiencyMatrix, opts *parseOptions, args []string) error {
	dst := opts.csvDst
	if opts.autoRename {
		dst = matrixPath(args[0])
	}
	if dst == "" {
		return report.WriteMatrixCSV(cmd.OutOrStdout(), m)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if err := report.WriteMatrixCSV(f, m); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Matrix written to %s\n", dst)
	return nil
}
