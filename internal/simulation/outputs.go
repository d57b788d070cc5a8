package simulation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"syncperf/internal/report"
)

// Report files written next to runs.json.
const (
	NumericsFile = "numerics.csv"
	RatiosFile   = "ratios.txt"
	SummaryFile  = "summary.txt"
	MatrixFile   = "matrix.csv"
)

// OutputOptions selects which report files WriteReports produces.
type OutputOptions struct {
	Numerics bool
	Ratios   bool
	Matrix   bool
	Summary  bool
	Settings report.RatioSettings
}

// ReportContext describes the configuration for the summary report.
func (d *Data) ReportContext() *report.Context {
	if d == nil {
		return nil
	}
	return &report.Context{
		Dimensions: d.Dimensions(),
		Threads:    d.Threads,
		Active:     d.Active,
		Iterations: d.Iterations,
	}
}

// Summary gathers what the summary report of a successful analysis needs.
func (a *Analysis) Summary() report.Summary {
	s := report.Summary{Context: a.Data.ReportContext(), Stats: a.Stats}
	if a.Selection != nil {
		s.Selection = *a.Selection
	}
	return s
}

// WriteReports writes the selected report files into the analysis directory
// and returns the paths written.
func WriteReports(a *Analysis, opts OutputOptions) ([]string, error) {
	if a.Err != nil {
		return nil, fmt.Errorf("cannot report failed analysis of %s: %w", a.Dir, a.Err)
	}

	var written []string
	write := func(name string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		path := filepath.Join(a.Dir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if opts.Numerics {
		if err := write(NumericsFile, func(b *bytes.Buffer) error { return report.WriteStatsCSV(b, a.Stats) }); err != nil {
			return written, err
		}
	}
	if opts.Ratios {
		if err := write(RatiosFile, func(b *bytes.Buffer) error { return report.WriteRatios(b, a.Groups, opts.Settings) }); err != nil {
			return written, err
		}
	}
	if opts.Summary {
		if err := write(SummaryFile, func(b *bytes.Buffer) error { return report.WriteSummary(b, a.Summary()) }); err != nil {
			return written, err
		}
	}
	if opts.Matrix {
		if err := write(MatrixFile, func(b *bytes.Buffer) error { return report.WriteMatrixCSV(b, a.Matrix) }); err != nil {
			return written, err
		}
	}
	return written, nil
}
