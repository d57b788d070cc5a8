// Package report formats analysis results as CSV, text and terminal output.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"syncperf/internal/benchmark"
)

// StatsHeader is the header row of the per-group statistics table.
var StatsHeader = []string{"Synchronization", "Function", "Average", "Variance", "Deviation", "Deviation/Average"}

// FormatFloat renders v in its shortest round-trip form, always keeping a
// fractional part for finite values ("1.0", "0.25", "1e-07").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// functionColumn keeps parameter values with the region so that
// "<Synchronization>.<Function>" equals the identity name.
func functionColumn(id benchmark.Identity) string {
	name := id.Name()
	return strings.TrimPrefix(name, id.Strategy+".")
}

// StatsRow renders one statistics row.
func StatsRow(gs benchmark.GroupStatistics) []string {
	s := gs.Stats
	return []string{
		gs.Identity.Strategy,
		functionColumn(gs.Identity),
		FormatFloat(s.Mean),
		FormatFloat(s.Variance),
		FormatFloat(s.StdDev),
		FormatFloat(s.CoefficientOfVariation),
	}
}

// WriteStatsCSV writes the statistics table, one row per identity.
func WriteStatsCSV(w io.Writer, rows []benchmark.GroupStatistics) error {
	if _, err := fmt.Fprintln(w, strings.Join(StatsHeader, ",")); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(StatsRow(r), ",")); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrixCSV writes the efficiency matrix: a header of quoted identity
// names, then one row per identity in the matrix order.
func WriteMatrixCSV(w io.Writer, m *benchmark.EfficiencyMatrix) error {
	ids := m.Identities()

	header := make([]string, 0, len(ids)+1)
	header = append(header, "")
	for _, id := range ids {
		header = append(header, strconv.Quote(id.Name()))
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, ",")); err != nil {
		return err
	}

	for i, id := range ids {
		cells := make([]string, 0, len(ids)+1)
		cells = append(cells, id.Name())
		for _, v := range m.Row(i) {
			cells = append(cells, FormatFloat(v))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}
