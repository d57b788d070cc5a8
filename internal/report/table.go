package report

import (
	"io"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"

	"syncperf/internal/benchmark"
)

// WriteTable prints the statistics as an aligned, human readable table.
func WriteTable(w io.Writer, rows []benchmark.GroupStatistics) {
	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("Synchronization", "Function", "Average", "Variance", "Deviation", "Deviation / Average")
	for _, r := range rows {
		cells := StatsRow(r)
		line := make([]interface{}, len(cells))
		for i, c := range cells {
			line[i] = c
		}
		t.AddLine(line...)
	}
	t.Print()
}
