package report

import (
	"fmt"
	"io"
	"strings"

	"syncperf/internal/benchmark"
)

// Context is the external description of the simulation a summary is about.
// The core never computes it; callers fill it from their own metadata.
type Context struct {
	Dimensions string
	Threads    int
	Active     bool
	Iterations int
}

// Summary is everything the best-selection summary prints.
type Summary struct {
	Context   *Context
	Stats     []benchmark.GroupStatistics
	Selection benchmark.SelectionResult
}

// WriteSummary writes the free text summary: the configuration, the mean of
// every group and the winning identity.
func WriteSummary(w io.Writer, s Summary) error {
	var b strings.Builder
	if c := s.Context; c != nil {
		fmt.Fprintf(&b, "%s with %d threads (using active wait: %t) and %d iterations\n",
			c.Dimensions, c.Threads, c.Active, c.Iterations)
	}

	b.WriteString("Running with the following synchronization patterns:\n")
	lines := make([]string, 0, len(s.Stats))
	for _, gs := range s.Stats {
		lines = append(lines, fmt.Sprintf("\t%s: %s", gs.Identity.Name(), FormatFloat(gs.Stats.Mean)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Best synchronization: %s, with average time: %s\n",
		s.Selection.Identity.Name(), FormatFloat(s.Selection.Mean))

	_, err := io.WriteString(w, b.String())
	return err
}
