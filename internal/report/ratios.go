package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"syncperf/internal/benchmark"
)

// RatioSettings names the strategies compared by the ratio report.
type RatioSettings struct {
	Baseline string // unparameterized reference, e.g. naive_promise
	Family   string // parameterized family, e.g. static_step
	Param    string // parameter of the family, e.g. step
}

// Ratios computes the baseline-versus-family lines: against the family
// member with parameter value 1, and against the best member. Comparisons
// whose strategies are absent are left out.
func Ratios(groups []*benchmark.RunGroup, s RatioSettings) ([]string, error) {
	baseline, err := benchmark.SelectFamily(groups, s.Baseline, "")
	if err != nil {
		if errors.Is(err, benchmark.ErrSelection) {
			return nil, nil
		}
		return nil, err
	}

	var lines []string

	first, err := benchmark.SelectMember(groups, s.Family, benchmark.Params{s.Param: "1"})
	switch {
	case err == nil:
		lines = append(lines, ratioPair(baseline, first, "")...)
	case !errors.Is(err, benchmark.ErrSelection):
		return nil, err
	}

	best, err := benchmark.SelectFamily(groups, s.Family, "")
	switch {
	case err == nil:
		lines = append(lines, ratioPair(baseline, best, " (best)")...)
	case !errors.Is(err, benchmark.ErrSelection):
		return nil, err
	}

	return lines, nil
}

func ratioPair(baseline, member benchmark.SelectionResult, suffix string) []string {
	b, m := baseline.Identity.Name(), member.Identity.Name()+suffix
	return []string{
		fmt.Sprintf("%s / %s: %s", b, m, FormatFloat(baseline.Mean/member.Mean)),
		fmt.Sprintf("%s / %s: %s", m, b, FormatFloat(member.Mean/baseline.Mean)),
	}
}

// WriteRatios writes the ratio lines separated by newlines.
func WriteRatios(w io.Writer, groups []*benchmark.RunGroup, s RatioSettings) error {
	lines, err := Ratios(groups, s)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
