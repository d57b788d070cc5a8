package benchmark

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// StatisticsOf computes mean, population variance (divided by n), standard
// deviation and coefficient of variation of a group.
func StatisticsOf(g *RunGroup) (Statistics, error) {
	if g == nil {
		return Statistics{}, &StatisticsError{Reason: "group is nil"}
	}
	if len(g.durations) == 0 {
		return Statistics{}, &StatisticsError{Identity: g.identity, Reason: "group has no samples"}
	}

	mean, variance := stat.PopMeanVariance(g.durations, nil)
	// A single sample or identical samples can leave a tiny negative residue.
	if variance < 0 {
		variance = 0
	}
	std := math.Sqrt(variance)

	return Statistics{
		N:                      len(g.durations),
		Mean:                   mean,
		Variance:               variance,
		StdDev:                 std,
		CoefficientOfVariation: std / mean,
	}, nil
}

// StatsCache memoizes statistics for the lifetime of one report generation.
// It is not safe for concurrent use.
type StatsCache struct {
	entries map[*RunGroup]Statistics
}

func NewStatsCache() *StatsCache {
	return &StatsCache{entries: make(map[*RunGroup]Statistics)}
}

// Of returns the cached statistics of g, computing them on first use.
func (c *StatsCache) Of(g *RunGroup) (Statistics, error) {
	if s, ok := c.entries[g]; ok {
		return s, nil
	}
	s, err := StatisticsOf(g)
	if err != nil {
		return Statistics{}, err
	}
	c.entries[g] = s
	return s, nil
}

// Mean is a shorthand for the cached mean of g.
func (c *StatsCache) Mean(g *RunGroup) (float64, error) {
	s, err := c.Of(g)
	if err != nil {
		return 0, err
	}
	return s.Mean, nil
}

// GroupStatistics pairs a group identity with its statistics.
type GroupStatistics struct {
	Identity Identity
	Stats    Statistics
}

// Describe computes statistics for all groups in canonical order.
func Describe(groups []*RunGroup) ([]GroupStatistics, error) {
	if err := checkGroups(groups); err != nil {
		return nil, err
	}
	cache := NewStatsCache()
	sorted := sortGroups(groups)
	out := make([]GroupStatistics, 0, len(sorted))
	for _, g := range sorted {
		s, err := cache.Of(g)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupStatistics{Identity: g.Identity(), Stats: s})
	}
	return out, nil
}
