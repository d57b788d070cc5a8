package benchmark

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPassVariance is an independent reference: mean first, then the sum of
// squared deviations divided by n.
func twoPassVariance(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

func TestStatisticsOf_ScenarioA(t *testing.T) {
	samples, err := ParseLines([]string{"0 counter inc 1.500000000", "0 counter inc 2.500000000"})
	require.NoError(t, err)

	groups, err := Group(samples)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g, ok := groups.Get(Simple("counter", "inc"))
	require.True(t, ok)

	s, err := StatisticsOf(g)
	require.NoError(t, err)
	assert.Equal(t, 2, s.N)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.InDelta(t, 0.25, s.Variance, 1e-12)
	assert.InDelta(t, 0.5, s.StdDev, 1e-12)
	assert.InDelta(t, 0.25, s.CoefficientOfVariation, 1e-12)
}

func TestStatisticsOf_MatchesTwoPassReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 7, 1000, 100000} {
		values := make([]float64, n)
		for i := range values {
			// Large offset with small spread is where naive one-pass formulas lose precision.
			values[i] = 1e6 + rng.Float64()*1e-3
		}
		g, err := NewRunGroup(Simple("s", "r"), values)
		require.NoError(t, err)

		s, err := StatisticsOf(g)
		require.NoError(t, err)

		want := twoPassVariance(values)
		assert.InDelta(t, want, s.Variance, 1e-9*math.Max(1, want), "n=%d", n)
		assert.InDelta(t, math.Sqrt(want), s.StdDev, 1e-6, "n=%d", n)
	}
}

func TestStatisticsOf_SingleSample(t *testing.T) {
	g, err := NewRunGroup(Simple("s", "r"), []float64{3.0})
	require.NoError(t, err)

	s, err := StatisticsOf(g)
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 0.0, s.Variance)
	assert.Equal(t, 0.0, s.StdDev)
}

func TestStatisticsOf_EmptyGroup(t *testing.T) {
	_, err := StatisticsOf(&RunGroup{identity: Simple("s", "r")})
	assert.True(t, errors.Is(err, ErrStatistics))

	_, err = StatisticsOf(nil)
	assert.True(t, errors.Is(err, ErrStatistics))
}

func TestNewRunGroup_RejectsEmpty(t *testing.T) {
	g, err := NewRunGroup(Simple("s", "r"), nil)
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, ErrStatistics))
}

func TestNewRunGroup_IsFrozen(t *testing.T) {
	values := []float64{1, 2, 3}
	g, err := NewRunGroup(Simple("s", "r"), values)
	require.NoError(t, err)

	values[0] = 100
	got := g.Durations()
	got[1] = 200

	assert.Equal(t, []float64{1, 2, 3}, g.Durations())
}

func TestStatsCache(t *testing.T) {
	g, err := NewRunGroup(Simple("s", "r"), []float64{1, 3})
	require.NoError(t, err)

	cache := NewStatsCache()
	first, err := cache.Of(g)
	require.NoError(t, err)
	mean, err := cache.Mean(g)
	require.NoError(t, err)

	assert.Equal(t, first.Mean, mean)
	assert.Len(t, cache.entries, 1)
}

func TestDescribe_CanonicalOrder(t *testing.T) {
	a, _ := NewRunGroup(Parameterized("static_step", "run", "step", "10"), []float64{1})
	b, _ := NewRunGroup(Parameterized("static_step", "run", "step", "2"), []float64{2})
	c, _ := NewRunGroup(Simple("naive", "run"), []float64{3})

	rows, err := Describe([]*RunGroup{a, b, c})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "naive.run", rows[0].Identity.Name())
	assert.Equal(t, "static_step.run.2", rows[1].Identity.Name())
	assert.Equal(t, "static_step.run.10", rows[2].Identity.Name())
}
