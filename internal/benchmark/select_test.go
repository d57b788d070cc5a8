package benchmark

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioC(t *testing.T) []*RunGroup {
	return []*RunGroup{
		mustGroup(t, Parameterized("static_step", "run", "step", "1"), 4.0, 6.0),
		mustGroup(t, Parameterized("static_step", "run", "step", "2"), 3.0),
		mustGroup(t, Parameterized("static_step", "run", "step", "4"), 7.0),
		mustGroup(t, Simple("naive", "run"), 10.0),
	}
}

func TestResolveFamilies_ScenarioC(t *testing.T) {
	reps, err := ResolveFamilies(scenarioC(t))
	require.NoError(t, err)
	require.Len(t, reps, 2)

	assert.Equal(t, Family{Strategy: "naive", Region: "run"}, reps[0].Family)
	assert.Equal(t, 1, reps[0].Members)
	assert.Equal(t, 10.0, reps[0].Mean)

	assert.Equal(t, 3, reps[1].Members)
	assert.Equal(t, "2", reps[1].Group.Identity().Params["step"])
	assert.Equal(t, 3.0, reps[1].Mean)
}

func TestSelect_ScenarioC(t *testing.T) {
	res, err := Select(scenarioC(t))
	require.NoError(t, err)

	assert.Equal(t, "static_step.run.2", res.Identity.Name())
	assert.Equal(t, 3.0, res.Mean)
}

func TestResolveFamilies_Idempotent(t *testing.T) {
	groups := scenarioC(t)

	first, err := ResolveFamilies(groups)
	require.NoError(t, err)

	var reps []*RunGroup
	for _, r := range first {
		reps = append(reps, r.Group)
	}
	second, err := ResolveFamilies(reps)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Group.Identity().Equal(second[i].Group.Identity()))
		assert.Equal(t, first[i].Mean, second[i].Mean)
	}

	again, err := ResolveFamilies(groups)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

// Exact ties go to the identity that sorts first.
func TestSelect_TieBreakFollowsCanonicalOrder(t *testing.T) {
	t.Run("within family", func(t *testing.T) {
		groups := []*RunGroup{
			mustGroup(t, Parameterized("static_step", "run", "step", "8"), 2.0),
			mustGroup(t, Parameterized("static_step", "run", "step", "4"), 2.0),
		}
		reps, err := ResolveFamilies(groups)
		require.NoError(t, err)
		assert.Equal(t, "static_step.run.4", reps[0].Group.Identity().Name())
	})

	t.Run("across families", func(t *testing.T) {
		groups := []*RunGroup{
			mustGroup(t, Simple("zeta", "run"), 1.0),
			mustGroup(t, Simple("alpha", "run"), 1.0),
			mustGroup(t, Simple("mid", "run"), 1.0),
		}
		res, err := Select(groups)
		require.NoError(t, err)
		assert.Equal(t, "alpha.run", res.Identity.Name())
	})
}

func TestSelect_Monotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	strategies := []string{"naive", "alt_bit", "counter", "static_step"}

	var groups []*RunGroup
	for _, s := range strategies {
		for step := 1; step <= 4; step++ {
			id := Simple(s, "run")
			if s == "static_step" {
				id = Parameterized(s, "run", "step", string(rune('0'+step)))
			} else if step > 1 {
				continue
			}
			groups = append(groups, mustGroup(t, id, rng.Float64()+0.1, rng.Float64()+0.1))
		}
	}

	res, err := Select(groups)
	require.NoError(t, err)

	reps, err := ResolveFamilies(groups)
	require.NoError(t, err)
	for _, r := range reps {
		assert.LessOrEqual(t, res.Mean, r.Mean)
	}
}

func TestSelect_Empty(t *testing.T) {
	_, err := Select(nil)
	assert.True(t, errors.Is(err, ErrSelection))
}

func TestSelectFamily(t *testing.T) {
	groups := scenarioC(t)

	res, err := SelectFamily(groups, "naive", "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Mean)

	res, err = SelectFamily(groups, "static_step", "run")
	require.NoError(t, err)
	assert.Equal(t, "static_step.run.2", res.Identity.Name())

	_, err = SelectFamily(groups, "alt_bit", "")
	var serr *SelectionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "alt_bit", serr.Family)

	_, err = SelectFamily(nil, "naive", "")
	assert.ErrorIs(t, err, ErrSelection)
}

func TestSelectMember(t *testing.T) {
	groups := scenarioC(t)

	res, err := SelectMember(groups, "static_step", Params{"step": "1"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Mean)

	_, err = SelectMember(groups, "static_step", Params{"step": "32"})
	assert.ErrorIs(t, err, ErrSelection)
}
