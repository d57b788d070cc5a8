package benchmark

import (
	"fmt"
	"sort"
)

// Representative is the member chosen to stand for a family.
type Representative struct {
	Family  Family
	Group   *RunGroup
	Mean    float64
	Members int
}

// ResolveFamilies partitions groups by (strategy, region) and keeps the
// member with the smallest mean of each family. When means tie exactly, the
// member that comes first in canonical identity order wins. Representatives
// are returned in family order.
func ResolveFamilies(groups []*RunGroup) ([]Representative, error) {
	if err := checkGroups(groups); err != nil {
		return nil, err
	}
	cache := NewStatsCache()
	return resolve(sortGroups(groups), cache)
}

func resolve(sorted []*RunGroup, cache *StatsCache) ([]Representative, error) {
	byFamily := make(map[Family]*Representative)
	var order []Family

	for _, g := range sorted {
		mean, err := cache.Mean(g)
		if err != nil {
			return nil, err
		}
		fam := g.Identity().Family()
		rep, ok := byFamily[fam]
		if !ok {
			byFamily[fam] = &Representative{Family: fam, Group: g, Mean: mean, Members: 1}
			order = append(order, fam)
			continue
		}
		rep.Members++
		// Strict comparison keeps the earlier identity on ties.
		if mean < rep.Mean {
			rep.Group = g
			rep.Mean = mean
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Strategy != order[j].Strategy {
			return order[i].Strategy < order[j].Strategy
		}
		return order[i].Region < order[j].Region
	})

	reps := make([]Representative, 0, len(order))
	for _, fam := range order {
		reps = append(reps, *byFamily[fam])
	}
	return reps, nil
}

// Select resolves families and returns the representative with the smallest
// mean. Exact ties go to the identity that comes first in canonical order.
func Select(groups []*RunGroup) (SelectionResult, error) {
	if len(groups) == 0 {
		return SelectionResult{}, &SelectionError{Reason: "no groups to select from"}
	}
	reps, err := ResolveFamilies(groups)
	if err != nil {
		return SelectionResult{}, err
	}
	return pick(reps)
}

func pick(reps []Representative) (SelectionResult, error) {
	if len(reps) == 0 {
		return SelectionResult{}, &SelectionError{Reason: "no groups to select from"}
	}
	best := reps[0]
	for _, r := range reps[1:] {
		if r.Mean < best.Mean || (r.Mean == best.Mean && Compare(r.Group.Identity(), best.Group.Identity()) < 0) {
			best = r
		}
	}
	return SelectionResult{Identity: best.Group.Identity(), Mean: best.Mean}, nil
}

// SelectFamily returns the representative of a required family. An empty
// region matches every region of the strategy, picking the best among them.
func SelectFamily(groups []*RunGroup, strategy, region string) (SelectionResult, error) {
	name := strategy
	if region != "" {
		name = Family{Strategy: strategy, Region: region}.String()
	}
	if len(groups) == 0 {
		return SelectionResult{}, &SelectionError{Family: name, Reason: "no groups to select from"}
	}

	reps, err := ResolveFamilies(groups)
	if err != nil {
		return SelectionResult{}, err
	}

	var matching []Representative
	for _, r := range reps {
		if r.Family.Strategy == strategy && (region == "" || r.Family.Region == region) {
			matching = append(matching, r)
		}
	}
	if len(matching) == 0 {
		return SelectionResult{}, &SelectionError{Family: name, Reason: "family not present"}
	}
	return pick(matching)
}

// SelectMember returns a specific member of a parameterized family, e.g. the
// step=1 run of a stepped strategy. When several regions match, the first in
// canonical order is returned.
func SelectMember(groups []*RunGroup, strategy string, params Params) (SelectionResult, error) {
	name := strategy
	if err := checkGroups(groups); err != nil {
		return SelectionResult{}, err
	}
	for _, g := range sortGroups(groups) {
		id := g.Identity()
		if id.Strategy != strategy || !id.Params.Equal(params) {
			continue
		}
		s, err := StatisticsOf(g)
		if err != nil {
			return SelectionResult{}, err
		}
		return SelectionResult{Identity: id, Mean: s.Mean}, nil
	}
	return SelectionResult{}, &SelectionError{Family: name, Reason: fmt.Sprintf("no member with parameters %v", map[string]string(params))}
}
