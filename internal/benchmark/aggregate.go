package benchmark

import "sort"

// Groups maps identity keys to their frozen RunGroup.
type Groups map[string]*RunGroup

// Group collects samples by exact identity. Sample order inside a group is
// not meaningful; only the multiset of durations matters.
func Group(samples []Sample) (Groups, error) {
	collected := make(map[string][]float64)
	ids := make(map[string]Identity)

	for _, s := range samples {
		if s.Duration < 0 {
			return nil, &ParseError{Content: s.Identity().Name(), Reason: "negative duration"}
		}
		id := s.Identity()
		key := id.Key()
		if _, ok := ids[key]; !ok {
			ids[key] = id
		}
		collected[key] = append(collected[key], s.Duration)
	}

	groups := make(Groups, len(collected))
	for key, durations := range collected {
		g, err := NewRunGroup(ids[key], durations)
		if err != nil {
			return nil, err
		}
		groups[key] = g
	}
	return groups, nil
}

// FromSlice indexes already built groups, rejecting duplicate identities.
func FromSlice(list []*RunGroup) (Groups, error) {
	groups := make(Groups, len(list))
	for _, g := range list {
		if g == nil {
			return nil, &StatisticsError{Reason: "nil group"}
		}
		key := g.Identity().Key()
		if _, ok := groups[key]; ok {
			return nil, &SelectionError{Reason: "duplicate identity " + g.Identity().Name()}
		}
		groups[key] = g
	}
	return groups, nil
}

// Get returns the group with the given identity.
func (gs Groups) Get(id Identity) (*RunGroup, bool) {
	g, ok := gs[id.Key()]
	return g, ok
}

// Sorted returns the groups in canonical identity order.
func (gs Groups) Sorted() []*RunGroup {
	list := make([]*RunGroup, 0, len(gs))
	for _, g := range gs {
		list = append(list, g)
	}
	return sortGroups(list)
}

// Identities returns the identities in canonical order.
func (gs Groups) Identities() []Identity {
	sorted := gs.Sorted()
	ids := make([]Identity, len(sorted))
	for i, g := range sorted {
		ids[i] = g.Identity()
	}
	return ids
}

func sortGroups(list []*RunGroup) []*RunGroup {
	out := make([]*RunGroup, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i].identity, out[j].identity) < 0
	})
	return out
}

func checkGroups(list []*RunGroup) error {
	for _, g := range list {
		if g == nil {
			return &StatisticsError{Reason: "group is nil"}
		}
	}
	return nil
}
