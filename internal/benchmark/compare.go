package benchmark

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EfficiencyMatrix holds mean(i)/mean(j) for every ordered pair of groups of
// one analysis batch. Rows and columns follow the canonical identity order.
type EfficiencyMatrix struct {
	ids   []Identity
	index map[string]int
	data  *mat.Dense
}

// BuildMatrix computes the pairwise efficiency matrix. Diagonal entries are
// exactly 1.0. A zero mean yields IEEE infinities or NaN in its column.
func BuildMatrix(groups []*RunGroup) (*EfficiencyMatrix, error) {
	if err := checkGroups(groups); err != nil {
		return nil, err
	}
	sorted := sortGroups(groups)

	m := &EfficiencyMatrix{
		ids:   make([]Identity, len(sorted)),
		index: make(map[string]int, len(sorted)),
	}
	if len(sorted) == 0 {
		return m, nil
	}

	cache := NewStatsCache()
	means := make([]float64, len(sorted))
	for i, g := range sorted {
		id := g.Identity()
		if _, dup := m.index[id.Key()]; dup {
			return nil, fmt.Errorf("duplicate identity %s in batch", id.Name())
		}
		mean, err := cache.Mean(g)
		if err != nil {
			return nil, err
		}
		m.ids[i] = id
		m.index[id.Key()] = i
		means[i] = mean
	}

	n := len(sorted)
	m.data = mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				m.data.Set(i, j, 1.0)
				continue
			}
			m.data.Set(i, j, means[i]/means[j])
		}
	}
	return m, nil
}

// Len returns the number of identities.
func (m *EfficiencyMatrix) Len() int {
	return len(m.ids)
}

// Identities returns the row/column order.
func (m *EfficiencyMatrix) Identities() []Identity {
	out := make([]Identity, len(m.ids))
	copy(out, m.ids)
	return out
}

// At returns M[i][j].
func (m *EfficiencyMatrix) At(i, j int) float64 {
	return m.data.At(i, j)
}

// Row returns a copy of row i.
func (m *EfficiencyMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.data)
}

// Ratio returns mean(a)/mean(b). Values below 1 mean a is faster than b.
func (m *EfficiencyMatrix) Ratio(a, b Identity) (float64, bool) {
	i, ok := m.index[a.Key()]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b.Key()]
	if !ok {
		return 0, false
	}
	return m.data.At(i, j), true
}

// IndexOf returns the row of id.
func (m *EfficiencyMatrix) IndexOf(id Identity) (int, bool) {
	i, ok := m.index[id.Key()]
	return i, ok
}
