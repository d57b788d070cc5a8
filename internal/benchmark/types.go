package benchmark

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Params holds the auxiliary tuning values of a strategy run (e.g. step=4).
// Values are kept in their canonical textual form.
type Params map[string]string

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether both parameter sets hold the same names and values.
func (p Params) Equal(other Params) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (p Params) clone() Params {
	if len(p) == 0 {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ParamValue converts a decoded extras value into its canonical text.
// JSON numbers that hold integers render without a fractional part so that
// {"step": 4} and {"step": "4"} produce the same identity.
func ParamValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// Sample is a single measured duration.
type Sample struct {
	Strategy string
	Region   string
	Params   Params
	Duration float64 // seconds
}

// Identity returns the group identity the sample belongs to.
func (s Sample) Identity() Identity {
	return Identity{Strategy: s.Strategy, Region: s.Region, Params: s.Params.clone()}
}

// Identity is the composite key (strategy, region, parameters) that groups samples.
type Identity struct {
	Strategy string
	Region   string
	Params   Params
}

// Simple builds an identity without parameters.
func Simple(strategy, region string) Identity {
	return Identity{Strategy: strategy, Region: region}
}

// Parameterized builds an identity carrying one parameter.
func Parameterized(strategy, region, name, value string) Identity {
	return Identity{Strategy: strategy, Region: region, Params: Params{name: value}}
}

// IsParameterized reports whether the identity belongs to a parameterized family.
func (id Identity) IsParameterized() bool {
	return len(id.Params) > 0
}

// Family returns the (strategy, region) pair shared by all members of a family.
func (id Identity) Family() Family {
	return Family{Strategy: id.Strategy, Region: id.Region}
}

// Key returns the canonical string form, usable as a map key. Every component
// is quoted so separators inside values cannot make distinct identities collide.
func (id Identity) Key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(id.Strategy))
	b.WriteByte('.')
	b.WriteString(strconv.Quote(id.Region))
	for _, k := range id.Params.Keys() {
		b.WriteByte(',')
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(id.Params[k]))
	}
	return b.String()
}

// Equal compares identities by value.
func (id Identity) Equal(other Identity) bool {
	return id.Strategy == other.Strategy && id.Region == other.Region && id.Params.Equal(other.Params)
}

// Name renders the identity the way reports print it:
// strategy.region for simple identities, strategy.region.value for parameterized ones.
func (id Identity) Name() string {
	parts := []string{id.Strategy, id.Region}
	for _, k := range id.Params.Keys() {
		parts = append(parts, id.Params[k])
	}
	return strings.Join(parts, ".")
}

func (id Identity) String() string {
	return id.Name()
}

// Compare orders identities by strategy, region, then parameters. A simple
// identity sorts before every parameterized member of the same family.
// Numeric parameter values sort numerically and ahead of non-numeric ones.
func Compare(a, b Identity) int {
	if c := strings.Compare(a.Strategy, b.Strategy); c != 0 {
		return c
	}
	if c := strings.Compare(a.Region, b.Region); c != 0 {
		return c
	}

	ak, bk := a.Params.Keys(), b.Params.Keys()
	for i := 0; i < len(ak) && i < len(bk); i++ {
		if c := strings.Compare(ak[i], bk[i]); c != 0 {
			return c
		}
		if c := compareValues(a.Params[ak[i]], b.Params[bk[i]]); c != 0 {
			return c
		}
	}
	switch {
	case len(ak) < len(bk):
		return -1
	case len(ak) > len(bk):
		return 1
	}
	return 0
}

// compareValues ranks numeric values before all other values. Numbers compare
// numerically, falling back to their text when equal ("2" vs "2.0"), and the
// rest compare as strings.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	numA, numB := errA == nil && !math.IsNaN(fa), errB == nil && !math.IsNaN(fb)
	switch {
	case numA && !numB:
		return -1
	case !numA && numB:
		return 1
	case numA && numB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// SortIdentities sorts identities in place using Compare.
func SortIdentities(ids []Identity) {
	sort.SliceStable(ids, func(i, j int) bool {
		return Compare(ids[i], ids[j]) < 0
	})
}

// Family identifies a strategy family regardless of parameters.
type Family struct {
	Strategy string
	Region   string
}

func (f Family) String() string {
	return f.Strategy + "." + f.Region
}

// RunGroup is the frozen set of durations collected for one identity.
type RunGroup struct {
	identity  Identity
	durations []float64
}

// NewRunGroup copies durations into a new group. Empty groups are rejected.
func NewRunGroup(id Identity, durations []float64) (*RunGroup, error) {
	if len(durations) == 0 {
		return nil, &StatisticsError{Identity: id, Reason: "group has no samples"}
	}
	cp := make([]float64, len(durations))
	copy(cp, durations)
	return &RunGroup{identity: Identity{Strategy: id.Strategy, Region: id.Region, Params: id.Params.clone()}, durations: cp}, nil
}

// Identity returns the group's identity.
func (g *RunGroup) Identity() Identity {
	return g.identity
}

// Len returns the number of samples.
func (g *RunGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.durations)
}

// Durations returns a copy of the collected durations.
func (g *RunGroup) Durations() []float64 {
	cp := make([]float64, len(g.durations))
	copy(cp, g.durations)
	return cp
}

// Statistics are the descriptive statistics of a RunGroup.
type Statistics struct {
	N                      int
	Mean                   float64
	Variance               float64 // population variance
	StdDev                 float64
	CoefficientOfVariation float64
}

// SelectionResult is the outcome of picking the best strategy of one configuration.
type SelectionResult struct {
	Identity Identity
	Mean     float64
}
