package simulation

import (
	"fmt"
	"path/filepath"
	"time"

	"syncperf/internal/benchmark"
	"syncperf/internal/metrics"
	"syncperf/internal/telemetry"
)

// Ingestion modes, used as metric labels.
const (
	ModeLine       = "line"
	ModeStructured = "structured"
)

// Analysis is the outcome of analyzing one simulation configuration.
// Err is set when the configuration could not be analyzed; the other fields
// then hold whatever was computed before the failure.
type Analysis struct {
	Dir       string
	Data      *Data
	Groups    []*benchmark.RunGroup
	Stats     []benchmark.GroupStatistics
	Matrix    *benchmark.EfficiencyMatrix
	Selection *benchmark.SelectionResult
	Err       error
}

// Analyzer runs the ingest → aggregate → compare/select pipeline.
type Analyzer struct {
	metrics *metrics.Metrics
}

// NewAnalyzer returns an analyzer recording to m. m may be nil.
func NewAnalyzer(m *metrics.Metrics) *Analyzer {
	return &Analyzer{metrics: m}
}

// Analyze describes the groups, builds the efficiency matrix and selects the
// best strategy of the configuration.
func (a *Analyzer) Analyze(data *Data, groups []*benchmark.RunGroup) (*Analysis, error) {
	start := time.Now()
	res := &Analysis{Data: data}
	if data != nil {
		res.Dir = data.Path
	}

	err := a.analyze(res, groups)
	if a.metrics != nil {
		size := 0
		if res.Matrix != nil {
			size = res.Matrix.Len()
		}
		a.metrics.ObserveAnalysis(err, len(res.Stats), size, time.Since(start))
	}
	if err != nil {
		res.Err = err
		return res, err
	}
	return res, nil
}

func (a *Analyzer) analyze(res *Analysis, groups []*benchmark.RunGroup) error {
	indexed, err := benchmark.FromSlice(groups)
	if err != nil {
		return err
	}
	res.Groups = indexed.Sorted()

	res.Stats, err = benchmark.Describe(res.Groups)
	if err != nil {
		return err
	}
	telemetry.LogDebug("Described groups", "dir", res.Dir, "groups", len(res.Stats))

	res.Matrix, err = benchmark.BuildMatrix(res.Groups)
	if err != nil {
		return err
	}

	sel, err := benchmark.Select(res.Groups)
	if err != nil {
		return err
	}
	res.Selection = &sel
	telemetry.LogDebug("Selected best strategy", "dir", res.Dir, "winner", sel.Identity.Name(), "mean", sel.Mean)
	return nil
}

// AnalyzeSamples groups line-mode samples and analyzes them.
func (a *Analyzer) AnalyzeSamples(data *Data, samples []benchmark.Sample) (*Analysis, error) {
	groups, err := benchmark.Group(samples)
	if err != nil {
		a.parseFailed(ModeLine)
		return &Analysis{Data: data, Err: err}, err
	}
	if a.metrics != nil {
		a.metrics.ObserveIngest(ModeLine, len(samples))
	}
	return a.Analyze(data, groups.Sorted())
}

// LoadGroups reads runs.json from dir and returns one group per record.
func (a *Analyzer) LoadGroups(dir string) ([]*benchmark.RunGroup, error) {
	doc, err := benchmark.LoadRunsFile(filepath.Join(dir, RunsFile))
	if err != nil {
		a.parseFailed(ModeStructured)
		return nil, fmt.Errorf("failed to load runs of %s: %w", dir, err)
	}
	groups, err := benchmark.GroupsFromRecords(doc.Runs)
	if err != nil {
		a.parseFailed(ModeStructured)
		return nil, fmt.Errorf("invalid runs in %s: %w", dir, err)
	}
	if a.metrics != nil {
		n := 0
		for _, g := range groups {
			n += g.Len()
		}
		a.metrics.ObserveIngest(ModeStructured, n)
	}
	return groups, nil
}

// AnalyzeDir loads data.json and runs.json from dir and analyzes them.
func (a *Analyzer) AnalyzeDir(dir string) (*Analysis, error) {
	data, err := LoadData(dir)
	if err != nil {
		return &Analysis{Dir: dir, Err: err}, err
	}
	groups, err := a.LoadGroups(dir)
	if err != nil {
		return &Analysis{Dir: dir, Data: data, Err: err}, err
	}
	return a.Analyze(data, groups)
}

func (a *Analyzer) parseFailed(mode string) {
	if a.metrics != nil {
		a.metrics.ObserveParseFailure(mode)
	}
}
