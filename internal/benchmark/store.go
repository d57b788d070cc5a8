package benchmark

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// RunRecord is one pre-grouped entry of a runs document.
type RunRecord struct {
	Synchronizer string         `json:"synchronizer"`
	Function     string         `json:"function"`
	Times        Durations      `json:"times"`
	Extras       map[string]any `json:"extras"`
}

// RunsDocument is the structured container persisted as runs.json.
type RunsDocument struct {
	Runs []RunRecord `json:"runs"`
}

// Durations decodes either a list of numbers or a list of {"time": x} objects.
type Durations []float64

func (d *Durations) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("times must be an array: %w", err)
	}

	out := make(Durations, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var obj struct {
				Time *float64 `json:"time"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				return fmt.Errorf("times[%d]: %w", i, err)
			}
			if obj.Time == nil {
				return fmt.Errorf("times[%d]: object has no time field", i)
			}
			out = append(out, *obj.Time)
			continue
		}

		var v float64
		if err := json.Unmarshal(item, &v); err != nil {
			return fmt.Errorf("times[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	*d = out
	return nil
}

// Identity builds the group identity of the record; extras become parameters.
func (r RunRecord) Identity() Identity {
	id := Identity{Strategy: r.Synchronizer, Region: r.Function}
	if len(r.Extras) > 0 {
		id.Params = make(Params, len(r.Extras))
		for k, v := range r.Extras {
			id.Params[k] = ParamValue(v)
		}
	}
	return id
}

// LoadRuns decodes a runs document from r.
func LoadRuns(r io.Reader) (*RunsDocument, error) {
	var doc RunsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}
	return &doc, nil
}

// LoadRunsFile decodes the runs document stored at path.
func LoadRunsFile(path string) (*RunsDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadRuns(f)
}

// GroupsFromRecords turns each record into exactly one RunGroup, keeping the
// caller's grouping. Two records with the same identity are rejected rather
// than merged.
func GroupsFromRecords(records []RunRecord) ([]*RunGroup, error) {
	seen := make(map[string]int, len(records))
	groups := make([]*RunGroup, 0, len(records))

	for i, rec := range records {
		id := rec.Identity()
		if prev, ok := seen[id.Key()]; ok {
			return nil, &ParseError{
				Content: id.Name(),
				Reason:  fmt.Sprintf("run %d duplicates run %d", i, prev),
			}
		}
		seen[id.Key()] = i

		for _, d := range rec.Times {
			if d < 0 {
				return nil, &ParseError{Content: id.Name(), Reason: fmt.Sprintf("negative duration %v", d)}
			}
		}

		g, err := NewRunGroup(id, rec.Times)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// RecordsFromGroups converts groups back into records in canonical order.
func RecordsFromGroups(groups []*RunGroup) []RunRecord {
	sorted := sortGroups(groups)
	records := make([]RunRecord, 0, len(sorted))
	for _, g := range sorted {
		id := g.Identity()
		extras := make(map[string]any, len(id.Params))
		for k, v := range id.Params {
			extras[k] = v
		}
		records = append(records, RunRecord{
			Synchronizer: id.Strategy,
			Function:     id.Region,
			Times:        g.Durations(),
			Extras:       extras,
		})
	}
	return records
}

// FileStore reads and writes a runs document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Save(doc RunsDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal runs: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Load returns an empty document when the file does not exist yet.
func (s *FileStore) Load() (*RunsDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RunsDocument{}, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return &RunsDocument{}, nil
	}
	return LoadRuns(bytes.NewReader(data))
}
