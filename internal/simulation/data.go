// Package simulation ties timing data to the simulation configuration that
// produced it and runs the analysis of one or several configurations.
package simulation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

const (
	DataFile = "data.json"
	RunsFile = "runs.json"
)

// Data describes one simulation configuration: problem dimensions, thread
// count, whether active waiting was used and the iteration count.
type Data struct {
	Path       string `json:"path"`
	W          int    `json:"w"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Z          int    `json:"z"`
	Threads    int    `json:"threads"`
	Active     bool   `json:"active"`
	Iterations int    `json:"iterations"`
}

// LoadData reads data.json from dir. Path is set to dir.
func LoadData(dir string) (*Data, error) {
	raw, err := os.ReadFile(filepath.Join(dir, DataFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation data: %w", err)
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Join(dir, DataFile), err)
	}
	d.Path = dir
	return &d, nil
}

// Save writes the configuration as JSON to path.
func (d *Data) Save(path string) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal simulation data: %w", err)
	}
	return os.WriteFile(path, raw, 0644)
}

// Dimensions renders "w * x * y * z".
func (d *Data) Dimensions() string {
	return fmt.Sprintf("%d * %d * %d * %d", d.W, d.X, d.Y, d.Z)
}

// Key identifies the configuration independently of where it is stored.
func (d *Data) Key() string {
	return fmt.Sprintf("%dx%dx%dx%d/t%d/active=%t/it%d", d.W, d.X, d.Y, d.Z, d.Threads, d.Active, d.Iterations)
}

func (d *Data) String() string {
	var b strings.Builder
	fmt.Fprintln(&b, "Simulation:")
	fmt.Fprintf(&b, "\tData path: %s\n", d.Path)
	fmt.Fprintf(&b, "\tThreads: %d\n", d.Threads)
	fmt.Fprintf(&b, "\tActive promise: %t\n", d.Active)
	fmt.Fprintf(&b, "\tProblem size: %d x %d x %d x %d\n", d.W, d.X, d.Y, d.Z)
	fmt.Fprintf(&b, "\tLoops: %d", d.Iterations)
	return b.String()
}
