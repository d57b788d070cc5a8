package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh root command with args and returns its stdout
// and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const timingLog = `// strategy timings
0 a f 1.000000000
0 a f 3.000000000

0 b f 2.000000000
`

const dataJSON = `{"w": 4, "x": 8, "y": 16, "z": 32, "threads": 8, "active": false, "iterations": 10}`

const runsJSON = `{"runs": [
  {"synchronizer": "static_step", "function": "run", "times": [5.0], "extras": {"step": 1}},
  {"synchronizer": "static_step", "function": "run", "times": [2.0, 4.0], "extras": {"step": 2}},
  {"synchronizer": "naive_promise", "function": "run", "times": [10.0], "extras": {}}
]}`

func simulationDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "data.json", dataJSON)
	writeFile(t, dir, "runs.json", runsJSON)
	return dir
}
