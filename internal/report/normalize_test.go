package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const refMatrix = `,"a","b","c"
a,1.0,0.5,0.25
b,2.0,1.0,0.5
c,4.0,2.0,1.0
`

// Same matrix with rows and columns in the order c, a, b.
const shuffledMatrix = `,"c","a","b"
c,1.0,4.0,2.0
a,0.25,1.0,0.5
b,0.5,2.0,1.0
`

func TestNormalizeMatrix(t *testing.T) {
	ref, err := ReadMatrix(strings.NewReader(refMatrix))
	require.NoError(t, err)
	work, err := ReadMatrix(strings.NewReader(shuffledMatrix))
	require.NoError(t, err)

	out, err := NormalizeMatrix(ref, work)
	require.NoError(t, err)
	assert.Equal(t, ref, out)
}

func TestNormalizeMatrix_Mismatch(t *testing.T) {
	ref, err := ReadMatrix(strings.NewReader(refMatrix))
	require.NoError(t, err)

	tests := []struct {
		name string
		work string
	}{
		{"fewer rows", ",\"a\",\"b\",\"c\"\na,1,2,3\n"},
		{"unknown label", ",\"a\",\"b\",\"d\"\na,1,2,3\nb,1,2,3\nd,1,2,3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, err := ReadMatrix(strings.NewReader(tt.work))
			require.NoError(t, err)
			_, err = NormalizeMatrix(ref, work)
			assert.ErrorIs(t, err, ErrMatrixMismatch)
		})
	}
}

func TestNormalizeFile(t *testing.T) {
	ref, err := ReadMatrix(strings.NewReader(refMatrix))
	require.NoError(t, err)

	want := `"","a","b","c"
"a",1.0,0.5,0.25
"b",2.0,1.0,0.5
"c",4.0,2.0,1.0
`

	t.Run("copy", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "matrix.csv")
		require.NoError(t, os.WriteFile(path, []byte(shuffledMatrix), 0644))

		target, err := NormalizeFile(ref, path, false, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "matrix_normalized.csv"), target)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))

		original, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, shuffledMatrix, string(original))
	})

	t.Run("in place with backup", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "matrix.csv")
		require.NoError(t, os.WriteFile(path, []byte(shuffledMatrix), 0644))

		target, err := NormalizeFile(ref, path, true, ".bak")
		require.NoError(t, err)
		assert.Equal(t, path, target)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))

		backup, err := os.ReadFile(path + ".bak")
		require.NoError(t, err)
		assert.Equal(t, shuffledMatrix, string(backup))
	})
}
