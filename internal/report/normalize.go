package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMatrixMismatch is returned when a matrix cannot be reordered to match a
// reference matrix.
var ErrMatrixMismatch = errors.New("matrix does not match reference")

// ReadMatrix reads a double entry CSV table: a header row of column labels
// after an empty corner cell, then one labelled row per column.
func ReadMatrix(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix: %w", err)
	}
	return rows, nil
}

// ReadMatrixFile reads a matrix CSV from disk.
func ReadMatrixFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMatrix(f)
}

// NormalizeMatrix reorders the rows of work, and the matching columns, so
// that its labels follow the order of ref. Both tables must have the same
// shape and label set.
func NormalizeMatrix(ref, work [][]string) ([][]string, error) {
	if len(ref) != len(work) {
		return nil, fmt.Errorf("%w: %d rows, reference has %d", ErrMatrixMismatch, len(work), len(ref))
	}
	for i := range ref {
		if len(ref[i]) != len(work[i]) {
			return nil, fmt.Errorf("%w: row %d has %d cells, reference has %d", ErrMatrixMismatch, i, len(work[i]), len(ref[i]))
		}
	}
	if len(ref) == 0 {
		return [][]string{}, nil
	}

	rowOf := make(map[string]int, len(work)-1)
	for i := 1; i < len(work); i++ {
		if len(work[i]) == 0 {
			return nil, fmt.Errorf("%w: row %d is empty", ErrMatrixMismatch, i)
		}
		rowOf[work[i][0]] = i
	}

	// perm[k] is the work row that ends up at position k.
	perm := make([]int, len(ref))
	for k := 1; k < len(ref); k++ {
		if len(ref[k]) == 0 {
			return nil, fmt.Errorf("%w: reference row %d is empty", ErrMatrixMismatch, k)
		}
		src, ok := rowOf[ref[k][0]]
		if !ok {
			return nil, fmt.Errorf("%w: label %q not found", ErrMatrixMismatch, ref[k][0])
		}
		perm[k] = src
	}

	out := make([][]string, len(work))
	for k := range out {
		src := work[perm[k]]
		row := make([]string, len(src))
		for c := range src {
			if c < len(perm) && c > 0 {
				row[c] = src[perm[c]]
			} else {
				row[c] = src[c]
			}
		}
		out[k] = row
	}

	for i := range ref {
		if out[i][0] != ref[i][0] {
			return nil, fmt.Errorf("%w: row %d label %q, reference has %q", ErrMatrixMismatch, i, out[i][0], ref[i][0])
		}
		if i < len(ref[0]) && out[0][i] != ref[0][i] {
			return nil, fmt.Errorf("%w: column %d label %q, reference has %q", ErrMatrixMismatch, i, out[0][i], ref[0][i])
		}
	}
	return out, nil
}

// WriteNormalizedMatrix writes a table with every header cell quoted and
// the label of each row quoted.
func WriteNormalizedMatrix(w io.Writer, rows [][]string) error {
	for i, row := range rows {
		var line string
		if i == 0 {
			quoted := make([]string, len(row))
			for j, c := range row {
				quoted[j] = `"` + c + `"`
			}
			line = strings.Join(quoted, ",")
		} else if len(row) > 0 {
			line = `"` + row[0] + `"`
			if len(row) > 1 {
				line += "," + strings.Join(row[1:], ",")
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// NormalizedPath returns the output path of a non in-place normalization.
func NormalizedPath(path string) string {
	return strings.ReplaceAll(path, ".csv", "_normalized.csv")
}

// NormalizeFile reorders the matrix stored at path to follow ref and writes
// the result. In place rewrites keep a backup named path+suffix when the
// suffix is not empty. It returns the path written.
func NormalizeFile(ref [][]string, path string, inPlace bool, suffix string) (string, error) {
	work, err := ReadMatrixFile(path)
	if err != nil {
		return "", err
	}
	out, err := NormalizeMatrix(ref, work)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	target := NormalizedPath(path)
	if inPlace {
		target = path
		if suffix != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			if err := os.WriteFile(path+suffix, raw, 0644); err != nil {
				return "", fmt.Errorf("failed to write backup: %w", err)
			}
		}
	}

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := WriteNormalizedMatrix(f, out); err != nil {
		f.Close()
		return "", err
	}
	return target, f.Close()
}
