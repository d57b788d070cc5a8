package benchmark

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CommentPrefix marks raw timing lines that are skipped.
const CommentPrefix = "//"

const nanosPerSecond = 1_000_000_000

// ParseLines parses raw timing lines of the form
//
//	<iteration-tag> <strategy> <region> <seconds>.<nanoseconds>
//
// Comment and blank lines are skipped. The first malformed line aborts the
// whole batch and no samples are returned.
func ParseLines(lines []string) ([]Sample, error) {
	samples := make([]Sample, 0, len(lines))
	for i, line := range lines {
		s, ok, err := parseLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, s)
		}
	}
	return samples, nil
}

// ParseReader reads raw timing lines from r. See ParseLines.
func ParseReader(r io.Reader) ([]Sample, error) {
	var samples []Sample
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		s, ok, err := parseLine(lineNum, scanner.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			samples = append(samples, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read timing lines: %w", err)
	}
	return samples, nil
}

func parseLine(lineNum int, raw string) (Sample, bool, error) {
	line := strings.TrimRight(raw, "\r\n")
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return Sample{}, false, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Sample{}, false, &ParseError{
			Line:    lineNum,
			Content: line,
			Reason:  fmt.Sprintf("expected 4 fields, got %d", len(fields)),
		}
	}

	duration, err := ParseDuration(fields[3])
	if err != nil {
		return Sample{}, false, &ParseError{Line: lineNum, Content: line, Reason: err.Error()}
	}

	return Sample{
		Strategy: fields[1],
		Region:   fields[2],
		Duration: duration,
	}, true, nil
}

// ParseDuration converts a "<seconds>.<nanoseconds>" field into seconds.
// The nanosecond part is taken as an integer count, so "1.5" is 1s + 5ns.
func ParseDuration(field string) (float64, error) {
	parts := strings.Split(field, ".")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time field %q is not <seconds>.<nanoseconds>", field)
	}

	seconds, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q", field)
	}
	nanos, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid nanoseconds in %q", field)
	}

	return float64(seconds) + float64(nanos)/nanosPerSecond, nil
}
