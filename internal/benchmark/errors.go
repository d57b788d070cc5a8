package benchmark

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("malformed timing record")
	// ErrStatistics matches any *StatisticsError.
	ErrStatistics = errors.New("statistics unavailable")
	// ErrSelection matches any *SelectionError.
	ErrSelection = errors.New("selection failed")
)

// ParseError reports a raw timing line that could not be parsed.
type ParseError struct {
	Line    int // 1-based, counting comment lines
	Content string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Content)
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.Content)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// StatisticsError reports statistics requested on an empty group.
type StatisticsError struct {
	Identity Identity
	Reason   string
}

func (e *StatisticsError) Error() string {
	if e.Identity.Strategy == "" && e.Identity.Region == "" {
		return "statistics: " + e.Reason
	}
	return fmt.Sprintf("statistics for %s: %s", e.Identity.Name(), e.Reason)
}

func (e *StatisticsError) Is(target error) bool {
	return target == ErrStatistics
}

// SelectionError reports that no best strategy could be chosen.
type SelectionError struct {
	Family string // set when a required family was missing
	Reason string
}

func (e *SelectionError) Error() string {
	if e.Family != "" {
		return fmt.Sprintf("selection of %s: %s", e.Family, e.Reason)
	}
	return "selection: " + e.Reason
}

func (e *SelectionError) Is(target error) bool {
	return target == ErrSelection
}
