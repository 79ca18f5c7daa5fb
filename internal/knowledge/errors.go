package knowledge

import (
	"errors"
	"strings"
)

// ErrUnknownItem is returned when a catalog id does not exist.
var ErrUnknownItem = errors.New("knowledge: unknown catalog item")

// ValidationError collects every problem found while building reference data,
// so a bad file reports all of its issues at once.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return "knowledge: invalid " + e.Subject + ": " + strings.Join(e.Problems, "; ")
}

// HasProblems reports whether anything was recorded.
func (e *ValidationError) HasProblems() bool {
	return e != nil && len(e.Problems) > 0
}

func (e *ValidationError) add(problem string) {
	e.Problems = append(e.Problems, problem)
}
