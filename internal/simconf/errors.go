package simconf

import (
	"errors"
	"strings"
)

// ErrNoElements is returned when LJ parameters must be generated but the
// configuration carries no elements to derive them from.
var ErrNoElements = errors.New("cannot generate LJ params: no elements provided")

// MalformedLJParamsError collects the issues found in an explicit
// lj_params mapping. The whole load fails; no partial parameters are kept.
type MalformedLJParamsError struct {
	Issues []string
}

func (e *MalformedLJParamsError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid lj_params: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "lj_params validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *MalformedLJParamsError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *MalformedLJParamsError) HasIssues() bool {
	return len(e.Issues) > 0
}
