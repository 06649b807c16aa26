package csp

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownVariable     = errors.New("unknown variable")
	ErrDuplicateVariable   = errors.New("duplicate variable")
	ErrMissingDomain       = errors.New("missing domain")
	ErrEmptyDomain         = errors.New("empty domain")
	ErrEmptyScope          = errors.New("constraint has no variables")
	ErrInconsistentInitial = errors.New("inconsistent initial assignment")
)

// ProblemError reports a setup failure for a specific variable. Kind is one
// of the sentinel errors above so callers can branch with errors.Is.
type ProblemError struct {
	Kind     error
	Variable any
}

func (e *ProblemError) Error() string {
	if e == nil {
		return ""
	}
	if e.Variable == nil {
		return "csp: " + e.Kind.Error()
	}
	return fmt.Sprintf("csp: %s: %v", e.Kind.Error(), e.Variable)
}

func (e *ProblemError) Unwrap() error { return e.Kind }

func problemError(kind error, variable any) error {
	return &ProblemError{Kind: kind, Variable: variable}
}
