package dependency

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName         = errors.New("empty document name")
	ErrDuplicateDocument = errors.New("duplicate document")
	ErrUnknownDocument   = errors.New("unknown document")
	ErrCycle             = errors.New("dependency cycle")
)

// GraphError is a categorized table or graph failure. Kind is one of the
// sentinels above.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return "dependency: " + e.Kind.Error()
	}
	return fmt.Sprintf("dependency: %s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func graphErrorf(kind error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	return &GraphError{Kind: ErrCycle, Msg: strings.Join(path, " -> ")}
}
