package schedule

import (
	"fmt"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

// Kind tags the constraint variants.
type Kind int

const (
	KindPrecedence Kind = iota + 1
	KindGappedPrecedence
)

func (k Kind) String() string {
	switch k {
	case KindPrecedence:
		return "precedence"
	case KindGappedPrecedence:
		return "gapped-precedence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Constraint is implemented by Precedence and GappedPrecedence only.
type Constraint interface {
	csp.Constraint[string, calendar.Date]
	Kind() Kind
	// Endpoints returns the document published first and the one after it.
	Endpoints() (before, after string)
	String() string
}

var (
	_ Constraint = Precedence{}
	_ Constraint = GappedPrecedence{}
)

// Precedence requires Before to be published strictly earlier than After.
type Precedence struct {
	Before string
	After  string
}

func (c Precedence) Scope() []string { return []string{c.Before, c.After} }

func (c Precedence) Satisfied(a csp.Assignment[string, calendar.Date]) bool {
	before, okBefore := a[c.Before]
	after, okAfter := a[c.After]
	if !okBefore || !okAfter {
		return true
	}
	return before.Before(after)
}

func (c Precedence) Kind() Kind { return KindPrecedence }

func (c Precedence) Endpoints() (string, string) { return c.Before, c.After }

func (c Precedence) String() string {
	return fmt.Sprintf("%s must be published before %s", c.Before, c.After)
}

// GappedPrecedence requires After to fall at least MinGapDays calendar days
// after Before. It links a test procedure to its report.
type GappedPrecedence struct {
	Before     string
	After      string
	MinGapDays int
	Tier       vocabulary.Tier
}

func (c GappedPrecedence) Scope() []string { return []string{c.Before, c.After} }

func (c GappedPrecedence) Satisfied(a csp.Assignment[string, calendar.Date]) bool {
	before, okBefore := a[c.Before]
	after, okAfter := a[c.After]
	if !okBefore || !okAfter {
		return true
	}
	return !before.AddDays(c.MinGapDays).After(after)
}

func (c GappedPrecedence) Kind() Kind { return KindGappedPrecedence }

func (c GappedPrecedence) Endpoints() (string, string) { return c.Before, c.After }

func (c GappedPrecedence) String() string {
	unit := "days"
	if c.MinGapDays == 1 {
		unit = "day"
	}
	if c.Tier != "" {
		return fmt.Sprintf("%s must follow %s by at least %d %s (%s test)", c.After, c.Before, c.MinGapDays, unit, c.Tier)
	}
	return fmt.Sprintf("%s must follow %s by at least %d %s", c.After, c.Before, c.MinGapDays, unit)
}
