// Package domains turns milestone dates and the document vocabulary into the
// candidate publication dates of every document.
package domains

import (
	"errors"
	"fmt"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/dependency"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

// ErrMilestoneOrder is returned by Milestones.Validate.
var ErrMilestoneOrder = errors.New("milestones out of order")

// Milestones are the four anchor dates. Spec, Design and Impl pin the
// milestone documents; together with End they bound the three pools.
type Milestones struct {
	Spec   calendar.Date `yaml:"spec"`
	Design calendar.Date `yaml:"design"`
	Impl   calendar.Date `yaml:"impl"`
	End    calendar.Date `yaml:"end"`
}

// Validate checks that every anchor is set and spec <= design <= impl <= end.
// Build does not call it: out-of-order anchors only produce empty pools.
func (m Milestones) Validate() error {
	anchors := []struct {
		name string
		date calendar.Date
	}{
		{"spec", m.Spec},
		{"design", m.Design},
		{"impl", m.Impl},
		{"end", m.End},
	}
	for i, a := range anchors {
		if a.date.IsZero() {
			return fmt.Errorf("domains: milestone %s is not set", a.name)
		}
		if i > 0 && a.date.Before(anchors[i-1].date) {
			return fmt.Errorf("domains: %w: %s %s is before %s %s",
				ErrMilestoneOrder, a.name, a.date, anchors[i-1].name, anchors[i-1].date)
		}
	}
	return nil
}

// Pool names the selector a document's domain came from.
type Pool int

const (
	PoolRemaining Pool = iota
	PoolMilestone
	PoolSpec
	PoolDesign
)

func (p Pool) String() string {
	switch p {
	case PoolMilestone:
		return "milestone"
	case PoolSpec:
		return "spec"
	case PoolDesign:
		return "design"
	case PoolRemaining:
		return "remaining"
	default:
		return fmt.Sprintf("pool(%d)", int(p))
	}
}

// Pools holds the working days of each window, ascending.
type Pools struct {
	Spec      []calendar.Date
	Design    []calendar.Date
	Remaining []calendar.Date
}

// Result is the output of Build.
type Result struct {
	Pools   Pools
	Domains map[string][]calendar.Date

	selectors map[string]Pool
}

// PoolOf reports which selector produced doc's domain.
func (r Result) PoolOf(doc string) (Pool, bool) {
	p, ok := r.selectors[doc]
	return p, ok
}

// Classify maps a document name to its selector. Names the vocabulary does
// not mention fall back to PoolRemaining.
func Classify(vocab vocabulary.Vocabulary, name string) Pool {
	name = dependency.Normalize(name)
	switch name {
	case vocab.Milestones.Spec, vocab.Milestones.Design, vocab.Milestones.Impl:
		if name != "" {
			return PoolMilestone
		}
	}
	for _, n := range vocab.Pools.Spec {
		if n == name {
			return PoolSpec
		}
	}
	for _, n := range vocab.Pools.Design {
		if n == name {
			return PoolDesign
		}
	}
	return PoolRemaining
}

// Build computes the three pools and one domain per document. Milestone
// documents get a singleton domain holding their anchor date, even when that
// date is not a working day. Each domain is a fresh slice.
func Build(m Milestones, holidays calendar.Holidays, documents []string, vocab vocabulary.Vocabulary) Result {
	res := Result{
		Pools: Pools{
			Spec:      calendar.WorkingDays(m.Spec, m.Design, holidays),
			Design:    calendar.WorkingDays(m.Design, m.Impl, holidays),
			Remaining: calendar.WorkingDays(m.Impl, m.End, holidays),
		},
		Domains:   make(map[string][]calendar.Date, len(documents)),
		selectors: make(map[string]Pool, len(documents)),
	}
	for _, doc := range documents {
		pool := Classify(vocab, doc)
		res.selectors[doc] = pool
		switch pool {
		case PoolMilestone:
			res.Domains[doc] = []calendar.Date{anchorOf(m, vocab, dependency.Normalize(doc))}
		case PoolSpec:
			res.Domains[doc] = clone(res.Pools.Spec)
		case PoolDesign:
			res.Domains[doc] = clone(res.Pools.Design)
		default:
			res.Domains[doc] = clone(res.Pools.Remaining)
		}
	}
	return res
}

func anchorOf(m Milestones, vocab vocabulary.Vocabulary, name string) calendar.Date {
	switch name {
	case vocab.Milestones.Spec:
		return m.Spec
	case vocab.Milestones.Design:
		return m.Design
	default:
		return m.Impl
	}
}

func clone(dates []calendar.Date) []calendar.Date {
	if len(dates) == 0 {
		return []calendar.Date{}
	}
	out := make([]calendar.Date, len(dates))
	copy(out, dates)
	return out
}
