// Package schedule assigns publication dates to documents. A Plan wires the
// dependency edges, milestone anchors and test durations into one csp.Problem
// and searches it for the first consistent set of dates.
package schedule

import (
	"errors"
	"fmt"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/dependency"
	"github.com/kingrea/pubdate/internal/domains"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

// ErrInvalidDuration is returned when a test duration is below one day.
var ErrInvalidDuration = errors.New("schedule: test duration must be at least 1 day")

// TestDurations are the minimum gaps, in calendar days, between a test
// procedure and its report for each tier.
type TestDurations struct {
	Component   int `yaml:"component"`
	Integration int `yaml:"integration"`
	System      int `yaml:"system"`
}

// DefaultDurations gives every tier three days.
func DefaultDurations() TestDurations {
	return TestDurations{Component: 3, Integration: 3, System: 3}
}

// For returns the duration of tier, or 0 for an unknown tier.
func (d TestDurations) For(tier vocabulary.Tier) int {
	switch tier {
	case vocabulary.TierComponent:
		return d.Component
	case vocabulary.TierIntegration:
		return d.Integration
	case vocabulary.TierSystem:
		return d.System
	default:
		return 0
	}
}

// Validate checks every duration is >= 1.
func (d TestDurations) Validate() error {
	for _, tier := range vocabulary.Tiers {
		if n := d.For(tier); n < 1 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidDuration, tier, n)
		}
	}
	return nil
}

// Request carries everything one solve needs. A nil Vocabulary selects
// vocabulary.Default().
type Request struct {
	Milestones domains.Milestones
	Holidays   calendar.Holidays
	Documents  []string
	Edges      []dependency.Edge
	Durations  TestDurations
	Vocabulary *vocabulary.Vocabulary
}

// Plan is a validated, ready-to-solve scheduling problem. It is read-only
// after NewPlan, so Solve may be called repeatedly.
type Plan struct {
	documents   []string
	vocab       vocabulary.Vocabulary
	built       domains.Result
	problem     *csp.Problem[string, calendar.Date]
	constraints []Constraint
}

// NewPlan builds the domains and constraints for req. Invalid durations,
// empty domains and edges naming unknown documents fail here, before any
// search starts.
func NewPlan(req Request) (*Plan, error) {
	if err := req.Durations.Validate(); err != nil {
		return nil, err
	}
	vocab := vocabulary.Default()
	if req.Vocabulary != nil {
		vocab = *req.Vocabulary
	}

	built := domains.Build(req.Milestones, req.Holidays, req.Documents, vocab)
	problem, err := csp.New(req.Documents, built.Domains)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}

	p := &Plan{
		documents: append([]string(nil), req.Documents...),
		vocab:     vocab,
		built:     built,
		problem:   problem,
	}
	for _, edge := range req.Edges {
		if err := p.add(Precedence{Before: edge.From, After: edge.To}); err != nil {
			return nil, err
		}
		pair, ok := vocab.Pair(edge.From, edge.To)
		if !ok {
			continue
		}
		gapped := GappedPrecedence{
			Before:     edge.From,
			After:      edge.To,
			MinGapDays: req.Durations.For(pair.Tier),
			Tier:       pair.Tier,
		}
		if err := p.add(gapped); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Plan) add(c Constraint) error {
	if err := p.problem.AddConstraint(c); err != nil {
		return fmt.Errorf("schedule: %s: %w", c, err)
	}
	p.constraints = append(p.constraints, c)
	return nil
}

// Documents returns the scheduled documents in solve order.
func (p *Plan) Documents() []string {
	return append([]string(nil), p.documents...)
}

// Domains returns a copy of every document's candidate dates.
func (p *Plan) Domains() map[string][]calendar.Date {
	out := make(map[string][]calendar.Date, len(p.documents))
	for _, doc := range p.documents {
		out[doc] = p.problem.Domain(doc)
	}
	return out
}

// Pools returns the three working-day windows.
func (p *Plan) Pools() domains.Pools {
	return p.built.Pools
}

// PoolOf reports which window doc is drawn from.
func (p *Plan) PoolOf(doc string) (domains.Pool, bool) {
	return p.built.PoolOf(doc)
}

// Constraints returns the constraints in registration order.
func (p *Plan) Constraints() []Constraint {
	return append([]Constraint(nil), p.constraints...)
}

// Problem exposes the underlying constraint problem, e.g. for satcheck.
func (p *Plan) Problem() *csp.Problem[string, calendar.Date] {
	return p.problem
}

// Violation describes one broken rule in a set of dates. Constraint is nil
// when the date itself is missing or outside the document's domain.
type Violation struct {
	Document   string
	Constraint Constraint
	Message    string
}

// Violations checks dates, typically a solution the user has edited, against
// every domain and constraint. Documents are reported in solve order, then
// constraint violations in registration order.
func (p *Plan) Violations(dates map[string]calendar.Date) []Violation {
	var out []Violation
	for _, doc := range p.documents {
		date, ok := dates[doc]
		if !ok || date.IsZero() {
			out = append(out, Violation{Document: doc, Message: fmt.Sprintf("%s has no date", doc)})
			continue
		}
		if !contains(p.problem.Domain(doc), date) {
			pool, _ := p.built.PoolOf(doc)
			out = append(out, Violation{
				Document: doc,
				Message:  fmt.Sprintf("%s on %s is outside its %s dates", doc, date, pool),
			})
		}
	}
	assignment := make(csp.Assignment[string, calendar.Date], len(dates))
	for doc, date := range dates {
		if !date.IsZero() {
			assignment[doc] = date
		}
	}
	for _, c := range p.constraints {
		if c.Satisfied(assignment) {
			continue
		}
		_, after := c.Endpoints()
		out = append(out, Violation{Document: after, Constraint: c, Message: c.String()})
	}
	return out
}

func contains(dates []calendar.Date, target calendar.Date) bool {
	for _, d := range dates {
		if d.Equal(target) {
			return true
		}
	}
	return false
}

// Vocabulary returns the vocabulary the plan was classified with.
func (p *Plan) Vocabulary() vocabulary.Vocabulary {
	return p.vocab
}
