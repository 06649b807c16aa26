package csp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Status classifies the outcome of a search.
type Status int

const (
	// StatusInfeasible means every branch was explored and no complete
	// assignment satisfies the constraints.
	StatusInfeasible Status = iota
	// StatusSolved means Result.Assignment holds a complete solution.
	StatusSolved
	// StatusBudgetExceeded means the step or wall-clock budget ran out before
	// the search finished. Nothing is known about feasibility.
	StatusBudgetExceeded
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusInfeasible:
		return "infeasible"
	case StatusBudgetExceeded:
		return "budget-exceeded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Stats summarises the work a search performed.
type Stats struct {
	// Nodes counts candidate values tried.
	Nodes int
	// Backtracks counts levels whose domain was exhausted.
	Backtracks int
	// MaxDepth is the deepest level reached.
	MaxDepth int
	Elapsed  time.Duration
}

// Result is the outcome of Search.
type Result[V comparable, D any] struct {
	Status     Status
	Assignment Assignment[V, D]
	Stats      Stats
}

// Solved reports whether the result carries a complete assignment.
func (r Result[V, D]) Solved() bool {
	return r.Status == StatusSolved
}

type searchConfig struct {
	maxSteps int
	timeout  time.Duration
}

// SearchOption tunes a single Search call.
type SearchOption func(*searchConfig)

// WithMaxSteps caps the number of candidate values tried. Values <= 0 disable
// the cap.
func WithMaxSteps(n int) SearchOption {
	return func(cfg *searchConfig) {
		cfg.maxSteps = n
	}
}

// WithTimeout caps wall-clock time spent searching. Values <= 0 disable the
// cap. A deadline already carried by the context applies as well.
func WithTimeout(d time.Duration) SearchOption {
	return func(cfg *searchConfig) {
		cfg.timeout = d
	}
}

// Search runs backtracking search from an empty assignment.
func (p *Problem[V, D]) Search(ctx context.Context, opts ...SearchOption) (Result[V, D], error) {
	return p.SearchFrom(ctx, nil, opts...)
}

// SearchFrom runs backtracking search extending initial. Initial variables
// must be declared and mutually consistent; their values are not checked
// against the domains. The caller's map is never modified.
//
// Exhausting the search space yields StatusInfeasible, running out of budget
// (WithMaxSteps, WithTimeout or a context deadline) yields
// StatusBudgetExceeded. Only context cancellation is returned as an error.
func (p *Problem[V, D]) SearchFrom(ctx context.Context, initial Assignment[V, D], opts ...SearchOption) (Result[V, D], error) {
	cfg := searchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	assignment := make(Assignment[V, D], len(p.variables))
	for v, value := range initial {
		if !p.Has(v) {
			return Result[V, D]{}, problemError(ErrUnknownVariable, v)
		}
		assignment[v] = value
	}
	for v := range assignment {
		if !p.Consistent(v, assignment) {
			return Result[V, D]{}, problemError(ErrInconsistentInitial, v)
		}
	}

	order := make([]V, 0, len(p.variables))
	for _, v := range p.variables {
		if _, done := assignment[v]; !done {
			order = append(order, v)
		}
	}

	started := time.Now()
	s := &searcher[V, D]{problem: p, order: order, assignment: assignment, maxSteps: cfg.maxSteps}
	status, err := s.run(ctx)
	s.stats.Elapsed = time.Since(started)
	if err != nil {
		return Result[V, D]{Stats: s.stats}, err
	}
	result := Result[V, D]{Status: status, Stats: s.stats}
	if status == StatusSolved {
		result.Assignment = assignment.Clone()
	}
	return result, nil
}

// searcher holds the state of one search. stack[i] is the index of the next
// candidate value to try for order[i]; the stack depth equals the number of
// variables from order currently considered assigned.
type searcher[V comparable, D any] struct {
	problem    *Problem[V, D]
	order      []V
	assignment Assignment[V, D]
	maxSteps   int
	stats      Stats
}

func (s *searcher[V, D]) run(ctx context.Context) (Status, error) {
	if len(s.order) == 0 {
		return StatusSolved, nil
	}
	stack := make([]int, 1, len(s.order))
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return StatusBudgetExceeded, nil
			}
			return StatusInfeasible, ctx.Err()
		default:
		}

		depth := len(stack) - 1
		variable := s.order[depth]
		domain := s.problem.domains[variable]
		next := stack[depth]
		if next >= len(domain) {
			delete(s.assignment, variable)
			stack = stack[:depth]
			s.stats.Backtracks++
			continue
		}
		if s.maxSteps > 0 && s.stats.Nodes >= s.maxSteps {
			return StatusBudgetExceeded, nil
		}
		stack[depth] = next + 1
		s.stats.Nodes++
		if len(stack) > s.stats.MaxDepth {
			s.stats.MaxDepth = len(stack)
		}

		s.assignment[variable] = domain[next]
		if !s.problem.Consistent(variable, s.assignment) {
			continue
		}
		if depth+1 == len(s.order) {
			return StatusSolved, nil
		}
		stack = append(stack, 0)
	}
	return StatusInfeasible, nil
}
