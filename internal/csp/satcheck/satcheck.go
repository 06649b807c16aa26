// Package satcheck decides feasibility of a csp.Problem with a SAT solver.
// It is independent of the backtracking search and is used to tell "no
// schedule exists" apart from "the search ran out of budget".
package satcheck

import (
	"errors"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/kingrea/pubdate/internal/csp"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// DefaultMaxCombinations bounds how many value combinations a single
// constraint may expand to during encoding.
const DefaultMaxCombinations = 1 << 20

// ErrTooLarge is returned when a constraint's scope spans more value
// combinations than the configured limit.
var ErrTooLarge = errors.New("satcheck: constraint too large to encode")

// Report is the outcome of Check.
type Report[V comparable, D any] struct {
	Satisfiable bool
	// Witness satisfies every constraint when Satisfiable is true. It need
	// not match the backtracking search's first solution.
	Witness  csp.Assignment[V, D]
	Literals int
	Clauses  int
}

type options struct {
	maxCombinations int
}

// Option tunes Check.
type Option func(*options)

// WithMaxCombinations overrides DefaultMaxCombinations.
func WithMaxCombinations(n int) Option {
	return func(o *options) {
		o.maxCombinations = n
	}
}

type encoder[V comparable, D any] struct {
	problem *csp.Problem[V, D]
	g       *gini.Gini
	lits    map[V][]z.Lit
	next    z.Var
	clauses int
}

// Check encodes p as CNF (one literal per variable/value pair, exactly one
// value per variable, and one blocking clause per value combination a
// constraint rejects) and solves it.
func Check[V comparable, D any](p *csp.Problem[V, D], opts ...Option) (Report[V, D], error) {
	cfg := options{maxCombinations: DefaultMaxCombinations}
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &encoder[V, D]{
		problem: p,
		g:       gini.New(),
		lits:    map[V][]z.Lit{},
	}
	for _, v := range p.Variables() {
		e.encodeVariable(v)
	}
	for _, c := range p.Constraints() {
		if err := e.encodeConstraint(c, cfg.maxCombinations); err != nil {
			return Report[V, D]{}, err
		}
	}

	report := Report[V, D]{Literals: int(e.next), Clauses: e.clauses}
	switch e.g.Solve() {
	case satisfiable:
		report.Satisfiable = true
		report.Witness = e.model()
	case unsatisfiable:
	default:
		return report, fmt.Errorf("satcheck: solver returned an undetermined result")
	}
	return report, nil
}

func (e *encoder[V, D]) fresh() z.Lit {
	e.next++
	return e.next.Pos()
}

func (e *encoder[V, D]) clause(ms ...z.Lit) {
	for _, m := range ms {
		e.g.Add(m)
	}
	e.g.Add(z.LitNull)
	e.clauses++
}

func (e *encoder[V, D]) encodeVariable(v V) {
	domain := e.problem.Domain(v)
	lits := make([]z.Lit, len(domain))
	for i := range domain {
		lits[i] = e.fresh()
	}
	e.lits[v] = lits
	e.clause(lits...)
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			e.clause(lits[i].Not(), lits[j].Not())
		}
	}
}

func (e *encoder[V, D]) encodeConstraint(c csp.Constraint[V, D], limit int) error {
	scope := uniqueScope(c.Scope())
	combinations := 1
	for _, v := range scope {
		combinations *= len(e.lits[v])
		if combinations > limit {
			return fmt.Errorf("%w: %d variables exceed %d combinations", ErrTooLarge, len(scope), limit)
		}
	}
	domains := make([][]D, len(scope))
	for i, v := range scope {
		domains[i] = e.problem.Domain(v)
	}
	indices := make([]int, len(scope))
	assignment := make(csp.Assignment[V, D], len(scope))
	blocking := make([]z.Lit, len(scope))
	for {
		for i, v := range scope {
			assignment[v] = domains[i][indices[i]]
		}
		if !c.Satisfied(assignment) {
			for i, v := range scope {
				blocking[i] = e.lits[v][indices[i]].Not()
			}
			e.clause(blocking...)
		}
		if !advance(indices, domains) {
			return nil
		}
	}
}

// advance steps indices like an odometer, last position fastest. It reports
// false once every combination has been visited.
func advance[D any](indices []int, domains [][]D) bool {
	for i := len(indices) - 1; i >= 0; i-- {
		indices[i]++
		if indices[i] < len(domains[i]) {
			return true
		}
		indices[i] = 0
	}
	return false
}

func (e *encoder[V, D]) model() csp.Assignment[V, D] {
	out := make(csp.Assignment[V, D], len(e.lits))
	for _, v := range e.problem.Variables() {
		domain := e.problem.Domain(v)
		for i, m := range e.lits[v] {
			if e.g.Value(m) {
				out[v] = domain[i]
				break
			}
		}
	}
	return out
}

func uniqueScope[V comparable](scope []V) []V {
	seen := make(map[V]struct{}, len(scope))
	out := make([]V, 0, len(scope))
	for _, v := range scope {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
