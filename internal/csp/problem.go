// Package csp is a small, generic constraint-satisfaction engine. A Problem
// owns an ordered variable set, an ordered candidate domain per variable and
// the constraints registered against those variables. Search walks the
// assignment space depth first and returns the first complete assignment that
// satisfies every constraint.
//
// Consistency is only checked for the variable just assigned, against the
// constraints whose other variables are already assigned. There is no
// propagation, forward checking or arc consistency, so the traversal order is
// exactly "variables in declaration order, values in domain order".
package csp

// Assignment maps variables to their chosen value. During search it is a
// partial assignment; a solved Result carries a complete one.
type Assignment[V comparable, D any] map[V]D

// Clone returns a shallow copy of the assignment.
func (a Assignment[V, D]) Clone() Assignment[V, D] {
	out := make(Assignment[V, D], len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Constraint restricts which combinations of values are legal. Satisfied must
// return true when any variable in Scope is missing from the assignment.
type Constraint[V comparable, D any] interface {
	Scope() []V
	Satisfied(assignment Assignment[V, D]) bool
}

// Problem is one constraint-satisfaction instance. It is read-only during
// Search, so one Problem may back several sequential searches; concurrent
// searches need no locking either because each owns its assignment.
type Problem[V comparable, D any] struct {
	variables   []V
	index       map[V]int
	domains     map[V][]D
	constraints []Constraint[V, D]
	byVariable  map[V][]Constraint[V, D]
}

// New declares the variables and their domains. Every variable must be unique
// and own a non-empty domain; domains for undeclared variables are ignored.
func New[V comparable, D any](variables []V, domains map[V][]D) (*Problem[V, D], error) {
	p := &Problem[V, D]{
		variables:  make([]V, 0, len(variables)),
		index:      make(map[V]int, len(variables)),
		domains:    make(map[V][]D, len(variables)),
		byVariable: make(map[V][]Constraint[V, D], len(variables)),
	}
	for _, v := range variables {
		if _, dup := p.index[v]; dup {
			return nil, problemError(ErrDuplicateVariable, v)
		}
		domain, ok := domains[v]
		if !ok {
			return nil, problemError(ErrMissingDomain, v)
		}
		if len(domain) == 0 {
			return nil, problemError(ErrEmptyDomain, v)
		}
		p.index[v] = len(p.variables)
		p.variables = append(p.variables, v)
		p.domains[v] = append([]D(nil), domain...)
	}
	return p, nil
}

// AddConstraint registers c against every variable in its scope. Nothing is
// registered when the scope names an undeclared variable.
func (p *Problem[V, D]) AddConstraint(c Constraint[V, D]) error {
	scope := c.Scope()
	if len(scope) == 0 {
		return problemError(ErrEmptyScope, nil)
	}
	for _, v := range scope {
		if _, ok := p.index[v]; !ok {
			return problemError(ErrUnknownVariable, v)
		}
	}
	p.constraints = append(p.constraints, c)
	for _, v := range scope {
		p.byVariable[v] = append(p.byVariable[v], c)
	}
	return nil
}

// Consistent reports whether every constraint registered against variable is
// satisfied by assignment.
func (p *Problem[V, D]) Consistent(variable V, assignment Assignment[V, D]) bool {
	for _, c := range p.byVariable[variable] {
		if !c.Satisfied(assignment) {
			return false
		}
	}
	return true
}

// Variables returns the variables in declaration order.
func (p *Problem[V, D]) Variables() []V {
	return append([]V(nil), p.variables...)
}

// Domain returns the candidate values of v in domain order.
func (p *Problem[V, D]) Domain(v V) []D {
	return append([]D(nil), p.domains[v]...)
}

// Constraints returns every registered constraint in registration order.
func (p *Problem[V, D]) Constraints() []Constraint[V, D] {
	return append([]Constraint[V, D](nil), p.constraints...)
}

// ConstraintsOf returns the constraints registered against v.
func (p *Problem[V, D]) ConstraintsOf(v V) []Constraint[V, D] {
	return append([]Constraint[V, D](nil), p.byVariable[v]...)
}

// Has reports whether v is a declared variable.
func (p *Problem[V, D]) Has(v V) bool {
	_, ok := p.index[v]
	return ok
}
