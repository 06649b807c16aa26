package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoped struct {
	vars []string
}

func (s scoped) Scope() []string { return s.vars }

func (s scoped) Satisfied(Assignment[string, int]) bool { return true }

func TestNewRejectsBadDomains(t *testing.T) {
	tests := []struct {
		name    string
		vars    []string
		domains map[string][]int
		want    error
	}{
		{name: "missing", vars: []string{"a", "b"}, domains: map[string][]int{"a": {1}}, want: ErrMissingDomain},
		{name: "empty", vars: []string{"a"}, domains: map[string][]int{"a": nil}, want: ErrEmptyDomain},
		{name: "duplicate", vars: []string{"a", "a"}, domains: map[string][]int{"a": {1}}, want: ErrDuplicateVariable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vars, tt.domains)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewCopiesDomains(t *testing.T) {
	domain := []int{1, 2}
	p, err := New([]string{"a"}, map[string][]int{"a": domain, "ignored": {9}})
	require.NoError(t, err)

	domain[0] = 99

	assert.Equal(t, []int{1, 2}, p.Domain("a"))
	assert.False(t, p.Has("ignored"))
	assert.Equal(t, []string{"a"}, p.Variables())
}

func TestAddConstraintRejectsUnknownVariable(t *testing.T) {
	p, err := New([]string{"a", "b"}, map[string][]int{"a": {1}, "b": {1}})
	require.NoError(t, err)

	err = p.AddConstraint(scoped{vars: []string{"a", "c"}})

	require.ErrorIs(t, err, ErrUnknownVariable)
	assert.Empty(t, p.Constraints())
	assert.Empty(t, p.ConstraintsOf("a"), "a rejected constraint must not be half registered")

	require.ErrorIs(t, p.AddConstraint(scoped{}), ErrEmptyScope)
}

func TestAddConstraintRegistersEveryScopedVariable(t *testing.T) {
	p, err := New([]string{"a", "b", "c"}, map[string][]int{"a": {1}, "b": {1}, "c": {1}})
	require.NoError(t, err)

	require.NoError(t, p.AddConstraint(scoped{vars: []string{"a", "b"}}))
	require.NoError(t, p.AddConstraint(scoped{vars: []string{"b", "c"}}))

	assert.Len(t, p.ConstraintsOf("a"), 1)
	assert.Len(t, p.ConstraintsOf("b"), 2)
	assert.Len(t, p.ConstraintsOf("c"), 1)
	assert.Len(t, p.Constraints(), 2)
}

func TestConsistentOnlyLooksAtRegisteredConstraints(t *testing.T) {
	p, err := New([]string{"a", "b", "c"}, map[string][]int{"a": {1}, "b": {1}, "c": {1}})
	require.NoError(t, err)
	require.NoError(t, p.AddConstraint(lessThan{"a", "b"}))

	bad := Assignment[string, int]{"a": 2, "b": 1, "c": 0}

	assert.False(t, p.Consistent("a", bad))
	assert.False(t, p.Consistent("b", bad))
	assert.True(t, p.Consistent("c", bad))
	assert.True(t, p.Consistent("a", Assignment[string, int]{"a": 2}), "unassigned partner is vacuously fine")
}

func TestAssignmentClone(t *testing.T) {
	a := Assignment[string, int]{"x": 1}
	b := a.Clone()
	b["x"] = 2
	assert.Equal(t, 1, a["x"])
}
