package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

func at(values map[string]string) csp.Assignment[string, calendar.Date] {
	out := csp.Assignment[string, calendar.Date]{}
	for doc, v := range values {
		out[doc] = calendar.MustParse(v)
	}
	return out
}

func TestPrecedenceIsStrict(t *testing.T) {
	c := Precedence{Before: "a", After: "b"}

	assert.True(t, c.Satisfied(at(map[string]string{"a": "2023-01-03", "b": "2023-01-04"})))
	assert.False(t, c.Satisfied(at(map[string]string{"a": "2023-01-04", "b": "2023-01-04"})))
	assert.False(t, c.Satisfied(at(map[string]string{"a": "2023-01-05", "b": "2023-01-04"})))
	assert.True(t, c.Satisfied(at(map[string]string{"a": "2023-01-05"})), "unassigned partner")
	assert.Equal(t, KindPrecedence, c.Kind())
	assert.Equal(t, "a must be published before b", c.String())
}

func TestGappedPrecedenceBoundary(t *testing.T) {
	c := GappedPrecedence{Before: "proc", After: "report", MinGapDays: 3, Tier: vocabulary.TierSystem}

	assert.False(t, c.Satisfied(at(map[string]string{"proc": "2023-01-17", "report": "2023-01-19"})))
	assert.True(t, c.Satisfied(at(map[string]string{"proc": "2023-01-17", "report": "2023-01-20"})))
	assert.True(t, c.Satisfied(at(map[string]string{"proc": "2023-01-17", "report": "2023-01-30"})))
	assert.True(t, c.Satisfied(at(map[string]string{"report": "2023-01-01"})))
	assert.Equal(t, KindGappedPrecedence, c.Kind())
	assert.Equal(t, "report must follow proc by at least 3 days (system test)", c.String())

	one := GappedPrecedence{Before: "x", After: "y", MinGapDays: 1}
	assert.Equal(t, "y must follow x by at least 1 day", one.String())
}

func TestGappedImpliesLiteralProperty(t *testing.T) {
	// before + gap <= after always gives before < after + gap for gap >= 1.
	c := GappedPrecedence{Before: "a", After: "b", MinGapDays: 2}
	start := calendar.MustParse("2023-03-01")
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			a := csp.Assignment[string, calendar.Date]{"a": start.AddDays(i), "b": start.AddDays(j)}
			if c.Satisfied(a) {
				assert.True(t, a["a"].Before(a["b"].AddDays(c.MinGapDays)))
			}
		}
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "precedence", KindPrecedence.String())
	assert.Equal(t, "gapped-precedence", KindGappedPrecedence.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}

func TestEndpoints(t *testing.T) {
	before, after := GappedPrecedence{Before: "p", After: "r"}.Endpoints()
	assert.Equal(t, "p", before)
	assert.Equal(t, "r", after)
}
