package domains

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

func testVocabulary(t *testing.T) vocabulary.Vocabulary {
	t.Helper()
	v, err := vocabulary.Parse([]byte(`
milestones: {spec: Req-Spec, design: Design-Spec, impl: Impl-Spec}
pools:
  spec: [Req-Verify, Sys-Test-Plan]
  design: [Design-Verify]
`))
	require.NoError(t, err)
	return v
}

func dates(values ...string) []calendar.Date {
	out := make([]calendar.Date, len(values))
	for i, v := range values {
		out[i] = calendar.MustParse(v)
	}
	return out
}

func januaryMilestones() Milestones {
	return Milestones{
		Spec:   calendar.MustParse("2023-01-03"),
		Design: calendar.MustParse("2023-01-10"),
		Impl:   calendar.MustParse("2023-01-17"),
		End:    calendar.MustParse("2023-01-20"),
	}
}

func TestBuildRequirementsPool(t *testing.T) {
	res := Build(januaryMilestones(), calendar.NewHolidays(), []string{"Req-Spec", "Req-Verify"}, testVocabulary(t))

	assert.Equal(t, dates("2023-01-03"), res.Domains["Req-Spec"])
	assert.Equal(t, dates("2023-01-03", "2023-01-04", "2023-01-05", "2023-01-06", "2023-01-09", "2023-01-10"), res.Domains["Req-Verify"])
	assert.Equal(t, res.Pools.Spec, res.Domains["Req-Verify"])
}

func TestBuildPoolsUseWorkingDays(t *testing.T) {
	holidays := calendar.NewHolidays(calendar.MustParse("2023-01-11"))

	res := Build(januaryMilestones(), holidays, nil, testVocabulary(t))

	assert.Equal(t, dates("2023-01-10", "2023-01-12", "2023-01-13", "2023-01-16", "2023-01-17"), res.Pools.Design)
	assert.Equal(t, dates("2023-01-17", "2023-01-18", "2023-01-19", "2023-01-20"), res.Pools.Remaining)
	assert.Empty(t, res.Domains)
}

func TestBuildClassifiesEveryDocument(t *testing.T) {
	docs := []string{"Req-Spec", "Design-Spec", "Impl-Spec", "Sys-Test-Plan", "Design-Verify", "Release-Notes"}

	res := Build(januaryMilestones(), calendar.NewHolidays(), docs, testVocabulary(t))

	want := map[string]Pool{
		"Req-Spec":      PoolMilestone,
		"Design-Spec":   PoolMilestone,
		"Impl-Spec":     PoolMilestone,
		"Sys-Test-Plan": PoolSpec,
		"Design-Verify": PoolDesign,
		"Release-Notes": PoolRemaining,
	}
	for doc, pool := range want {
		got, ok := res.PoolOf(doc)
		require.True(t, ok, doc)
		assert.Equal(t, pool, got, doc)
	}
	assert.Equal(t, dates("2023-01-10"), res.Domains["Design-Spec"])
	assert.Equal(t, dates("2023-01-17"), res.Domains["Impl-Spec"])
	assert.Equal(t, res.Pools.Remaining, res.Domains["Release-Notes"])

	_, ok := res.PoolOf("unknown")
	assert.False(t, ok)
}

func TestBuildDomainsAreIndependentSlices(t *testing.T) {
	res := Build(januaryMilestones(), calendar.NewHolidays(), []string{"Req-Verify", "Sys-Test-Plan"}, testVocabulary(t))

	res.Domains["Req-Verify"][0] = calendar.MustParse("1999-01-01")

	assert.Equal(t, calendar.MustParse("2023-01-03"), res.Domains["Sys-Test-Plan"][0])
	assert.Equal(t, calendar.MustParse("2023-01-03"), res.Pools.Spec[0])
}

func TestBuildZeroWidthPool(t *testing.T) {
	// spec == design on a Saturday leaves the requirements window empty.
	saturday := calendar.MustParse("2023-01-07")
	m := Milestones{Spec: saturday, Design: saturday, Impl: calendar.MustParse("2023-01-17"), End: calendar.MustParse("2023-01-20")}

	res := Build(m, calendar.NewHolidays(), []string{"Req-Spec", "Req-Verify"}, testVocabulary(t))

	assert.Empty(t, res.Pools.Spec)
	assert.NotNil(t, res.Domains["Req-Verify"])
	assert.Empty(t, res.Domains["Req-Verify"])
	assert.Equal(t, []calendar.Date{saturday}, res.Domains["Req-Spec"], "anchors are kept even off working days")
}

func TestBuildOutOfOrderMilestonesYieldEmptyPools(t *testing.T) {
	m := januaryMilestones()
	m.Design, m.Impl = m.Impl, m.Design

	res := Build(m, calendar.NewHolidays(), []string{"Design-Verify"}, testVocabulary(t))

	assert.Empty(t, res.Domains["Design-Verify"])
	require.ErrorIs(t, m.Validate(), ErrMilestoneOrder)
}

func TestMilestonesValidate(t *testing.T) {
	require.NoError(t, januaryMilestones().Validate())

	m := januaryMilestones()
	m.End = calendar.Date{}
	assert.EqualError(t, m.Validate(), "domains: milestone end is not set")

	m = januaryMilestones()
	m.Spec = m.Design
	assert.NoError(t, m.Validate(), "equal anchors are allowed")
}

func TestClassifyDefaultVocabulary(t *testing.T) {
	v := vocabulary.Default()

	assert.Equal(t, PoolMilestone, Classify(v, "요구사항 명세서"))
	assert.Equal(t, PoolSpec, Classify(v, "요구사항 사이버보안 평가 보고서"))
	assert.Equal(t, PoolDesign, Classify(v, "컴포넌트 시험 계획서"))
	assert.Equal(t, PoolRemaining, Classify(v, "컴포넌트 시험 결과서"))
	assert.Equal(t, PoolRemaining, Classify(v, ""))
	assert.Equal(t, "design", PoolDesign.String())
}
