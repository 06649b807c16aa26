package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	v := Default()

	assert.Equal(t, "요구사항 명세서", v.Milestones.Spec)
	assert.Equal(t, "설계 명세서", v.Milestones.Design)
	assert.Equal(t, "구현 명세서", v.Milestones.Impl)
	assert.Len(t, v.Pools.Spec, 4)
	assert.Len(t, v.Pools.Design, 5)
	assert.Contains(t, v.Pools.Design, "통합 시험 계획서")
	require.Len(t, v.TestPairs, 3)

	pair, ok := v.Pair("통합 시험 절차서", "통합 시험 결과서")
	require.True(t, ok)
	assert.Equal(t, TierIntegration, pair.Tier)

	_, ok = v.Pair("통합 시험 결과서", "통합 시험 절차서")
	assert.False(t, ok, "pairs are directional")
}

func TestDefaultYAMLIsACopy(t *testing.T) {
	data := DefaultYAML()
	data[0] = 'X'

	assert.NotEqual(t, data[0], DefaultYAML()[0])
}

func TestParseNormalisesNames(t *testing.T) {
	v, err := Parse([]byte(`
milestones:
  spec: "  Req Spec "
  design: Design Spec
  impl: Impl Spec
pools:
  spec: ["Req Verify", "  "]
`))

	require.NoError(t, err)
	assert.Equal(t, 1, v.Version)
	assert.Equal(t, "Req Spec", v.Milestones.Spec)
	assert.Equal(t, []string{"Req Verify"}, v.Pools.Spec)
	assert.Empty(t, v.TestPairs)
}

func TestParseRejectsAmbiguousVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "empty payload",
			payload: "   ",
			want:    "payload is empty",
		},
		{
			name: "name in two pools",
			payload: `
milestones: {spec: a, design: b, impl: c}
pools: {spec: [x], design: [x]}
`,
			want: `"x" listed as both pools.spec and pools.design`,
		},
		{
			name: "milestone in a pool",
			payload: `
milestones: {spec: a, design: b, impl: c}
pools: {design: [a]}
`,
			want: `"a" listed as both milestones.spec and pools.design`,
		},
		{
			name: "missing milestone",
			payload: `
milestones: {spec: a, design: b}
`,
			want: "milestones.impl name is empty",
		},
		{
			name: "unknown tier",
			payload: `
milestones: {spec: a, design: b, impl: c}
test_pairs: [{tier: acceptance, procedure: p, report: r}]
`,
			want: `unknown tier "acceptance"`,
		},
		{
			name: "same endpoints",
			payload: `
milestones: {spec: a, design: b, impl: c}
test_pairs: [{tier: system, procedure: p, report: p}]
`,
			want: "procedure and report are both",
		},
		{
			name: "tier twice",
			payload: `
milestones: {spec: a, design: b, impl: c}
test_pairs:
  - {tier: system, procedure: p, report: r}
  - {tier: system, procedure: q, report: s}
`,
			want: "tier system listed twice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, DefaultYAML(), 0o644))

	v, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, Default(), v)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestExclusions(t *testing.T) {
	v := Default()

	assert.Empty(t, v.Exclusions(true, true))
	assert.Equal(t, []string{"안전성 분석"}, v.Exclusions(false, true))
	assert.Equal(t, []string{"안전성 분석", "사이버보안"}, v.Exclusions(false, false))
}

func TestNamesAreSortedAndComplete(t *testing.T) {
	names := Default().Names()

	assert.Len(t, names, 3+4+5+6)
	assert.IsNonDecreasing(t, names)
}
