// Package vocabulary holds the project-specific document names the scheduler
// recognises: which documents are milestones, which stage pool the others
// belong to and which procedure/report pairs need a test gap.
package vocabulary

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/pubdate/internal/dependency"
)

// Tier identifies a test level. Each tier has its own test duration.
type Tier string

const (
	TierComponent   Tier = "component"
	TierIntegration Tier = "integration"
	TierSystem      Tier = "system"
)

// Tiers lists the known tiers in reporting order.
var Tiers = []Tier{TierComponent, TierIntegration, TierSystem}

//go:embed default.yaml
var defaultYAML []byte

// Milestones names the three documents pinned to a milestone date.
type Milestones struct {
	Spec   string `yaml:"spec"`
	Design string `yaml:"design"`
	Impl   string `yaml:"impl"`
}

// Pools lists the documents scheduled inside the requirements and design
// windows.
type Pools struct {
	Spec   []string `yaml:"spec"`
	Design []string `yaml:"design"`
}

// TestPair is a test procedure followed by its report.
type TestPair struct {
	Tier      Tier   `yaml:"tier"`
	Procedure string `yaml:"procedure"`
	Report    string `yaml:"report"`
}

// Optional holds name fragments of documents a project may leave out.
type Optional struct {
	SafetyAnalysis string `yaml:"safety_analysis,omitempty"`
	CyberSecurity  string `yaml:"cyber_security,omitempty"`
}

// Vocabulary is the classification table.
type Vocabulary struct {
	Version    int        `yaml:"version"`
	Milestones Milestones `yaml:"milestones"`
	Pools      Pools      `yaml:"pools"`
	TestPairs  []TestPair `yaml:"test_pairs"`
	Optional   Optional   `yaml:"optional"`
}

// DefaultYAML returns the embedded default vocabulary file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Default decodes the embedded vocabulary.
func Default() Vocabulary {
	v, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("vocabulary: embedded default is invalid: %v", err))
	}
	return v
}

// Parse decodes, normalises and validates a vocabulary document.
func Parse(data []byte) (Vocabulary, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary: payload is empty")
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("vocabulary: decode: %w", err)
	}
	v.normalize()
	if err := v.Validate(); err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}

// Load reads a vocabulary file from disk.
func Load(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("vocabulary: read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func (v *Vocabulary) normalize() {
	if v.Version == 0 {
		v.Version = 1
	}
	v.Milestones.Spec = dependency.Normalize(v.Milestones.Spec)
	v.Milestones.Design = dependency.Normalize(v.Milestones.Design)
	v.Milestones.Impl = dependency.Normalize(v.Milestones.Impl)
	v.Pools.Spec = normalizeList(v.Pools.Spec)
	v.Pools.Design = normalizeList(v.Pools.Design)
	for i := range v.TestPairs {
		pair := &v.TestPairs[i]
		pair.Tier = Tier(dependency.Normalize(string(pair.Tier)))
		pair.Procedure = dependency.Normalize(pair.Procedure)
		pair.Report = dependency.Normalize(pair.Report)
	}
	v.Optional.SafetyAnalysis = dependency.Normalize(v.Optional.SafetyAnalysis)
	v.Optional.CyberSecurity = dependency.Normalize(v.Optional.CyberSecurity)
}

// Validate rejects vocabularies that would classify a document two ways.
func (v Vocabulary) Validate() error {
	if v.Version < 1 {
		return fmt.Errorf("vocabulary: version must be >= 1")
	}
	owner := map[string]string{}
	claim := func(name, role string) error {
		if name == "" {
			return fmt.Errorf("vocabulary: %s name is empty", role)
		}
		if prev, ok := owner[name]; ok {
			return fmt.Errorf("vocabulary: %q listed as both %s and %s", name, prev, role)
		}
		owner[name] = role
		return nil
	}
	milestones := []struct{ role, name string }{
		{"milestones.spec", v.Milestones.Spec},
		{"milestones.design", v.Milestones.Design},
		{"milestones.impl", v.Milestones.Impl},
	}
	for _, m := range milestones {
		if err := claim(m.name, m.role); err != nil {
			return err
		}
	}
	for _, name := range v.Pools.Spec {
		if err := claim(name, "pools.spec"); err != nil {
			return err
		}
	}
	for _, name := range v.Pools.Design {
		if err := claim(name, "pools.design"); err != nil {
			return err
		}
	}

	tiers := map[Tier]struct{}{}
	for i, pair := range v.TestPairs {
		if !pair.Tier.Valid() {
			return fmt.Errorf("vocabulary: test_pairs[%d]: unknown tier %q", i, pair.Tier)
		}
		if _, dup := tiers[pair.Tier]; dup {
			return fmt.Errorf("vocabulary: test_pairs[%d]: tier %s listed twice", i, pair.Tier)
		}
		tiers[pair.Tier] = struct{}{}
		if pair.Procedure == "" || pair.Report == "" {
			return fmt.Errorf("vocabulary: test_pairs[%d]: procedure and report are required", i)
		}
		if pair.Procedure == pair.Report {
			return fmt.Errorf("vocabulary: test_pairs[%d]: procedure and report are both %q", i, pair.Report)
		}
	}
	return nil
}

// Valid reports whether t is one of Tiers.
func (t Tier) Valid() bool {
	for _, known := range Tiers {
		if t == known {
			return true
		}
	}
	return false
}

// Pair returns the test pair whose procedure and report match the edge.
func (v Vocabulary) Pair(procedure, report string) (TestPair, bool) {
	for _, pair := range v.TestPairs {
		if pair.Procedure == procedure && pair.Report == report {
			return pair, true
		}
	}
	return TestPair{}, false
}

// Exclusions returns the optional-document fragments to drop from the table
// given which optional categories are included.
func (v Vocabulary) Exclusions(includeSafety, includeCyber bool) []string {
	var out []string
	if !includeSafety && v.Optional.SafetyAnalysis != "" {
		out = append(out, v.Optional.SafetyAnalysis)
	}
	if !includeCyber && v.Optional.CyberSecurity != "" {
		out = append(out, v.Optional.CyberSecurity)
	}
	return out
}

// Names lists every document name the vocabulary mentions, sorted.
func (v Vocabulary) Names() []string {
	set := map[string]struct{}{
		v.Milestones.Spec:   {},
		v.Milestones.Design: {},
		v.Milestones.Impl:   {},
	}
	for _, name := range v.Pools.Spec {
		set[name] = struct{}{}
	}
	for _, name := range v.Pools.Design {
		set[name] = struct{}{}
	}
	for _, pair := range v.TestPairs {
		set[pair.Procedure] = struct{}{}
		set[pair.Report] = struct{}{}
	}
	delete(set, "")
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = dependency.Normalize(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
