// internal/config/config.go
//
// This package handles configuration and the .pubdate directory structure.
// Every project that schedules documents with pubdate gets a .pubdate/ folder
// in its root holding config.yaml, the vocabulary and the logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/domains"
	"github.com/kingrea/pubdate/internal/schedule"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

const (
	// PubdateDir is the name of the directory we create in each project
	PubdateDir = ".pubdate"

	defaultDateFormat = "06.01.02"
	vocabularyFile    = "vocabulary.yaml"
)

const defaultProjectConfigYAML = `# pubdate project configuration
version: 1

# Dependency table (.csv, .yaml or .yml), relative to the project directory.
table: documents.csv

# Document vocabulary. Remove the line to use the built-in vocabulary.
vocabulary: .pubdate/vocabulary.yaml

# Milestone publication dates. spec <= design <= impl <= end.
milestones:
  spec: 2023-04-19
  design: 2023-04-26
  impl: 2023-05-10
  end: 2023-06-02

# Minimum days between a test procedure and its report.
durations:
  component: 3
  integration: 3
  system: 3

holidays:
  - 2023-01-01
  - 2023-01-02

# Optional document families.
include:
  safety_analysis: true
  cyber_security: true

# Limit scheduling to these documents. Empty means every document in the table.
documents: []

search:
  max_steps: 0 # 0 = unlimited
  timeout: 0s

output:
  date_format: "06.01.02"
`

// IncludeConfig toggles optional document families. Unset means included.
type IncludeConfig struct {
	SafetyAnalysis *bool `yaml:"safety_analysis,omitempty"`
	CyberSecurity  *bool `yaml:"cyber_security,omitempty"`
}

// SearchConfig bounds the search.
type SearchConfig struct {
	MaxSteps int           `yaml:"max_steps"`
	Timeout  time.Duration `yaml:"timeout"`
}

// OutputConfig controls how dates are printed.
type OutputConfig struct {
	DateFormat string `yaml:"date_format"`
}

// ProjectConfig models .pubdate/config.yaml.
type ProjectConfig struct {
	Version    int                    `yaml:"version"`
	Table      string                 `yaml:"table"`
	Vocabulary string                 `yaml:"vocabulary,omitempty"`
	Milestones domains.Milestones     `yaml:"milestones"`
	Durations  schedule.TestDurations `yaml:"durations"`
	Holidays   []calendar.Date        `yaml:"holidays"`
	Include    IncludeConfig          `yaml:"include"`
	Documents  []string               `yaml:"documents,omitempty"`
	Search     SearchConfig           `yaml:"search"`
	Output     OutputConfig           `yaml:"output"`
}

// Config holds the runtime configuration for pubdate.
type Config struct {
	// ProjectDir is the directory where the user ran `pubdate` from
	ProjectDir string

	// PubdateProjectDir is ProjectDir/.pubdate
	PubdateProjectDir string

	Project ProjectConfig
}

// InitDir creates the .pubdate directory structure in the given project
// directory. Existing files are left alone.
//
// Structure created:
// .pubdate/
// ├── config.yaml
// ├── vocabulary.yaml
// └── logs/
func InitDir(projectDir string) error {
	dir := filepath.Join(projectDir, PubdateDir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure %s: %w", dir, err)
	}
	if err := ensureFile(filepath.Join(dir, "config.yaml"), []byte(defaultProjectConfigYAML)); err != nil {
		return err
	}
	return ensureFile(filepath.Join(dir, vocabularyFile), vocabulary.DefaultYAML())
}

// Load reads .pubdate/config.yaml from projectDir. A missing file yields the
// defaults.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		PubdateProjectDir: filepath.Join(projectDir, PubdateDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.PubdateProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.PubdateProjectDir, "config.yaml")
}

// TablePath returns the absolute path of the dependency table.
func (c *Config) TablePath() string {
	return c.Project.Table
}

// LoadVocabulary returns the configured vocabulary, or the built-in one when
// none is configured.
func (c *Config) LoadVocabulary() (vocabulary.Vocabulary, error) {
	if c.Project.Vocabulary == "" {
		return vocabulary.Default(), nil
	}
	v, err := vocabulary.Load(c.Project.Vocabulary)
	if err != nil {
		return vocabulary.Vocabulary{}, fmt.Errorf("config: %w", err)
	}
	return v, nil
}

// Holidays returns the configured holiday set.
func (c *Config) Holidays() calendar.Holidays {
	return calendar.NewHolidays(c.Project.Holidays...)
}

// IncludeSafetyAnalysis reports whether safety analysis reports are scheduled.
func (c *Config) IncludeSafetyAnalysis() bool {
	return c.Project.Include.SafetyAnalysis == nil || *c.Project.Include.SafetyAnalysis
}

// IncludeCyberSecurity reports whether cyber-security assessments are
// scheduled.
func (c *Config) IncludeCyberSecurity() bool {
	return c.Project.Include.CyberSecurity == nil || *c.Project.Include.CyberSecurity
}

// FormatDate renders d with the configured output format.
func (c *Config) FormatDate(d calendar.Date) string {
	return d.Format(c.Project.Output.DateFormat)
}

// Save validates the project config and writes it to .pubdate/config.yaml.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.PubdateProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure pubdate dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Table:   "documents.csv",
		Milestones: domains.Milestones{
			Spec:   calendar.New(2023, time.April, 19),
			Design: calendar.New(2023, time.April, 26),
			Impl:   calendar.New(2023, time.May, 10),
			End:    calendar.New(2023, time.June, 2),
		},
		Durations: schedule.DefaultDurations(),
		Holidays: []calendar.Date{
			calendar.New(2023, time.January, 1),
			calendar.New(2023, time.January, 2),
		},
		Output: OutputConfig{DateFormat: defaultDateFormat},
	}
}

// applyDefaults fills in fields the file left out. A file that sets none of
// the milestones or durations gets the defaults; a partial block is left for
// validate to reject.
func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if pc.Milestones == (domains.Milestones{}) {
		pc.Milestones = defaults.Milestones
	}
	if pc.Durations == (schedule.TestDurations{}) {
		pc.Durations = defaults.Durations
	}
	if pc.Holidays == nil {
		pc.Holidays = defaults.Holidays
	}
	if strings.TrimSpace(pc.Output.DateFormat) == "" {
		pc.Output.DateFormat = defaults.Output.DateFormat
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Table = resolvePath(base, pc.Table)
	pc.Vocabulary = resolvePath(base, pc.Vocabulary)
	docs := pc.Documents[:0]
	for _, doc := range pc.Documents {
		if doc = strings.TrimSpace(doc); doc != "" {
			docs = append(docs, doc)
		}
	}
	pc.Documents = docs
	pc.Output.DateFormat = strings.TrimSpace(pc.Output.DateFormat)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if err := pc.Milestones.Validate(); err != nil {
		return fmt.Errorf("milestones: %w", err)
	}
	if err := pc.Durations.Validate(); err != nil {
		return fmt.Errorf("durations: %w", err)
	}
	if pc.Search.MaxSteps < 0 {
		return fmt.Errorf("search.max_steps must be >= 0")
	}
	if pc.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must be >= 0")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureFile(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
