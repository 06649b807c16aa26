// Package dependency turns the document dependency table into a document
// list and a list of precedence edges.
package dependency

import "strings"

// Row is one line of the dependency table: a document, the stage it belongs
// to and the documents it depends on. Stage is carried for display only.
type Row struct {
	Stage        string   `yaml:"stage,omitempty"`
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"depends_on,omitempty"`
}

// Table is the dependency table in input order.
type Table []Row

// Normalize cleans a cell the way spreadsheet exports need: non-breaking
// spaces become plain spaces and outer whitespace is trimmed.
func Normalize(cell string) string {
	return strings.TrimSpace(strings.ReplaceAll(cell, "\u00a0", " "))
}

// Names returns the normalised document names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, row := range t {
		names = append(names, Normalize(row.Name))
	}
	return names
}

// Without drops every row whose name contains one of the given substrings.
// Dependency cells naming a dropped document are removed from the remaining
// rows so the result stays self-contained. Empty substrings are ignored.
func (t Table) Without(substrings ...string) Table {
	return t.keep(func(name string) bool {
		for _, sub := range substrings {
			if sub = Normalize(sub); sub != "" && strings.Contains(name, sub) {
				return false
			}
		}
		return true
	})
}

// Select keeps only the named documents, in table order. Dependency cells
// naming a document outside the selection are removed.
func (t Table) Select(names ...string) Table {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[Normalize(name)] = struct{}{}
	}
	return t.keep(func(name string) bool {
		_, ok := wanted[name]
		return ok
	})
}

// Stage returns the rows tagged with stage. Dependencies are left untouched
// so the caller can see what the stage relies on.
func (t Table) Stage(stage string) Table {
	stage = Normalize(stage)
	var out Table
	for _, row := range t {
		if Normalize(row.Stage) == stage {
			out = append(out, row.clone())
		}
	}
	return out
}

// Stages lists the distinct stage tags in order of first appearance.
func (t Table) Stages() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, row := range t {
		stage := Normalize(row.Stage)
		if stage == "" {
			continue
		}
		if _, ok := seen[stage]; ok {
			continue
		}
		seen[stage] = struct{}{}
		out = append(out, stage)
	}
	return out
}

func (t Table) keep(include func(name string) bool) Table {
	kept := map[string]struct{}{}
	for _, row := range t {
		name := Normalize(row.Name)
		if include(name) {
			kept[name] = struct{}{}
		}
	}
	var out Table
	for _, row := range t {
		if _, ok := kept[Normalize(row.Name)]; !ok {
			continue
		}
		clone := row.clone()
		clone.Dependencies = clone.Dependencies[:0]
		for _, dep := range row.Dependencies {
			if _, ok := kept[Normalize(dep)]; ok || Normalize(dep) == "" {
				clone.Dependencies = append(clone.Dependencies, dep)
			}
		}
		out = append(out, clone)
	}
	return out
}

func (r Row) clone() Row {
	out := r
	if len(r.Dependencies) > 0 {
		out.Dependencies = make([]string, len(r.Dependencies))
		copy(out.Dependencies, r.Dependencies)
	}
	return out
}
