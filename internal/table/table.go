// Package table loads the document dependency table from CSV or YAML files.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/pubdate/internal/dependency"
)

// ErrNoNameColumn is returned when a CSV header has no document-name column.
var ErrNoNameColumn = errors.New("table: header has no document name column")

var (
	nameHeaders  = []string{"문서명", "document", "name"}
	stageHeaders = []string{"단계", "stage"}
)

// LoadCSV reads a CSV table whose first row is a header. The name column is
// the one titled 문서명, document or name; an optional 단계 or stage column
// carries the stage tag. Every other column to the right of the name column
// holds dependency names. Blank cells are skipped.
func LoadCSV(r io.Reader) (dependency.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table: csv is empty")
		}
		return nil, fmt.Errorf("table: read header: %w", err)
	}
	nameCol, stageCol := -1, -1
	for i, cell := range header {
		title := strings.ToLower(dependency.Normalize(strings.TrimPrefix(cell, "\ufeff")))
		switch {
		case nameCol < 0 && matches(title, nameHeaders):
			nameCol = i
		case stageCol < 0 && matches(title, stageHeaders):
			stageCol = i
		}
	}
	if nameCol < 0 {
		return nil, ErrNoNameColumn
	}

	var out dependency.Table
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: line %d: %w", line, err)
		}
		if nameCol >= len(record) || dependency.Normalize(record[nameCol]) == "" {
			if blank(record) {
				continue
			}
			return nil, fmt.Errorf("table: line %d: %w", line, dependency.ErrEmptyName)
		}
		row := dependency.Row{Name: dependency.Normalize(record[nameCol])}
		if stageCol >= 0 && stageCol < len(record) {
			row.Stage = dependency.Normalize(record[stageCol])
		}
		for i := nameCol + 1; i < len(record); i++ {
			if i == stageCol {
				continue
			}
			if dep := dependency.Normalize(record[i]); dep != "" {
				row.Dependencies = append(row.Dependencies, dep)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

type yamlTable struct {
	Documents dependency.Table `yaml:"documents"`
}

// LoadYAML reads a table of the form
//
//	documents:
//	  - name: 설계 명세서
//	    stage: 설계
//	    depends_on: [요구사항 명세서]
func LoadYAML(r io.Reader) (dependency.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("table: read yaml: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("table: yaml is empty")
	}
	var doc yamlTable
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("table: decode yaml: %w", err)
	}
	for i := range doc.Documents {
		row := &doc.Documents[i]
		row.Name = dependency.Normalize(row.Name)
		row.Stage = dependency.Normalize(row.Stage)
		deps := row.Dependencies[:0]
		for _, dep := range row.Dependencies {
			if dep = dependency.Normalize(dep); dep != "" {
				deps = append(deps, dep)
			}
		}
		row.Dependencies = deps
		if row.Name == "" {
			return nil, fmt.Errorf("table: documents[%d]: %w", i, dependency.ErrEmptyName)
		}
	}
	return doc.Documents, nil
}

// LoadFile picks the loader from the file extension.
func LoadFile(path string) (dependency.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: open %s: %w", path, err)
	}
	defer f.Close()

	var t dependency.Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = LoadCSV(f)
	case ".yaml", ".yml":
		t, err = LoadYAML(f)
	default:
		return nil, fmt.Errorf("table: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func matches(title string, candidates []string) bool {
	for _, c := range candidates {
		if title == c {
			return true
		}
	}
	return false
}

func blank(record []string) bool {
	for _, cell := range record {
		if dependency.Normalize(cell) != "" {
			return false
		}
	}
	return true
}
