package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/pubdate/internal/dependency"
)

const koreanCSV = "\ufeff단계,문서명,의존 문서#1,의존 문서#2\n" +
	"요구사항,요구사항 명세서,,\n" +
	"요구사항,요구사항\u00a0명세 검증보고서,요구사항 명세서,\n" +
	",,,\n" +
	"설계,설계 명세서,요구사항 명세서, 요구사항 명세 검증보고서 \n"

func TestLoadCSVKoreanHeaders(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader(koreanCSV))

	require.NoError(t, err)
	require.Len(t, tbl, 3)
	assert.Equal(t, dependency.Row{Stage: "요구사항", Name: "요구사항 명세서"}, tbl[0])
	assert.Equal(t, "요구사항 명세 검증보고서", tbl[1].Name)
	assert.Equal(t, []string{"요구사항 명세서"}, tbl[1].Dependencies)
	assert.Equal(t, []string{"요구사항 명세서", "요구사항 명세 검증보고서"}, tbl[2].Dependencies)

	g, err := dependency.Extract(tbl)
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Len(t, g.Edges, 3)
}

func TestLoadCSVEnglishHeadersWithoutStage(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader("Document,depends_on,depends_on\na,,\nb,a\n"))

	require.NoError(t, err)
	require.Len(t, tbl, 2)
	assert.Empty(t, tbl[0].Stage)
	assert.Equal(t, []string{"a"}, tbl[1].Dependencies)
}

func TestLoadCSVStageAfterName(t *testing.T) {
	tbl, err := LoadCSV(strings.NewReader("name,stage,dep\na,spec,\nb,design,a\n"))

	require.NoError(t, err)
	assert.Equal(t, "design", tbl[1].Stage)
	assert.Equal(t, []string{"a"}, tbl[1].Dependencies)
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.Error(t, err)

	_, err = LoadCSV(strings.NewReader("title,dep\na,b\n"))
	require.ErrorIs(t, err, ErrNoNameColumn)

	_, err = LoadCSV(strings.NewReader("name,dep\na,\n,a\n"))
	require.ErrorIs(t, err, dependency.ErrEmptyName)
	assert.Contains(t, err.Error(), "line 3")
}

func TestLoadYAML(t *testing.T) {
	const payload = `
documents:
  - name: 요구사항 명세서
    stage: 요구사항
  - name: " 설계 명세서 "
    stage: 설계
    depends_on: [요구사항 명세서, ""]
`
	tbl, err := LoadYAML(strings.NewReader(payload))

	require.NoError(t, err)
	require.Len(t, tbl, 2)
	assert.Equal(t, "설계 명세서", tbl[1].Name)
	assert.Equal(t, []string{"요구사항 명세서"}, tbl[1].Dependencies)

	_, err = LoadYAML(strings.NewReader("documents:\n  - stage: x\n"))
	require.ErrorIs(t, err, dependency.ErrEmptyName)

	_, err = LoadYAML(strings.NewReader("  \n"))
	require.Error(t, err)
}

func TestLoadFileDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "docs.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte(koreanCSV), 0o644))
	yamlPath := filepath.Join(dir, "docs.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("documents:\n  - name: a\n"), 0o644))
	txtPath := filepath.Join(dir, "docs.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("a"), 0o644))

	tbl, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, tbl, 3)

	tbl, err = LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tbl.Names())

	_, err = LoadFile(txtPath)
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = LoadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
