package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPassages_SkipsShortClauses(t *testing.T) {
	dir := t.TempDir()
	content := `{
		"product_name": "무배당 안심 보험(특약형)",
		"clauses": [
			{"content": "짧음", "page_number": 1},
			{"content": "임신중독증 진단 확정 시 보험가입금액을 지급하는 특약에 관한 조항", "page_number": 12}
		]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "samsung.json"), []byte(content), 0o644))

	passages, err := loadPassages(dir)

	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "무배당 안심 보험(특약형)", passages[0].ProductName)
	assert.Equal(t, 12, passages[0].PageNumber)
	assert.Equal(t, "samsung.json", passages[0].SourceFile)
}

func TestLoadPassages_InvalidFileFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0o644))

	_, err := loadPassages(dir)

	assert.Error(t, err)
}

func TestLoadPassages_EmptyDir(t *testing.T) {
	passages, err := loadPassages(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, passages)
}
