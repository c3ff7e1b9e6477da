package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBatchFile(t *testing.T) {
	path := writeBatchFile(t, `[
		{"name": "Vitamin D3", "brand": "NOW Foods", "category": "supplement"},
		{"name": "Kettlebell 16kg", "url": "https://example.com/kb", "category": "equipment"}
	]`)

	items, err := loadBatchFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Vitamin D3", items[0].Name)
	assert.Equal(t, "equipment", items[1].Category)
}

func TestLoadBatchFile_Missing(t *testing.T) {
	_, err := loadBatchFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read batch file")
}

func TestLoadBatchFile_BadJSON(t *testing.T) {
	path := writeBatchFile(t, `{"name": "not an array"}`)
	_, err := loadBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse batch file")
}

func TestLoadBatchFile_Empty(t *testing.T) {
	path := writeBatchFile(t, `[]`)
	_, err := loadBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no items")
}

func TestLoadBatchFile_ValidatesItems(t *testing.T) {
	path := writeBatchFile(t, `[{"name": "", "category": "supplement"}]`)
	_, err := loadBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	path = writeBatchFile(t, `[{"name": "Zinc"}]`)
	_, err = loadBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category is required")
}
