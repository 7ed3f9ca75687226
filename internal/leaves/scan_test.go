package leaves

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ba0f3/leafstat/internal/logging"
	"github.com/ba0f3/leafstat/internal/percentile"
)

func writeLeaf(t *testing.T, dir, name string, size int) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeLeaf(t, dir, "616263.json", 30)
	writeLeaf(t, dir, "000000.json", 10)
	writeLeaf(t, dir, "notes.txt", 5)
	writeLeaf(t, dir, "sub/626364.json", 7)

	items, err := Scan(dir, "*", logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, []percentile.Item{
		{Name: "000000.json", Size: 10},
		{Name: "616263.json", Size: 30},
		{Name: "notes.txt", Size: 5},
	}, items, "directories are skipped")

	items, err = Scan(dir, "**/*.json", logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, []percentile.Item{
		{Name: "000000.json", Size: 10},
		{Name: "616263.json", Size: 30},
		{Name: "sub/626364.json", Size: 7},
	}, items)
	assert.Equal(t, int64(47), TotalSize(items))
}

func TestScanEmptyDir(t *testing.T) {
	items, err := Scan(t.TempDir(), "*", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScanErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Scan(filepath.Join(dir, "missing"), "*", logging.Discard())
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeLeaf(t, dir, "file.json", 1)
	_, err = Scan(filepath.Join(dir, "file.json"), "*", logging.Discard())
	assert.Error(t, err)

	_, err = Scan(dir, "[", logging.Discard())
	assert.Error(t, err)
}

func TestScanFeedsClassifier(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 99; i++ {
		writeLeaf(t, dir, fmt.Sprintf("leaf%02d.json", i), i)
	}
	items, err := Scan(dir, "*.json", logging.Discard())
	require.NoError(t, err)
	require.Len(t, items, 99)

	report, err := percentile.Classify(items, percentile.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"leaf95": 0, "leaf96": 1, "leaf97": 2, "leaf98": 3, "leaf99": 4,
	}, report.Map())
}
