package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		"c17.bench":              "INPUT(a)",
		"c17_opt.bench":          "INPUT(a)",
		"notes.txt":              "This is a text file",
		"subdir/adder.bench":     "INPUT(b)",
		"subdir/lonely.bench":    "INPUT(c)",
		"subdir/adder_opt.bench": "INPUT(b)",
	}

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		err := os.MkdirAll(filepath.Dir(fullPath), 0o755)
		require.NoError(t, err)
		err = os.WriteFile(fullPath, []byte(content), 0o644)
		require.NoError(t, err)
	}

	scanner := New(tempDir, BenchExt)
	scannedFiles, err := scanner.Scan()
	require.NoError(t, err)

	assert.Equal(t, 5, len(scannedFiles), "Should find 5 bench files")
	for i := 1; i < len(scannedFiles); i++ {
		assert.Less(t, scannedFiles[i-1].Path, scannedFiles[i].Path)
	}
	for _, file := range scannedFiles {
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}

	pairs, orphans := Pairs(scannedFiles)
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{
		Name:      "c17",
		Reference: filepath.Join(tempDir, "c17.bench"),
		Optimized: filepath.Join(tempDir, "c17_opt.bench"),
	}, pairs[0])
	assert.Equal(t, "adder", pairs[1].Name)
	assert.Equal(t, []string{filepath.Join(tempDir, "subdir/lonely.bench")}, orphans)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing"), BenchExt).Scan()
	assert.Error(t, err)
}
