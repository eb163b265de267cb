package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

const c17 = `# c17
INPUT(1)
INPUT(2)
INPUT(3)
INPUT(6)
INPUT(7)
OUTPUT(22)
OUTPUT(23)
10 = NAND(1, 3)
11 = NAND(3, 6)
16 = NAND(2, 11)
19 = NAND(11, 7)
22 = NAND(10, 16)
23 = NAND(16, 19)
`

// c17 rewritten with AND/OR/NOT.
const c17Opt = `INPUT(1)
INPUT(2)
INPUT(3)
INPUT(6)
INPUT(7)
OUTPUT(22)
OUTPUT(23)
n11 = AND(3, 6)
n16 = OR(NOT2, n11)
NOT2 = NOT(2)
22 = OR(n10, n16n)
n10 = AND(1, 3)
n16n = NOT(n16)
23 = OR(n16n, n19)
n19 = AND(nn11, 7)
nn11 = NOT(n11)
`

func writeBench(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	config := DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	engine, err := NewEngine(config, nil)
	require.NoError(t, err)
	return engine
}

func TestCheckFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "c17.bench", c17)
	opt := writeBench(t, dir, "c17_opt.bench", c17Opt)

	tests := []struct {
		name    string
		workers int
	}{
		{"sequential", 1},
		{"parallel", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := newTestEngine(t, func(c *Config) { c.Check.Workers = tt.workers })

			report, err := engine.CheckFiles(context.Background(), ref, opt)
			require.NoError(t, err)
			assert.True(t, report.Equivalent, report.Summary())
			assert.Len(t, report.Outputs, 2)
			assert.Equal(t, "c17", report.Reference)
			assert.Equal(t, "c17_opt", report.Optimized)
		})
	}
}

func TestCheckFilesMismatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "a.bench", "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = AND(a, b)\n")
	opt := writeBench(t, dir, "a_opt.bench", "INPUT(a)\nINPUT(b)\nOUTPUT(c)\nc = OR(a, b)\n")

	report, err := newTestEngine(t, nil).CheckFiles(context.Background(), ref, opt)
	require.NoError(t, err)
	assert.False(t, report.Equivalent)

	mismatches := report.Mismatches()
	require.Len(t, mismatches, 1)
	assert.Equal(t, "c", mismatches[0].Name)
	assert.Contains(t, mismatches[0].Reference, "AND(a, b)")
	assert.Contains(t, mismatches[0].Optimized, "OR(a, b)")
	assert.Equal(t, "2", mismatches[0].DiffCount)
	require.NotNil(t, mismatches[0].Counterexample)

	w := mismatches[0].Counterexample
	assert.NotEqual(t, w["a"] && w["b"], w["a"] || w["b"])
}

func TestCheckFilesMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "a.bench", "INPUT(a)\nOUTPUT(a)\n")

	_, err := newTestEngine(t, nil).CheckFiles(context.Background(), ref, filepath.Join(dir, "nope.bench"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrIO))

	var e *types.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, filepath.Join(dir, "nope.bench"), e.Path)
}

func TestOutputs(t *testing.T) {
	t.Parallel()
	path := writeBench(t, t.TempDir(), "c17.bench", c17)

	outs, err := newTestEngine(t, nil).Outputs(path)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, "22", outs[0].Name)
	assert.Equal(t, "23", outs[1].Name)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	path := writeBench(t, t.TempDir(), "loop.bench", `INPUT(x)
OUTPUT(a)
a = AND(b, x)
b = AND(a, x)
`)

	summary, issues, err := newTestEngine(t, nil).Validate(path)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inputs)
	assert.Equal(t, 2, summary.Gates)

	var rules []string
	for _, issue := range issues {
		rules = append(rules, issue.Rule)
	}
	assert.Contains(t, rules, "cycle-detection")
}

func TestWriteDot(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "c17.bench", c17)
	opt := writeBench(t, dir, "c17_opt.bench", c17Opt)
	engine := newTestEngine(t, nil)

	var buf bytes.Buffer
	require.NoError(t, engine.WriteDot(&buf, ref, opt))
	out := buf.String()
	assert.Contains(t, out, "digraph bdd {")
	assert.Contains(t, out, `label="c17/22"`)
	assert.Contains(t, out, `label="c17_opt/23"`)

	buf.Reset()
	require.NoError(t, engine.WriteDot(&buf, ref))
	assert.Contains(t, buf.String(), `label="22"`)
}

func TestWriteDotAll(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "c17.bench", c17)
	opt := writeBench(t, dir, "c17_opt.bench", c17Opt)
	engine := newTestEngine(t, nil)

	var buf bytes.Buffer
	require.NoError(t, engine.WriteDotAll(&buf, ref))
	out := buf.String()
	// five inputs and six gates
	assert.Equal(t, 11, strings.Count(out, "shape=box"))
	for _, label := range []string{"1", "7", "10", "19", "22", "23"} {
		assert.Contains(t, out, `shape=box, label="`+label+`"`)
	}

	buf.Reset()
	require.NoError(t, engine.WriteDot(&buf, ref))
	assert.Equal(t, 2, strings.Count(buf.String(), "shape=box"), "outputs only by default")

	buf.Reset()
	require.NoError(t, engine.WriteDotAll(&buf, ref, opt))
	out = buf.String()
	assert.Contains(t, out, `label="c17/10"`)
	assert.Contains(t, out, `label="c17_opt/n11"`)
	assert.Contains(t, out, `shape=box, label="3"`, "shared inputs are not qualified")
	assert.Equal(t, 1, strings.Count(out, `shape=box, label="3"`))
}

func TestWriteDotPerOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ref := writeBench(t, dir, "c17.bench", c17)
	outDir := filepath.Join(dir, "dots")

	files, err := newTestEngine(t, nil).WriteDotPerOutput(outDir, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(outDir, "22.dot"),
		filepath.Join(outDir, "23.dot"),
	}, files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Contains(t, string(data), "digraph bdd {")
	}
}

func TestWriteGraph(t *testing.T) {
	t.Parallel()
	path := writeBench(t, t.TempDir(), "c17.bench", c17)

	var buf bytes.Buffer
	require.NoError(t, newTestEngine(t, nil).WriteGraph(&buf, path))
	assert.Contains(t, buf.String(), "digraph")
	assert.Contains(t, buf.String(), "NAND")
}
