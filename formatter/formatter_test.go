package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/nequiv/internal/equiv"
	tt "github.com/gnoswap-labs/nequiv/internal/types"
	"github.com/gnoswap-labs/nequiv/scanner"
	"github.com/gnoswap-labs/nequiv/verify"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &SourceCode{
		Lines: []string{
			"INPUT(x)",
			"OUTPUT(a)",
			"a = AND(b, x)",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "undefined-signal",
			Filename: "t.bench",
			Line:     3,
			Signal:   "b",
			Message:  "b is not defined",
		},
		{
			Rule:     "undriven-output",
			Filename: "t.bench",
			Signal:   "y",
			Message:  "output y is not driven",
		},
	}

	expected := `error: undefined-signal
 --> t.bench:3
  |
3 | a = AND(b, x)
  |         ~
  = b is not defined

warning: undriven-output
 --> t.bench
  |
  | output y is not driven

`

	result := GenerateFormattedIssue(issues, code)
	assert.Equal(t, expected, result, "Formatted output does not match expected")
}

func TestReadSourceCode(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.bench")
	require.NoError(t, os.WriteFile(path, []byte("INPUT(a)\nOUTPUT(a)"), 0o644))

	code, err := ReadSourceCode(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"INPUT(a)", "OUTPUT(a)"}, code.Lines)

	_, err = ReadSourceCode(filepath.Join(t.TempDir(), "missing.bench"))
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	t.Parallel()
	report := &equiv.Report{
		Reference: "ref",
		Optimized: "ref_opt",
		Outputs: []equiv.OutputResult{
			{Name: "x", Index: 1, Equal: true},
			{
				Name:           "y",
				Index:          2,
				Reference:      "y = AND(a, b)",
				Optimized:      "y = OR(a, b)",
				DiffCount:      "2",
				Counterexample: map[string]bool{"b": false, "a": true},
			},
		},
	}

	expected := `not equivalent: ref vs ref_opt
  PASS x
  FAIL y
       reference: y = AND(a, b)
       optimized: y = OR(a, b)
       differs on: 2 input assignments
       counterexample: a=1 b=0
ref vs ref_opt: NOT equivalent (2 outputs compared, 1 differ)
`
	assert.Equal(t, expected, FormatReport(report))
}

func TestFormatBatch(t *testing.T) {
	t.Parallel()
	batch := verify.BatchReport{
		Total:         3,
		Equivalent:    1,
		NotEquivalent: 1,
		Failed:        1,
		Results: []verify.PairResult{
			{Pair: scanner.Pair{Name: "a"}, Report: &equiv.Report{Equivalent: true}},
			{Pair: scanner.Pair{Name: "b"}, Report: &equiv.Report{Outputs: []equiv.OutputResult{{Name: "o1"}}}},
			{Pair: scanner.Pair{Name: "c"}, Err: errors.New("cycle")},
		},
		Orphans: []string{"d.bench"},
	}

	expected := `PASS  a
FAIL  b: outputs differ: o1
ERROR c: cycle
warning: no optimized file for d.bench
Checked 3 circuit pairs: 1 equivalent, 1 not equivalent, 1 failed
`
	assert.Equal(t, expected, FormatBatch(batch))
}
