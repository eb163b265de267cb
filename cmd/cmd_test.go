package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
	"github.com/gnoswap-labs/nequiv/internal/types"
	"github.com/gnoswap-labs/nequiv/scanner"
	"github.com/gnoswap-labs/nequiv/verify"
)

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".nequiv.yaml")

	require.NoError(t, initConfigurationFile(path))

	config, err := verify.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, verify.DefaultConfig(), config)
}

func TestWriteOutputNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := writeOutputNames(&buf, []types.OutputAtom{
		{Name: "22", Index: 1},
		{Name: "23", Index: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "22\n23\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "report.json")
	report := &equiv.Report{Reference: "a", Optimized: "a_opt", Equivalent: true}

	require.NoError(t, writeJSON(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded equiv.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "a", decoded.Reference)
	assert.True(t, decoded.Equivalent)
}

func TestBatchJSON(t *testing.T) {
	t.Parallel()
	r := verify.BatchReport{
		Total:      2,
		Equivalent: 1,
		Failed:     1,
		Results: []verify.PairResult{
			{Pair: scanner.Pair{Name: "a"}, Report: &equiv.Report{Equivalent: true}},
			{Pair: scanner.Pair{Name: "b"}, Err: errors.New("cycle")},
		},
	}

	out := batchJSON(r)
	entries, ok := out["pairs"].([]batchEntry)
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.NotNil(t, entries[0].Report)
	assert.Empty(t, entries[0].Error)
	assert.Nil(t, entries[1].Report)
	assert.Equal(t, "cycle", entries[1].Error)
	assert.Equal(t, r.Summary(), out["summary"])
}

// applyCheckFlags reads the package level flag variables, so this test
// does not run in parallel.
func TestApplyCheckFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&workers, "workers", 0, "")

	matchMode, failFast, strictParse, noCounterexamples = "position", true, true, true
	defer func() {
		matchMode, failFast, strictParse, noCounterexamples, workers = "", false, false, false, 0
	}()
	require.NoError(t, cmd.Flags().Set("workers", "3"))

	config := verify.DefaultConfig()
	applyCheckFlags(cmd, &config)

	assert.Equal(t, "position", config.Check.Match)
	assert.Equal(t, string(equiv.FailFast), config.Check.Mismatch)
	assert.True(t, config.Parser.Strict)
	assert.False(t, config.Check.Counterexamples)
	assert.Equal(t, 3, config.Check.Workers)
	assert.NoError(t, config.Validate())
}

func TestApplyCheckFlagsKeepsConfig(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&workers, "workers", 0, "")

	config := verify.DefaultConfig()
	config.Check.Workers = 8
	applyCheckFlags(cmd, &config)
	assert.Equal(t, 8, config.Check.Workers)
	assert.Equal(t, "name", config.Check.Match)
}

// loadBatchEngine reads the package level cfgFile and logger, so this test
// does not run in parallel.
func TestLoadBatchEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".nequiv.yaml")
	config := verify.DefaultConfig()
	config.Check.Workers = 8
	require.NoError(t, verify.WriteConfig(path, config))

	prevCfg, prevLogger := cfgFile, logger
	cfgFile, logger = path, zaptest.NewLogger(t)
	defer func() { cfgFile, logger = prevCfg, prevLogger }()

	tests := []struct {
		name string
		flag int
		want int
	}{
		{"configured workers bound the batch", 0, 8},
		{"flag overrides the configuration", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, n := loadBatchEngine(tt.flag)
			assert.Equal(t, tt.want, n)
			assert.Equal(t, 1, engine.Config().Check.Workers, "each pair is checked sequentially")
		})
	}
}

func TestPrintIssues(t *testing.T) {
	t.Parallel()
	results := map[string]fileValidation{
		"c17.bench": {Summary: netlist.Summary{Inputs: 5, Outputs: 2, Gates: 6, Variables: 5, Propositions: 11}},
	}

	var buf bytes.Buffer
	printIssues(&buf, zaptest.NewLogger(t), []string{"c17.bench", "missing.bench"}, results, false)
	assert.Equal(t, "c17.bench: 5 inputs, 2 outputs, 6 gates\n", buf.String())

	buf.Reset()
	printIssues(&buf, zaptest.NewLogger(t), []string{"c17.bench"}, results, true)
	var decoded map[string]fileValidation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, results, decoded)
}
