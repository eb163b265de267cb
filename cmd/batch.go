package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/formatter"
	"github.com/gnoswap-labs/nequiv/verify"
)

var (
	batchWorkers    int
	batchJsonOutput bool
	batchOutPath    string
	noProgress      bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Check every <name>.bench / <name>_opt.bench pair below a directory",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println("error: Please provide one directory")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, n := loadBatchEngine(batchWorkers)
		runBatch(ctx, logger, engine, args[0], n)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Number of pairs checked concurrently (default: check.workers)")
	batchCmd.Flags().BoolVar(&batchJsonOutput, "json", false, "Output the reports in JSON format")
	batchCmd.Flags().StringVarP(&batchOutPath, "output", "o", "", "Output path (when using JSON)")
	batchCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
}

// loadBatchEngine returns an engine checking each pair sequentially and
// the number of pairs to check concurrently: flagWorkers when set,
// check.workers from the configuration otherwise.
func loadBatchEngine(flagWorkers int) (*verify.Engine, int) {
	n := flagWorkers
	engine := loadEngine(func(c *verify.Config) {
		if n <= 0 {
			n = c.Check.Workers
		}
		c.Check.Workers = 1
	})
	return engine, n
}

func runBatch(ctx context.Context, logger *zap.Logger, engine verify.PairChecker, dir string, workers int) {
	report, err := verify.ProcessDir(ctx, logger, engine, dir, workers, !noProgress && !batchJsonOutput)
	if err != nil {
		logger.Error("Error processing directory", zap.String("dir", dir), zap.Error(err))
		os.Exit(2)
	}

	if batchJsonOutput {
		if err := writeJSON(batchJSON(report), batchOutPath); err != nil {
			logger.Error("Error writing JSON report", zap.Error(err))
			os.Exit(2)
		}
	} else {
		fmt.Print(formatter.FormatBatch(report))
	}

	if !report.OK() {
		os.Exit(1)
	}
}

type batchEntry struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Optimized string `json:"optimized"`
	Report    any    `json:"report,omitempty"`
	Error     string `json:"error,omitempty"`
}

func batchJSON(r verify.BatchReport) map[string]any {
	entries := make([]batchEntry, len(r.Results))
	for i, res := range r.Results {
		e := batchEntry{
			Name:      res.Pair.Name,
			Reference: res.Pair.Reference,
			Optimized: res.Pair.Optimized,
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		} else {
			e.Report = res.Report
		}
		entries[i] = e
	}
	return map[string]any{
		"summary": r.Summary(),
		"pairs":   entries,
		"orphans": r.Orphans,
	}
}
