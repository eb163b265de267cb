package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/formatter"
	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/internal/types"
	"github.com/gnoswap-labs/nequiv/verify"
)

// variable for flags
var (
	matchMode         string
	failFast          bool
	strictParse       bool
	checkJsonOutput   bool
	checkOutPath      string
	workers           int
	noCounterexamples bool
)

var checkCmd = &cobra.Command{
	Use:   "check <reference.bench> <optimized.bench>",
	Short: "Check that two netlists compute the same outputs",
	Long: `Builds the Boolean function of every output of both circuits and compares them.
Example) nequiv check c17.bench c17_opt.bench --match position`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println("error: Please provide a reference and an optimized bench file")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine := loadEngine(func(c *verify.Config) { applyCheckFlags(cmd, c) })
		runCheck(ctx, logger, engine, args[0], args[1], checkJsonOutput, checkOutPath)
	},
}

func init() {
	checkCmd.Flags().StringVar(&matchMode, "match", "", "Output matching: name or position")
	checkCmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first differing output")
	checkCmd.Flags().BoolVar(&strictParse, "strict", false, "Reject unrecognized lines")
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output the report in JSON format")
	checkCmd.Flags().StringVarP(&checkOutPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().IntVar(&workers, "workers", 0, "Number of workers splitting the outputs")
	checkCmd.Flags().BoolVar(&noCounterexamples, "no-counterexamples", false, "Skip the search for distinguishing inputs")
}

// applyCheckFlags overrides the configuration with the flags set on cmd.
func applyCheckFlags(cmd *cobra.Command, c *verify.Config) {
	if matchMode != "" {
		c.Check.Match = matchMode
	}
	if failFast {
		c.Check.Mismatch = string(equiv.FailFast)
	}
	if strictParse {
		c.Parser.Strict = true
	}
	if cmd.Flags().Changed("workers") {
		c.Check.Workers = workers
	}
	if noCounterexamples {
		c.Check.Counterexamples = false
	}
}

func runCheck(ctx context.Context, logger *zap.Logger, engine verify.PairChecker, ref, opt string, isJson bool, jsonOutput string) {
	report, err := engine.CheckFiles(ctx, ref, opt)
	if err != nil {
		reportError(err)
		os.Exit(2)
	}

	if isJson {
		if err := writeJSON(report, jsonOutput); err != nil {
			logger.Error("Error writing JSON report", zap.Error(err))
			os.Exit(2)
		}
	} else {
		fmt.Print(formatter.FormatReport(report))
	}

	if !report.Equivalent {
		os.Exit(1)
	}
}

// reportError prints err to stderr. Errors raised while reading files are
// distinguished from errors found in the netlists themselves.
func reportError(err error) {
	if types.KindOf(err) == types.KindIO {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func writeJSON(v any, path string) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(d))
		return nil
	}
	return os.WriteFile(path, d, 0o644)
}
