package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/formatter"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
	tt "github.com/gnoswap-labs/nequiv/internal/types"
)

var validateJsonOutput bool

// fileValidation is the validate result of one file.
type fileValidation struct {
	Summary netlist.Summary `json:"summary"`
	Issues  []tt.Issue      `json:"issues,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Report structural problems of netlists without comparing them",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide bench file paths")
			os.Exit(1)
		}
		engine := loadEngine(nil)

		results := make(map[string]fileValidation, len(args))
		total := 0
		for _, path := range args {
			summary, issues, err := engine.Validate(path)
			if err != nil {
				reportError(err)
				os.Exit(2)
			}
			results[path] = fileValidation{Summary: summary, Issues: issues}
			total += len(issues)
		}

		printIssues(os.Stdout, logger, args, results, validateJsonOutput)
		if total > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJsonOutput, "json", false, "Output issues in JSON format")
}

func printIssues(w io.Writer, logger *zap.Logger, files []string, results map[string]fileValidation, isJson bool) {
	if isJson {
		d, err := json.Marshal(results)
		if err != nil {
			logger.Error("Error marshalling issues to JSON", zap.Error(err))
			return
		}
		fmt.Fprintln(w, string(d))
		return
	}

	for _, filename := range files {
		r, ok := results[filename]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", filename, r.Summary)
		if len(r.Issues) == 0 {
			continue
		}
		sourceCode, err := formatter.ReadSourceCode(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprint(w, formatter.GenerateFormattedIssue(r.Issues, sourceCode))
	}
}
