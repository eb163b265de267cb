package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

var outputsOutPath string

var outputsCmd = &cobra.Command{
	Use:   "outputs <file.bench>",
	Short: "List the outputs of a netlist in declaration order",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println("error: Please provide one bench file")
			os.Exit(1)
		}
		engine := loadEngine(nil)

		outs, err := engine.Outputs(args[0])
		if err != nil {
			reportError(err)
			os.Exit(2)
		}

		w := io.Writer(os.Stdout)
		if outputsOutPath != "" {
			f, err := os.Create(outputsOutPath)
			if err != nil {
				logger.Fatal("Failed to create output file", zap.String("path", outputsOutPath), zap.Error(err))
			}
			defer f.Close()
			w = f
		}
		if err := writeOutputNames(w, outs); err != nil {
			logger.Error("Error writing outputs", zap.Error(err))
			os.Exit(2)
		}
	},
}

func init() {
	outputsCmd.Flags().StringVarP(&outputsOutPath, "output", "o", "", "Write the list to this file")
}

func writeOutputNames(w io.Writer, outs []types.OutputAtom) error {
	bw := bufio.NewWriter(w)
	for _, o := range outs {
		fmt.Fprintln(bw, o.Name)
	}
	return bw.Flush()
}
