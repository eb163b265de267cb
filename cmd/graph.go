package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var graphOutPath string

var graphCmd = &cobra.Command{
	Use:   "graph <file.bench>",
	Short: "Export the gate structure of a netlist in GraphViz format",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println("error: Please provide one bench file")
			os.Exit(1)
		}
		engine := loadEngine(nil)

		var buf bytes.Buffer
		if err := engine.WriteGraph(&buf, args[0]); err != nil {
			reportError(err)
			os.Exit(2)
		}
		if graphOutPath == "" {
			fmt.Print(buf.String())
			return
		}
		if err := os.WriteFile(graphOutPath, buf.Bytes(), 0o644); err != nil {
			logger.Fatal("Failed to write DOT file", zap.String("path", graphOutPath), zap.Error(err))
		}
		fmt.Printf("GraphViz file created: %s\n", graphOutPath)
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphOutPath, "output", "o", "", "Output path for the DOT file")
}
