package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dotOutPath   string
	perOutputDir string
	renderPNG    bool
	dotAll       bool
)

var dotCmd = &cobra.Command{
	Use:   "dot <reference.bench> [optimized.bench]",
	Short: "Export the decision diagrams of the outputs in GraphViz format",
	Long: `Builds the outputs of one or two circuits in a shared decision diagram and writes it as DOT.
Example) nequiv dot c17.bench c17_opt.bench -o c17.dot --per-output c17_dots --png
         nequiv dot c17.bench --all`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 || len(args) > 2 {
			fmt.Println("error: Please provide one or two bench files")
			os.Exit(1)
		}
		engine := loadEngine(nil)

		if perOutputDir != "" {
			files, err := engine.WriteDotPerOutput(perOutputDir, args...)
			if err != nil {
				reportError(err)
				os.Exit(2)
			}
			for _, f := range files {
				renderIfRequested(f)
			}
			fmt.Printf("%d diagrams written to %s\n", len(files), perOutputDir)
			if dotOutPath == "" {
				return
			}
		}

		write := engine.WriteDot
		if dotAll {
			write = engine.WriteDotAll
		}
		var buf bytes.Buffer
		if err := write(&buf, args...); err != nil {
			reportError(err)
			os.Exit(2)
		}
		if dotOutPath == "" {
			fmt.Print(buf.String())
			return
		}
		if err := os.WriteFile(dotOutPath, buf.Bytes(), 0o644); err != nil {
			logger.Fatal("Failed to write DOT file", zap.String("path", dotOutPath), zap.Error(err))
		}
		renderIfRequested(dotOutPath)
		fmt.Printf("GraphViz file created: %s\n", dotOutPath)
	},
}

func init() {
	dotCmd.Flags().StringVarP(&dotOutPath, "output", "o", "", "Output path for the DOT file")
	dotCmd.Flags().StringVar(&perOutputDir, "per-output", "", "Write one pruned diagram per output into this directory")
	dotCmd.Flags().BoolVar(&renderPNG, "png", false, "Render written DOT files to PNG with the dot binary")
	dotCmd.Flags().BoolVar(&dotAll, "all", false, "Label every resolved signal, not only the outputs")
}

func renderIfRequested(dotFile string) {
	if !renderPNG {
		return
	}
	png := strings.TrimSuffix(dotFile, ".dot") + ".png"
	if err := renderGraphViz(dotFile, png); err != nil {
		logger.Error("Failed to render DOT file", zap.String("path", dotFile), zap.Error(err))
	}
}

// renderGraphViz runs the GraphViz dot binary on src.
func renderGraphViz(src, dst string) error {
	if _, err := exec.LookPath("dot"); err != nil {
		return fmt.Errorf("graphviz is not installed: %w", err)
	}
	out, err := exec.Command("dot", "-Tpng", src, "-o", dst).CombinedOutput()
	if err != nil {
		return fmt.Errorf("dot: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
