package verify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/scanner"
)

// PairResult is the outcome of one pair of a batch. Err is set when the
// pair could not be checked at all.
type PairResult struct {
	Pair   scanner.Pair
	Report *equiv.Report
	Err    error
}

// BatchReport summarizes the checks of a directory.
type BatchReport struct {
	Total         int
	Equivalent    int
	NotEquivalent int
	Failed        int
	Results       []PairResult
	// Orphans are reference files without an optimized sibling.
	Orphans []string
}

// Summary returns a human-readable summary of the batch.
func (r BatchReport) Summary() string {
	return fmt.Sprintf(
		"Checked %d circuit pairs: %d equivalent, %d not equivalent, %d failed",
		r.Total, r.Equivalent, r.NotEquivalent, r.Failed,
	)
}

// OK reports whether every pair was checked and found equivalent.
func (r BatchReport) OK() bool {
	return r.Total > 0 && r.Equivalent == r.Total
}

// ScanPairs finds every `<name>.bench` / `<name>_opt.bench` pair below dir.
func ScanPairs(dir string) ([]scanner.Pair, []string, error) {
	files, err := scanner.New(dir, scanner.BenchExt).Scan()
	if err != nil {
		return nil, nil, fmt.Errorf("error accessing %s: %w", dir, err)
	}
	pairs, orphans := scanner.Pairs(files)
	return pairs, orphans, nil
}

// ProcessPairs checks pairs with at most workers concurrent checks. A
// failing pair does not stop the others; its error is kept in its result.
// Results keep the order of pairs.
func ProcessPairs(
	ctx context.Context,
	logger *zap.Logger,
	checker PairChecker,
	pairs []scanner.Pair,
	workers int,
	showProgress bool,
) (BatchReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}

	report := BatchReport{
		Total:   len(pairs),
		Results: make([]PairResult, len(pairs)),
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = newProgressBar(os.Stderr, len(pairs))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := checker.CheckFiles(gctx, p.Reference, p.Optimized)
			if err != nil {
				logger.Error("Error checking pair",
					zap.String("reference", p.Reference),
					zap.String("optimized", p.Optimized),
					zap.Error(err))
			}
			report.Results[i] = PairResult{Pair: p, Report: r, Err: err}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	if bar != nil {
		stopProgress(bar, err)
	}
	if err != nil {
		return report, err
	}

	for _, r := range report.Results {
		switch {
		case r.Err != nil:
			report.Failed++
		case r.Report.Equivalent:
			report.Equivalent++
		default:
			report.NotEquivalent++
		}
	}
	return report, nil
}

func newProgressBar(w io.Writer, n int) *progressbar.ProgressBar {
	return progressbar.NewOptions(n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("checking"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// stopProgress fills the bar after a complete run and freezes it where it
// stopped otherwise. Either way the bar line is terminated.
func stopProgress(bar *progressbar.ProgressBar, err error) {
	if err != nil {
		_ = bar.Exit()
		return
	}
	_ = bar.Finish()
}

// ProcessDir scans dir and checks every pair found.
func ProcessDir(
	ctx context.Context,
	logger *zap.Logger,
	checker PairChecker,
	dir string,
	workers int,
	showProgress bool,
) (BatchReport, error) {
	pairs, orphans, err := ScanPairs(dir)
	if err != nil {
		return BatchReport{}, err
	}
	report, err := ProcessPairs(ctx, logger, checker, pairs, workers, showProgress)
	report.Orphans = orphans
	return report, err
}
