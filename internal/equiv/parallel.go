package equiv

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/nequiv/internal/netlist"
)

// Source is bench text to be parsed by the checker.
type Source struct {
	Name string
	Text string
}

// CheckSources parses ref and opt into a fresh store and compares them.
//
// With more than one worker the matched output pairs are split into
// chunks. Every worker parses both sources again into its own store and
// resolves its chunk with its own BDD manager, so no handle is shared
// between goroutines; only the per-output verdicts are merged.
func (c *Checker) CheckSources(ctx context.Context, ref, opt Source) (*Report, error) {
	store, a, b, err := c.parsePair(ref, opt)
	if err != nil {
		return nil, err
	}
	if c.opts.Workers <= 1 || len(a.Outputs) < 2 {
		return c.Check(ctx, store, a, b)
	}
	if err := netlist.CheckInterfaces(a, b, c.opts.Match); err != nil {
		return nil, err
	}

	pairs := matchOutputs(a, b, c.opts.Match)
	chunks := split(pairs, c.opts.Workers)
	results := make([][]OutputResult, len(chunks))
	stats := make([]Stats, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			wstore, wa, wb, err := c.parsePair(ref, opt)
			if err != nil {
				return err
			}
			out, st, err := c.comparePairs(gctx, wstore, wa, wb, chunk)
			if err != nil {
				return err
			}
			results[i], stats[i] = out, st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := c.newReport(a, b)
	report.Stats.Workers = len(chunks)
	var merged []OutputResult
	for i := range chunks {
		merged = append(merged, results[i]...)
		report.Stats.add(stats[i])
	}
	report.Outputs, report.Truncated = c.applyPolicy(merged, len(pairs))
	report.finish()

	c.logger.Info("parallel equivalence check finished",
		zap.String("reference", a.Name),
		zap.String("optimized", b.Name),
		zap.Int("workers", len(chunks)),
		zap.Bool("equivalent", report.Equivalent))
	return report, nil
}

func (c *Checker) parsePair(ref, opt Source) (*netlist.Store, *netlist.Circuit, *netlist.Circuit, error) {
	store := netlist.NewStore()
	a, err := netlist.ParseString(ref.Text, ref.Name, store, c.opts.Parse)
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := netlist.ParseString(opt.Text, opt.Name, store, c.opts.Parse)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, a, b, nil
}

// split cuts pairs into at most n contiguous chunks of near equal size.
func split(pairs []pair, n int) [][]pair {
	if n > len(pairs) {
		n = len(pairs)
	}
	chunks := make([][]pair, 0, n)
	size, rem := len(pairs)/n, len(pairs)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		chunks = append(chunks, pairs[start:end])
		start = end
	}
	return chunks
}
