package equiv

import (
	"context"
	"math/big"

	"github.com/dalzilio/rudd"
	"github.com/go-air/gini/z"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/internal/bdd"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
	"github.com/gnoswap-labs/nequiv/internal/resolve"
	"github.com/gnoswap-labs/nequiv/internal/sat"
)

// Checker compares the outputs of a reference and an optimized circuit.
type Checker struct {
	opts   Options
	logger *zap.Logger
}

// New creates a checker. A nil logger discards output.
func New(opts Options, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{opts: opts.normalized(), logger: logger}
}

// Options returns the effective options of c.
func (c *Checker) Options() Options { return c.opts }

// pair is one reference output matched with one optimized output.
type pair struct {
	ref, opt string
	index    int
}

func matchOutputs(a, b *netlist.Circuit, mode netlist.MatchMode) []pair {
	pairs := make([]pair, len(a.Outputs))
	for i, out := range a.Outputs {
		p := pair{ref: out.Name, opt: out.Name, index: out.Index}
		if mode == netlist.MatchByPosition {
			p.opt = b.Outputs[i].Name
		}
		pairs[i] = p
	}
	return pairs
}

// Check compares a and b, both parsed into store. The interface sanity
// checks run first; a ConsistencyError is returned before anything is
// resolved. Any resolution error aborts the check.
func (c *Checker) Check(ctx context.Context, store *netlist.Store, a, b *netlist.Circuit) (*Report, error) {
	if err := netlist.CheckInterfaces(a, b, c.opts.Match); err != nil {
		return nil, err
	}
	report := c.newReport(a, b)
	report.Stats.Workers = 1

	results, stats, err := c.comparePairs(ctx, store, a, b, matchOutputs(a, b, c.opts.Match))
	if err != nil {
		return nil, err
	}
	report.Outputs, report.Truncated = c.applyPolicy(results, len(a.Outputs))
	report.Stats.add(stats)
	report.finish()

	c.logger.Info("equivalence check finished",
		zap.String("reference", a.Name),
		zap.String("optimized", b.Name),
		zap.Bool("equivalent", report.Equivalent),
		zap.Int("outputs", len(report.Outputs)),
		zap.Int("mismatches", len(report.Mismatches())))
	return report, nil
}

func (c *Checker) newReport(a, b *netlist.Circuit) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Reference: a.Name,
		Optimized: b.Name,
		Match:     c.opts.Match,
		Policy:    c.opts.Mismatch,
	}
}

// comparePairs resolves and compares pairs with one BDD manager sized for
// store. Under FailFast it stops after the first mismatch.
func (c *Checker) comparePairs(
	ctx context.Context,
	store *netlist.Store,
	a, b *netlist.Circuit,
	pairs []pair,
) ([]OutputResult, Stats, error) {
	mgr, err := bdd.New(store.VarCount(), c.opts.BDD)
	if err != nil {
		return nil, Stats{}, err
	}
	res := resolve.New[rudd.Node](mgr, c.logger)

	var (
		results    []OutputResult
		mismatched []int
	)
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		ha, err := res.Resolve(a.Scope, p.ref)
		if err != nil {
			return nil, Stats{}, err
		}
		hb, err := res.Resolve(b.Scope, p.opt)
		if err != nil {
			return nil, Stats{}, err
		}

		r := OutputResult{Name: p.ref, Index: p.index, Equal: mgr.Equal(ha, hb)}
		if p.opt != p.ref {
			r.OptimizedName = p.opt
		}
		if !r.Equal {
			r.Reference = rawOf(a, p.ref)
			r.Optimized = rawOf(b, p.opt)
			r.DiffCount = c.diffCount(mgr, p.ref, ha, hb)
			mismatched = append(mismatched, len(results))
			c.logger.Debug("output differs",
				zap.String("output", p.ref),
				zap.String("reference", r.Reference),
				zap.String("optimized", r.Optimized),
				zap.Bool("reference constant", mgr.IsConst(ha)),
				zap.Bool("optimized constant", mgr.IsConst(hb)))
		}
		results = append(results, r)
		if !r.Equal && c.opts.Mismatch == FailFast {
			break
		}
	}

	if c.opts.Counterexamples && len(mismatched) > 0 {
		if err := c.attachWitnesses(a, b, pairs, results, mismatched); err != nil {
			return nil, Stats{}, err
		}
	}

	rs := res.Stats()
	return results, Stats{Variables: rs.Vars, Gates: rs.Gates, CacheHits: rs.Hits}, nil
}

type diffCounter interface {
	DiffCount(a, b rudd.Node) (*big.Int, error)
}

// diffCount returns the number of assignments on which a and b differ, or
// an empty string when the diagram cannot hold the miter.
func (c *Checker) diffCount(dc diffCounter, output string, a, b rudd.Node) string {
	n, err := dc.DiffCount(a, b)
	if err != nil {
		c.logger.Warn("cannot count differing assignments",
			zap.String("output", output),
			zap.Error(err))
		return ""
	}
	return n.String()
}

// attachWitnesses rebuilds the mismatching outputs as a gini circuit and
// stores a distinguishing assignment on each result.
func (c *Checker) attachWitnesses(a, b *netlist.Circuit, pairs []pair, results []OutputResult, mismatched []int) error {
	circ := sat.New()
	res := resolve.New[z.Lit](circ, c.logger)

	miters := make([]sat.Pair, len(mismatched))
	for i, idx := range mismatched {
		p := pairs[idx]
		la, err := res.Resolve(a.Scope, p.ref)
		if err != nil {
			return err
		}
		lb, err := res.Resolve(b.Scope, p.opt)
		if err != nil {
			return err
		}
		miters[i] = sat.Pair{A: la, B: lb}
	}
	for i, w := range circ.Witnesses(miters) {
		results[mismatched[i]].Counterexample = w
	}
	return nil
}

// applyPolicy cuts results after the first mismatch under FailFast and
// reports whether outputs were left uncompared.
func (c *Checker) applyPolicy(results []OutputResult, total int) ([]OutputResult, bool) {
	if c.opts.Mismatch != FailFast {
		return results, false
	}
	for i, r := range results {
		if !r.Equal {
			return results[:i+1], i+1 < total
		}
	}
	return results, false
}

func rawOf(c *netlist.Circuit, name string) string {
	if p, ok := c.Lookup(name); ok {
		return p.Raw
	}
	return ""
}
