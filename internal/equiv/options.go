package equiv

import (
	"github.com/gnoswap-labs/nequiv/internal/bdd"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
)

// MismatchPolicy decides what happens after the first differing output.
type MismatchPolicy string

const (
	// CollectAll compares every output and reports every mismatch.
	CollectAll MismatchPolicy = "collect"
	// FailFast stops at the first mismatch and marks the report truncated.
	FailFast MismatchPolicy = "fail-fast"
)

// Options configures a Checker.
type Options struct {
	Match    netlist.MatchMode
	Mismatch MismatchPolicy
	// Counterexamples searches a distinguishing input assignment for every
	// mismatching output.
	Counterexamples bool
	// Workers splits the outputs of one pair across independent stores and
	// function engines when greater than one.
	Workers int
	Parse   netlist.ParseOptions
	BDD     bdd.Config
}

func DefaultOptions() Options {
	return Options{
		Match:           netlist.MatchByName,
		Mismatch:        CollectAll,
		Counterexamples: true,
		Workers:         1,
		BDD: bdd.Config{
			NodeSize:  bdd.DefaultNodeSize,
			CacheSize: bdd.DefaultCacheSize,
		},
	}
}

func (o Options) normalized() Options {
	if o.Match == "" {
		o.Match = netlist.MatchByName
	}
	if o.Mismatch == "" {
		o.Mismatch = CollectAll
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}
