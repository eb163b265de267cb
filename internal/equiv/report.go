package equiv

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnoswap-labs/nequiv/internal/netlist"
)

// OutputResult is the verdict for one matched output pair.
type OutputResult struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	// OptimizedName differs from Name only when matching by position.
	OptimizedName string `json:"optimized_name,omitempty"`
	Equal         bool   `json:"equal"`
	// Reference and Optimized hold the raw declarations of a mismatch.
	Reference string `json:"reference,omitempty"`
	Optimized string `json:"optimized,omitempty"`
	// DiffCount is the number of input assignments on which the pair
	// differs, in decimal.
	DiffCount      string          `json:"diff_count,omitempty"`
	Counterexample map[string]bool `json:"counterexample,omitempty"`
}

// Witness formats the counterexample as name=value pairs sorted by name.
func (r OutputResult) Witness() string {
	if len(r.Counterexample) == 0 {
		return ""
	}
	names := make([]string, 0, len(r.Counterexample))
	for n := range r.Counterexample {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		v := 0
		if r.Counterexample[n] {
			v = 1
		}
		parts[i] = fmt.Sprintf("%s=%d", n, v)
	}
	return strings.Join(parts, " ")
}

// Stats summarizes the work of a check.
type Stats struct {
	Variables int `json:"variables"`
	Gates     int `json:"gates"`
	CacheHits int `json:"cache_hits"`
	Workers   int `json:"workers"`
}

func (s *Stats) add(o Stats) {
	s.Variables += o.Variables
	s.Gates += o.Gates
	s.CacheHits += o.CacheHits
}

// Report is the outcome of checking one circuit pair.
type Report struct {
	RunID      string            `json:"run_id"`
	Reference  string            `json:"reference"`
	Optimized  string            `json:"optimized"`
	Match      netlist.MatchMode `json:"match"`
	Policy     MismatchPolicy    `json:"policy"`
	Equivalent bool              `json:"equivalent"`
	Outputs    []OutputResult    `json:"outputs"`
	// Truncated is set when FailFast stopped before every output was
	// compared.
	Truncated bool  `json:"truncated,omitempty"`
	Stats     Stats `json:"stats"`
}

// Mismatches returns the outputs that differ.
func (r *Report) Mismatches() []OutputResult {
	var out []OutputResult
	for _, o := range r.Outputs {
		if !o.Equal {
			out = append(out, o)
		}
	}
	return out
}

// Summary returns a one-line human-readable verdict.
func (r *Report) Summary() string {
	verdict := "equivalent"
	if !r.Equivalent {
		verdict = "NOT equivalent"
	}
	s := fmt.Sprintf("%s vs %s: %s (%d outputs compared, %d differ)",
		r.Reference, r.Optimized, verdict, len(r.Outputs), len(r.Mismatches()))
	if r.Truncated {
		s += ", stopped at first mismatch"
	}
	return s
}

func (r *Report) finish() {
	r.Equivalent = !r.Truncated
	for _, o := range r.Outputs {
		if !o.Equal {
			r.Equivalent = false
			return
		}
	}
}
