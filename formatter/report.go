package formatter

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/verify"
)

// FormatReport renders the verdict of one check: the summary line, then
// one line per compared output and the details of every mismatch.
func FormatReport(r *equiv.Report) string {
	var b strings.Builder

	if r.Equivalent {
		b.WriteString(suggestionStyle.Sprint("equivalent: "))
	} else {
		b.WriteString(errorStyle.Sprint("not equivalent: "))
	}
	b.WriteString(fileStyle.Sprintf("%s vs %s\n", r.Reference, r.Optimized))

	for _, o := range r.Outputs {
		name := o.Name
		if o.OptimizedName != "" {
			name = fmt.Sprintf("%s <-> %s", o.Name, o.OptimizedName)
		}
		if o.Equal {
			b.WriteString(suggestionStyle.Sprint("  PASS "))
			b.WriteString(name + "\n")
			continue
		}
		b.WriteString(messageStyle.Sprint("  FAIL "))
		b.WriteString(name + "\n")
		b.WriteString(lineStyle.Sprint("       reference: ") + o.Reference + "\n")
		b.WriteString(lineStyle.Sprint("       optimized: ") + o.Optimized + "\n")
		if o.DiffCount != "" {
			b.WriteString(lineStyle.Sprint("       differs on: ") + o.DiffCount + " input assignments\n")
		}
		if w := o.Witness(); w != "" {
			b.WriteString(lineStyle.Sprint("       counterexample: ") + w + "\n")
		}
	}

	if r.Truncated {
		b.WriteString(warningStyle.Sprint("stopped at the first mismatch; remaining outputs were not compared\n"))
	}
	b.WriteString(r.Summary() + "\n")
	return b.String()
}

// FormatBatch renders a batch report with one line per pair.
func FormatBatch(r verify.BatchReport) string {
	var b strings.Builder
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			b.WriteString(errorStyle.Sprint("ERROR "))
			b.WriteString(fileStyle.Sprint(res.Pair.Name))
			b.WriteString(": " + res.Err.Error() + "\n")
		case res.Report.Equivalent:
			b.WriteString(suggestionStyle.Sprint("PASS  "))
			b.WriteString(fileStyle.Sprint(res.Pair.Name) + "\n")
		default:
			b.WriteString(messageStyle.Sprint("FAIL  "))
			b.WriteString(fileStyle.Sprint(res.Pair.Name))
			names := make([]string, 0)
			for _, o := range res.Report.Mismatches() {
				names = append(names, o.Name)
			}
			b.WriteString(": outputs differ: " + strings.Join(names, ", ") + "\n")
		}
	}
	for _, o := range r.Orphans {
		b.WriteString(warningStyle.Sprint("warning: "))
		b.WriteString("no optimized file for " + o + "\n")
	}
	b.WriteString(r.Summary() + "\n")
	return b.String()
}
