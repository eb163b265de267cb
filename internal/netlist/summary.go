package netlist

import "fmt"

// Summary counts the signals of a parsed circuit. Variables and
// Propositions cover the whole store the circuit was parsed into.
type Summary struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
	Gates   int `json:"gates"`
	// Variables is the number of shared primitives: declared inputs plus
	// undriven outputs promoted to free variables.
	Variables    int      `json:"variables"`
	Propositions int      `json:"propositions"`
	Free         []string `json:"free,omitempty"`
}

func Summarize(c *Circuit) Summary {
	store := c.Scope.Store()
	return Summary{
		Inputs:       len(c.Inputs),
		Outputs:      len(c.Outputs),
		Gates:        len(c.Scope.Names()),
		Variables:    len(store.Shared()),
		Propositions: store.Len(),
		Free:         append([]string(nil), c.Undriven...),
	}
}

func (s Summary) String() string {
	out := fmt.Sprintf("%d inputs, %d outputs, %d gates", s.Inputs, s.Outputs, s.Gates)
	if len(s.Free) > 0 {
		out += fmt.Sprintf(", %d free", len(s.Free))
	}
	return out
}
