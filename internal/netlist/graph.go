package netlist

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

var gateShapes = map[types.Operator]string{
	types.OpAnd:  "box",
	types.OpOr:   "ellipse",
	types.OpNand: "invhouse",
	types.OpNor:  "invtrapezium",
	types.OpNot:  "triangle",
	types.OpXor:  "hexagon",
}

// WriteDot renders the gate-level structure of c as a GraphViz digraph:
// inputs in green, outputs in red, one node per gate and one edge per
// gate input.
func WriteDot(w io.Writer, c *Circuit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", c.Name)
	fmt.Fprintln(bw, "\trankdir=LR;")

	outputs := make(map[string]bool, len(c.Outputs))
	for _, o := range c.Outputs {
		outputs[o.Name] = true
	}
	for _, in := range c.Inputs {
		fmt.Fprintf(bw, "\t%q [label=%q, shape=circle, color=green];\n", in, in)
	}
	for _, name := range c.Scope.order {
		p := c.Scope.props[name]
		shape, ok := gateShapes[p.Op]
		if !ok {
			shape = "box"
		}
		color := "black"
		if outputs[name] {
			color = "red"
		}
		fmt.Fprintf(bw, "\t%q [label=%q, shape=%s, color=%s];\n", name, fmt.Sprintf("%s (%s)", name, p.Op), shape, color)
	}
	for _, name := range c.Undriven {
		fmt.Fprintf(bw, "\t%q [label=%q, shape=circle, color=red];\n", name, name)
	}
	for _, name := range c.Scope.order {
		for _, in := range c.Scope.props[name].Inputs {
			fmt.Fprintf(bw, "\t%q -> %q;\n", in, name)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
