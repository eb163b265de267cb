package bdd

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/dalzilio/rudd"
)

// Function is a handle to render together with its label.
type Function struct {
	Node  rudd.Node
	Label string
}

type dotNode struct {
	id, level, low, high int
}

// WriteDot renders the diagram shared by funcs in GraphViz format. Each
// function becomes a labelled box pointing at its root; decision nodes are
// labelled with the primitive names, low edges are dashed. Only nodes
// reachable from funcs are emitted, so a single function renders its own
// sub-diagram.
func (m *Manager) WriteDot(w io.Writer, funcs []Function) error {
	roots := make([]rudd.Node, 0, len(funcs))
	for _, f := range funcs {
		if f.Node == nil {
			return fmt.Errorf("function %q has no node", f.Label)
		}
		roots = append(roots, f.Node)
	}

	var nodes []dotNode
	if len(roots) > 0 {
		err := m.b.Allnodes(func(id, level, low, high int) error {
			if id < 2 {
				return nil
			}
			nodes = append(nodes, dotNode{id: id, level: level, low: low, high: high})
			return nil
		}, roots...)
		if err != nil {
			return err
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph bdd {")
	fmt.Fprintln(bw, "\tnode0 [shape=square, label=\"0\"];")
	fmt.Fprintln(bw, "\tnode1 [shape=square, label=\"1\"];")
	for _, n := range nodes {
		fmt.Fprintf(bw, "\tnode%d [shape=circle, label=%q];\n", n.id, m.Name(n.level))
	}
	for _, n := range nodes {
		fmt.Fprintf(bw, "\tnode%d -> node%d [style=dashed];\n", n.id, n.low)
		fmt.Fprintf(bw, "\tnode%d -> node%d;\n", n.id, n.high)
	}
	for i, f := range funcs {
		fmt.Fprintf(bw, "\tf%d [shape=box, label=%q];\n", i, f.Label)
		fmt.Fprintf(bw, "\tf%d -> node%d [style=bold];\n", i, *f.Node)
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
