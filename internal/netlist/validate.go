package netlist

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

// Rule names reported by Validate.
const (
	RuleCycle        = "cycle-detection"
	RuleUndefined    = "undefined-signal"
	RuleStructural   = "malformed-gate"
	RuleArity        = "operand-arity"
	RuleUndriven     = "undriven-output"
	RuleRedefined    = "redefined-signal"
	RuleUnrecognized = "unrecognized-line"
	RuleUnusedInput  = "unused-input"
)

// Validate reports structural problems of c without resolving any
// function. filename labels the issues.
func Validate(c *Circuit, filename string) []types.Issue {
	var issues []types.Issue
	add := func(rule string, line int, signal, msg string) {
		issues = append(issues, types.Issue{
			Rule:     rule,
			Filename: filename,
			Line:     line,
			Signal:   signal,
			Message:  msg,
		})
	}

	for _, line := range c.Skipped {
		add(RuleUnrecognized, line, "", "line does not match INPUT, OUTPUT or gate assignment")
	}
	for _, name := range c.Redefined {
		p, _ := c.Scope.Lookup(name)
		add(RuleRedefined, p.Line, name, fmt.Sprintf("%s is assigned more than once; the last assignment is used", name))
	}
	for _, name := range c.Undriven {
		add(RuleUndriven, 0, name, fmt.Sprintf("output %s is not driven by any gate and is treated as a free variable", name))
	}

	used := make(map[string]bool)
	for _, name := range c.Scope.order {
		p := c.Scope.props[name]
		switch {
		case p.Op == types.OpNone && len(p.Inputs) > 0:
			add(RuleStructural, p.Line, name, "gate has inputs but no operator")
		case p.Op != types.OpNone && len(p.Inputs) == 0:
			add(RuleStructural, p.Line, name, fmt.Sprintf("%s gate has no inputs", p.Op))
		case p.Op == types.OpNot && len(p.Inputs) != 1:
			add(RuleArity, p.Line, name, fmt.Sprintf("NOT takes exactly one input, got %d", len(p.Inputs)))
		}
		for _, in := range p.Inputs {
			used[in] = true
			if _, ok := c.Scope.Lookup(in); !ok {
				add(RuleUndefined, p.Line, in, fmt.Sprintf("%s references undefined signal %s", name, in))
			}
		}
	}
	for _, out := range c.Outputs {
		used[out.Name] = true
	}
	for _, in := range c.Inputs {
		if !used[in] {
			p, _ := c.Scope.Lookup(in)
			add(RuleUnusedInput, p.Line, in, fmt.Sprintf("input %s is not used by any gate or output", in))
		}
	}

	for _, cyc := range detectCycles(c.Scope) {
		first, _ := c.Scope.Lookup(cyc[0])
		add(RuleCycle, first.Line, cyc[0], "combinational loop: "+strings.Join(cyc, " -> "))
	}
	return issues
}

type cycle struct {
	scope   *Scope
	visited map[string]bool
	onStack map[string]bool
	stack   []string
	cycles  [][]string
}

// detectCycles walks the gate dependencies of a scope and returns every
// back edge found as a closed path.
func detectCycles(sc *Scope) [][]string {
	c := &cycle{
		scope:   sc,
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
	}
	for _, name := range sc.order {
		if !c.visited[name] {
			c.dfs(name)
		}
	}
	return c.cycles
}

func (c *cycle) dfs(name string) {
	c.visited[name] = true
	c.onStack[name] = true
	c.stack = append(c.stack, name)

	if p, ok := c.scope.props[name]; ok {
		for _, dep := range p.Inputs {
			if _, gate := c.scope.props[dep]; !gate {
				continue
			}
			if !c.visited[dep] {
				c.dfs(dep)
			} else if c.onStack[dep] {
				path := append([]string(nil), c.stack[indexOf(c.stack, dep):]...)
				c.cycles = append(c.cycles, append(path, dep))
			}
		}
	}

	c.stack = c.stack[:len(c.stack)-1]
	c.onStack[name] = false
}

func indexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}
