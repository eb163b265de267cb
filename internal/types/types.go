package types

import (
	"fmt"
	"strings"
)

// Operator is the gate function of a derived proposition.
type Operator int

const (
	// OpNone marks a primitive input or an output placeholder.
	OpNone Operator = iota
	OpAnd
	OpOr
	OpNot
	OpNand
	OpNor
	OpXor
)

var operatorNames = map[Operator]string{
	OpNone: "",
	OpAnd:  "AND",
	OpOr:   "OR",
	OpNot:  "NOT",
	OpNand: "NAND",
	OpNor:  "NOR",
	OpXor:  "XOR",
}

func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// ParseOperator maps a gate keyword to its Operator. Keywords are matched
// case-insensitively.
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AND":
		return OpAnd, true
	case "OR":
		return OpOr, true
	case "NOT":
		return OpNot, true
	case "NAND":
		return OpNand, true
	case "NOR":
		return OpNor, true
	case "XOR":
		return OpXor, true
	}
	return OpNone, false
}

// Proposition is a named node of the gate graph.
//
// A proposition without operator and inputs is a primitive variable, one
// with both is a derived gate. Inputs are names, resolved through the
// store that owns the proposition.
type Proposition struct {
	Name   string
	Raw    string
	Op     Operator
	Inputs []string
	Line   int
}

// IsPrimitive reports whether p is an input variable.
func (p *Proposition) IsPrimitive() bool {
	return p.Op == OpNone && len(p.Inputs) == 0
}

// IsGate reports whether p is a well-formed derived gate.
func (p *Proposition) IsGate() bool {
	return p.Op != OpNone && len(p.Inputs) > 0
}

// Expr returns the gate expression of p, or its name for primitives.
func (p *Proposition) Expr() string {
	if p.Op == OpNone && len(p.Inputs) == 0 {
		return p.Name
	}
	return fmt.Sprintf("%s(%s)", p.Op, strings.Join(p.Inputs, ", "))
}

// OutputAtom designates a proposition as a circuit output.
type OutputAtom struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Issue is a structural problem found in a netlist.
type Issue struct {
	Rule     string `json:"rule"`
	Filename string `json:"filename"`
	Line     int    `json:"line,omitempty"`
	Signal   string `json:"signal,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", i.Filename, i.Line, i.Rule, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Filename, i.Rule, i.Message)
}
