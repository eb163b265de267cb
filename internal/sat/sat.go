// Package sat builds netlist functions as a gini and-inverter circuit and
// searches distinguishing input assignments with the gini SAT solver.
package sat

import (
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Circuit is a resolver capability producing gini literals.
type Circuit struct {
	c     *logic.C
	vars  map[string]z.Lit
	names []string
}

func New() *Circuit {
	return &Circuit{
		c:    logic.NewC(),
		vars: make(map[string]z.Lit),
	}
}

func (s *Circuit) Var(name string) (z.Lit, error) {
	if m, ok := s.vars[name]; ok {
		return m, nil
	}
	m := s.c.Lit()
	s.vars[name] = m
	s.names = append(s.names, name)
	return m, nil
}

func (s *Circuit) And(a, b z.Lit) (z.Lit, error) { return s.c.And(a, b), nil }
func (s *Circuit) Or(a, b z.Lit) (z.Lit, error)  { return s.c.Or(a, b), nil }
func (s *Circuit) Xor(a, b z.Lit) (z.Lit, error) { return s.c.Xor(a, b), nil }
func (s *Circuit) Not(a z.Lit) (z.Lit, error)    { return a.Not(), nil }

// Pair is two literals expected to be equivalent.
type Pair struct {
	A, B z.Lit
}

// Witnesses returns, for each pair, an input assignment under which the
// two literals take different values, or nil when none exists.
func (s *Circuit) Witnesses(pairs []Pair) []map[string]bool {
	miters := make([]z.Lit, len(pairs))
	for i, p := range pairs {
		miters[i] = s.c.Xor(p.A, p.B)
	}

	g := gini.New()
	s.c.ToCnf(g)

	out := make([]map[string]bool, len(pairs))
	for i, m := range miters {
		if m == s.c.F {
			continue
		}
		g.Assume(m)
		if g.Solve() != 1 {
			continue
		}
		w := make(map[string]bool, len(s.names))
		for _, name := range s.names {
			w[name] = g.Value(s.vars[name])
		}
		out[i] = w
	}
	return out
}
