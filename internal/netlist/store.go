package netlist

import (
	"fmt"
	"sort"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

// MatchMode selects how outputs of two circuits are paired.
type MatchMode string

const (
	MatchByName     MatchMode = "name"
	MatchByPosition MatchMode = "position"
)

// Store is the merged proposition namespace of one equivalence check.
//
// Primary inputs live in a namespace shared by every circuit parsed into
// the store, so an input name denotes one proposition (and later one
// variable) across circuits. Gates live in per-circuit scopes.
type Store struct {
	inputs map[string]*types.Proposition
	order  []string
	scopes []*Scope
}

func NewStore() *Store {
	return &Store{inputs: make(map[string]*types.Proposition)}
}

// Input returns the shared primitive registered under name.
func (s *Store) Input(name string) (*types.Proposition, bool) {
	p, ok := s.inputs[name]
	return p, ok
}

// VarCount is the number of shared primitives, an upper bound on the
// variables a resolution over this store allocates.
func (s *Store) VarCount() int { return len(s.inputs) }

// Len returns the number of propositions held by the store.
func (s *Store) Len() int {
	n := len(s.inputs)
	for _, sc := range s.scopes {
		n += len(sc.props)
	}
	return n
}

// Shared returns the shared primitive names in registration order.
func (s *Store) Shared() []string {
	return append([]string(nil), s.order...)
}

// NewScope opens a gate namespace for one circuit.
func (s *Store) NewScope(name string) *Scope {
	sc := &Scope{
		Name:  name,
		store: s,
		props: make(map[string]*types.Proposition),
	}
	s.scopes = append(s.scopes, sc)
	return sc
}

// addInput registers a shared primitive. An existing proposition with the
// same name is kept so that both circuits see the same object.
func (s *Store) addInput(name, raw string, line int) *types.Proposition {
	if p, ok := s.inputs[name]; ok {
		return p
	}
	p := &types.Proposition{Name: name, Raw: raw, Line: line}
	s.inputs[name] = p
	s.order = append(s.order, name)
	return p
}

// Scope holds the gate definitions of one circuit.
type Scope struct {
	Name  string
	store *Store
	props map[string]*types.Proposition
	order []string
}

// Store returns the store the scope belongs to.
func (sc *Scope) Store() *Store { return sc.store }

// Define inserts or overwrites the proposition p.Name in the scope.
func (sc *Scope) Define(p *types.Proposition) {
	if _, ok := sc.props[p.Name]; !ok {
		sc.order = append(sc.order, p.Name)
	}
	sc.props[p.Name] = p
}

// Lookup searches the scope first, then the shared inputs.
func (sc *Scope) Lookup(name string) (*types.Proposition, bool) {
	if p, ok := sc.props[name]; ok {
		return p, true
	}
	return sc.store.Input(name)
}

// Names returns the names defined in the scope in definition order.
func (sc *Scope) Names() []string {
	return append([]string(nil), sc.order...)
}

// InputsOf returns the ordered input names of c.
func InputsOf(c *Circuit) []string { return append([]string(nil), c.Inputs...) }

// OutputsOf returns the ordered output atoms of c.
func OutputsOf(c *Circuit) []types.OutputAtom {
	return append([]types.OutputAtom(nil), c.Outputs...)
}

// SanityCheck returns the input names declared only by A and only by B,
// both sorted. Two circuits share an interface when both are empty.
func SanityCheck(inputsA, inputsB []string) (onlyA, onlyB []string) {
	return difference(inputsA, inputsB), difference(inputsB, inputsA)
}

// SanityCheckOutputs requires equal output counts and, when matching by
// name, equal output name sets.
func SanityCheckOutputs(outputsA, outputsB []types.OutputAtom, mode MatchMode) error {
	if len(outputsA) != len(outputsB) {
		return &types.Error{
			Kind: types.KindConsistency,
			Msg:  fmt.Sprintf("output count differs: %d vs %d", len(outputsA), len(outputsB)),
		}
	}
	if mode == MatchByPosition {
		return nil
	}
	onlyA, onlyB := SanityCheck(outputNames(outputsA), outputNames(outputsB))
	if len(onlyA) > 0 || len(onlyB) > 0 {
		return &types.Error{
			Kind:    types.KindConsistency,
			Msg:     "output names differ",
			OnlyInA: onlyA,
			OnlyInB: onlyB,
		}
	}
	return nil
}

// CheckInterfaces verifies that a and b can be compared at all. It must
// pass before any resolution is attempted.
func CheckInterfaces(a, b *Circuit, mode MatchMode) error {
	onlyA, onlyB := SanityCheck(a.Inputs, b.Inputs)
	if len(onlyA) > 0 || len(onlyB) > 0 {
		return &types.Error{
			Kind:    types.KindConsistency,
			Msg:     "input names differ",
			OnlyInA: onlyA,
			OnlyInB: onlyB,
		}
	}
	return SanityCheckOutputs(a.Outputs, b.Outputs, mode)
}

func outputNames(outs []types.OutputAtom) []string {
	names := make([]string, len(outs))
	for i, o := range outs {
		names[i] = o.Name
	}
	return names
}

func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, n := range b {
		in[n] = struct{}{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, n := range a {
		if _, ok := in[n]; ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
