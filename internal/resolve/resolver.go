package resolve

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/internal/netlist"
	"github.com/gnoswap-labs/nequiv/internal/types"
)

type state uint8

const (
	unresolved state = iota
	inProgress
	resolved
)

type cell[H any] struct {
	state  state
	handle H
}

// Labelled pairs a resolved handle with the proposition it came from.
type Labelled[H any] struct {
	Handle H
	Name   string
	// Scope is the circuit the proposition belongs to, empty for shared
	// inputs.
	Scope string
}

// Label is the name qualified by its circuit when it has one.
func (l Labelled[H]) Label() string {
	if l.Scope == "" {
		return l.Name
	}
	return l.Scope + "/" + l.Name
}

// Stats counts the work done by a resolver.
type Stats struct {
	Vars  int
	Gates int
	Hits  int
}

// Resolver folds propositions into capability handles. Every proposition
// is resolved at most once; the resolution context maps each one to its
// state and, once resolved, its handle.
//
// A Resolver is not safe for concurrent use.
type Resolver[H any] struct {
	cap      Capability[H]
	cells    map[*types.Proposition]*cell[H]
	labelled []Labelled[H]
	stats    Stats
	logger   *zap.Logger
}

// New creates a resolver over c. A nil logger discards output.
func New[H any](c Capability[H], logger *zap.Logger) *Resolver[H] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver[H]{
		cap:    c,
		cells:  make(map[*types.Proposition]*cell[H]),
		logger: logger,
	}
}

// Labelled returns every resolved proposition in resolution order.
func (r *Resolver[H]) Labelled() []Labelled[H] {
	return append([]Labelled[H](nil), r.labelled...)
}

// Stats returns the resolver counters.
func (r *Resolver[H]) Stats() Stats { return r.stats }

// Resolve returns the handle of the proposition visible as name in scope.
func (r *Resolver[H]) Resolve(scope *netlist.Scope, name string) (H, error) {
	var zero H
	root, ok := scope.Lookup(name)
	if !ok {
		return zero, &types.Error{
			Kind: types.KindUndefinedSignal,
			Name: name,
			Msg:  fmt.Sprintf("not defined in %s", scope.Name),
		}
	}
	h, err := r.resolve(scope, root)
	if err != nil {
		r.logger.Debug("resolution failed",
			zap.String("circuit", scope.Name),
			zap.String("signal", name),
			zap.Error(err))
		return zero, err
	}
	return h, nil
}

type frame struct {
	p *types.Proposition
	// combine is set on the frame revisited after all inputs of p are
	// resolved.
	combine bool
}

// resolve walks the fan-in of root depth-first with an explicit stack.
// The propositions currently in progress are exactly the ones on path,
// so popping an in-progress proposition closes a cycle.
func (r *Resolver[H]) resolve(scope *netlist.Scope, root *types.Proposition) (h H, err error) {
	if c, ok := r.cells[root]; ok && c.state == resolved {
		r.stats.Hits++
		return c.handle, nil
	}

	var path []*types.Proposition
	defer func() {
		if err == nil {
			return
		}
		// leave no proposition marked in progress behind a failed walk
		for _, p := range path {
			delete(r.cells, p)
		}
	}()

	stack := []frame{{p: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c := r.cell(f.p)

		if f.combine {
			args := make([]H, len(f.p.Inputs))
			for i, in := range f.p.Inputs {
				q, _ := scope.Lookup(in)
				args[i] = r.cells[q].handle
			}
			h, err := Apply(r.cap, f.p.Op, args)
			if err != nil {
				return h, withName(err, f.p)
			}
			c.state, c.handle = resolved, h
			path = path[:len(path)-1]
			r.stats.Gates++
			r.labelled = append(r.labelled, Labelled[H]{Handle: h, Name: f.p.Name, Scope: scope.Name})
			continue
		}

		switch c.state {
		case resolved:
			r.stats.Hits++
			continue
		case inProgress:
			return h, cycleError(path, f.p)
		}

		if f.p.IsPrimitive() {
			v, err := r.cap.Var(f.p.Name)
			if err != nil {
				return h, withName(err, f.p)
			}
			c.state, c.handle = resolved, v
			r.stats.Vars++
			r.labelled = append(r.labelled, Labelled[H]{Handle: v, Name: f.p.Name})
			continue
		}
		if !f.p.IsGate() {
			msg := "gate has inputs but no operator"
			if f.p.Op != types.OpNone {
				msg = fmt.Sprintf("%s gate has no inputs", f.p.Op)
			}
			return h, &types.Error{Kind: types.KindStructural, Name: f.p.Name, Line: f.p.Line, Msg: msg}
		}
		if f.p.Op == types.OpNot && len(f.p.Inputs) != 1 {
			return h, &types.Error{
				Kind: types.KindOperandArity,
				Name: f.p.Name,
				Line: f.p.Line,
				Msg:  fmt.Sprintf("NOT requires exactly one input, got %d", len(f.p.Inputs)),
			}
		}

		c.state = inProgress
		path = append(path, f.p)
		stack = append(stack, frame{p: f.p, combine: true})
		// pushed in reverse so that inputs resolve in declaration order
		for i := len(f.p.Inputs) - 1; i >= 0; i-- {
			in := f.p.Inputs[i]
			q, ok := scope.Lookup(in)
			if !ok {
				return h, &types.Error{
					Kind: types.KindUndefinedSignal,
					Name: in,
					Line: f.p.Line,
					Msg:  fmt.Sprintf("referenced by %s", f.p.Name),
				}
			}
			stack = append(stack, frame{p: q})
		}
	}
	return r.cells[root].handle, nil
}

func (r *Resolver[H]) cell(p *types.Proposition) *cell[H] {
	c, ok := r.cells[p]
	if !ok {
		c = &cell[H]{}
		r.cells[p] = c
	}
	return c
}

func cycleError(path []*types.Proposition, p *types.Proposition) error {
	start := 0
	for i, q := range path {
		if q == p {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, q := range path[start:] {
		names = append(names, q.Name)
	}
	names = append(names, p.Name)
	return &types.Error{Kind: types.KindCycle, Name: p.Name, Line: p.Line, Names: names}
}

func withName(err error, p *types.Proposition) error {
	var e *types.Error
	if errors.As(err, &e) {
		if e.Name == "" {
			e.Name = p.Name
		}
		if e.Line == 0 {
			e.Line = p.Line
		}
		return e
	}
	return err
}
