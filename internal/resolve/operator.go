package resolve

import (
	"fmt"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

// Capability is a Boolean-function engine driven by the resolver. H is
// the engine's handle type; handles of one capability instance must not
// be mixed with handles of another.
type Capability[H any] interface {
	// Var allocates the variable standing for the primitive name.
	Var(name string) (H, error)
	And(a, b H) (H, error)
	Or(a, b H) (H, error)
	Xor(a, b H) (H, error)
	Not(a H) (H, error)
}

type binary[H any] func(a, b H) (H, error)

// fold combines args left to right: ((a0 op a1) op a2) ...
// A single argument is returned unchanged.
func fold[H any](op binary[H], args []H) (H, error) {
	acc := args[0]
	for _, h := range args[1:] {
		var err error
		if acc, err = op(acc, h); err != nil {
			return acc, err
		}
	}
	return acc, nil
}

// Apply evaluates the gate op over already resolved inputs.
//
//	AND, OR, XOR  left fold (XOR over n inputs is their parity)
//	NAND, NOR     AND / OR fold, then one negation of the result
//	NOT           negation of its single input
func Apply[H any](c Capability[H], op types.Operator, args []H) (H, error) {
	var zero H
	if len(args) == 0 {
		return zero, &types.Error{
			Kind: types.KindOperandArity,
			Msg:  fmt.Sprintf("%s requires at least one input", op),
		}
	}

	switch op {
	case types.OpAnd:
		return fold(c.And, args)
	case types.OpOr:
		return fold(c.Or, args)
	case types.OpXor:
		return fold(c.Xor, args)
	case types.OpNand:
		h, err := fold(c.And, args)
		if err != nil {
			return zero, err
		}
		return c.Not(h)
	case types.OpNor:
		h, err := fold(c.Or, args)
		if err != nil {
			return zero, err
		}
		return c.Not(h)
	case types.OpNot:
		if len(args) != 1 {
			return zero, &types.Error{
				Kind: types.KindOperandArity,
				Msg:  fmt.Sprintf("NOT requires exactly one input, got %d", len(args)),
			}
		}
		return c.Not(args[0])
	}
	return zero, &types.Error{
		Kind: types.KindStructural,
		Msg:  fmt.Sprintf("unsupported operator %s", op),
	}
}
