package evaluator

import "github.com/sandrolain/gologic/pkg/types"

// evalComparison implements the variadic chained comparison family:
// {"<":[a,b,c]} is true iff the sequence is strictly ascending, and the
// equality operators chain the same way over adjacent pairs. Operands
// evaluate lazily left to right; the first failing pair stops evaluation.
func (r *run) evalComparison(op types.OpTag, args []*types.Node) (*types.Value, error) {
	if len(args) < 2 {
		return nil, types.NewInvalidArguments(op.String() + " requires at least two operands")
	}
	prev, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		cur, err := r.eval(arg)
		if err != nil {
			return nil, err
		}
		ok, err := comparePair(op, prev, cur)
		if err != nil {
			return nil, err
		}
		if !ok {
			return r.a.Bool(false), nil
		}
		prev = cur
	}
	return r.a.Bool(true), nil
}

func comparePair(op types.OpTag, a, b *types.Value) (bool, error) {
	switch op {
	case types.OpEqual:
		return types.LooseEquals(a, b), nil
	case types.OpNotEqual:
		return !types.LooseEquals(a, b), nil
	case types.OpStrictEqual:
		return types.StrictEquals(a, b), nil
	case types.OpStrictNotEqual:
		return !types.StrictEquals(a, b), nil
	}
	c, ok := types.Compare(a, b)
	if !ok {
		// Failed coercion short-circuits the comparison to false.
		return false, nil
	}
	switch op {
	case types.OpLess:
		return c < 0, nil
	case types.OpLessEq:
		return c <= 0, nil
	case types.OpGreater:
		return c > 0, nil
	case types.OpGreaterEq:
		return c >= 0, nil
	}
	return false, types.NewInvalidArguments("unsupported comparison " + op.String())
}
