package evaluator

import "github.com/sandrolain/gologic/pkg/types"

// evalAndOr implements the short-circuiting logical operators. "and"
// returns the first falsy operand (else the last), "or" the first truthy
// operand (else the last). Short-circuiting is observable: operands past
// the deciding one are never evaluated.
func (r *run) evalAndOr(op types.OpTag, n *types.Node) (*types.Value, error) {
	if n.Sugar {
		return nil, types.NewInvalidArguments(op.String() + " requires an array of operands")
	}
	if len(n.Items) == 0 {
		return r.a.Null(), nil
	}
	var last *types.Value
	for _, arg := range n.Items {
		v, err := r.eval(arg)
		if err != nil {
			return nil, err
		}
		if op == types.OpAnd && !v.IsTruthy() {
			return v, nil
		}
		if op == types.OpOr && v.IsTruthy() {
			return v, nil
		}
		last = v
	}
	return last, nil
}

func (r *run) evalNegation(op types.OpTag, args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments(op.String() + " requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	truthy := v.IsTruthy()
	if op == types.OpNot {
		truthy = !truthy
	}
	return r.a.Bool(truthy), nil
}

// evalIf implements the variadic conditional
// [cond1, then1, cond2, then2, ..., else?]. Conditions evaluate in order
// and only the matching branch is evaluated.
func (r *run) evalIf(n *types.Node) (*types.Value, error) {
	if n.Sugar {
		return nil, types.NewInvalidArguments("if requires an array of operands")
	}
	args := n.Items
	if len(args) == 0 {
		return r.a.Null(), nil
	}
	if len(args) == 1 {
		return r.eval(args[0])
	}
	for i := 0; i+1 < len(args); i += 2 {
		cond, err := r.eval(args[i])
		if err != nil {
			return nil, err
		}
		if cond.IsTruthy() {
			return r.eval(args[i+1])
		}
	}
	if len(args)%2 == 1 {
		return r.eval(args[len(args)-1])
	}
	return r.a.Null(), nil
}

// evalCoalesce returns the first non-null operand; false, 0 and "" are
// not coalesced. Operands past the first non-null one never evaluate.
func (r *run) evalCoalesce(args []*types.Node) (*types.Value, error) {
	for _, arg := range args {
		v, err := r.eval(arg)
		if err != nil {
			return nil, err
		}
		if !v.IsNull() {
			return v, nil
		}
	}
	return r.a.Null(), nil
}
