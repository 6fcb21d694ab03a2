package evaluator

import (
	"errors"

	"github.com/sandrolain/gologic/pkg/types"
)

// evalType returns the string tag of its single operand.
func (r *run) evalType(args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments("type requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	return r.a.String(v.Kind().TypeName()), nil
}

// evalThrow raises a structured error carrying the evaluated payload.
func (r *run) evalThrow(args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments("throw requires one operand")
	}
	payload, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	return nil, types.NewThrown(payload)
}

// evalTry evaluates operands in order. When an operand raises a
// structured error, the next operand evaluates with the scope switched to
// the error value, so val("type") and val([]) inspect the failure. The
// final error propagates when every operand fails. Engine-level failures
// (cancellation, depth) are not catchable.
func (r *run) evalTry(args []*types.Node) (*types.Value, error) {
	if len(args) == 0 {
		return nil, types.NewInvalidArguments("try requires at least one operand")
	}
	var caught *types.Error
	var lastErr error
	for _, arg := range args {
		var v *types.Value
		var err error
		if caught == nil {
			v, err = r.eval(arg)
		} else {
			r.sc.push(caught.ErrorValue(r.a))
			v, err = r.eval(arg)
			r.sc.pop()
		}
		if err == nil {
			return v, nil
		}
		var evalErr *types.Error
		if !errors.As(err, &evalErr) {
			return nil, err
		}
		caught = evalErr
		lastErr = err
	}
	return nil, lastErr
}
