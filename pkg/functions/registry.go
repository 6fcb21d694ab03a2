// Package functions provides types for registering custom GoLogic operators.
//
// Users can define their own operators and register them on an Engine (or
// directly on an Evaluator), making them available inside rules as
// single-keyed objects: {"my_op": [args...]}.
//
// # Example
//
//	e := gologic.New(gologic.WithOperator("double", func(ctx context.Context, args []*types.Value, a *types.Arena) (*types.Value, error) {
//	    n, err := args[0].ToNumber()
//	    if err != nil {
//	        return nil, err
//	    }
//	    return a.Float(n.AsFloat() * 2), nil
//	}))
//	out, _ := e.EvaluateJSON(ctx, []byte(`{"double": 21}`), []byte(`null`))
//	// out == 42.0
package functions

import (
	"context"

	"github.com/sandrolain/gologic/pkg/types"
)

// Operator is the signature for user-defined custom operators.
//
// args contains the strictly pre-evaluated operands in order; custom
// operators never observe short-circuiting. The arena is borrowed for the
// duration of the call: implementations may allocate result values from it
// but must not retain it.
//
// Returning a *types.Error (e.g. from types.NewThrown) makes the failure
// catchable by the "try" operator; any other error is wrapped as a thrown
// error with the error text as its type.
type Operator func(ctx context.Context, args []*types.Value, a *types.Arena) (*types.Value, error)

// OperatorDef describes a named custom operator.
type OperatorDef struct {
	// Name is the operator key as it appears inside rules.
	Name string
	// Fn is the implementation.
	Fn Operator
}
