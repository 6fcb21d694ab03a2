// Package evaluator implements the rule evaluation engine.
//
// The evaluator receives an immutable expression tree from the parser and
// evaluates it against a data document, producing arena-backed values. It
// supports:
//   - Path resolution with scope traversal and iteration metadata
//   - Short-circuiting logical and conditional operators
//   - Structured errors catchable by the "try" operator
//   - User-registered custom operators
//   - Depth limiting and cancellation via context.Context
//
// # Concurrency
//
// An Evaluator is safe for concurrent use: the expression tree is read-only
// and all mutable state lives in the per-call arena and scope stack. Each
// concurrent evaluation must borrow its own arena.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sandrolain/gologic/pkg/functions"
	"github.com/sandrolain/gologic/pkg/types"
)

// Evaluator evaluates compiled rules against data.
type Evaluator struct {
	opts   EvalOptions
	logger *slog.Logger
	custom map[string]functions.Operator
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits recursion depth; exceeding it is an evaluation
	// error (not catchable by "try").
	MaxDepth int
	// Debug enables per-node debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Operators holds user-defined custom operators.
	Operators []functions.OperatorDef
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithMaxDepth sets the maximum recursion depth.
func WithMaxDepth(depth int) EvalOption {
	return func(o *EvalOptions) { o.MaxDepth = depth }
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(o *EvalOptions) { o.Debug = enabled }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(o *EvalOptions) { o.Logger = logger }
}

// WithOperator registers a user-defined custom operator.
func WithOperator(name string, fn functions.Operator) EvalOption {
	return func(o *EvalOptions) {
		o.Operators = append(o.Operators, functions.OperatorDef{Name: name, Fn: fn})
	}
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: 10000,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	custom := make(map[string]functions.Operator, len(options.Operators))
	for _, def := range options.Operators {
		custom[def.Name] = def.Fn
	}

	return &Evaluator{
		opts:   options,
		logger: options.Logger,
		custom: custom,
	}
}

// Register adds a custom operator after construction. It must not be
// called concurrently with evaluations.
func (e *Evaluator) Register(name string, fn functions.Operator) {
	e.custom[name] = fn
}

// Evaluate walks the rule tree against data, allocating the result (and
// every intermediate value) from the borrowed arena. The evaluator never
// stores the arena; the caller resets it once the result is consumed.
//
// data may be nil, which evaluates against null.
func (e *Evaluator) Evaluate(ctx context.Context, rule *types.Rule, data *types.Value, a *types.Arena) (*types.Value, error) {
	if rule == nil || rule.Root() == nil {
		return nil, fmt.Errorf("invalid rule")
	}
	return e.EvaluateNode(ctx, rule.Root(), data, a)
}

// EvaluateNode evaluates a bare expression tree. Most callers use Evaluate;
// this entry point serves the optimizer's constant folding.
func (e *Evaluator) EvaluateNode(ctx context.Context, root *types.Node, data *types.Value, a *types.Arena) (*types.Value, error) {
	if data == nil {
		data = a.Null()
	}
	r := &run{e: e, ctx: ctx, a: a}
	r.sc.push(data)
	v, err := r.eval(root)
	r.sc.pop()
	return v, err
}

// ConstEval evaluates a node against null data with no custom operators
// and default limits. It reports ok=false when evaluation fails; the
// optimizer uses it for constant folding and must leave failing nodes
// untouched so their errors surface at evaluation time.
func ConstEval(n *types.Node, a *types.Arena) (*types.Value, bool) {
	e := New()
	v, err := e.EvaluateNode(context.Background(), n, nil, a)
	if err != nil {
		return nil, false
	}
	return v, true
}

// run is the per-evaluation state: one scope stack, one arena, one depth
// counter. It lives on the evaluator's call stack for the duration of a
// single Evaluate and is never shared.
type run struct {
	e     *Evaluator
	ctx   context.Context
	a     *types.Arena
	sc    scope
	depth int
}

// eval dispatches one node, guarding depth and cancellation.
func (r *run) eval(n *types.Node) (*types.Value, error) {
	select {
	case <-r.ctx.Done():
		return nil, r.ctx.Err()
	default:
	}

	if r.e.opts.MaxDepth > 0 && r.depth >= r.e.opts.MaxDepth {
		return nil, fmt.Errorf("maximum recursion depth %d exceeded", r.e.opts.MaxDepth)
	}
	r.depth++
	v, err := r.evalNode(n)
	r.depth--
	return v, err
}

func (r *run) evalNode(n *types.Node) (*types.Value, error) {
	if r.e.opts.Debug {
		r.e.logger.Debug("evaluating node", "kind", n.Kind, "depth", r.depth)
	}

	switch n.Kind {
	case types.NodeLiteral:
		return n.Lit, nil

	case types.NodeVal:
		v, found := r.sc.lookup(n.Path, r.a)
		if n.Default != nil && (!found || v.IsNull()) {
			return r.eval(n.Default)
		}
		return v, nil

	case types.NodeExists:
		_, found := r.sc.lookup(n.Path, r.a)
		return r.a.Bool(found), nil

	case types.NodeArray:
		items := r.a.Refs(len(n.Items))
		for i, child := range n.Items {
			v, err := r.eval(child)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return r.a.Array(items), nil

	case types.NodeObject:
		members := r.a.MemberSlice(len(n.Members))
		for i, m := range n.Members {
			v, err := r.eval(m.Node)
			if err != nil {
				return nil, err
			}
			members[i] = types.Member{Key: m.Key, Val: v}
		}
		return r.a.Object(members), nil

	case types.NodeOp:
		return r.evalOp(n)

	case types.NodeCustom:
		return r.evalCustom(n)
	}
	return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
}

func (r *run) evalOp(n *types.Node) (*types.Value, error) {
	args := n.Items
	switch n.Op {
	// Arithmetic
	case types.OpAdd:
		return r.evalAdd(args)
	case types.OpSub:
		return r.evalSub(args)
	case types.OpMul:
		return r.evalMul(args)
	case types.OpDiv:
		return r.evalDiv(args)
	case types.OpMod:
		return r.evalMod(args)
	case types.OpAbs, types.OpCeil, types.OpFloor:
		return r.evalRounding(n.Op, args)
	case types.OpMin, types.OpMax:
		return r.evalMinMax(n.Op, args)

	// Comparison
	case types.OpEqual, types.OpNotEqual, types.OpStrictEqual, types.OpStrictNotEqual,
		types.OpLess, types.OpLessEq, types.OpGreater, types.OpGreaterEq:
		return r.evalComparison(n.Op, args)

	// Logical and conditional
	case types.OpAnd, types.OpOr:
		return r.evalAndOr(n.Op, n)
	case types.OpNot, types.OpDoubleBang:
		return r.evalNegation(n.Op, args)
	case types.OpIf:
		return r.evalIf(n)
	case types.OpCoalesce:
		return r.evalCoalesce(args)

	// Array operators
	case types.OpMap:
		return r.evalMap(args)
	case types.OpFilter:
		return r.evalFilter(args)
	case types.OpReduce:
		return r.evalReduce(args)
	case types.OpAll, types.OpSome, types.OpNone:
		return r.evalQuantifier(n.Op, args)
	case types.OpMerge:
		return r.evalMerge(args)
	case types.OpIn:
		return r.evalIn(args)
	case types.OpLength:
		return r.evalLength(args)
	case types.OpSlice:
		return r.evalSlice(args)
	case types.OpSort:
		return r.evalSort(args)
	case types.OpFind:
		return r.evalFind(args)
	case types.OpMissing:
		return r.evalMissing(args)
	case types.OpMissingSome:
		return r.evalMissingSome(args)

	// String operators
	case types.OpCat:
		return r.evalCat(args)
	case types.OpSubstr:
		return r.evalSubstr(args)
	case types.OpStartsWith, types.OpEndsWith:
		return r.evalAffix(n.Op, args)
	case types.OpUpper, types.OpLower, types.OpTrim:
		return r.evalCaseTrim(n.Op, args)
	case types.OpSplit:
		return r.evalSplit(args)

	// Temporal
	case types.OpDateTime:
		return r.evalDateTime(args)
	case types.OpTimestamp:
		return r.evalTimestamp(args)

	// Control flow
	case types.OpType:
		return r.evalType(args)
	case types.OpThrow:
		return r.evalThrow(args)
	case types.OpTry:
		return r.evalTry(args)
	}
	return nil, fmt.Errorf("unsupported operator %s", n.Op)
}

// evalArgs strictly evaluates an operand list.
func (r *run) evalArgs(args []*types.Node) ([]*types.Value, error) {
	vals := r.a.Refs(len(args))
	for i, arg := range args {
		v, err := r.eval(arg)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (r *run) evalCustom(n *types.Node) (*types.Value, error) {
	fn, ok := r.e.custom[n.Name]
	if !ok {
		return nil, types.NewUnknownOperator(n.Name)
	}
	vals, err := r.evalArgs(n.Items)
	if err != nil {
		return nil, err
	}
	v, err := fn(r.ctx, vals, r.a)
	if err != nil {
		if _, ok := err.(*types.Error); ok {
			return nil, err
		}
		// Make plain errors catchable by try.
		return nil, types.NewThrown(r.a.String(err.Error()))
	}
	if v == nil {
		v = r.a.Null()
	}
	return v, nil
}
