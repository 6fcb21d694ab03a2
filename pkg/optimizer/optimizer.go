// Package optimizer rewrites expression trees at compile time.
//
// Two idempotent passes run during construction:
//
//   - Associative flattening: +, *, and, or, min, max, cat and merge
//     absorb same-tag children into one flat operand list. Flattening
//     never crosses a short-circuit boundary because only same-tag
//     children are absorbed ("and" of "or" does not flatten).
//   - Constant folding: a pure, data-independent operator whose operands
//     are all literals is evaluated now and replaced by a literal. The
//     short-circuiting operators fold as much literal prefix as possible.
//
// Folding runs the real evaluator; when evaluation fails, the node is
// left untouched so the error surfaces at evaluation time (possibly
// inside a try). Optimization preserves semantics exactly, including
// never folding an operand that evaluation would not have reached.
package optimizer

import (
	"github.com/sandrolain/gologic/pkg/evaluator"
	"github.com/sandrolain/gologic/pkg/types"
)

// flattenable tags absorb same-tag children.
var flattenable = map[types.OpTag]bool{
	types.OpAdd:   true,
	types.OpMul:   true,
	types.OpAnd:   true,
	types.OpOr:    true,
	types.OpMin:   true,
	types.OpMax:   true,
	types.OpCat:   true,
	types.OpMerge: true,
}

// foldable reports whether an operator is pure and data-independent, so
// an all-literal operand list can be evaluated at compile time. throw and
// try never fold; missing and missing_some read the data document.
func foldable(tag types.OpTag) bool {
	switch tag {
	case types.OpThrow, types.OpTry, types.OpMissing, types.OpMissingSome:
		return false
	}
	return true
}

// Optimize rewrites the tree rooted at n, allocating replacement nodes
// and folded values from the rule's arena.
func Optimize(n *types.Node, a *types.Arena) *types.Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case types.NodeLiteral:
		return n

	case types.NodeVal, types.NodeExists:
		n.Default = Optimize(n.Default, a)
		return n

	case types.NodeArray:
		optimizeChildren(n.Items, a)
		if allLiteral(n.Items) {
			items := a.Refs(len(n.Items))
			for i, c := range n.Items {
				items[i] = c.Lit
			}
			return literalNode(a.Array(items), a)
		}
		return n

	case types.NodeObject:
		allLit := true
		for i, m := range n.Members {
			n.Members[i].Node = Optimize(m.Node, a)
			if !n.Members[i].Node.IsLiteral() {
				allLit = false
			}
		}
		if allLit {
			members := a.MemberSlice(len(n.Members))
			for i, m := range n.Members {
				members[i] = types.Member{Key: m.Key, Val: m.Node.Lit}
			}
			return literalNode(a.Object(members), a)
		}
		return n

	case types.NodeCustom:
		// Custom operators are opaque: optimize operands only.
		optimizeChildren(n.Items, a)
		return n

	case types.NodeOp:
		return optimizeOp(n, a)
	}
	return n
}

func optimizeOp(n *types.Node, a *types.Arena) *types.Node {
	optimizeChildren(n.Items, a)

	if flattenable[n.Op] && !n.Sugar {
		n.Items = flatten(n.Op, n.Items)
	}

	switch n.Op {
	case types.OpAnd, types.OpOr:
		if out := foldShortCircuit(n, a); out != nil {
			return out
		}
	case types.OpIf:
		if out := foldIf(n, a); out != nil {
			return out
		}
	}

	if foldable(n.Op) && allLiteral(n.Items) {
		if v, ok := evaluator.ConstEval(n, a); ok {
			return literalNode(v, a)
		}
	}
	return n
}

func optimizeChildren(items []*types.Node, a *types.Arena) {
	for i, c := range items {
		items[i] = Optimize(c, a)
	}
}

// flatten absorbs same-tag child operators into the operand list.
// Sugared children keep their own node: their arity semantics differ.
func flatten(tag types.OpTag, items []*types.Node) []*types.Node {
	grown := false
	for _, c := range items {
		if c.Kind == types.NodeOp && c.Op == tag && !c.Sugar {
			grown = true
			break
		}
	}
	if !grown {
		return items
	}
	flat := make([]*types.Node, 0, len(items)+4)
	for _, c := range items {
		if c.Kind == types.NodeOp && c.Op == tag && !c.Sugar {
			flat = append(flat, c.Items...)
		} else {
			flat = append(flat, c)
		}
	}
	return flat
}

// foldShortCircuit drops leading literal operands of and/or that cannot
// decide the result, and collapses the expression when one does. Returns
// nil when the node must stay.
func foldShortCircuit(n *types.Node, a *types.Arena) *types.Node {
	if n.Sugar {
		// Left for evaluation to reject as Invalid Arguments.
		return nil
	}
	items := n.Items
	for len(items) > 1 && items[0].IsLiteral() {
		t := items[0].Lit.IsTruthy()
		deciding := (n.Op == types.OpAnd && !t) || (n.Op == types.OpOr && t)
		if deciding {
			return items[0]
		}
		items = items[1:]
	}
	if len(items) == 1 {
		// and/or of one operand returns that operand's value.
		return items[0]
	}
	n.Items = items
	return nil
}

// foldIf resolves leading literal conditions: a truthy condition selects
// its branch, a falsy one drops the pair. Returns nil when the node must
// stay.
func foldIf(n *types.Node, a *types.Arena) *types.Node {
	if n.Sugar {
		return nil
	}
	items := n.Items
	for len(items) >= 2 && items[0].IsLiteral() {
		if items[0].Lit.IsTruthy() {
			return items[1]
		}
		items = items[2:]
	}
	switch len(items) {
	case 0:
		return literalNode(a.Null(), a)
	case 1:
		return items[0]
	}
	n.Items = items
	return nil
}

func allLiteral(items []*types.Node) bool {
	for _, c := range items {
		if !c.IsLiteral() {
			return false
		}
	}
	return true
}

func literalNode(v *types.Value, a *types.Arena) *types.Node {
	n := a.NewNode()
	n.Kind = types.NodeLiteral
	n.Lit = v
	return n
}
