// Package parser maps JSON rule documents onto the immutable expression
// tree evaluated by the evaluator.
//
// The parser is a single recursive descent over a decoded JSON value:
// single-keyed objects whose key names an operator become Op nodes (with
// the unary sugar {"+":5} ≡ {"+":[5]}), unknown single-keyed objects
// become Custom nodes resolved at evaluation time, every other object is
// an Object constructor, arrays are Array constructors, and scalars are
// literals. Arrays whose elements are all literals collapse into a single
// literal value up front.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandrolain/gologic/pkg/types"
)

// Parse decodes a JSON rule document and builds its expression tree in the
// given arena. The caller normally follows up with optimizer.Optimize and
// wraps the result in a types.Rule.
func Parse(src []byte, a *types.Arena) (*types.Node, error) {
	v, err := types.ParseJSON(src, a)
	if err != nil {
		return nil, err
	}
	return ParseValue(v, a)
}

// ParseValue builds the expression tree for an already decoded rule value.
func ParseValue(v *types.Value, a *types.Arena) (*types.Node, error) {
	switch v.Kind() {
	case types.KindObject:
		return parseObject(v, a)
	case types.KindArray:
		if isLiteralValue(v) {
			return literalNode(v, a), nil
		}
		items := v.Items()
		n := a.NewNode()
		n.Kind = types.NodeArray
		n.Items = make([]*types.Node, len(items))
		for i, it := range items {
			child, err := ParseValue(it, a)
			if err != nil {
				return nil, err
			}
			n.Items[i] = child
		}
		return n, nil
	default:
		return literalNode(v, a), nil
	}
}

func parseObject(v *types.Value, a *types.Arena) (*types.Node, error) {
	members := v.Members()
	if len(members) != 1 {
		// Zero-key and multi-key objects are object constructors.
		n := a.NewNode()
		n.Kind = types.NodeObject
		n.Members = make([]types.NodeMember, len(members))
		for i, m := range members {
			child, err := ParseValue(m.Val, a)
			if err != nil {
				return nil, err
			}
			n.Members[i] = types.NodeMember{Key: m.Key, Node: child}
		}
		return n, nil
	}

	key, arg := members[0].Key, members[0].Val
	switch key {
	case "val":
		return parseVal(arg, a, types.NodeVal)
	case "exists":
		return parseVal(arg, a, types.NodeExists)
	case "var":
		return parseVar(arg, a)
	case "preserve":
		// Returns its argument verbatim, without operator interpretation.
		return literalNode(arg, a), nil
	}

	if tag, ok := LookupOp(key); ok {
		items, sugar, err := parseArgs(arg, a)
		if err != nil {
			return nil, err
		}
		n := a.NewNode()
		n.Kind = types.NodeOp
		n.Op = tag
		n.Items = items
		n.Sugar = sugar
		return n, nil
	}

	// Unknown operator: resolved against the custom registry at
	// evaluation time, so it can be caught by try.
	items, sugar, err := parseArgs(arg, a)
	if err != nil {
		return nil, err
	}
	n := a.NewNode()
	n.Kind = types.NodeCustom
	n.Name = key
	n.Items = items
	n.Sugar = sugar
	return n, nil
}

// parseArgs builds the operand list of an operator. An array value yields
// positional operands; any other value is a one-element sugared list.
func parseArgs(arg *types.Value, a *types.Arena) ([]*types.Node, bool, error) {
	if arg.Kind() != types.KindArray {
		n, err := ParseValue(arg, a)
		if err != nil {
			return nil, false, err
		}
		return []*types.Node{n}, true, nil
	}
	items := arg.Items()
	out := make([]*types.Node, len(items))
	for i, it := range items {
		n, err := ParseValue(it, a)
		if err != nil {
			return nil, false, err
		}
		out[i] = n
	}
	return out, false, nil
}

// parseVal parses the path specification of "val" and "exists". A string
// is a single key (interior dots are NOT separators: "." is a legal key),
// a number is an index, an array lists segments, and a nested array of
// integers is a scope traversal.
func parseVal(arg *types.Value, a *types.Arena, kind types.NodeKind) (*types.Node, error) {
	path, err := parsePathSpec(arg)
	if err != nil {
		return nil, err
	}
	n := a.NewNode()
	n.Kind = kind
	n.Path = path
	return n, nil
}

func parsePathSpec(arg *types.Value) ([]types.PathSeg, error) {
	switch arg.Kind() {
	case types.KindNull:
		return nil, nil
	case types.KindString:
		return []types.PathSeg{{Kind: types.SegKey, Key: arg.Str()}}, nil
	case types.KindInt, types.KindFloat:
		return []types.PathSeg{indexSeg(arg)}, nil
	case types.KindArray:
		var path []types.PathSeg
		for _, seg := range arg.Items() {
			switch seg.Kind() {
			case types.KindString:
				path = append(path, types.PathSeg{Kind: types.SegKey, Key: seg.Str()})
			case types.KindInt, types.KindFloat:
				path = append(path, indexSeg(seg))
			case types.KindArray:
				// Scope traversal: every integer in the nested
				// array is one frame jump.
				for _, off := range seg.Items() {
					if !off.IsNumber() {
						return nil, fmt.Errorf("invalid scope traversal in path")
					}
					path = append(path, types.PathSeg{
						Kind:  types.SegJump,
						Index: int(off.NumFloat()),
					})
				}
			default:
				return nil, fmt.Errorf("invalid path segment of type %s", seg.Kind().TypeName())
			}
		}
		return path, nil
	}
	return nil, fmt.Errorf("invalid path specification of type %s", arg.Kind().TypeName())
}

func indexSeg(v *types.Value) types.PathSeg {
	return types.PathSeg{Kind: types.SegIndex, Index: int(v.NumFloat())}
}

// parseVar parses the legacy "var" form: dotted strings split into
// segments (numeric parts index arrays) and an array supplies
// [path, default].
func parseVar(arg *types.Value, a *types.Arena) (*types.Node, error) {
	n := a.NewNode()
	n.Kind = types.NodeVal

	switch arg.Kind() {
	case types.KindNull:
		return n, nil
	case types.KindString:
		n.Path = splitVarPath(arg.Str())
		return n, nil
	case types.KindInt, types.KindFloat:
		n.Path = []types.PathSeg{indexSeg(arg)}
		return n, nil
	case types.KindArray:
		items := arg.Items()
		if len(items) == 0 {
			return n, nil
		}
		switch items[0].Kind() {
		case types.KindString:
			n.Path = splitVarPath(items[0].Str())
		case types.KindInt, types.KindFloat:
			n.Path = []types.PathSeg{indexSeg(items[0])}
		case types.KindNull:
		default:
			return nil, fmt.Errorf("invalid var path of type %s", items[0].Kind().TypeName())
		}
		if len(items) >= 2 {
			def, err := ParseValue(items[1], a)
			if err != nil {
				return nil, err
			}
			n.Default = def
		}
		return n, nil
	}
	return nil, fmt.Errorf("invalid var path of type %s", arg.Kind().TypeName())
}

func splitVarPath(s string) []types.PathSeg {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	path := make([]types.PathSeg, len(parts))
	for i, p := range parts {
		if idx, err := strconv.Atoi(p); err == nil {
			path[i] = types.PathSeg{Kind: types.SegIndex, Index: idx}
		} else {
			path[i] = types.PathSeg{Kind: types.SegKey, Key: p}
		}
	}
	return path
}

func literalNode(v *types.Value, a *types.Arena) *types.Node {
	n := a.NewNode()
	n.Kind = types.NodeLiteral
	n.Lit = v
	return n
}

// isLiteralValue reports whether a decoded rule value contains no
// operators anywhere: scalars and arrays of literal values qualify,
// objects never do (a nested single-keyed object may be an operator).
func isLiteralValue(v *types.Value) bool {
	switch v.Kind() {
	case types.KindObject:
		return false
	case types.KindArray:
		for _, it := range v.Items() {
			if !isLiteralValue(it) {
				return false
			}
		}
		return true
	}
	return true
}
