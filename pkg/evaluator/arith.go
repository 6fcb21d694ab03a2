package evaluator

import (
	"math"

	"github.com/sandrolain/gologic/pkg/types"
)

// Numeric accumulation keeps the integer/float discriminator: integer
// arithmetic stays integer until a float operand promotes the result.

func addNum(a, b types.Num) types.Num {
	if a.IsInt && b.IsInt {
		return types.IntNum(a.I + b.I)
	}
	return types.FloatNum(a.AsFloat() + b.AsFloat())
}

func subNum(a, b types.Num) types.Num {
	if a.IsInt && b.IsInt {
		return types.IntNum(a.I - b.I)
	}
	return types.FloatNum(a.AsFloat() - b.AsFloat())
}

func mulNum(a, b types.Num) types.Num {
	if a.IsInt && b.IsInt {
		return types.IntNum(a.I * b.I)
	}
	return types.FloatNum(a.AsFloat() * b.AsFloat())
}

func isTemporal(v *types.Value) bool {
	return v.Kind() == types.KindDateTime || v.Kind() == types.KindDuration
}

func anyTemporal(vals []*types.Value) bool {
	for _, v := range vals {
		if isTemporal(v) {
			return true
		}
	}
	return false
}

func (r *run) evalAdd(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return r.a.Int(0), nil
	}
	if anyTemporal(vals) {
		return r.addTemporal(vals)
	}
	acc := types.IntNum(0)
	for _, v := range vals {
		n, err := v.ToNumber()
		if err != nil {
			return nil, err
		}
		acc = addNum(acc, n)
	}
	return r.a.Number(acc), nil
}

// addTemporal sums a mix of at most one DateTime and any number of
// Durations: DateTime + Durations shifts the instant, Durations alone add
// component-wise normalized.
func (r *run) addTemporal(vals []*types.Value) (*types.Value, error) {
	var base *types.Value
	var span types.Duration
	for _, v := range vals {
		switch v.Kind() {
		case types.KindDateTime:
			if base != nil {
				return nil, types.NewInvalidArguments("cannot add two datetimes")
			}
			base = v
		case types.KindDuration:
			span = span.Add(v.Dur())
		default:
			return nil, types.NewInvalidArguments("cannot add " + v.Kind().TypeName() + " to a temporal value")
		}
	}
	if base != nil {
		return r.a.DateTime(base.Time().Add(timeSecs(span))), nil
	}
	return r.a.Duration(span), nil
}

func (r *run) evalSub(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	switch len(vals) {
	case 0:
		return nil, types.NewInvalidArguments("- requires at least one operand")
	case 1:
		v := vals[0]
		if v.Kind() == types.KindDuration {
			return r.a.Duration(v.Dur().Neg()), nil
		}
		n, err := v.ToNumber()
		if err != nil {
			return nil, err
		}
		return r.a.Number(subNum(types.IntNum(0), n)), nil
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc, err = r.subPair(acc, v)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (r *run) subPair(a, b *types.Value) (*types.Value, error) {
	switch {
	case a.Kind() == types.KindDateTime && b.Kind() == types.KindDateTime:
		secs := a.Time().Unix() - b.Time().Unix()
		return r.a.Duration(types.DurationFromSeconds(secs)), nil
	case a.Kind() == types.KindDateTime && b.Kind() == types.KindDuration:
		return r.a.DateTime(a.Time().Add(-timeSecs(b.Dur()))), nil
	case a.Kind() == types.KindDuration && b.Kind() == types.KindDuration:
		return r.a.Duration(a.Dur().Sub(b.Dur())), nil
	case isTemporal(a) || isTemporal(b):
		return nil, types.NewInvalidArguments("invalid temporal subtraction")
	}
	an, err := a.ToNumber()
	if err != nil {
		return nil, err
	}
	bn, err := b.ToNumber()
	if err != nil {
		return nil, err
	}
	return r.a.Number(subNum(an, bn)), nil
}

func (r *run) evalMul(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return r.a.Int(1), nil
	}
	if anyTemporal(vals) {
		return r.scaleTemporal(vals)
	}
	acc := types.IntNum(1)
	for _, v := range vals {
		n, err := v.ToNumber()
		if err != nil {
			return nil, err
		}
		acc = mulNum(acc, n)
	}
	return r.a.Number(acc), nil
}

// scaleTemporal multiplies exactly one Duration by numeric factors.
func (r *run) scaleTemporal(vals []*types.Value) (*types.Value, error) {
	var dur *types.Value
	factor := 1.0
	for _, v := range vals {
		switch v.Kind() {
		case types.KindDuration:
			if dur != nil {
				return nil, types.NewInvalidArguments("cannot multiply two durations")
			}
			dur = v
		case types.KindDateTime:
			return nil, types.NewInvalidArguments("cannot multiply a datetime")
		default:
			n, err := v.ToNumber()
			if err != nil {
				return nil, err
			}
			factor *= n.AsFloat()
		}
	}
	return r.a.Duration(dur.Dur().Scale(factor)), nil
}

func (r *run) evalDiv(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	switch len(vals) {
	case 0:
		return nil, types.NewInvalidArguments("/ requires at least one operand")
	case 1:
		n, err := vals[0].ToNumber()
		if err != nil {
			return nil, err
		}
		return r.a.Number(n), nil
	}
	acc := vals[0]
	for _, v := range vals[1:] {
		acc, err = r.divPair(acc, v)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (r *run) divPair(a, b *types.Value) (*types.Value, error) {
	if a.Kind() == types.KindDuration {
		n, err := b.ToNumber()
		if err != nil {
			return nil, err
		}
		f := n.AsFloat()
		if f == 0 {
			return nil, types.NewNaN()
		}
		return r.a.Duration(a.Dur().Scale(1 / f)), nil
	}
	an, err := a.ToNumber()
	if err != nil {
		return nil, err
	}
	bn, err := b.ToNumber()
	if err != nil {
		return nil, err
	}
	if bn.AsFloat() == 0 {
		return nil, types.NewNaN()
	}
	if an.IsInt && bn.IsInt && an.I%bn.I == 0 {
		return r.a.Int(an.I / bn.I), nil
	}
	return r.a.Float(an.AsFloat() / bn.AsFloat()), nil
}

func (r *run) evalMod(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) < 2 {
		return nil, types.NewInvalidArguments("% requires two operands")
	}
	acc, err := vals[0].ToNumber()
	if err != nil {
		return nil, err
	}
	for _, v := range vals[1:] {
		n, err := v.ToNumber()
		if err != nil {
			return nil, err
		}
		if n.AsFloat() == 0 {
			return nil, types.NewNaN()
		}
		if acc.IsInt && n.IsInt {
			acc = types.IntNum(acc.I % n.I)
		} else {
			acc = types.FloatNum(math.Mod(acc.AsFloat(), n.AsFloat()))
		}
	}
	return r.a.Number(acc), nil
}

// evalRounding implements abs, ceil and floor: a single number maps to a
// number, a list of numbers to a list. Non-numeric inputs are rejected.
func (r *run) evalRounding(op types.OpTag, args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, types.NewInvalidArguments(op.String() + " requires an operand")
	}

	apply := func(v *types.Value) (*types.Value, error) {
		if !v.IsNumber() {
			return nil, types.NewInvalidArguments(op.String() + " requires numeric input")
		}
		switch op {
		case types.OpAbs:
			if v.Kind() == types.KindInt {
				i := v.Int()
				if i < 0 {
					i = -i
				}
				return r.a.Int(i), nil
			}
			return r.a.Float(math.Abs(v.Float())), nil
		case types.OpCeil:
			if v.Kind() == types.KindInt {
				return v, nil
			}
			return r.a.Int(int64(math.Ceil(v.Float()))), nil
		default: // OpFloor
			if v.Kind() == types.KindInt {
				return v, nil
			}
			return r.a.Int(int64(math.Floor(v.Float()))), nil
		}
	}

	if len(vals) == 1 && vals[0].Kind() != types.KindArray {
		return apply(vals[0])
	}

	src := vals
	if len(vals) == 1 {
		src = vals[0].Items()
	}
	out := r.a.Refs(len(src))
	for i, v := range src {
		res, err := apply(v)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return r.a.Array(out), nil
}

// evalMinMax folds the numeric extremum. Non-numeric operands are
// rejected strictly rather than coerced.
func (r *run) evalMinMax(op types.OpTag, args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return r.a.Null(), nil
	}
	var best *types.Value
	for _, v := range vals {
		if !v.IsNumber() {
			return nil, types.NewNaN()
		}
		if best == nil {
			best = v
			continue
		}
		if op == types.OpMin && v.NumFloat() < best.NumFloat() {
			best = v
		} else if op == types.OpMax && v.NumFloat() > best.NumFloat() {
			best = v
		}
	}
	return best, nil
}
