package evaluator

import (
	"sort"

	"github.com/sandrolain/gologic/pkg/types"
)

// iterItem is one step of a combinator iteration.
type iterItem struct {
	val   *types.Value
	index int
	key   string
	byKey bool
}

// iterItems normalizes a combinator input: arrays iterate with indexes,
// objects iterate their members in key-sorted order with keys, scalars
// wrap as a one-element list, and null yields nothing.
func (r *run) iterItems(coll *types.Value) []iterItem {
	switch coll.Kind() {
	case types.KindNull:
		return nil
	case types.KindArray:
		items := coll.Items()
		out := make([]iterItem, len(items))
		for i, v := range items {
			out[i] = iterItem{val: v, index: i}
		}
		return out
	case types.KindObject:
		members := coll.Members()
		out := make([]iterItem, len(members))
		for i, m := range members {
			out[i] = iterItem{val: m.Val, key: m.Key, byKey: true}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].key < out[j].key })
		for i := range out {
			out[i].index = i
		}
		return out
	default:
		return []iterItem{{val: coll}}
	}
}

// pushIter enters one iteration step; the matching popIter must run on
// every exit path.
func (r *run) pushIter(it iterItem) {
	if it.byKey {
		r.sc.pushIterKey(it.val, it.key)
	} else {
		r.sc.pushIterIndex(it.val, it.index)
	}
}

func (r *run) evalMap(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("map requires [collection, body]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	items := r.iterItems(coll)
	out := r.a.Refs(len(items))
	for i, it := range items {
		r.pushIter(it)
		v, err := r.eval(args[1])
		r.sc.popIter()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return r.a.Array(out), nil
}

func (r *run) evalFilter(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("filter requires [collection, predicate]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	var kept []*types.Value
	for _, it := range r.iterItems(coll) {
		r.pushIter(it)
		v, err := r.eval(args[1])
		r.sc.popIter()
		if err != nil {
			return nil, err
		}
		if v.IsTruthy() {
			kept = append(kept, it.val)
		}
	}
	out := r.a.Refs(len(kept))
	copy(out, kept)
	return r.a.Array(out), nil
}

func (r *run) evalFind(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("find requires [collection, predicate]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	for _, it := range r.iterItems(coll) {
		r.pushIter(it)
		v, err := r.eval(args[1])
		r.sc.popIter()
		if err != nil {
			return nil, err
		}
		if v.IsTruthy() {
			return it.val, nil
		}
	}
	return r.a.Null(), nil
}

// evalReduce folds the collection through the body, which sees
// {"current": item, "accumulator": acc} as its frame data.
func (r *run) evalReduce(args []*types.Node) (*types.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, types.NewInvalidArguments("reduce requires [collection, body, seed?]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	acc := r.a.Null()
	if len(args) == 3 {
		acc, err = r.eval(args[2])
		if err != nil {
			return nil, err
		}
	}
	for _, it := range r.iterItems(coll) {
		// A fresh frame object per step: the body may capture it via
		// val([]), so it cannot be reused across iterations.
		members := r.a.MemberSlice(2)
		members[0] = types.Member{Key: "current", Val: it.val}
		members[1] = types.Member{Key: "accumulator", Val: acc}
		frameData := r.a.Object(members)

		if it.byKey {
			r.sc.pushIterKey(frameData, it.key)
		} else {
			r.sc.pushIterIndex(frameData, it.index)
		}
		acc, err = r.eval(args[1])
		r.sc.popIter()
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// evalQuantifier implements all/some/none with boolean short-circuiting.
// An empty collection satisfies none but neither all nor some.
func (r *run) evalQuantifier(op types.OpTag, args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments(op.String() + " requires [collection, predicate]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	items := r.iterItems(coll)
	if len(items) == 0 {
		return r.a.Bool(op == types.OpNone), nil
	}
	for _, it := range items {
		r.pushIter(it)
		v, err := r.eval(args[1])
		r.sc.popIter()
		if err != nil {
			return nil, err
		}
		truthy := v.IsTruthy()
		switch op {
		case types.OpAll:
			if !truthy {
				return r.a.Bool(false), nil
			}
		case types.OpSome:
			if truthy {
				return r.a.Bool(true), nil
			}
		case types.OpNone:
			if truthy {
				return r.a.Bool(false), nil
			}
		}
	}
	return r.a.Bool(op == types.OpAll || op == types.OpNone), nil
}

// evalMerge flattens one level: array operands contribute their elements,
// everything else is wrapped and appended.
func (r *run) evalMerge(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	var tmp []*types.Value
	for _, v := range vals {
		if v.Kind() == types.KindArray {
			tmp = append(tmp, v.Items()...)
		} else {
			tmp = append(tmp, v)
		}
	}
	out := r.a.Refs(len(tmp))
	copy(out, tmp)
	return r.a.Array(out), nil
}

// evalIn tests membership: [needle, array] element containment or
// [needle, string] substring.
func (r *run) evalIn(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("in requires [needle, haystack]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	needle, hay := vals[0], vals[1]
	switch hay.Kind() {
	case types.KindArray:
		for _, it := range hay.Items() {
			if types.StrictEquals(needle, it) {
				return r.a.Bool(true), nil
			}
		}
		return r.a.Bool(false), nil
	case types.KindString:
		return r.a.Bool(containsSubstring(hay.Str(), needle.ToString())), nil
	}
	return r.a.Bool(false), nil
}

func (r *run) evalLength(args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments("length requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case types.KindString:
		return r.a.Int(int64(len([]rune(v.Str())))), nil
	case types.KindArray:
		return r.a.Int(int64(len(v.Items()))), nil
	case types.KindObject:
		return r.a.Int(int64(len(v.Members()))), nil
	}
	return nil, types.NewInvalidArguments("length requires a string, array or object")
}

// evalSlice implements Python-style slicing over arrays and strings:
// negative indices count from the end, out-of-range bounds clamp, and a
// negative step reverses direction. Step 0 is invalid.
func (r *run) evalSlice(args []*types.Node) (*types.Value, error) {
	if len(args) < 1 || len(args) > 4 {
		return nil, types.NewInvalidArguments("slice requires [value, start?, end?, step?]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	target := vals[0]
	if target.IsNull() {
		return r.a.Null(), nil
	}

	bound := func(i int) (*int, error) {
		if i >= len(vals) || vals[i].IsNull() {
			return nil, nil
		}
		if !vals[i].IsNumber() {
			return nil, types.NewNaN()
		}
		n := int(vals[i].NumFloat())
		return &n, nil
	}
	start, err := bound(1)
	if err != nil {
		return nil, err
	}
	end, err := bound(2)
	if err != nil {
		return nil, err
	}
	stepPtr, err := bound(3)
	if err != nil {
		return nil, err
	}
	step := 1
	if stepPtr != nil {
		step = *stepPtr
	}
	if step == 0 {
		return nil, types.NewInvalidArguments("slice step cannot be 0")
	}

	switch target.Kind() {
	case types.KindArray:
		items := target.Items()
		idx := sliceIndices(start, end, step, len(items))
		out := r.a.Refs(len(idx))
		for i, j := range idx {
			out[i] = items[j]
		}
		return r.a.Array(out), nil
	case types.KindString:
		runes := []rune(target.Str())
		idx := sliceIndices(start, end, step, len(runes))
		out := make([]rune, len(idx))
		for i, j := range idx {
			out[i] = runes[j]
		}
		return r.a.String(string(out)), nil
	}
	return nil, types.NewInvalidArguments("slice requires an array or string")
}

// sliceIndices resolves the selected positions with CPython's clamping
// rules.
func sliceIndices(start, end *int, step, n int) []int {
	norm := func(i, lo, hi int) int {
		if i < 0 {
			i += n
		}
		if i < lo {
			return lo
		}
		if i > hi {
			return hi
		}
		return i
	}
	var s, e int
	if step > 0 {
		s, e = 0, n
		if start != nil {
			s = norm(*start, 0, n)
		}
		if end != nil {
			e = norm(*end, 0, n)
		}
	} else {
		s, e = n-1, -1
		if start != nil {
			s = norm(*start, -1, n-1)
		}
		if end != nil {
			e = norm(*end, -1, n-1)
		}
	}
	var idx []int
	if step > 0 {
		for i := s; i < e; i += step {
			idx = append(idx, i)
		}
	} else {
		for i := s; i > e; i += step {
			idx = append(idx, i)
		}
	}
	return idx
}

// evalSort stably sorts an array, optionally by a key expression
// evaluated per element in a one-frame scope. The cross-type order is
// null < false < true < numbers < strings.
func (r *run) evalSort(args []*types.Node) (*types.Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, types.NewInvalidArguments("sort requires [collection, ascending?, key?]")
	}
	coll, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	if coll.IsNull() {
		return r.a.Null(), nil
	}
	if coll.Kind() != types.KindArray {
		return nil, types.NewInvalidArguments("sort requires an array")
	}

	// Any direction value other than false or "desc" sorts ascending.
	desc := false
	if len(args) >= 2 {
		dir, err := r.eval(args[1])
		if err != nil {
			return nil, err
		}
		switch dir.Kind() {
		case types.KindBool:
			desc = !dir.Bool()
		case types.KindString:
			desc = dir.Str() == "desc"
		}
	}

	items := coll.Items()
	keys := make([]*types.Value, len(items))
	if len(args) == 3 {
		for i, it := range items {
			r.sc.push(it)
			k, err := r.eval(args[2])
			r.sc.pop()
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
	} else {
		copy(keys, items)
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		c := types.SortCompare(keys[order[i]], keys[order[j]])
		if desc {
			return c > 0
		}
		return c < 0
	})

	out := r.a.Refs(len(items))
	for i, j := range order {
		out[i] = items[j]
	}
	return r.a.Array(out), nil
}

// evalMissing returns the keys absent from the data context. A single
// array operand (e.g. produced by merge) supplies the key list.
func (r *run) evalMissing(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	keys := vals
	if len(vals) == 1 && vals[0].Kind() == types.KindArray {
		keys = vals[0].Items()
	}
	var missing []*types.Value
	for _, key := range keys {
		if !r.keyPresent(key) {
			missing = append(missing, key)
		}
	}
	out := r.a.Refs(len(missing))
	copy(out, missing)
	return r.a.Array(out), nil
}

func (r *run) evalMissingSome(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("missing_some requires [min, keys]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	minNum, err := vals[0].ToNumber()
	if err != nil {
		return nil, err
	}
	if vals[1].Kind() != types.KindArray {
		return nil, types.NewInvalidArguments("missing_some requires a key array")
	}
	keys := vals[1].Items()
	var missing []*types.Value
	for _, key := range keys {
		if !r.keyPresent(key) {
			missing = append(missing, key)
		}
	}
	if float64(len(keys)-len(missing)) >= minNum.AsFloat() {
		return r.a.Array(nil), nil
	}
	out := r.a.Refs(len(missing))
	copy(out, missing)
	return r.a.Array(out), nil
}

// keyPresent resolves a missing/missing_some key (dotted string or
// index) against the current data context.
func (r *run) keyPresent(key *types.Value) bool {
	var path []types.PathSeg
	switch key.Kind() {
	case types.KindString:
		path = dottedPath(key.Str())
	case types.KindInt, types.KindFloat:
		path = []types.PathSeg{{Kind: types.SegIndex, Index: int(key.NumFloat())}}
	default:
		return false
	}
	_, found := r.sc.lookup(path, r.a)
	return found
}
