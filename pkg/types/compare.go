package types

import "strings"

// StrictEquals compares variant and contents without coercion. Arrays and
// objects compare deeply; object member order is not significant.
func StrictEquals(a, b *Value) bool {
	if a.IsNumber() && b.IsNumber() {
		// Integer/float discriminator is internal; 1 === 1.0.
		return a.NumFloat() == b.NumFloat()
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !StrictEquals(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for _, m := range a.obj {
			o, ok := b.Get(m.Key)
			if !ok || !StrictEquals(m.Val, o) {
				return false
			}
		}
		return true
	case KindDateTime:
		return a.t.Equal(b.t)
	case KindDuration:
		return a.dur == b.dur
	}
	return false
}

// LooseEquals applies JSONLogic scalar coercion: strings compare
// numerically to numbers, booleans coerce to 0/1 (and to the strings
// "true"/"false"/"1"/"0"), null equals only null. Arrays and objects never
// coerce.
func LooseEquals(a, b *Value) bool {
	switch {
	case a.IsNumber() && b.kind == KindString:
		if n, err := b.ToNumber(); err == nil && b.s != "" {
			return a.NumFloat() == n.AsFloat()
		}
		return false
	case a.kind == KindString && b.IsNumber():
		return LooseEquals(b, a)
	case a.kind == KindBool && b.IsNumber():
		bv := 0.0
		if a.b {
			bv = 1.0
		}
		return bv == b.NumFloat()
	case a.IsNumber() && b.kind == KindBool:
		return LooseEquals(b, a)
	case a.kind == KindBool && b.kind == KindString:
		switch b.s {
		case "true", "1":
			return a.b
		case "false", "0":
			return !a.b
		}
		return false
	case a.kind == KindString && b.kind == KindBool:
		return LooseEquals(b, a)
	}
	return StrictEquals(a, b)
}

// Compare orders two values for the chained comparison operators.
// Numbers order numerically, two strings lexicographically, DateTimes and
// Durations chronologically. Every other combination attempts numeric
// coercion; ok is false when coercion fails, which short-circuits the
// enclosing comparison to false.
func Compare(a, b *Value) (int, bool) {
	switch {
	case a.IsNumber() && b.IsNumber():
		return cmpFloat(a.NumFloat(), b.NumFloat()), true
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.s, b.s), true
	case a.kind == KindDateTime && b.kind == KindDateTime:
		return a.t.Compare(b.t), true
	case a.kind == KindDuration && b.kind == KindDuration:
		return cmpInt(a.dur.Secs, b.dur.Secs), true
	}
	an, err := a.ToNumber()
	if err != nil {
		return 0, false
	}
	bn, err := b.ToNumber()
	if err != nil {
		return 0, false
	}
	return cmpFloat(an.AsFloat(), bn.AsFloat()), true
}

// SortCompare orders values for "sort", including across types:
// null < false < true < numbers < strings < arrays < objects < datetimes
// < durations. Missing sort keys resolve to null and therefore sort first.
func SortCompare(a, b *Value) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return cmpInt(int64(ra), int64(rb))
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		return 0 // equal rank implies equal bool
	case KindInt, KindFloat:
		return cmpFloat(a.NumFloat(), b.NumFloat())
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindArray:
		for i := 0; i < len(a.arr) && i < len(b.arr); i++ {
			if c := SortCompare(a.arr[i], b.arr[i]); c != 0 {
				return c
			}
		}
		return cmpInt(int64(len(a.arr)), int64(len(b.arr)))
	case KindObject:
		return cmpInt(int64(len(a.obj)), int64(len(b.obj)))
	case KindDateTime:
		return a.t.Compare(b.t)
	case KindDuration:
		return cmpInt(a.dur.Secs, b.dur.Secs)
	}
	return 0
}

func sortRank(v *Value) int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		if v.b {
			return 2
		}
		return 1
	case KindInt, KindFloat:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	case KindObject:
		return 6
	case KindDateTime:
		return 7
	case KindDuration:
		return 8
	}
	return 9
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
