// Package types defines the core type system for GoLogic.
//
// This package contains type definitions for:
//   - Value: the tagged runtime value shared by data and results
//   - Node: expression-tree nodes produced by the parser
//   - Rule: a compiled rule together with the arena that owns it
//   - Arena: lifetime-scoped storage for values and nodes
//   - Error: structured errors inspectable by the "try" operator
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/sandrolain/gologic/pkg/arena"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindDateTime
	KindDuration
)

// TypeName returns the tag reported by the "type" operator.
// Integers and floats both report "number".
func (k Kind) TypeName() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt, KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDateTime:
		return "datetime"
	case KindDuration:
		return "duration"
	}
	return "unknown"
}

// Member is a single key/value pair of an object Value.
// Members preserve the insertion order of the source document.
type Member struct {
	Key string
	Val *Value
}

// Value is a tagged sum over the JSON types plus DateTime and Duration.
// Values live in an Arena; a *Value is a trivially copyable reference and
// is only valid until the owning arena is reset.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  []*Value
	obj  []Member
	t    time.Time
	dur  Duration
}

// Kind returns the variant tag.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload. Valid only for KindBool.
func (v *Value) Bool() bool { return v.b }

// Int returns the integer payload. Valid only for KindInt.
func (v *Value) Int() int64 { return v.i }

// Float returns the float payload. Valid only for KindFloat.
func (v *Value) Float() float64 { return v.f }

// Str returns the string payload. Valid only for KindString.
func (v *Value) Str() string { return v.s }

// Items returns the element slice of an array value.
func (v *Value) Items() []*Value { return v.arr }

// Members returns the key/value pairs of an object value in insertion order.
func (v *Value) Members() []Member { return v.obj }

// Time returns the instant of a DateTime value.
func (v *Value) Time() time.Time { return v.t }

// Dur returns the span of a Duration value.
func (v *Value) Dur() Duration { return v.dur }

// IsNumber reports whether the value is an integer or a float.
func (v *Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// NumFloat returns the numeric payload as float64 for either number variant.
func (v *Value) NumFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Get looks up a key in an object value.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	for _, m := range v.obj {
		if m.Key == key {
			return m.Val, true
		}
	}
	return nil, false
}

// Index returns the i-th element of an array value; ok is false when the
// value is not an array or the index is out of range.
func (v *Value) Index(i int) (*Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil, false
	}
	return v.arr[i], true
}

// IsTruthy evaluates JSONLogic truthiness: null, false, 0, "", [] and the
// empty object are falsy; everything else is truthy. A zero Duration is
// falsy; a DateTime is always truthy.
func (v *Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) != 0
	case KindObject:
		return len(v.obj) != 0
	case KindDateTime:
		return true
	case KindDuration:
		return !v.dur.IsZero()
	}
	return false
}

// Num is the result of numeric coercion: an integer that stays integer
// until a float operand promotes it.
type Num struct {
	I     int64
	F     float64
	IsInt bool
}

// AsFloat returns the numeric value as float64 regardless of discriminator.
func (n Num) AsFloat() float64 {
	if n.IsInt {
		return float64(n.I)
	}
	return n.F
}

// IntNum and FloatNum build Num values.
func IntNum(i int64) Num     { return Num{I: i, IsInt: true} }
func FloatNum(f float64) Num { return Num{F: f} }

// ToNumber coerces a value to a number: true->1, false->0, null->0, ""->0,
// numeric strings parse with sign, fraction and exponent. Strings that do
// not fully parse, arrays, objects and temporal values are a NaN failure.
func (v *Value) ToNumber() (Num, error) {
	switch v.kind {
	case KindInt:
		return IntNum(v.i), nil
	case KindFloat:
		return FloatNum(v.f), nil
	case KindBool:
		if v.b {
			return IntNum(1), nil
		}
		return IntNum(0), nil
	case KindNull:
		return IntNum(0), nil
	case KindString:
		s := strings.TrimSpace(v.s)
		if s == "" {
			return IntNum(0), nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntNum(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatNum(f), nil
		}
	}
	return Num{}, NewNaN()
}

// ToString renders the value the way "cat" concatenates it: null becomes
// the empty string, numbers print without a trailing ".0", arrays join
// their stringified elements with commas, objects render as compact JSON.
func (v *Value) ToString() string {
	var sb strings.Builder
	v.writeString(&sb)
	return sb.String()
}

func (v *Value) writeString(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(formatFloat(v.f))
	case KindString:
		sb.WriteString(v.s)
	case KindArray:
		for i, it := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			it.writeString(sb)
		}
	case KindObject:
		b, _ := v.MarshalJSON()
		sb.Write(b)
	case KindDateTime:
		sb.WriteString(v.t.UTC().Format(isoFormat))
	case KindDuration:
		sb.WriteString(v.dur.String())
	}
}

// formatFloat prints a float the way JSON does: integral floats keep no
// fractional part only when the value round-trips exactly.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ── Arena ──────────────────────────────────────────────────────────────────

// Arena provides lifetime-scoped storage for values and expression nodes.
// A Rule owns the arena its tree was parsed into; each evaluation borrows a
// separate arena for its results. Reset rewinds all pools in constant time,
// invalidating every reference handed out since the previous Reset.
//
// Arena is NOT thread-safe: two evaluations must never share one arena.
type Arena struct {
	values  *arena.Pool[Value]
	nodes   *arena.Pool[Node]
	refs    *arena.Pool[*Value]
	members *arena.Pool[Member]

	// Shared immutable singletons; stable across Reset.
	null Value
	tru  Value
	fls  Value
}

// NewArena allocates an arena pre-warmed with one chunk per pool.
func NewArena() *Arena {
	return &Arena{
		values:  arena.NewPool[Value](),
		nodes:   arena.NewPool[Node](),
		refs:    arena.NewPool[*Value](),
		members: arena.NewPool[Member](),
		null:    Value{kind: KindNull},
		tru:     Value{kind: KindBool, b: true},
		fls:     Value{kind: KindBool},
	}
}

// Reset rewinds the arena in O(1). Every *Value, *Node and slice handed out
// since the last Reset becomes invalid.
func (a *Arena) Reset() {
	a.values.Reset()
	a.nodes.Reset()
	a.refs.Reset()
	a.members.Reset()
}

// Null returns the shared null singleton.
func (a *Arena) Null() *Value { return &a.null }

// Bool returns one of the shared boolean singletons.
func (a *Arena) Bool(b bool) *Value {
	if b {
		return &a.tru
	}
	return &a.fls
}

// Int allocates an integer number value.
func (a *Arena) Int(i int64) *Value {
	v := a.values.Alloc()
	v.kind = KindInt
	v.i = i
	return v
}

// Float allocates a float number value.
func (a *Arena) Float(f float64) *Value {
	v := a.values.Alloc()
	v.kind = KindFloat
	v.f = f
	return v
}

// Number allocates a value from a coerced Num, preserving the
// integer/float discriminator.
func (a *Arena) Number(n Num) *Value {
	if n.IsInt {
		return a.Int(n.I)
	}
	return a.Float(n.F)
}

// String allocates a string value.
func (a *Arena) String(s string) *Value {
	v := a.values.Alloc()
	v.kind = KindString
	v.s = s
	return v
}

// Array allocates an array value wrapping items. The slice is retained,
// not copied; allocate it with Refs to keep it inside the arena.
func (a *Arena) Array(items []*Value) *Value {
	v := a.values.Alloc()
	v.kind = KindArray
	v.arr = items
	return v
}

// Object allocates an object value wrapping members in the given order.
func (a *Arena) Object(members []Member) *Value {
	v := a.values.Alloc()
	v.kind = KindObject
	v.obj = members
	return v
}

// DateTime allocates a DateTime value.
func (a *Arena) DateTime(t time.Time) *Value {
	v := a.values.Alloc()
	v.kind = KindDateTime
	v.t = t
	return v
}

// Duration allocates a Duration value.
func (a *Arena) Duration(d Duration) *Value {
	v := a.values.Alloc()
	v.kind = KindDuration
	v.dur = d
	return v
}

// Refs allocates a slice of n value references backed by arena memory.
func (a *Arena) Refs(n int) []*Value { return a.refs.AllocSlice(n) }

// MemberSlice allocates a slice of n object members backed by arena memory.
func (a *Arena) MemberSlice(n int) []Member { return a.members.AllocSlice(n) }

// NewNode allocates a zeroed expression node.
func (a *Arena) NewNode() *Node { return a.nodes.Alloc() }

// CloneValue deep-copies v into the given arena. Use it to keep a value
// alive past the reset of the arena it was produced in.
func CloneValue(v *Value, a *Arena) *Value {
	switch v.kind {
	case KindNull:
		return a.Null()
	case KindBool:
		return a.Bool(v.b)
	case KindInt:
		return a.Int(v.i)
	case KindFloat:
		return a.Float(v.f)
	case KindString:
		return a.String(v.s)
	case KindArray:
		items := a.Refs(len(v.arr))
		for i, it := range v.arr {
			items[i] = CloneValue(it, a)
		}
		return a.Array(items)
	case KindObject:
		members := a.MemberSlice(len(v.obj))
		for i, m := range v.obj {
			members[i] = Member{Key: m.Key, Val: CloneValue(m.Val, a)}
		}
		return a.Object(members)
	case KindDateTime:
		return a.DateTime(v.t)
	case KindDuration:
		return a.Duration(v.dur)
	}
	return a.Null()
}
