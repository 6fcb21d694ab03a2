package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseJSON decodes a JSON document into an arena-backed Value. Object
// member order is preserved, and numbers keep the integer/float
// discriminator: a token without fraction or exponent that fits int64
// stays an integer.
func ParseJSON(data []byte, a *Arena) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec, a)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, a *Arena) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var tmp []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v", keyTok)
				}
				val, err := decodeValue(dec, a)
				if err != nil {
					return nil, err
				}
				tmp = append(tmp, Member{Key: key, Val: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			members := a.MemberSlice(len(tmp))
			copy(members, tmp)
			return a.Object(members), nil
		case '[':
			var tmp []*Value
			for dec.More() {
				item, err := decodeValue(dec, a)
				if err != nil {
					return nil, err
				}
				tmp = append(tmp, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			items := a.Refs(len(tmp))
			copy(items, tmp)
			return a.Array(items), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return a.String(t), nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return a.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return a.Float(f), nil
	case bool:
		return a.Bool(t), nil
	case nil:
		return a.Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

// MarshalJSON renders the value as JSON, preserving object member order.
// DateTime values render as ISO-8601 strings and Durations in the
// "<d>d:<h>h:<m>m:<s>s" form.
func (v *Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

func (v *Value) appendJSON(dst []byte) []byte {
	switch v.kind {
	case KindNull:
		return append(dst, "null"...)
	case KindBool:
		return strconv.AppendBool(dst, v.b)
	case KindInt:
		return strconv.AppendInt(dst, v.i, 10)
	case KindFloat:
		b, _ := json.Marshal(v.f)
		return append(dst, b...)
	case KindString:
		b, _ := json.Marshal(v.s)
		return append(dst, b...)
	case KindArray:
		dst = append(dst, '[')
		for i, it := range v.arr {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = it.appendJSON(dst)
		}
		return append(dst, ']')
	case KindObject:
		dst = append(dst, '{')
		for i, m := range v.obj {
			if i > 0 {
				dst = append(dst, ',')
			}
			kb, _ := json.Marshal(m.Key)
			dst = append(dst, kb...)
			dst = append(dst, ':')
			dst = m.Val.appendJSON(dst)
		}
		return append(dst, '}')
	case KindDateTime:
		b, _ := json.Marshal(v.t.UTC().Format(isoFormat))
		return append(dst, b...)
	case KindDuration:
		b, _ := json.Marshal(v.dur.String())
		return append(dst, b...)
	}
	return dst
}

// Interface converts the value into plain Go types detached from the
// arena: nil, bool, int64, float64, string, []any and map[string]any
// (member order is lost). Temporal values convert to their string forms.
func (v *Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, it := range v.arr {
			out[i] = it.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for _, m := range v.obj {
			out[m.Key] = m.Val.Interface()
		}
		return out
	case KindDateTime:
		return v.t.UTC().Format(isoFormat)
	case KindDuration:
		return v.dur.String()
	}
	return nil
}
