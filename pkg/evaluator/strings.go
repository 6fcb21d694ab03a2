package evaluator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sandrolain/gologic/pkg/types"
)

// asciiWhitespace is what trim removes: spaces plus TAB/CR/LF and the
// remaining ASCII space characters.
const asciiWhitespace = " \t\r\n\v\f"

func containsSubstring(hay, needle string) bool {
	return strings.Contains(hay, needle)
}

// dottedPath splits a legacy missing/var key on dots; numeric parts
// become array indexes.
func dottedPath(s string) []types.PathSeg {
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

// evalCat concatenates the stringified operands.
func (r *run) evalCat(args []*types.Node) (*types.Value, error) {
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, v := range vals {
		sb.WriteString(v.ToString())
	}
	return r.a.String(sb.String()), nil
}

// evalSubstr implements [s, start, len?]: a negative start counts from
// the end of the string, a negative length stops that many characters
// before the end.
func (r *run) evalSubstr(args []*types.Node) (*types.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, types.NewInvalidArguments("substr requires [string, start, length?]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	runes := []rune(vals[0].ToString())
	n := len(runes)

	if !vals[1].IsNumber() {
		return nil, types.NewNaN()
	}
	start := int(vals[1].NumFloat())
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}

	end := n
	if len(vals) == 3 {
		if !vals[2].IsNumber() {
			return nil, types.NewNaN()
		}
		length := int(vals[2].NumFloat())
		if length < 0 {
			end = n + length
		} else {
			end = start + length
		}
		if end > n {
			end = n
		}
	}
	if end < start {
		end = start
	}
	return r.a.String(string(runes[start:end])), nil
}

func (r *run) evalAffix(op types.OpTag, args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments(op.String() + " requires [string, affix]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if vals[0].Kind() != types.KindString || vals[1].Kind() != types.KindString {
		return nil, types.NewInvalidArguments(op.String() + " requires string operands")
	}
	s, affix := vals[0].Str(), vals[1].Str()
	if op == types.OpStartsWith {
		return r.a.Bool(strings.HasPrefix(s, affix)), nil
	}
	return r.a.Bool(strings.HasSuffix(s, affix)), nil
}

func (r *run) evalCaseTrim(op types.OpTag, args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments(op.String() + " requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	if v.Kind() != types.KindString {
		return nil, types.NewInvalidArguments(op.String() + " requires a string")
	}
	switch op {
	case types.OpUpper:
		return r.a.String(strings.ToUpper(v.Str())), nil
	case types.OpLower:
		return r.a.String(strings.ToLower(v.Str())), nil
	}
	return r.a.String(strings.Trim(v.Str(), asciiWhitespace)), nil
}

// evalSplit splits on a literal separator, unless the separator is a
// well-formed regular expression with named capture groups: then the
// result is an object mapping each named group to its captured substring
// (empty object when the regex does not match). Invalid regexes and
// regexes without named groups fall back to the literal split.
func (r *run) evalSplit(args []*types.Node) (*types.Value, error) {
	if len(args) != 2 {
		return nil, types.NewInvalidArguments("split requires [string, separator]")
	}
	vals, err := r.evalArgs(args)
	if err != nil {
		return nil, err
	}
	if vals[0].Kind() != types.KindString || vals[1].Kind() != types.KindString {
		return nil, types.NewInvalidArguments("split requires string operands")
	}
	s, sep := vals[0].Str(), vals[1].Str()

	if re, err := regexp.Compile(sep); err == nil {
		names := re.SubexpNames()
		named := 0
		for _, name := range names {
			if name != "" {
				named++
			}
		}
		if named > 0 {
			match := re.FindStringSubmatch(s)
			if match == nil {
				return r.a.Object(nil), nil
			}
			members := r.a.MemberSlice(named)
			i := 0
			for gi, name := range names {
				if name == "" {
					continue
				}
				members[i] = types.Member{Key: name, Val: r.a.String(match[gi])}
				i++
			}
			return r.a.Object(members), nil
		}
	}

	parts := strings.Split(s, sep)
	out := r.a.Refs(len(parts))
	for i, p := range parts {
		out[i] = r.a.String(p)
	}
	return r.a.Array(out), nil
}
