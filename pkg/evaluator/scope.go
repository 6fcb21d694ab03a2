package evaluator

import "github.com/sandrolain/gologic/pkg/types"

// metaKind tags the iteration metadata carried by a scope frame.
type metaKind uint8

const (
	metaNone  metaKind = iota
	metaIndex          // array iteration: index is valid
	metaKey            // object iteration: key is valid
)

// frame is one entry of the scope stack: the data value visible at that
// frame plus optional iteration metadata.
type frame struct {
	data  *types.Value
	meta  metaKind
	index int
	key   string
}

// metaValue materializes the metadata frame as an object when a path
// addresses it directly.
func (f *frame) metaValue(a *types.Arena) *types.Value {
	members := a.MemberSlice(1)
	switch f.meta {
	case metaIndex:
		members[0] = types.Member{Key: "index", Val: a.Int(int64(f.index))}
	case metaKey:
		members[0] = types.Member{Key: "key", Val: a.String(f.key)}
	default:
		return a.Null()
	}
	return a.Object(members)
}

// scope is the stack of frames a single evaluation runs against. Frame 0
// is the caller-supplied data document. Array combinators push a metadata
// frame and an element frame per iteration; every push has a matching pop
// on all exit paths, including errors.
type scope struct {
	frames []frame
}

func (s *scope) push(data *types.Value) {
	s.frames = append(s.frames, frame{data: data})
}

func (s *scope) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// pushIterIndex enters one array-iteration step: a metadata frame holding
// the index, then the element frame.
func (s *scope) pushIterIndex(elem *types.Value, index int) {
	s.frames = append(s.frames,
		frame{meta: metaIndex, index: index},
		frame{data: elem})
}

// pushIterKey enters one object-iteration step with the member key as
// metadata.
func (s *scope) pushIterKey(elem *types.Value, key string) {
	s.frames = append(s.frames,
		frame{meta: metaKey, key: key},
		frame{data: elem})
}

// popIter leaves one iteration step, dropping both frames.
func (s *scope) popIter() {
	s.frames = s.frames[:len(s.frames)-2]
}

// lookup resolves a path against the scope. The boolean result reports
// whether every segment resolved; a path whose leaf is an explicit null
// still exists. Missing segments yield the null value.
//
// Leading SegJump segments select the frame: offset 0 is the current
// frame, negative offsets walk outward (from an iteration body, [[-1]] is
// the metadata frame and [[-2]] the context that initiated the
// combinator), and positive offset N addresses frame N-1 counted from the
// outermost caller context.
func (s *scope) lookup(path []types.PathSeg, a *types.Arena) (*types.Value, bool) {
	fi := len(s.frames) - 1
	i := 0
	for i < len(path) && path[i].Kind == types.SegJump {
		off := path[i].Index
		switch {
		case off < 0:
			fi += off
		case off > 0:
			fi = off - 1
		}
		if fi < 0 || fi >= len(s.frames) {
			return a.Null(), false
		}
		i++
	}
	fr := &s.frames[fi]

	if fr.meta != metaNone {
		if i == len(path) {
			return fr.metaValue(a), true
		}
		if path[i].Kind == types.SegKey {
			switch {
			case path[i].Key == "index" && fr.meta == metaIndex:
				return walkValue(a.Int(int64(fr.index)), path[i+1:], a)
			case path[i].Key == "key" && fr.meta == metaKey:
				return walkValue(a.String(fr.key), path[i+1:], a)
			}
		}
		return a.Null(), false
	}

	data := fr.data
	if data == nil {
		data = a.Null()
	}
	return walkValue(data, path[i:], a)
}

// walkValue applies lookup segments to a value. DateTime and Duration
// values expose their virtual properties to key segments.
func walkValue(cur *types.Value, segs []types.PathSeg, a *types.Arena) (*types.Value, bool) {
	for _, seg := range segs {
		switch seg.Kind {
		case types.SegKey:
			switch cur.Kind() {
			case types.KindObject:
				v, ok := cur.Get(seg.Key)
				if !ok {
					return a.Null(), false
				}
				cur = v
			case types.KindDateTime, types.KindDuration:
				v, ok := types.TemporalProperty(cur, seg.Key, a)
				if !ok {
					return a.Null(), false
				}
				cur = v
			default:
				return a.Null(), false
			}
		case types.SegIndex:
			v, ok := cur.Index(seg.Index)
			if !ok {
				return a.Null(), false
			}
			cur = v
		case types.SegJump:
			// Traversal is only meaningful at the head of a path.
			return a.Null(), false
		}
	}
	return cur, true
}
