package evaluator

import (
	"time"

	"github.com/sandrolain/gologic/pkg/types"
)

func timeSecs(d types.Duration) time.Duration {
	return time.Duration(d.TotalSeconds()) * time.Second
}

// evalDateTime constructs a DateTime from an ISO-8601 string; strings
// without an offset are taken as UTC. An existing DateTime passes
// through.
func (r *run) evalDateTime(args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments("datetime requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case types.KindDateTime:
		return v, nil
	case types.KindString:
		t, err := types.ParseDateTime(v.Str())
		if err != nil {
			return nil, types.NewInvalidArguments(err.Error())
		}
		return r.a.DateTime(t), nil
	}
	return nil, types.NewInvalidArguments("datetime requires an ISO-8601 string")
}

// evalTimestamp constructs a Duration from the "<d>d:<h>h:<m>m:<s>s"
// form; any prefix subset of the components is permitted.
func (r *run) evalTimestamp(args []*types.Node) (*types.Value, error) {
	if len(args) != 1 {
		return nil, types.NewInvalidArguments("timestamp requires one operand")
	}
	v, err := r.eval(args[0])
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case types.KindDuration:
		return v, nil
	case types.KindString:
		d, err := types.ParseDuration(v.Str())
		if err != nil {
			return nil, types.NewInvalidArguments(err.Error())
		}
		return r.a.Duration(d), nil
	}
	return nil, types.NewInvalidArguments("timestamp requires a duration string")
}
