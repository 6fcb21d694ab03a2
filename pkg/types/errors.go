package types

import "fmt"

// ErrorKind classifies a structured evaluation failure.
type ErrorKind uint8

const (
	// ErrInvalidArguments is raised when an operator receives the wrong
	// arity or operand types.
	ErrInvalidArguments ErrorKind = iota
	// ErrNaN is raised when a numeric operation cannot produce a number,
	// including division by zero and failed numeric coercion.
	ErrNaN
	// ErrUnknownOperator is raised when an unregistered single-keyed
	// object reaches evaluation.
	ErrUnknownOperator
	// ErrThrown carries a user payload raised by the "throw" operator.
	ErrThrown
)

// String returns the canonical type string surfaced under the "type" key.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArguments:
		return "Invalid Arguments"
	case ErrNaN:
		return "NaN"
	case ErrUnknownOperator:
		return "Unknown Operator"
	case ErrThrown:
		return "Thrown"
	}
	return "Unknown"
}

// Error is a structured evaluation failure. The "try" operator inspects it
// through ErrorValue; on the API boundary it marshals to
// {"type": <string or object payload>}.
//
// A non-nil Payload lives in the arena that was active when the error was
// raised; callers must consume the error before resetting that arena.
type Error struct {
	Kind    ErrorKind
	Payload *Value // thrown payload; nil for the implicit kinds
	Detail  string // human context, e.g. the unknown operator name
}

// NewInvalidArguments builds an Invalid Arguments failure.
func NewInvalidArguments(detail string) *Error {
	return &Error{Kind: ErrInvalidArguments, Detail: detail}
}

// NewNaN builds a NaN failure.
func NewNaN() *Error { return &Error{Kind: ErrNaN} }

// NewUnknownOperator builds an Unknown Operator failure for name.
func NewUnknownOperator(name string) *Error {
	return &Error{Kind: ErrUnknownOperator, Detail: name}
}

// NewThrown wraps a payload raised by "throw". String payloads become the
// error's type; object payloads become the whole error value.
func NewThrown(payload *Value) *Error {
	return &Error{Kind: ErrThrown, Payload: payload}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Kind == ErrThrown && e.Payload != nil {
		return fmt.Sprintf("thrown: %s", e.Payload.ToString())
	}
	return e.Kind.String()
}

// ErrorValue materializes the value "try" exposes to its next operand:
// a thrown object payload is the error value itself; any other payload or
// implicit kind wraps as {"type": payload-or-kind-string}.
func (e *Error) ErrorValue(a *Arena) *Value {
	if e.Kind == ErrThrown && e.Payload != nil && e.Payload.Kind() == KindObject {
		return e.Payload
	}
	members := a.MemberSlice(1)
	members[0] = Member{Key: "type", Val: e.TypeValue(a)}
	return a.Object(members)
}

// TypeValue returns the payload exposed under the "type" key.
func (e *Error) TypeValue(a *Arena) *Value {
	if e.Kind == ErrThrown && e.Payload != nil {
		return e.Payload
	}
	return a.String(e.Kind.String())
}

// Detach returns an error whose payload no longer references the arena
// it was raised in, so it stays valid after that arena is reset.
func (e *Error) Detach() *Error {
	if e.Payload == nil {
		return e
	}
	return &Error{
		Kind:    e.Kind,
		Payload: CloneValue(e.Payload, NewArena()),
		Detail:  e.Detail,
	}
}

// JSONValue returns the boundary shape of the error as a plain Go value,
// detached from any arena.
func (e *Error) JSONValue() any {
	if e.Kind == ErrThrown && e.Payload != nil {
		if e.Payload.Kind() == KindObject {
			return e.Payload.Interface()
		}
		return map[string]any{"type": e.Payload.Interface()}
	}
	return map[string]any{"type": e.Kind.String()}
}
