// Package mapper centralizes parameter binding and row extraction for the
// storage layer so repositories never convert column values by hand.
package mapper

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/diyprojects/projects/internal/optional"
)

// Type is the declared storage type of a statement parameter.
type Type int

const (
	String Type = iota + 1
	Decimal
	Integer
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Decimal:
		return "decimal"
	case Integer:
		return "integer"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// BindError reports a parameter whose runtime value does not fit its
// declared type, or a slot that was never bound.
type BindError struct {
	Position int
	Type     Type
	Value    any
	Reason   string
}

func (e *BindError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("bind parameter %d (%s): %s", e.Position, e.Type, e.Reason)
	}
	return fmt.Sprintf("bind parameter %d: %T is not compatible with %s", e.Position, e.Value, e.Type)
}

// Params collects positional arguments ($1..$n) for one statement.
type Params struct {
	args  []any
	bound []bool
}

func NewParams(n int) *Params {
	return &Params{args: make([]any, n), bound: make([]bool, n)}
}

// Bind stores value at the 1-based position. Accepted values are the plain
// Go type, its optional.Optional wrapper, or untyped nil for NULL.
func (p *Params) Bind(position int, value any, typ Type) error {
	if position < 1 || position > len(p.args) {
		return &BindError{Position: position, Type: typ, Value: value,
			Reason: fmt.Sprintf("position out of range 1..%d", len(p.args))}
	}

	v, ok := convert(value, typ)
	if !ok {
		return &BindError{Position: position, Type: typ, Value: value}
	}
	p.args[position-1] = v
	p.bound[position-1] = true
	return nil
}

// Args returns the driver values in position order.
func (p *Params) Args() ([]any, error) {
	for i, b := range p.bound {
		if !b {
			return nil, &BindError{Position: i + 1, Reason: "not bound"}
		}
	}
	out := make([]any, len(p.args))
	copy(out, p.args)
	return out, nil
}

func convert(value any, typ Type) (any, bool) {
	if value == nil {
		return nil, true
	}

	switch typ {
	case String:
		switch v := value.(type) {
		case string:
			return v, true
		case optional.Optional[string]:
			return unwrap(v, func(s string) any { return s }), true
		}
	case Decimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v.String(), true
		case optional.Optional[decimal.Decimal]:
			return unwrap(v, func(d decimal.Decimal) any { return d.String() }), true
		}
	case Integer:
		switch v := value.(type) {
		case int:
			return int64(v), true
		case int8:
			return int64(v), true
		case int16:
			return int64(v), true
		case int32:
			return int64(v), true
		case int64:
			return v, true
		case optional.Optional[int]:
			return unwrap(v, func(i int) any { return int64(i) }), true
		case optional.Optional[int64]:
			return unwrap(v, func(i int64) any { return i }), true
		}
	}
	return nil, false
}

func unwrap[T any](o optional.Optional[T], f func(T) any) any {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return f(v)
}
