// Package optional provides a present/absent value wrapper used for nullable
// columns, where the zero value of T is valid data and cannot stand in for
// absence.
package optional

import (
	"database/sql"
	"fmt"
)

// Optional holds either a value of T or nothing. The zero Optional is absent.
type Optional[T any] struct {
	value   T
	present bool
}

func Of[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr maps nil to absent.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Empty[T]()
	}
	return Of(*p)
}

func (o Optional[T]) IsPresent() bool { return o.present }

func (o Optional[T]) Get() (T, bool) { return o.value, o.present }

func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// Scan implements sql.Scanner; NULL becomes absent.
func (o *Optional[T]) Scan(src any) error {
	var n sql.Null[T]
	if err := n.Scan(src); err != nil {
		return err
	}
	*o = Optional[T]{value: n.V, present: n.Valid}
	return nil
}

func (o Optional[T]) String() string {
	if !o.present {
		return "<none>"
	}
	return fmt.Sprint(o.value)
}
