// Package attr stores parsed directive values into their resolved slots.
//
// Every directive kind converts its surface form into a target value through
// [Setter]. The conversion may fail for kinds with free-form arguments, for
// example an unknown byte order. A successful conversion overwrites the slot.
package attr

import (
	"errors"
	"go/token"
)

// Setter converts the receiver into a T and writes it into to. It writes
// exactly once on success and leaves to untouched on failure.
type Setter[T any] interface {
	TrySet(to *T) error
}

// Set converts v and overwrites the slot. A second call overwrites the result
// of the first one. Use [Once] to detect repeated directives.
func Set[T any](v Setter[T], to *T) error {
	return v.TrySet(to)
}

// ErrDuplicate is returned by [Once.Set] when the slot has been written.
var ErrDuplicate = errors.New("already specified")

// Once is a slot which accepts a single successful write. The zero value holds
// the zero T. Use [NewOnce] for another default.
type Once[T any] struct {
	v   T
	pos token.Pos
	set bool
}

// NewOnce creates a [Once] holding def until it is written.
func NewOnce[T any](def T) Once[T] {
	return Once[T]{v: def}
}

// Set writes v into the slot. pos is where the directive occurred; it is
// remembered for duplicate reports. If the slot has been written, Set returns
// [ErrDuplicate] without converting v.
func (o *Once[T]) Set(v Setter[T], pos token.Pos) error {
	if o.set {
		return ErrDuplicate
	}
	if err := Set(v, &o.v); err != nil {
		return err
	}
	o.pos = pos
	o.set = true
	return nil
}

// Get returns the current value. It is the default until [Once.Set] succeeds.
func (o *Once[T]) Get() T { return o.v }

// IsSet reports whether a write has succeeded.
func (o *Once[T]) IsSet() bool { return o.set }

// Pos returns the position of the successful write, or [token.NoPos].
func (o *Once[T]) Pos() token.Pos { return o.pos }

// Flag is a Setter for presence-only directives.
type Flag struct{}

// TrySet sets the flag. It never fails.
func (Flag) TrySet(to *bool) error {
	*to = true
	return nil
}
