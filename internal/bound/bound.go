// Package bound holds the constraint state of one type parameter of a codec
// type.
//
// A bound is either [*Implicit], a set of field types whose encoding needs
// the type parameter to provide some capability, or [*Explicit], a list of
// predicates written by the user in a //bingen:bound directive. An explicit
// bound replaces inference entirely.
package bound

import (
	"go/types"
	"iter"
	"slices"
	"strings"

	"golang.org/x/tools/go/types/typeutil"
)

// Bound is either [*Implicit] or [*Explicit].
type Bound interface {
	String() string
	bound()
}

// Default returns the state of a type parameter before any directive or
// field has been seen: an empty implicit set.
func Default() Bound { return NewImplicit() }

// Implicit is a set of types which mention a type parameter. Two types are the
// same member if they are identical by [types.Identical].
type Implicit struct {
	m *typeutil.Map // types.Type -> insertion index
}

// NewImplicit creates an empty [Implicit].
func NewImplicit() *Implicit {
	m := new(typeutil.Map)
	m.SetHasher(typeutil.MakeHasher())
	return &Implicit{m}
}

func (*Implicit) bound() {}

// Insert adds t to the set. It returns false if an identical type was already
// a member, in which case the set is unchanged.
func (s *Implicit) Insert(t types.Type) bool {
	if s.m.At(t) != nil {
		return false
	}
	s.m.Set(t, s.m.Len())
	return true
}

// Contains reports whether a type identical to t is a member.
func (s *Implicit) Contains(t types.Type) bool { return s.m.At(t) != nil }

// Len returns the number of members.
func (s *Implicit) Len() int { return s.m.Len() }

// Types returns the members in insertion order.
func (s *Implicit) Types() []types.Type {
	ts := s.m.Keys()
	slices.SortFunc(ts, func(a, b types.Type) int {
		return s.m.At(a).(int) - s.m.At(b).(int)
	})
	return ts
}

// All iterates the members in insertion order.
func (s *Implicit) All() iter.Seq[types.Type] {
	return slices.Values(s.Types())
}

func (s *Implicit) String() string {
	var b strings.Builder
	b.WriteString("implicit{")
	for i, t := range s.Types() {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(types.TypeString(t, nil))
	}
	b.WriteString("}")
	return b.String()
}

// Explicit is a user-written list of predicates. The order is the order of
// the directive and the order of emission.
type Explicit struct {
	Predicates []Predicate
}

func (*Explicit) bound() {}

func (e *Explicit) String() string {
	var b strings.Builder
	b.WriteString("explicit[")
	for i, pred := range e.Predicates {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(pred.String())
	}
	b.WriteString("]")
	return b.String()
}

// Attr is a parsed //bingen:bound annotation for one type parameter.
type Attr struct {
	Predicates []Predicate
}

// Bound converts the annotation into an [*Explicit] bound. The predicate order
// is kept.
func (a Attr) Bound() Bound {
	return &Explicit{Predicates: slices.Clone(a.Predicates)}
}

// TrySet overwrites to with the explicit bound of the annotation. Any implicit
// evidence in to is discarded. It never fails.
func (a Attr) TrySet(to *Bound) error {
	*to = a.Bound()
	return nil
}
