// Package usage infers what the fields of codec items need from their type
// parameters.
//
// Every encoded field whose type mentions a type parameter is recorded in the
// implicit bound of the parameter. From the recorded types, [Analysis] derives
// the capabilities each parameter must provide for the generated encoder to
// compile: an AppendBinary method where a value of the parameter is encoded,
// and comparability where it is part of a map key.
package usage

import (
	"errors"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/bound"
	"github.com/sublee/bingen/internal/codefmt"
	"github.com/sublee/bingen/internal/typeinfo"
)

// Need is a set of capabilities required from a type parameter.
type Need uint8

const (
	// NeedAppender means values of the parameter are encoded by their
	// AppendBinary method.
	NeedAppender Need = 1 << iota

	// NeedComparable means the parameter is a part of a map key.
	NeedComparable
)

// Has reports whether n includes all of m.
func (n Need) Has(m Need) bool { return n&m == m }

func (n Need) String() string {
	switch n {
	case 0:
		return "none"
	case NeedAppender:
		return "appender"
	case NeedComparable:
		return "comparable"
	}
	return "appender+comparable"
}

// Analysis is the result of [Analyze].
type Analysis struct {
	pkg   *packages.Package
	items map[*types.TypeName]*parse.Item
	needs map[*types.TypeParam]Need
}

func (a *Analysis) Pkg() *packages.Package { return a.pkg }

// Collect records the type of every encoded field of item in the implicit
// bound of each type parameter mentioned by the field type. Type parameters
// with an explicit bound are left as is.
func Collect(item *parse.Item) {
	for _, f := range item.Fields {
		if !Encoded(f) {
			continue
		}
		for _, tp := range typeinfo.TypeParams(f.Var.Type()) {
			param, ok := item.Param(tp.Obj().Name())
			if !ok || param.TypeParam != tp {
				continue
			}
			if set, ok := param.Bound.Get().(*bound.Implicit); ok {
				set.Insert(f.Var.Type())
			}
		}
	}
}

// Encoded reports whether the field is a part of the encoding.
func Encoded(f *parse.Field) bool {
	return !f.Skip.Get() && f.Var.Name() != "_"
}

// Analyze collects the implicit bounds of all items and resolves the needs of
// their type parameters. Items may refer to each other, so the needs are
// computed together until nothing changes.
func Analyze(pkg *packages.Package, items []*parse.Item) (*Analysis, error) {
	a := &Analysis{
		pkg:   pkg,
		items: make(map[*types.TypeName]*parse.Item),
		needs: make(map[*types.TypeParam]Need),
	}
	for _, item := range items {
		a.items[item.Named.Obj()] = item
		Collect(item)
	}

	for changed := true; changed; {
		changed = false
		for _, item := range items {
			for param := range item.Params() {
				set, ok := param.Bound.Get().(*bound.Implicit)
				if !ok {
					continue
				}

				var n Need
				for t := range set.All() {
					n |= a.walk(param.TypeParam, t, false, nil, nil)
				}
				if n != a.needs[param.TypeParam] {
					a.needs[param.TypeParam] = n
					changed = true
				}
			}
		}
	}

	var errs error
	for _, item := range items {
		errs = errors.Join(errs, a.validate(item))
	}
	return a, errs
}

// Need returns the capabilities required from the type parameter of an item.
// It is zero for parameters with an explicit bound.
func (a *Analysis) Need(tp *types.TypeParam) Need { return a.needs[tp] }

// Item finds the codec item declaring the origin of named.
func (a *Analysis) Item(named *types.Named) (*parse.Item, bool) {
	item, ok := a.items[named.Origin().Obj()]
	return item, ok
}

// walk computes what encoding t needs from tp. When report is not nil,
// problems found on the way are passed to it.
func (a *Analysis) walk(tp *types.TypeParam, t types.Type, key bool, stack []*types.Named, report func(string, ...any)) Need {
	var n Need
	if key && typeinfo.Mentions(t, tp) {
		n |= NeedComparable
	}

	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		if t == tp {
			n |= NeedAppender
		}

	case *types.Named:
		if item, ok := a.Item(t); ok {
			return n | a.walkArgs(tp, t, item, report)
		}
		if typeinfo.CanAppendBinary(t) {
			return n
		}
		if slices.ContainsFunc(stack, func(s *types.Named) bool { return types.Identical(s, t) }) {
			// Reported by the encoder as a recursive type
			return n
		}
		return n | a.walk(tp, t.Underlying(), key, append(stack, t), report)

	case *types.Pointer:
		n |= a.walk(tp, t.Elem(), key, stack, report)
	case *types.Slice:
		n |= a.walk(tp, t.Elem(), key, stack, report)
	case *types.Array:
		n |= a.walk(tp, t.Elem(), key, stack, report)
	case *types.Map:
		n |= a.walk(tp, t.Key(), true, stack, report)
		n |= a.walk(tp, t.Elem(), key, stack, report)
	case *types.Struct:
		for f := range t.Fields() {
			if f.Name() != "_" {
				n |= a.walk(tp, f.Type(), key, stack, report)
			}
		}
	}
	return n
}

// walkArgs computes what the encoder of another codec item needs from tp
// through the type arguments of t.
func (a *Analysis) walkArgs(tp *types.TypeParam, t *types.Named, item *parse.Item, report func(string, ...any)) Need {
	var n Need
	targs := t.TypeArgs()
	for i := 0; i < targs.Len(); i++ {
		arg := targs.At(i)
		if !typeinfo.Mentions(arg, tp) {
			continue
		}

		callee, _ := item.Param(item.Named.TypeParams().At(i).Obj().Name())
		if _, ok := callee.Bound.Get().(*bound.Implicit); !ok {
			if report != nil {
				report("cannot infer bound of %s from %t; %s of %s has bingen:bound, so specify bingen:bound for %s too",
					tp.Obj().Name(), t, callee.Name(), item.Name(), tp.Obj().Name())
			}
			continue
		}

		m := a.needs[callee.TypeParam]
		if types.Unalias(arg) == tp {
			n |= m
			continue
		}
		if m.Has(NeedComparable) {
			n |= NeedComparable
		}
	}
	return n
}

// validate reports the type arguments which cannot satisfy the encoders they
// are passed to.
func (a *Analysis) validate(item *parse.Item) error {
	var errs error
	for _, f := range item.Fields {
		if !Encoded(f) {
			continue
		}

		report := func(format string, args ...any) {
			errs = errors.Join(errs, codefmt.Errorf(a, f, "field %o: "+format, append([]any{f.Var}, args...)...))
		}

		for param := range item.Params() {
			if _, ok := param.Bound.Get().(*bound.Implicit); ok {
				a.walk(param.TypeParam, f.Var.Type(), false, nil, report)
			}
		}
		a.validateArgs(f.Var.Type(), nil, report)
	}
	return errs
}

// validateArgs checks that a type argument for a parameter which needs an
// AppendBinary method has the method, or is a type parameter.
func (a *Analysis) validateArgs(t types.Type, stack []*types.Named, report func(string, ...any)) {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		if item, ok := a.Item(t); ok {
			targs := t.TypeArgs()
			for i := 0; i < targs.Len(); i++ {
				arg := targs.At(i)
				callee := item.Named.TypeParams().At(i)
				if !a.needs[callee].Has(NeedAppender) {
					continue
				}
				if _, ok := types.Unalias(arg).(*types.TypeParam); ok {
					continue
				}
				// A type argument must satisfy the constraint by itself.
				if !typeinfo.HasAppendBinary(arg) {
					report("%t does not implement encoding.BinaryAppender required by %s of %s",
						arg, callee.Obj().Name(), item.Name())
				}
			}
			return
		}
		if typeinfo.CanAppendBinary(t) {
			return
		}
		if slices.ContainsFunc(stack, func(s *types.Named) bool { return types.Identical(s, t) }) {
			return
		}
		a.validateArgs(t.Underlying(), append(stack, t), report)

	case *types.Pointer:
		a.validateArgs(t.Elem(), stack, report)
	case *types.Slice:
		a.validateArgs(t.Elem(), stack, report)
	case *types.Array:
		a.validateArgs(t.Elem(), stack, report)
	case *types.Map:
		a.validateArgs(t.Key(), stack, report)
		a.validateArgs(t.Elem(), stack, report)
	case *types.Struct:
		for f := range t.Fields() {
			if f.Name() != "_" {
				a.validateArgs(f.Type(), stack, report)
			}
		}
	}
}
