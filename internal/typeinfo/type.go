// Package typeinfo answers questions about [types.Type] that the generator
// asks repeatedly.
package typeinfo

import (
	"go/types"
	"slices"
)

// TypeParams returns the type parameters mentioned anywhere in t, each once,
// in the order they are first found.
//
//	[]T             => T
//	map[K][]V       => K, V
//	Box[Pair[T, U]] => T, U
func TypeParams(t types.Type) []*types.TypeParam {
	var tps []*types.TypeParam
	seen := make(map[*types.TypeParam]bool)
	var walk func(types.Type)
	walk = func(t types.Type) {
		switch t := types.Unalias(t).(type) {
		case *types.TypeParam:
			if !seen[t] {
				seen[t] = true
				tps = append(tps, t)
			}
		case *types.Pointer:
			walk(t.Elem())
		case *types.Slice:
			walk(t.Elem())
		case *types.Array:
			walk(t.Elem())
		case *types.Chan:
			walk(t.Elem())
		case *types.Map:
			walk(t.Key())
			walk(t.Elem())
		case *types.Named:
			targs := t.TypeArgs()
			for i := 0; i < targs.Len(); i++ {
				walk(targs.At(i))
			}
		case *types.Struct:
			for f := range t.Fields() {
				walk(f.Type())
			}
		case *types.Signature:
			for v := range t.Params().Variables() {
				walk(v.Type())
			}
			for v := range t.Results().Variables() {
				walk(v.Type())
			}
		case *types.Interface:
			for m := range t.Methods() {
				walk(m.Type())
			}
		}
	}
	walk(t)
	return tps
}

// Mentions reports whether tp occurs anywhere in t.
func Mentions(t types.Type, tp *types.TypeParam) bool {
	return slices.Contains(TypeParams(t), tp)
}

// HasAppendBinary reports whether the method set of t has
// AppendBinary([]byte) ([]byte, error), the method of
// [encoding.BinaryAppender].
func HasAppendBinary(t types.Type) bool {
	if _, ok := types.Unalias(t).(*types.TypeParam); ok {
		// Depends on the constraint, which is decided by the generator.
		return false
	}

	obj, _, _ := types.LookupFieldOrMethod(t, false, nil, "AppendBinary")
	fn, ok := obj.(*types.Func)
	if !ok {
		return false
	}

	sig := fn.Signature()
	if sig.Params().Len() != 1 || sig.Results().Len() != 2 {
		return false
	}
	if !types.Identical(sig.Params().At(0).Type(), byteSlice) {
		return false
	}
	if !types.Identical(sig.Results().At(0).Type(), byteSlice) {
		return false
	}
	return IsError(sig.Results().At(1).Type())
}

var byteSlice = types.NewSlice(types.Typ[types.Byte])

// CanAppendBinary reports whether an addressable value of type t can call
// AppendBinary. Unlike [HasAppendBinary], the method may have a pointer
// receiver. Every value the generated code encodes is addressable.
func CanAppendBinary(t types.Type) bool {
	if HasAppendBinary(t) {
		return true
	}
	switch types.Unalias(t).Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return false
	}
	return HasAppendBinary(types.NewPointer(t))
}

// IsError reports whether t is the predeclared error type.
func IsError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// IsAny reports whether t is an empty interface, such as any or interface{}.
func IsAny(t types.Type) bool {
	iface, ok := t.Underlying().(*types.Interface)
	return ok && iface.Empty()
}
