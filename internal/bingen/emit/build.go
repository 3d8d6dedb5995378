package emit

import (
	"errors"
	"go/types"
	"slices"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/codefmt"
	"github.com/sublee/bingen/internal/typeinfo"
)

// factory builds the encoders of the fields of one codec item.
type factory struct {
	cfg    Config
	field  *parse.Field
	endian parse.Endian

	// stack is the named types being expanded to detect recursion.
	stack []*types.Named
}

func (fac *factory) Pkg() *packages.Package { return fac.cfg.Analysis.Pkg() }

func (fac *factory) errorf(format string, args ...any) error {
	args = append([]any{fac.field.Var}, args...)
	return codefmt.Errorf(fac, fac.field, "cannot encode field %o: "+format, args...)
}

// build returns the encoder for a value of type t.
func (fac *factory) build(t types.Type) (encoder, error) {
	switch t := types.Unalias(t).(type) {
	case *types.TypeParam:
		return appenderEncoder{}, nil

	case *types.Named:
		if item, ok := fac.cfg.Analysis.Item(t); ok {
			return codecEncoder{name: fac.cfg.Names[item]}, nil
		}
		// A pointer receiver is fine since every encoded value is
		// addressable.
		if typeinfo.CanAppendBinary(t) {
			return appenderEncoder{}, nil
		}
		if slices.ContainsFunc(fac.stack, func(s *types.Named) bool { return types.Identical(s, t) }) {
			return nil, fac.errorf("recursive type %t needs bingen:codec", t)
		}

		fac.stack = append(fac.stack, t)
		defer func() { fac.stack = fac.stack[:len(fac.stack)-1] }()

		if basic, ok := t.Underlying().(*types.Basic); ok {
			return fac.buildBasic(t, basic)
		}
		return fac.buildComposite(t, t.Underlying())

	case *types.Basic:
		return fac.buildBasic(t, t)
	}
	return fac.buildComposite(t, t)
}

// buildBasic builds the encoder of t whose underlying type is basic.
func (fac *factory) buildBasic(t types.Type, basic *types.Basic) (encoder, error) {
	switch basic.Kind() {
	case types.Bool,
		types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64,
		types.Float32, types.Float64:
		return basicEncoder{kind: basic.Kind(), endian: fac.endian}, nil

	case types.String:
		if t != basic {
			return bytesEncoder{conv: "string"}, nil
		}
		return bytesEncoder{}, nil
	}
	return nil, fac.errorf("%t is not supported", t)
}

// buildComposite builds the encoder of t whose underlying type is u.
func (fac *factory) buildComposite(t types.Type, u types.Type) (encoder, error) {
	switch u := u.(type) {
	case *types.Slice:
		if isByte(u.Elem()) {
			return bytesEncoder{}, nil
		}
		elem, err := fac.build(u.Elem())
		if err != nil {
			return nil, err
		}
		return sliceEncoder{elem}, nil

	case *types.Array:
		if isByte(u.Elem()) {
			return byteArrayEncoder{}, nil
		}
		elem, err := fac.build(u.Elem())
		if err != nil {
			return nil, err
		}
		return arrayEncoder{elem}, nil

	case *types.Map:
		key, keyErr := fac.build(u.Key())
		elem, elemErr := fac.build(u.Elem())
		if err := errors.Join(keyErr, elemErr); err != nil {
			return nil, err
		}
		return mapEncoder{key, elem}, nil

	case *types.Pointer:
		elem, err := fac.build(u.Elem())
		if err != nil {
			return nil, err
		}
		return pointerEncoder{elem}, nil

	case *types.Struct:
		var enc structEncoder
		var errs error
		for f := range u.Fields() {
			if f.Name() == "_" {
				continue
			}
			if !f.Exported() && f.Pkg() != fac.Pkg().Types {
				errs = errors.Join(errs, fac.errorf("unexported field %s of %t is not accessible", f.Name(), t))
				continue
			}

			fenc, err := fac.build(f.Type())
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			enc.fields = append(enc.fields, structField{f.Name(), fenc})
		}
		if errs != nil {
			return nil, errs
		}
		return enc, nil
	}

	// Chan, Signature, Interface
	return nil, fac.errorf("%t is not supported", t)
}

func isByte(t types.Type) bool {
	return types.Identical(t, types.Typ[types.Byte])
}
