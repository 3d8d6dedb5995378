package emit

import (
	"go/types"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/codefmt"
)

// encoder writes code which appends the encoding of one value.
type encoder interface {
	// requiresErr reports whether the code assigns the error variable.
	requiresErr() bool

	// writeEncodeCode writes statements appending the encoding of v.x to v.b.
	writeEncodeCode(w *codefmt.Writer, v vars)
}

// vars are the names used by the code of an encoder.
type vars struct {
	x   string // the value to encode, an addressable expression
	b   string // the byte slice
	err string // the error variable, if any encoder requires it
}

func (v vars) with(x string) vars {
	v.x = x
	return v
}

func writeReturnErr(w *codefmt.Writer, v vars) {
	w.Printf("if %s != nil {\n", v.err)
	w.Printf("return nil, %s\n", v.err)
	w.Printf("}\n")
}

// basicEncoder encodes a boolean or a number.
//
//	b = append(b, byte(x))                                // 8 bits
//	b = binary.BigEndian.AppendUint32(b, uint32(x))       // 32 bits
//	b = binary.BigEndian.AppendUint64(b, math.Float64bits(float64(x)))
type basicEncoder struct {
	kind   types.BasicKind
	endian parse.Endian
}

func (basicEncoder) requiresErr() bool { return false }

func (enc basicEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	switch enc.kind {
	case types.Bool:
		w.Printf("if %s {\n", v.x)
		w.Printf("%s = append(%s, 1)\n", v.b, v.b)
		w.Printf("} else {\n")
		w.Printf("%s = append(%s, 0)\n", v.b, v.b)
		w.Printf("}\n")
		return
	case types.Int8, types.Uint8:
		w.Printf("%s = append(%s, byte(%s))\n", v.b, v.b, v.x)
		return
	}

	order := w.Import("encoding/binary", "binary") + "." + enc.endian.Ident()
	switch enc.kind {
	case types.Int16, types.Uint16:
		w.Printf("%s = %s.AppendUint16(%s, uint16(%s))\n", v.b, order, v.b, v.x)
	case types.Int32, types.Uint32:
		w.Printf("%s = %s.AppendUint32(%s, uint32(%s))\n", v.b, order, v.b, v.x)
	case types.Int64, types.Uint64, types.Int, types.Uint:
		w.Printf("%s = %s.AppendUint64(%s, uint64(%s))\n", v.b, order, v.b, v.x)
	case types.Float32:
		math := w.Import("math", "math")
		w.Printf("%s = %s.AppendUint32(%s, %s.Float32bits(float32(%s)))\n", v.b, order, v.b, math, v.x)
	case types.Float64:
		math := w.Import("math", "math")
		w.Printf("%s = %s.AppendUint64(%s, %s.Float64bits(float64(%s)))\n", v.b, order, v.b, math, v.x)
	default:
		panic("unreachable")
	}
}

// writeLen writes the length of x as an unsigned varint.
func writeLen(w *codefmt.Writer, v vars) {
	binary := w.Import("encoding/binary", "binary")
	w.Printf("%s = %s.AppendUvarint(%s, uint64(len(%s)))\n", v.b, binary, v.b, v.x)
}

// bytesEncoder encodes a string or a byte slice as its length followed by its
// bytes.
//
//	b = binary.AppendUvarint(b, uint64(len(x)))
//	b = append(b, x...)
type bytesEncoder struct {
	// conv converts x before appending, such as "string" for named string
	// types.
	conv string
}

func (bytesEncoder) requiresErr() bool { return false }

func (enc bytesEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	writeLen(w, v)
	if enc.conv != "" {
		w.Printf("%s = append(%s, %s(%s)...)\n", v.b, v.b, enc.conv, v.x)
	} else {
		w.Printf("%s = append(%s, %s...)\n", v.b, v.b, v.x)
	}
}

// byteArrayEncoder encodes a byte array as is.
//
//	b = append(b, x[:]...)
type byteArrayEncoder struct{}

func (byteArrayEncoder) requiresErr() bool { return false }

func (byteArrayEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	w.Printf("%s = append(%s, %s[:]...)\n", v.b, v.b, v.x)
}

// appenderEncoder encodes a value by its AppendBinary method. Type parameters
// are always encoded by this.
//
//	if b, err = x.AppendBinary(b); err != nil {
//		return nil, err
//	}
type appenderEncoder struct{}

func (appenderEncoder) requiresErr() bool { return true }

func (appenderEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	w.Printf("%s, %s = %s.AppendBinary(%s)\n", v.b, v.err, v.x, v.b)
	writeReturnErr(w, v)
}

// codecEncoder encodes a value of another codec item by its generated
// function.
//
//	if b, err = AppendPoint(b, x); err != nil {
//		return nil, err
//	}
type codecEncoder struct {
	name string
}

func (codecEncoder) requiresErr() bool { return true }

func (enc codecEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	w.Printf("%s, %s = %s(%s, %s)\n", v.b, v.err, enc.name, v.b, v.x)
	writeReturnErr(w, v)
}

// sliceEncoder encodes a slice as its length followed by its elements.
type sliceEncoder struct {
	elem encoder
}

func (enc sliceEncoder) requiresErr() bool { return enc.elem.requiresErr() }

func (enc sliceEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	writeLen(w, v)
	i := w.Name("i")
	w.Printf("for %s := range %s {\n", i, v.x)
	enc.elem.writeEncodeCode(w, v.with(v.x+"["+i+"]"))
	w.Printf("}\n")
}

// arrayEncoder encodes the elements of an array. The length is a part of the
// type, so it is not written.
type arrayEncoder struct {
	elem encoder
}

func (enc arrayEncoder) requiresErr() bool { return enc.elem.requiresErr() }

func (enc arrayEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	i := w.Name("i")
	w.Printf("for %s := range %s {\n", i, v.x)
	enc.elem.writeEncodeCode(w, v.with(v.x+"["+i+"]"))
	w.Printf("}\n")
}

// mapEncoder encodes a map as its length followed by the key-value pairs in
// the iteration order of the map.
type mapEncoder struct {
	key, elem encoder
}

func (enc mapEncoder) requiresErr() bool {
	return enc.key.requiresErr() || enc.elem.requiresErr()
}

func (enc mapEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	writeLen(w, v)
	k, e := w.Name("k"), w.Name("e")
	w.Printf("for %s, %s := range %s {\n", k, e, v.x)
	enc.key.writeEncodeCode(w, v.with(k))
	enc.elem.writeEncodeCode(w, v.with(e))
	w.Printf("}\n")
}

// pointerEncoder encodes a presence byte followed by the pointed value if
// the pointer is not nil.
type pointerEncoder struct {
	elem encoder
}

func (enc pointerEncoder) requiresErr() bool { return enc.elem.requiresErr() }

func (enc pointerEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	w.Printf("if %s == nil {\n", v.x)
	w.Printf("%s = append(%s, 0)\n", v.b, v.b)
	w.Printf("} else {\n")
	w.Printf("%s = append(%s, 1)\n", v.b, v.b)
	enc.elem.writeEncodeCode(w, v.with("(*"+v.x+")"))
	w.Printf("}\n")
}

// structEncoder encodes the fields of a struct in declaration order.
type structEncoder struct {
	fields []structField
}

type structField struct {
	name string
	enc  encoder
}

func (enc structEncoder) requiresErr() bool {
	for _, f := range enc.fields {
		if f.enc.requiresErr() {
			return true
		}
	}
	return false
}

func (enc structEncoder) writeEncodeCode(w *codefmt.Writer, v vars) {
	for _, f := range enc.fields {
		f.enc.writeEncodeCode(w, v.with(v.x+"."+f.name))
	}
}
