// Package emit builds and writes the encoder functions of codec items.
//
// An encoder function appends the binary encoding of a codec item to a byte
// slice:
//
//	func AppendPair[K comparable, V encoding.BinaryAppender](b []byte, v Pair[K, V]) ([]byte, error)
//
// Building detects every field which cannot be encoded, so writing never
// fails.
package emit

import (
	"errors"
	"strings"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/bingen/usage"
	"github.com/sublee/bingen/internal/codefmt"
)

// Config is shared by the codecs of a package.
type Config struct {
	Analysis *usage.Analysis

	// Names are the names of the encoder functions of all items.
	Names map[*parse.Item]string

	// Endian is the byte order for items without //bingen:endian.
	Endian parse.Endian
}

// Codec is the encoder function of a codec item.
type Codec struct {
	cfg    Config
	item   *parse.Item
	fields []fieldEncoder
}

type fieldEncoder struct {
	field *parse.Field
	enc   encoder
}

// Build builds the encoder function of item. It reports all fields which
// cannot be encoded.
func Build(cfg Config, item *parse.Item) (*Codec, error) {
	endian := cfg.Endian
	if item.Endian.IsSet() {
		endian = item.Endian.Get()
	}

	c := &Codec{cfg: cfg, item: item}
	var errs error
	for _, f := range item.Fields {
		if !usage.Encoded(f) {
			continue
		}

		fac := &factory{cfg: cfg, field: f, endian: endian}
		enc, err := fac.build(f.Var.Type())
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		c.fields = append(c.fields, fieldEncoder{f, enc})
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// Item returns the codec item.
func (c *Codec) Item() *parse.Item { return c.item }

// Name returns the name of the encoder function.
func (c *Codec) Name() string { return c.cfg.Names[c.item] }

func (c *Codec) requiresErr() bool {
	for _, f := range c.fields {
		if f.enc.requiresErr() {
			return true
		}
	}
	return false
}

// WriteDefineCode writes the function declaration of the encoder. The local
// names are chosen in a fork of the namespace of w.
func (c *Codec) WriteDefineCode(w *codefmt.Writer) {
	w = w.WithNS(w.NS().Fork())
	for p := range c.item.Params() {
		w.Reserve(p.Name())
	}

	v := vars{b: w.Name("b")}
	varV := w.Name("v")
	if c.requiresErr() {
		v.err = w.Name("err")
	}

	w.Printf("// %s appends the binary encoding of %s to %s.\n", c.Name(), varV, v.b)
	w.Printf("func %s%s(%s []byte, %s %s) ([]byte, error) {\n",
		c.Name(), c.typeParamsCode(w), v.b, varV, c.typeCode())
	if v.err != "" {
		w.Printf("var %s error\n", v.err)
	}
	for _, f := range c.fields {
		f.enc.writeEncodeCode(w, v.with(varV+"."+f.field.Var.Name()))
	}
	w.Printf("return %s, nil\n", v.b)
	w.Printf("}\n")
}

// typeParamsCode returns the type parameter list of the function, such as
// "[K comparable, V any]", or an empty string for a non-generic item.
func (c *Codec) typeParamsCode(w *codefmt.Writer) string {
	if !c.item.IsGeneric() {
		return ""
	}

	var params []string
	for p := range c.item.Params() {
		params = append(params, p.Name()+" "+Constraint(w, c.cfg.Analysis, p))
	}
	return "[" + strings.Join(params, ", ") + "]"
}

// typeCode returns the instantiated type of the item with the type
// parameters of the function, such as "Pair[K, V]".
func (c *Codec) typeCode() string {
	if !c.item.IsGeneric() {
		return c.item.Name()
	}

	var args []string
	for p := range c.item.Params() {
		args = append(args, p.Name())
	}
	return c.item.Name() + "[" + strings.Join(args, ", ") + "]"
}
