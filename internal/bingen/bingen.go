package bingeninternal

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"go/types"
	"io"
	"slices"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/bingen/internal/bingen/emit"
	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/bingen/usage"
	"github.com/sublee/bingen/internal/codefmt"
)

// Bingen generates encoder code for the target package. Call [Build] and then
// [Generate] to get the generated code. All potential errors are returned by
// [Build]. Once [Build] succeeds, [Generate] never fails.
type Bingen struct {
	p      *parse.Parser
	endian parse.Endian
	ns     codefmt.NS
	buf    *bytes.Buffer
	w      *codefmt.Writer

	codecs []*emit.Codec
}

// New creates a new [Bingen] for the given package. If the package does not
// satisfy the requirements, an error is returned. The package must have its
// Syntax, Types and TypesInfo. And it must not have any errors.
//
// endian is the byte order of codec items without //bingen:endian.
func New(pkg *packages.Package, endian parse.Endian) (*Bingen, error) {
	parser, err := parse.New(pkg)
	if err != nil {
		return nil, err
	}

	// Names declared by a previous output are free to use again.
	ns := codefmt.NewNS(pkg.Types.Scope(), func(obj types.Object) bool {
		return parser.InGeneratedFile(obj.Pos())
	})

	var buf bytes.Buffer
	return &Bingen{
		p:      parser,
		endian: endian,
		ns:     ns,
		buf:    &buf,
		w:      codefmt.NewWriter(&buf, pkg).WithNS(ns),
	}, nil
}

func (bg *Bingen) Pkg() *packages.Package { return bg.p.Pkg() }

// Build prepares code generation by parsing directives, inferring bounds of
// type parameters and building encoders. All potential errors are returned by
// this method. It must be called before [Generate].
func (bg *Bingen) Build() error {
	items, err := bg.p.ParseItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		// No codec found
		return nil
	}

	a, err := usage.Analyze(bg.Pkg(), items)
	if err != nil {
		return err
	}

	names, err := bg.nameItems(items)
	if err != nil {
		return err
	}

	cfg := emit.Config{Analysis: a, Names: names, Endian: bg.endian}
	var errs error
	for _, item := range items {
		codec, err := emit.Build(cfg, item)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		bg.codecs = append(bg.codecs, codec)
	}
	return errs
}

// nameItems decides the names of the encoder functions. Names given by
// //bingen:codec are reserved first. The others are "Append" followed by the
// type name, or "append" for unexported types, disambiguated on conflict.
func (bg *Bingen) nameItems(items []*parse.Item) (map[*parse.Item]string, error) {
	names := make(map[*parse.Item]string)
	byName := make(map[string]*parse.Item)

	var errs error
	for _, item := range items {
		if !item.FuncName.IsSet() {
			continue
		}

		name := item.FuncName.Get()
		if prev, ok := byName[name]; ok {
			err := codefmt.Errorf(bg, item, "function %s already named for %o at %b", name, prev, prev.Pos())
			errs = errors.Join(errs, err)
			continue
		}
		if !bg.ns.Reserve(name) {
			err := codefmt.Errorf(bg, item, "function %s conflicts with a declaration in package %s", name, bg.Pkg().Name)
			errs = errors.Join(errs, err)
			continue
		}
		names[item] = name
		byName[name] = item
	}
	if errs != nil {
		return nil, errs
	}

	for _, item := range items {
		if item.FuncName.IsSet() {
			continue
		}

		prefix := "Append"
		if !token.IsExported(item.Name()) {
			prefix = "append"
		}
		names[item] = bg.ns.Name(prefix + " " + item.Name())
	}
	return names, nil
}

// Generate generates encoder code for the package. It must be called after
// [Build] succeeds. It returns nil if the package has no codec.
func (bg *Bingen) Generate() []byte {
	if len(bg.codecs) == 0 {
		return nil
	}

	codecs := slices.Clone(bg.codecs)
	slices.SortFunc(codecs, func(a, b *emit.Codec) int {
		return int(a.Item().Pos() - b.Item().Pos())
	})

	for _, codec := range codecs {
		codec.WriteDefineCode(bg.w)
		bg.w.Printf("\n")
	}
	return bg.frameCode()
}

func (bg *Bingen) frameCode() []byte {
	versionSuffix := ""
	if Version != "" {
		versionSuffix = "@" + Version
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by github.com/sublee/bingen%s. DO NOT EDIT.\n\n", versionSuffix)
	fmt.Fprintf(&buf, "//go:build !bingen\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", bg.Pkg().Name)

	first := true
	for alias, imp := range bg.w.Imports() {
		if first {
			fmt.Fprintf(&buf, "import (\n")
			first = false
		}
		if imp.HasAlias {
			fmt.Fprintf(&buf, "%s %q\n", alias, imp.Path())
		} else {
			fmt.Fprintf(&buf, "%q\n", imp.Path())
		}
	}
	if !first {
		fmt.Fprintf(&buf, ")\n\n")
	}

	_, _ = io.Copy(&buf, bg.buf)
	code := buf.Bytes()

	// Apply gofmt if succeeded
	if fmtCode, err := format.Source(code); err == nil {
		code = fmtCode
	}
	return code
}
