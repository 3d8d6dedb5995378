package codefmt

import (
	"cmp"
	"go/ast"
	"go/parser"
	"go/types"
	"io"
	"iter"
	"maps"
	"slices"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"
)

// Writer is a writer for generated code. It records the packages referred by
// written types so that the import declaration can be produced at the end.
type Writer struct {
	w       io.Writer
	pkg     *packages.Package
	fmt     Formatter
	imports map[string]Import
	ns      NS
}

// NewWriter creates a new [Writer]. It does not initialize the namespace. To
// specify a namespace, use [Writer.WithNS].
func NewWriter(w io.Writer, pkg *packages.Package) *Writer {
	return &Writer{
		w:       w,
		pkg:     pkg,
		fmt:     New(pkg),
		imports: make(map[string]Import),
		ns:      nil,
	}
}

// Printf writes a formatted string to the underlying writer using
// [Formatter.Fprintf]. Packages of type arguments are imported.
func (w *Writer) Printf(format string, args ...any) (int, error) {
	w.importArgs(args...)
	return w.fmt.Fprintf(w.w, format, args...)
}

// Sprintf creates a formatted string using [Formatter.Sprintf]. Packages of
// type arguments are imported.
func (w *Writer) Sprintf(format string, args ...any) string {
	w.importArgs(args...)
	return w.fmt.Sprintf(format, args...)
}

// Name returns a unique name in the namespace of the writer.
func (w *Writer) Name(name string) string {
	return w.ns.Name(name)
}

// Reserve marks a name as used in the namespace of the writer.
func (w *Writer) Reserve(name string) bool {
	return w.ns.Reserve(name)
}

// NS returns the namespace of the writer.
func (w *Writer) NS() NS { return w.ns }

// WithNS copies the writer and sets a new namespace.
func (w *Writer) WithNS(ns NS) *Writer {
	c := *w
	c.ns = ns
	return &c
}

type Import struct {
	// The package to import.
	*types.Package

	// HasAlias indicates that the import has an alias.
	HasAlias bool
}

// Imports iterates the collected imports sorted by path. The key is the name
// to refer the package in the generated code.
func (w *Writer) Imports() iter.Seq2[string, Import] {
	return func(yield func(string, Import) bool) {
		names := slices.Collect(maps.Keys(w.imports))
		slices.SortFunc(names, func(a, b string) int {
			return cmp.Compare(w.imports[a].Path(), w.imports[b].Path())
		})
		for _, name := range names {
			if !yield(name, w.imports[name]) {
				return
			}
		}
	}
}

// importType records packages of named types in typ to import later.
func (w *Writer) importType(typ types.Type) {
	switch typ := types.Unalias(typ).(type) {
	case *types.Pointer:
		w.importType(typ.Elem())
	case *types.Slice:
		w.importType(typ.Elem())
	case *types.Array:
		w.importType(typ.Elem())
	case *types.Map:
		w.importType(typ.Key())
		w.importType(typ.Elem())
	case *types.Named:
		w.importObj(typ.Obj())
		targs := typ.TypeArgs()
		for i := 0; i < targs.Len(); i++ {
			w.importType(targs.At(i))
		}
	case *types.Interface:
		for i := 0; i < typ.NumEmbeddeds(); i++ {
			w.importType(typ.EmbeddedType(i))
		}
		for i := 0; i < typ.NumExplicitMethods(); i++ {
			w.importType(typ.ExplicitMethod(i).Type())
		}
	case *types.Signature:
		for v := range typ.Params().Variables() {
			w.importType(v.Type())
		}
		for v := range typ.Results().Variables() {
			w.importType(v.Type())
		}
	case *types.Struct:
		for f := range typ.Fields() {
			w.importType(f.Type())
		}
	case *types.Union:
		for i := 0; i < typ.Len(); i++ {
			w.importType(typ.Term(i).Type())
		}
	}
}

// importObj records a package where the object is defined to import later.
func (w *Writer) importObj(obj types.Object) {
	if obj == nil {
		return
	}

	pkg := obj.Pkg()
	if pkg == nil {
		// Skip built-in objects
		return
	}

	if w.pkg.PkgPath == pkg.Path() {
		// Do not import the same package
		return
	}

	for name := range DisambiguateName(pkg.Name()) {
		prev, ok := w.imports[name]
		if ok && prev.Path() == pkg.Path() {
			// Already imported with the same name.
			return
		}
		if !ok && w.pkg.Types.Scope().Lookup(name) == nil {
			// There's no conflict. Import the package with its original name.
			w.imports[name] = Import{Package: pkg, HasAlias: name != pkg.Name()}
			pkg.SetName(name)
			return
		}
	}
}

// Import adds an import for the package with the given path and name. It
// returns the name of the imported package. The name might be different if it
// has tried to resolve name conflicts.
//
//	binaryName := w.Import("encoding/binary", "binary")
//	w.Printf("b = %s.BigEndian.AppendUint16(b, x)", binaryName)
func (w *Writer) Import(path, name string) string {
	for alias, imp := range w.imports {
		if imp.Path() == path {
			return alias
		}
	}

	pkg := types.NewPackage(path, name)
	for alias := range DisambiguateName(name) {
		if _, ok := w.imports[alias]; !ok && w.pkg.Types.Scope().Lookup(alias) == nil {
			w.imports[alias] = Import{Package: pkg, HasAlias: alias != name}
			return alias
		}
	}
	panic("unreachable")
}

func (w *Writer) importArgs(args ...any) {
	for _, arg := range args {
		switch arg := arg.(type) {
		case types.Object:
			w.importObj(arg)
		case types.Type:
			w.importType(arg)
		case Objecter:
			w.importObj(arg.Object())
		case Typer:
			w.importType(arg.Type())
		}
	}
}

// RewriteQualifiers returns a copy of expr whose package qualifiers are
// renamed to the import names of the generated code. pkgs maps a qualifier in
// expr to the package it refers to.
func RewriteQualifiers(w *Writer, expr ast.Expr, pkgs map[string]*types.Package) ast.Expr {
	return astutil.Apply(cloneExpr(expr), func(c *astutil.Cursor) bool {
		sel, ok := c.Node().(*ast.SelectorExpr)
		if !ok {
			return true
		}

		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		pkg, ok := pkgs[id.Name]
		if !ok {
			return true
		}

		name := w.Import(pkg.Path(), pkg.Name())
		c.Replace(&ast.SelectorExpr{
			X:   &ast.Ident{NamePos: id.NamePos, Name: name},
			Sel: &ast.Ident{NamePos: sel.Sel.NamePos, Name: sel.Sel.Name},
		})
		return false
	}, nil).(ast.Expr)
}

// cloneExpr makes a deep enough copy of expr for [astutil.Apply] to replace
// nodes without touching the original.
func cloneExpr(expr ast.Expr) ast.Expr {
	parsed, err := parser.ParseExpr(types.ExprString(expr))
	if err != nil {
		return expr
	}
	return parsed
}
