package codefmt

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Formatter formats types, objects, expressions, and positions relative to a
// package.
type Formatter struct {
	PkgPath   string
	Fset      *token.FileSet
	TypesInfo *types.Info
}

func New(pkg *packages.Package) Formatter {
	if pkg == nil {
		return Formatter{}
	}
	return Formatter{pkg.PkgPath, pkg.Fset, pkg.TypesInfo}
}

func newByPkger(pkger Pkger) Formatter {
	if pkger == nil {
		return New(nil)
	}
	return New(pkger.Pkg())
}

// qf is a [types.Qualifier] which omits the qualifier of the own package.
func (f Formatter) qf(pkg *types.Package) string {
	if pkg.Path() == f.PkgPath {
		return ""
	}
	return pkg.Name()
}

// Type returns a string representation of the given type.
//
// e.g., f.Type([types.Type for encoding.BinaryAppender]) => "encoding.BinaryAppender"
func (f Formatter) Type(typ types.Type) string {
	return types.TypeString(typ, f.qf)
}

// Obj returns a code string to refer the given object. Struct fields are
// referred by their bare name.
func (f Formatter) Obj(obj types.Object) string {
	if v, ok := obj.(*types.Var); ok && v.IsField() {
		return v.Name()
	}
	if pkg := obj.Pkg(); pkg != nil {
		if q := f.qf(pkg); q != "" {
			return q + "." + obj.Name()
		}
	}
	return obj.Name()
}

// Expr returns a Go source code representation of the given [ast.Expr].
func (f Formatter) Expr(expr ast.Expr) string {
	fset := f.Fset
	if fset == nil {
		fset = token.NewFileSet()
	}

	var b strings.Builder
	if err := format.Node(&b, fset, expr); err != nil {
		// Expressions parsed from directive text have no file in fset.
		return types.ExprString(expr)
	}
	return b.String()
}

// wd is the cached working directory.
var wd, _ = os.Getwd()

func FormatPosition(pos token.Position) string {
	if !pos.IsValid() {
		return "-:-"
	}

	filename := pos.Filename
	if rel, err := filepath.Rel(wd, filename); err == nil {
		filename = rel
	}

	return fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
}
