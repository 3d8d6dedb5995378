// Package bingentest builds type-checked packages from source text for tests
// of the generator internals.
package bingentest

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

// PkgPath is the import path of packages built by [Load].
const PkgPath = "example.com/p"

// Load parses and type-checks the given files as one package. Keys are file
// names. Standard library imports are resolved from export data.
func Load(t testing.TB, files map[string]string) *packages.Package {
	t.Helper()

	fset := token.NewFileSet()
	var syntax []*ast.File
	for _, name := range slices.Sorted(maps.Keys(files)) {
		file, err := parser.ParseFile(fset, name, files[name], parser.ParseComments|parser.AllErrors)
		require.NoError(t, err)
		syntax = append(syntax, file)
	}

	info := &types.Info{
		Types:        make(map[ast.Expr]types.TypeAndValue),
		Instances:    make(map[*ast.Ident]types.Instance),
		Defs:         make(map[*ast.Ident]types.Object),
		Uses:         make(map[*ast.Ident]types.Object),
		Implicits:    make(map[ast.Node]types.Object),
		Selections:   make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:       make(map[ast.Node]*types.Scope),
		FileVersions: make(map[*ast.File]string),
	}
	conf := types.Config{Importer: importer.Default()}
	typesPkg, err := conf.Check(PkgPath, fset, syntax, info)
	require.NoError(t, err)

	return &packages.Package{
		ID:        PkgPath,
		Name:      typesPkg.Name(),
		PkgPath:   PkgPath,
		Fset:      fset,
		Syntax:    syntax,
		Types:     typesPkg,
		TypesInfo: info,
	}
}

// LoadSource is [Load] for a single file named "p.go".
func LoadSource(t testing.TB, src string) *packages.Package {
	t.Helper()
	return Load(t, map[string]string{"p.go": src})
}
