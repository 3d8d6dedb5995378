// Package bingenanalysis reports misuses of bingen directives as an
// [analysis.Analyzer].
package bingenanalysis

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/packages"

	bingeninternal "github.com/sublee/bingen/internal/bingen"
	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/codefmt"
)

// Analyzer validates the bingen directives in the package.
var Analyzer = &analysis.Analyzer{
	Name: "bingen",
	Doc:  "linter for bingen directives",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	pkg := &packages.Package{
		Name:      pass.Pkg.Name(),
		PkgPath:   pass.Pkg.Path(),
		Types:     pass.Pkg,
		Fset:      pass.Fset,
		Syntax:    pass.Files,
		TypesInfo: pass.TypesInfo,
	}

	// The byte order does not affect diagnostics.
	bg, err := bingeninternal.New(pkg, parse.BigEndian)
	if err != nil {
		return nil, err
	}

	for err := range codefmt.Flatten(bg.Build()) {
		codeErr, ok := err.(*codefmt.CodeError)
		if !ok {
			return nil, err
		}
		pass.Report(analysis.Diagnostic{
			Pos:     codeErr.Pos(),
			End:     codeErr.End(),
			Message: codeErr.Unwrap().Error(),
		})
	}
	return nil, nil
}
