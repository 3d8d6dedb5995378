package parse

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/bingen/internal/codefmt"
)

// Parser parses the bingen directives of the underlying package.
type Parser struct{ pkg *packages.Package }

func (p *Parser) Pkg() *packages.Package { return p.pkg }

// New creates a new [Parser].
func New(pkg *packages.Package) (*Parser, error) {
	if pkg.Name == "" {
		return nil, fmt.Errorf("need pkg name")
	}
	if pkg.PkgPath == "" {
		return nil, fmt.Errorf("need pkg path")
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("need pkg types")
	}
	if pkg.Fset == nil {
		return nil, fmt.Errorf("need pkg fset")
	}
	if pkg.Syntax == nil {
		return nil, fmt.Errorf("need pkg syntax")
	}
	if pkg.TypesInfo == nil {
		return nil, fmt.Errorf("need pkg types info")
	}
	return &Parser{pkg: pkg}, nil
}

// Files returns the syntax of the package except the files generated by
// bingen.
func (p *Parser) Files() []*ast.File {
	var files []*ast.File
	for _, file := range p.pkg.Syntax {
		if !IsGenerated(file) {
			files = append(files, file)
		}
	}
	return files
}

// IsGenerated reports whether the file has a build constraint which excludes
// it under the "bingen" tag. Generated code carries "//go:build !bingen".
func IsGenerated(file *ast.File) bool {
	for _, group := range file.Comments {
		if group.Pos() > file.Package {
			break
		}
		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) {
				continue
			}
			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				continue
			}

			mentioned := false
			ok := expr.Eval(func(tag string) bool {
				if tag == "bingen" {
					mentioned = true
				}
				return true
			})
			if mentioned && !ok {
				return true
			}
		}
	}
	return false
}

// InGeneratedFile reports whether pos is in a file generated by bingen.
func (p *Parser) InGeneratedFile(pos token.Pos) bool {
	for _, file := range p.pkg.Syntax {
		if file.FileStart <= pos && pos <= file.FileEnd {
			return IsGenerated(file)
		}
	}
	return false
}

// ParseItems collects the types annotated with //bingen:codec. It reports
// every problem found instead of stopping at the first one.
func (p *Parser) ParseItems() ([]*Item, error) {
	var items []*Item
	var errs error

	for _, file := range p.Files() {
		consumed := make(map[*ast.Comment]bool)

		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				spec := spec.(*ast.TypeSpec)

				doc := spec.Doc
				if doc == nil && !gen.Lparen.IsValid() {
					// type Foo struct{...}
					doc = gen.Doc
				}

				ds := directives(doc)
				if len(ds) == 0 {
					continue
				}

				item, err := p.parseItem(file, spec, ds, consumed)
				errs = errors.Join(errs, err)
				if item != nil {
					items = append(items, item)
				}
			}
		}

		errs = errors.Join(errs, p.validateMisplaced(file, consumed))
	}

	return items, errs
}

// validateMisplaced reports bingen directives which are not attached to a
// type declaration or to a field of a codec type.
func (p *Parser) validateMisplaced(file *ast.File, consumed map[*ast.Comment]bool) error {
	var errs error
	for _, group := range file.Comments {
		for _, comment := range group.List {
			if consumed[comment] {
				continue
			}
			d, ok := parseDirective(comment)
			if !ok {
				continue
			}
			err := codefmt.Errorf(p, d, "misplaced directive bingen:%s", d.Name)
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// imports maps package names visible in the file to the imported packages.
func (p *Parser) imports(file *ast.File) map[string]*types.Package {
	pkgs := make(map[string]*types.Package)
	for _, imp := range file.Imports {
		pkgName := p.pkg.TypesInfo.PkgNameOf(imp)
		if pkgName == nil {
			continue
		}
		if name := pkgName.Name(); name != "_" && name != "." {
			pkgs[name] = pkgName.Imported()
		}
	}
	return pkgs
}
