package parse

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	"github.com/sublee/bingen/internal/attr"
	"github.com/sublee/bingen/internal/bound"
	"github.com/sublee/bingen/internal/codefmt"
)

// parseItem parses the directives on a type declaration. It returns nil item
// if the declaration cannot be a codec.
func (p *Parser) parseItem(file *ast.File, spec *ast.TypeSpec, ds []directive, consumed map[*ast.Comment]bool) (*Item, error) {
	for _, d := range ds {
		consumed[d.Comment] = true
	}

	var codec *directive
	var errs error
	for _, d := range ds {
		if d.Name != "codec" {
			continue
		}
		if codec != nil {
			err := codefmt.Errorf(p, d, "bingen:codec already specified at %b", codec.Pos())
			errs = errors.Join(errs, err)
			continue
		}
		codec = &d
	}

	if codec == nil {
		for _, d := range ds {
			err := codefmt.Errorf(p, d, "bingen:%s requires bingen:codec", d.Name)
			errs = errors.Join(errs, err)
		}
		return nil, errs
	}

	if spec.Assign.IsValid() {
		return nil, codefmt.Errorf(p, codec, "cannot annotate type alias %s", spec.Name.Name)
	}

	obj, ok := p.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok {
		return nil, codefmt.Errorf(p, codec, "cannot resolve type %s", spec.Name.Name)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, codefmt.Errorf(p, codec, "cannot annotate %s", spec.Name.Name)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, codefmt.Errorf(p, codec, "bingen:codec requires struct type, but %s is %t", spec.Name.Name, named.Underlying())
	}

	item := newItem(file, spec, named, st, codec.Pos())
	for _, d := range ds {
		errs = errors.Join(errs, p.parseItemDirective(item, d))
	}
	errs = errors.Join(errs, p.parseFields(item, consumed))
	return item, errs
}

func (p *Parser) parseItemDirective(item *Item, d directive) error {
	switch d.Name {
	case "codec":
		if item.Pos() != d.Pos() {
			// Reported as duplicate
			return nil
		}
		args := strings.Fields(d.Args)
		switch len(args) {
		case 0:
			return nil
		case 1:
			return set(p, &item.FuncName, nameAttr(args[0]), d)
		default:
			return codefmt.Errorf(p, d, "bingen:codec takes at most 1 argument")
		}

	case "endian":
		args := strings.Fields(d.Args)
		if len(args) != 1 {
			return codefmt.Errorf(p, d, "bingen:endian takes 1 argument")
		}
		return set(p, &item.Endian, EndianAttr(args[0]), d)

	case "bound":
		return p.parseBound(item, d)

	case "skip":
		return codefmt.Errorf(p, d, "bingen:skip annotates struct fields, not types")
	}

	return codefmt.Errorf(p, d, "unknown directive bingen:%s", d.Name)
}

// set writes v into slot through [attr.Once] and turns failures into errors
// pointing at the directive.
func set[T any](p *Parser, slot *attr.Once[T], v attr.Setter[T], d directive) error {
	err := slot.Set(v, d.Pos())
	if errors.Is(err, attr.ErrDuplicate) {
		return codefmt.Errorf(p, d, "bingen:%s already specified at %b", d.Name, slot.Pos())
	}
	if err != nil {
		return codefmt.Errorf(p, d, "%s", err.Error())
	}
	return nil
}

// parseFields parses the directives on the fields of the item.
func (p *Parser) parseFields(item *Item, consumed map[*ast.Comment]bool) error {
	st, ok := item.Spec.Type.(*ast.StructType)
	if !ok {
		// Defined by another type such as "type A B". Its fields carry no
		// directives of this declaration.
		return nil
	}

	var errs error
	i := 0
	for _, field := range st.Fields.List {
		n := max(len(field.Names), 1)
		fields := item.Fields[i : i+n]
		i += n

		ds := append(directives(field.Doc), directives(field.Comment)...)
		for _, d := range ds {
			consumed[d.Comment] = true

			if d.Name != "skip" {
				err := codefmt.Errorf(p, d, "bingen:%s cannot annotate a field", d.Name)
				errs = errors.Join(errs, err)
				continue
			}
			if d.Args != "" {
				err := codefmt.Errorf(p, d, "bingen:skip takes no arguments")
				errs = errors.Join(errs, err)
				continue
			}
			for _, f := range fields {
				errs = errors.Join(errs, set(p, &f.Skip, attr.Flag{}, d))
			}
		}
	}
	return errs
}

// parseBound parses "//bingen:bound T: A + B, U: C". The predicates naming the
// same type parameter are one annotation, and written to the bound of the type
// parameter at once.
func (p *Parser) parseBound(item *Item, d directive) error {
	if d.Args == "" {
		return codefmt.Errorf(p, d, "bingen:bound needs predicates")
	}

	imports := p.imports(item.File)

	var order []*Param
	attrs := make(map[*Param]*bound.Attr)

	var errs error
	for _, seg := range splitTop(d.Args, ',', 0) {
		preds, param, err := p.parsePredicates(item, seg, d.ArgsPos, imports)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		a, ok := attrs[param]
		if !ok {
			a = &bound.Attr{}
			attrs[param] = a
			order = append(order, param)
		}
		a.Predicates = append(a.Predicates, preds...)
	}
	if errs != nil {
		return errs
	}

	for _, param := range order {
		err := param.Bound.Set(*attrs[param], d.Pos())
		if errors.Is(err, attr.ErrDuplicate) {
			err = codefmt.Errorf(p, d, "bingen:bound for %s already specified at %b", param.Name(), param.Bound.Pos())
		}
		errs = errors.Join(errs, err)
	}
	return errs
}

// parsePredicates parses "T: A + B" into [T: A, T: B].
func (p *Parser) parsePredicates(item *Item, seg segment, base token.Pos, imports map[string]*types.Package) ([]bound.Predicate, *Param, error) {
	pos := seg.pos(base)

	head, tail, ok := cutTop(seg, ':')
	if !ok || seg.trim() == "" {
		return nil, nil, codefmt.Errorf(p, codefmt.Pos(pos), "invalid bound predicate %q; want Param: Constraint", seg.trim())
	}

	name := head.trim()
	if !token.IsIdentifier(name) {
		return nil, nil, codefmt.Errorf(p, codefmt.Pos(pos), "invalid type parameter name %q", name)
	}
	param, ok := item.Param(name)
	if !ok {
		if !item.IsGeneric() {
			return nil, nil, codefmt.Errorf(p, codefmt.Pos(pos), "%s has no type parameters", item.Name())
		}
		return nil, nil, codefmt.Errorf(p, codefmt.Pos(pos), "unknown type parameter %s in bingen:bound", name)
	}

	var preds []bound.Predicate
	var errs error
	for _, term := range splitTop(tail.text, '+', tail.off) {
		termPos := term.pos(base)
		src := term.trim()
		if src == "" {
			errs = errors.Join(errs, codefmt.Errorf(p, codefmt.Pos(termPos), "empty constraint for %s", name))
			continue
		}

		expr, err := parser.ParseExpr(src)
		if err != nil {
			errs = errors.Join(errs, codefmt.Errorf(p, codefmt.Pos(termPos), "invalid constraint %q", src))
			continue
		}

		pkgs, err := p.resolveQualifiers(expr, imports, termPos)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		preds = append(preds, bound.Predicate{
			Param:      name,
			Constraint: expr,
			Imports:    pkgs,
			Pos:        termPos,
		})
	}
	return preds, param, errs
}

// resolveQualifiers finds the packages referred by "pkg.Name" selectors in
// expr among the imports of the declaring file.
func (p *Parser) resolveQualifiers(expr ast.Expr, imports map[string]*types.Package, pos token.Pos) (map[string]*types.Package, error) {
	pkgs := make(map[string]*types.Package)
	var errs error
	ast.Inspect(expr, func(node ast.Node) bool {
		sel, ok := node.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}

		pkg, ok := imports[id.Name]
		if !ok {
			err := codefmt.Errorf(p, codefmt.Pos(pos), "undefined: %s; import the package in this file", id.Name)
			errs = errors.Join(errs, err)
			return false
		}
		pkgs[id.Name] = pkg
		return false
	})
	return pkgs, errs
}
