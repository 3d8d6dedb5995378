package parse

import (
	"go/ast"
	"go/token"
	"go/types"
	"iter"

	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/sublee/bingen/internal/attr"
	"github.com/sublee/bingen/internal/bound"
)

// Item is a struct type annotated with //bingen:codec.
type Item struct {
	Spec   *ast.TypeSpec
	File   *ast.File
	Named  *types.Named
	Struct *types.Struct

	// FuncName is the name of the generated encoder. Unset means the
	// default name, "Append" followed by the type name.
	FuncName attr.Once[string]

	// Endian is the byte order of the item. Unset means the configured
	// default.
	Endian attr.Once[Endian]

	Fields []*Field

	params *linkedhashmap.Map // string -> *Param
	pos    token.Pos
}

// Param is a type parameter of an item. It owns the bound of the type
// parameter.
type Param struct {
	TypeParam *types.TypeParam
	Bound     attr.Once[bound.Bound]
}

func (p *Param) Name() string { return p.TypeParam.Obj().Name() }

// Field is a field of an item.
type Field struct {
	Var  *types.Var
	Skip attr.Once[bool]
}

func (f *Field) Object() types.Object { return f.Var }
func (f *Field) Pos() token.Pos       { return f.Var.Pos() }

func newItem(file *ast.File, spec *ast.TypeSpec, named *types.Named, st *types.Struct, pos token.Pos) *Item {
	item := &Item{
		Spec:   spec,
		File:   file,
		Named:  named,
		Struct: st,
		Endian: attr.NewOnce(BigEndian),
		params: linkedhashmap.New(),
		pos:    pos,
	}

	tps := named.TypeParams()
	for i := 0; i < tps.Len(); i++ {
		tp := tps.At(i)
		item.params.Put(tp.Obj().Name(), &Param{
			TypeParam: tp,
			Bound:     attr.NewOnce(bound.Default()),
		})
	}

	for f := range st.Fields() {
		item.Fields = append(item.Fields, &Field{Var: f})
	}
	return item
}

// Pos returns the position of the //bingen:codec directive.
func (item *Item) Pos() token.Pos { return item.pos }

// Name returns the name of the annotated type.
func (item *Item) Name() string { return item.Named.Obj().Name() }

// Object returns the type name object of the annotated type.
func (item *Item) Object() types.Object { return item.Named.Obj() }

// Param finds a type parameter by name.
func (item *Item) Param(name string) (*Param, bool) {
	v, ok := item.params.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Param), true
}

// Params iterates the type parameters in declaration order.
func (item *Item) Params() iter.Seq[*Param] {
	return func(yield func(*Param) bool) {
		it := item.params.Iterator()
		for it.Next() {
			if !yield(it.Value().(*Param)) {
				return
			}
		}
	}
}

// NumParams returns the number of type parameters.
func (item *Item) NumParams() int { return item.params.Size() }

// IsGeneric reports whether the item has type parameters.
func (item *Item) IsGeneric() bool { return item.params.Size() != 0 }
