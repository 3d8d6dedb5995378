package bound_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/bingen/internal/attr"
	"github.com/sublee/bingen/internal/bound"
)

func pred(t *testing.T, param, constraint string) bound.Predicate {
	t.Helper()
	expr, err := parser.ParseExpr(constraint)
	require.NoError(t, err)
	return bound.Predicate{Param: param, Constraint: expr}
}

func TestDefault(t *testing.T) {
	b := bound.Default()
	imp, ok := b.(*bound.Implicit)
	require.True(t, ok)
	assert.Equal(t, 0, imp.Len())
	assert.Equal(t, "implicit{}", b.String())
}

func TestDefaultIsFresh(t *testing.T) {
	a := bound.Default().(*bound.Implicit)
	b := bound.Default().(*bound.Implicit)
	a.Insert(types.Typ[types.Uint8])
	assert.Equal(t, 0, b.Len())
}

func TestImplicitInsert(t *testing.T) {
	imp := bound.NewImplicit()
	assert.True(t, imp.Insert(types.Typ[types.Uint8]))
	assert.True(t, imp.Insert(types.Typ[types.Uint16]))

	assert.Equal(t, 2, imp.Len())
	assert.True(t, imp.Contains(types.Typ[types.Uint8]))
	assert.True(t, imp.Contains(types.Typ[types.Uint16]))
	assert.False(t, imp.Contains(types.Typ[types.Uint32]))
	assert.Equal(t, "implicit{uint8, uint16}", imp.String())
}

func TestImplicitInsertIdempotent(t *testing.T) {
	imp := bound.NewImplicit()
	assert.True(t, imp.Insert(types.Typ[types.Uint8]))
	assert.False(t, imp.Insert(types.Typ[types.Uint8]))
	assert.Equal(t, 1, imp.Len())
}

func TestImplicitIdenticalComposite(t *testing.T) {
	// Distinct *types.Slice values for the same type are one member.
	imp := bound.NewImplicit()
	assert.True(t, imp.Insert(types.NewSlice(types.Typ[types.String])))
	assert.False(t, imp.Insert(types.NewSlice(types.Typ[types.String])))
	assert.True(t, imp.Insert(types.NewSlice(types.Typ[types.Int])))
	assert.Equal(t, 2, imp.Len())
}

func TestImplicitOrder(t *testing.T) {
	imp := bound.NewImplicit()
	imp.Insert(types.Typ[types.String])
	imp.Insert(types.Typ[types.Bool])
	imp.Insert(types.Typ[types.String])
	imp.Insert(types.Typ[types.Int64])

	var got []string
	for typ := range imp.All() {
		got = append(got, typ.String())
	}
	assert.Equal(t, []string{"string", "bool", "int64"}, got)
}

func TestAttrBound(t *testing.T) {
	a := bound.Attr{Predicates: []bound.Predicate{
		pred(t, "T", "fmt.Stringer"),
		pred(t, "T", "comparable"),
	}}

	ex, ok := a.Bound().(*bound.Explicit)
	require.True(t, ok)
	require.Len(t, ex.Predicates, 2)
	assert.Equal(t, "T: fmt.Stringer", ex.Predicates[0].String())
	assert.Equal(t, "T: comparable", ex.Predicates[1].String())
	assert.Equal(t, "explicit[T: fmt.Stringer, T: comparable]", ex.String())
}

func TestAttrBoundDoesNotAlias(t *testing.T) {
	a := bound.Attr{Predicates: []bound.Predicate{pred(t, "T", "any")}}
	ex := a.Bound().(*bound.Explicit)
	a.Predicates[0].Param = "U"
	assert.Equal(t, "T", ex.Predicates[0].Param)
}

func TestTrySetReplacesImplicit(t *testing.T) {
	b := bound.Default()
	b.(*bound.Implicit).Insert(types.Typ[types.Uint8])

	a := bound.Attr{Predicates: []bound.Predicate{pred(t, "T", "Default")}}
	require.NoError(t, attr.Set[bound.Bound](a, &b))

	ex, ok := b.(*bound.Explicit)
	require.True(t, ok)
	assert.Equal(t, "explicit[T: Default]", ex.String())
}

func TestTrySetThroughOnce(t *testing.T) {
	o := attr.NewOnce(bound.Default())
	a := bound.Attr{Predicates: []bound.Predicate{
		pred(t, "T", "encoding.BinaryAppender"),
	}}
	require.NoError(t, o.Set(a, token.Pos(1)))
	assert.Equal(t, "explicit[T: encoding.BinaryAppender]", o.Get().String())

	assert.ErrorIs(t, o.Set(a, token.Pos(2)), attr.ErrDuplicate)
}

func TestPredicateString(t *testing.T) {
	p := pred(t, "K", "interface{ ~int | ~string }")
	_, ok := p.Constraint.(*ast.InterfaceType)
	require.True(t, ok)
	assert.Equal(t, "K: interface{~int | ~string}", p.String())
}
