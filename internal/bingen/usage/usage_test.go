package usage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/bingen/usage"
	"github.com/sublee/bingen/internal/bingentest"
	"github.com/sublee/bingen/internal/bound"
)

func analyze(t *testing.T, src string) (map[string]*parse.Item, *usage.Analysis) {
	t.Helper()

	pkg := bingentest.LoadSource(t, src)
	p, err := parse.New(pkg)
	require.NoError(t, err)
	items, err := p.ParseItems()
	require.NoError(t, err)

	a, err := usage.Analyze(pkg, items)
	require.NoError(t, err)

	byName := make(map[string]*parse.Item)
	for _, item := range items {
		byName[item.Name()] = item
	}
	return byName, a
}

func param(t *testing.T, item *parse.Item, name string) *parse.Param {
	t.Helper()
	p, ok := item.Param(name)
	require.True(t, ok)
	return p
}

func TestCollect(t *testing.T) {
	items, _ := analyze(t, `package p

//bingen:codec
type S[T any] struct {
	A T
	B []T
	C T
	//bingen:skip
	D map[string]T
	E uint8
}
`)
	b := param(t, items["S"], "T").Bound.Get()
	assert.Equal(t, "implicit{T, []T}", b.String())
}

func TestCollectIgnoresExplicit(t *testing.T) {
	items, a := analyze(t, `package p

//bingen:codec
//bingen:bound T: comparable
type S[T comparable, U any] struct {
	A T
	B map[T]U
}
`)
	s := items["S"]

	tp := param(t, s, "T")
	assert.IsType(t, &bound.Explicit{}, tp.Bound.Get())
	assert.Zero(t, a.Need(tp.TypeParam))

	up := param(t, s, "U")
	assert.Equal(t, "implicit{map[T]U}", up.Bound.Get().String())
	assert.Equal(t, usage.NeedAppender, a.Need(up.TypeParam))
}

func TestNeeds(t *testing.T) {
	items, a := analyze(t, `package p

//bingen:codec
type S[K comparable, V any, W any, X any] struct {
	M  map[K]*V
	Ws [4]W
	F  struct{ X X }
}
`)
	s := items["S"]
	assert.Equal(t, usage.NeedAppender|usage.NeedComparable, a.Need(param(t, s, "K").TypeParam))
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, s, "V").TypeParam))
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, s, "W").TypeParam))
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, s, "X").TypeParam))
}

func TestNeedsAppenderMethod(t *testing.T) {
	items, a := analyze(t, `package p

type Opt[T any] struct{ v T }

func (Opt[T]) AppendBinary(b []byte) ([]byte, error) { return b, nil }

type List[T any] struct {
	V    T
	Next *List[T]
}

//bingen:codec
type S[T any, U any] struct {
	O Opt[T]
	L List[U]
}
`)
	s := items["S"]
	assert.Zero(t, a.Need(param(t, s, "T").TypeParam))
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, s, "U").TypeParam))
}

func TestNeedsThroughCodecs(t *testing.T) {
	// A reads the need of B before B is resolved.
	items, a := analyze(t, `package p

//bingen:codec
type A[T any] struct {
	B *B[T]
	V T
}

//bingen:codec
type B[T any] struct {
	A *A[T]
}
`)
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, items["A"], "T").TypeParam))
	assert.Equal(t, usage.NeedAppender, a.Need(param(t, items["B"], "T").TypeParam))
}

func TestNeedString(t *testing.T) {
	assert.Equal(t, "none", usage.Need(0).String())
	assert.Equal(t, "appender", usage.NeedAppender.String())
	assert.Equal(t, "appender+comparable", (usage.NeedAppender | usage.NeedComparable).String())
	assert.True(t, (usage.NeedAppender | usage.NeedComparable).Has(usage.NeedComparable))
	assert.False(t, usage.NeedAppender.Has(usage.NeedComparable))
}

func TestNeedsPointerReceiverAppender(t *testing.T) {
	items, a := analyze(t, `package p

type Opt[T any] struct{ v T }

func (*Opt[T]) AppendBinary(b []byte) ([]byte, error) { return b, nil }

//bingen:codec
type S[T any, U any] struct {
	O  Opt[T]
	Ps []*Opt[U]
}
`)
	s := items["S"]
	assert.Zero(t, a.Need(param(t, s, "T").TypeParam))
	assert.Zero(t, a.Need(param(t, s, "U").TypeParam))
}
