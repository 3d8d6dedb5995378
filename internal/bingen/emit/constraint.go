package emit

import (
	"go/types"
	"slices"
	"strings"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/bingen/usage"
	"github.com/sublee/bingen/internal/bound"
	"github.com/sublee/bingen/internal/codefmt"
	"github.com/sublee/bingen/internal/typeinfo"
)

// Constraint returns the constraint code of a type parameter of the encoder
// function.
//
// The declared constraint comes first unless it is any. An explicit bound
// adds its predicates:
//
//	//bingen:bound T: fmt.Stringer + comparable => interface{ fmt.Stringer; comparable }
//
// An implicit bound adds the capabilities the fields need which the declared
// constraint does not provide:
//
//	type Box[T any] struct{ V []T } => encoding.BinaryAppender
func Constraint(w *codefmt.Writer, a *usage.Analysis, param *parse.Param) string {
	tp := param.TypeParam
	declared := tp.Constraint()

	// The declared constraint is kept for both kinds since the value type
	// X[T] must be instantiated with T.
	var terms []string
	if !typeinfo.IsAny(declared) {
		terms = append(terms, w.Sprintf("%t", declared))
	}

	switch b := param.Bound.Get().(type) {
	case *bound.Explicit:
		for _, pred := range b.Predicates {
			expr := codefmt.RewriteQualifiers(w, pred.Constraint, pred.Imports)
			if term := types.ExprString(expr); !slices.Contains(terms, term) {
				terms = append(terms, term)
			}
		}
		return joinConstraint(terms)

	case *bound.Implicit:
		need := a.Need(tp)
		if need.Has(usage.NeedComparable) && !types.Comparable(tp) {
			terms = append(terms, "comparable")
		}
		if need.Has(usage.NeedAppender) && !typeinfo.HasAppendBinary(declared) {
			terms = append(terms, w.Import("encoding", "encoding")+".BinaryAppender")
		}
		return joinConstraint(terms)
	}
	panic("unreachable")
}

func joinConstraint(terms []string) string {
	switch len(terms) {
	case 0:
		return "any"
	case 1:
		return terms[0]
	}
	return "interface{ " + strings.Join(terms, "; ") + " }"
}
