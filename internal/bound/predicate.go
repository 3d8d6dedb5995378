package bound

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Predicate requires the type parameter Param to satisfy Constraint.
type Predicate struct {
	Param      string
	Constraint ast.Expr

	// Imports maps package qualifiers in Constraint to the packages they
	// refer to in the declaring file.
	Imports map[string]*types.Package

	Pos token.Pos
}

// String returns "Param: Constraint".
func (p Predicate) String() string {
	return p.Param + ": " + types.ExprString(p.Constraint)
}
