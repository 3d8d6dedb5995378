package bounds

import "fmt"

var _ fmt.Stringer

//bingen:codec
//bingen:bound X: any // want `unknown type parameter X in bingen:bound`
type Unknown[T any] struct{ V T }

//bingen:codec
//bingen:bound T // want `invalid bound predicate "T"; want Param: Constraint`
type Malformed[T any] struct{ V T }

//bingen:codec
//bingen:bound T: json.Marshaler // want `undefined: json; import the package in this file`
type Undefined[T any] struct{ V T }

//bingen:codec
//bingen:bound T: any // want `Plain has no type parameters`
type Plain struct{}

//bingen:codec
//bingen:bound T: fmt.Stringer
//bingen:bound T: comparable // want `bingen:bound for T already specified at`
type Twice[T comparable] struct{ V T }

//bingen:codec
//bingen:bound T: fmt.Stringer + comparable, U: any
type OK[T comparable, U any] struct {
	V T
	//bingen:skip
	U U
}
