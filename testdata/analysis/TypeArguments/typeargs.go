package typeargs

import "fmt"

var _ fmt.Stringer

//bingen:codec
type Box[T any] struct{ V T }

//bingen:codec
//bingen:bound T: fmt.Stringer
type Named[T any] struct{ V T }

//bingen:codec
type Holder[A any] struct {
	B Box[int]  // want `field B: int does not implement encoding.BinaryAppender required by T of Box`
	N Named[A]  // want `field N: cannot infer bound of A from Named\[A\]; T of Named has bingen:bound, so specify bingen:bound for A too`
	O Box[Stamp]
}

type Stamp struct{ n uint64 }

func (s Stamp) AppendBinary(b []byte) ([]byte, error) {
	return append(b, byte(s.n)), nil
}
