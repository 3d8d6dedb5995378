package main

import (
	"encoding/binary"
	"fmt"
)

type U16 uint16

func (u U16) AppendBinary(b []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint16(b, uint16(u)), nil
}

//bingen:codec
type Box[T any] struct {
	V  T
	Vs []T
}

//bingen:codec
type Pair struct {
	A Box[U16]
	M map[U16]bool
	N uint8
}

func main() {
	p := Pair{
		A: Box[U16]{V: 1, Vs: []U16{2}},
		M: map[U16]bool{9: true},
		N: 3,
	}
	b, err := AppendPair(nil, p)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", b)
}
