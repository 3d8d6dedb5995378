package main

import "fmt"

type Name string

//bingen:codec
type Record struct {
	Name   Name
	IDs    []uint16
	Hash   [2]byte
	Opt    *uint8
	None   *uint8
	Matrix [2][1]int8
	Cache  map[string]int //bingen:skip
	Tail   struct {
		F float32
		N int
	}
}

func main() {
	seven := uint8(7)
	r := Record{
		Name:   "ab",
		IDs:    []uint16{1, 2},
		Hash:   [2]byte{0xaa, 0xbb},
		Opt:    &seven,
		Matrix: [2][1]int8{{-1}, {2}},
		Cache:  map[string]int{"x": 1},
	}
	r.Tail.F = 1
	r.Tail.N = 5

	b, err := AppendRecord(nil, r)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", b)
}
