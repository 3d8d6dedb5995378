package main

import "fmt"

//bingen:codec
type Header struct {
	Magic uint16
	Kind  int8
	OK    bool
	Len   uint32
}

func main() {
	b, err := AppendHeader(nil, Header{Magic: 0xcafe, Kind: -1, OK: true, Len: 258})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", b)
}
