package encode

import "unsafe"

type Node struct{ Next *Node }

//bingen:codec
type Bad struct {
	C  chan int       // want `cannot encode field C: chan int is not supported`
	F  func()         // want `cannot encode field F: func\(\) is not supported`
	I  any            // want `cannot encode field I: any is not supported`
	X  complex64      // want `cannot encode field X: complex64 is not supported`
	P  unsafe.Pointer // want `cannot encode field P: unsafe.Pointer is not supported`
	N  Node           // want `cannot encode field N: recursive type Node needs bingen:codec`
	OK uint8
}

//bingen:codec
type List struct {
	V    uint8
	Next *List
}
