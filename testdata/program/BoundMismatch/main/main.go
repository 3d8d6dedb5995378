package main

//bingen:codec
type Box[T any] struct{ V T }

//bingen:codec
type Holder struct {
	B Box[int]
}

func main() {}
