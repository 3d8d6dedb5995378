package main

import "fmt"

//bingen:codec Encode
type Point struct{ X, Y int16 }

//bingen:codec
//bingen:endian big
type Word struct{ V uint32 }

func main() {
	b, _ := Encode(nil, Point{X: 1, Y: -2})
	b, _ = AppendWord(b, Word{V: 0x01020304})
	fmt.Printf("%x\n", b)
}
