package main

import "fmt"

type W struct{ n uint8 }

func (w *W) AppendBinary(b []byte) ([]byte, error) {
	return append(b, 'w', w.n), nil
}

//bingen:codec
type P struct {
	X *W
	Y []*W
	Z W
	N *W
}

func main() {
	b, err := AppendP(nil, P{X: &W{1}, Y: []*W{{2}}, Z: W{3}})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%x\n", b)
}
