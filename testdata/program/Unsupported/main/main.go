package main

//bingen:codec
type Bad struct {
	C chan int
	F func()
}

func main() {}
