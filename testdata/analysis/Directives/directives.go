package directives

//bingen:codec
//bingen:codec // want `bingen:codec already specified at`
type Twice struct{}

//bingen:codec 1st // want `invalid function name "1st"`
type BadName struct{}

//bingen:codec
//bingen:endian middle // want `invalid endian "middle"; want big or little`
type BadEndian struct{}

//bingen:endian little // want `bingen:endian requires bingen:codec`
type NoCodec struct{}

//bingen:codec // want `bingen:codec requires struct type, but NotStruct is int`
type NotStruct int

//bingen:codec
//bingen:frobnicate // want `unknown directive bingen:frobnicate`
type Unknown struct {
	//bingen:endian big // want `bingen:endian cannot annotate a field`
	A int
	B int //bingen:skip now // want `bingen:skip takes no arguments`
}

//bingen:codec // want `misplaced directive bingen:codec`
func F() {}

//bingen:codec
type OK struct {
	A uint8
	B uint8 //bingen:skip
}
