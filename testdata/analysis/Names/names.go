package names

func Encode() {}

//bingen:codec Encode // want `function Encode conflicts with a declaration in package names`
type A struct{}

//bingen:codec EncodeB
type B struct{}

//bingen:codec EncodeB // want `function EncodeB already named for B at`
type C struct{}

func AppendD() {}

//bingen:codec
type D struct{}
