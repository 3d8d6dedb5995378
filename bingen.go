// Package bingen documents the directives of the bingen code generator.
//
// Bingen writes binary encoders for struct types. Annotate a struct type with
// //bingen:codec and run the bingen command. It generates bingen_gen.go with an
// Append function for every annotated type in the package:
//
//	// source:
//	//bingen:codec
//	type Header struct {
//		Magic uint16
//		Len   uint32
//	}
//
//	// generated: (simplified)
//	func AppendHeader(b []byte, v Header) ([]byte, error) {
//		b = binary.BigEndian.AppendUint16(b, uint16(v.Magic))
//		b = binary.BigEndian.AppendUint32(b, uint32(v.Len))
//		return b, nil
//	}
//
// Run the command with package patterns:
//
//	go run github.com/sublee/bingen/cmd/bingen ./...
//
// The generated file has the "!bingen" build constraint. Bingen loads packages
// with the "bingen" tag, so a stale output never breaks the next generation.
//
// # Directives
//
// Directives are line comments in the doc comment of a type declaration or a
// struct field. A trailing "// comment" after a directive is ignored.
//
//	//bingen:codec [FuncName]
//
// Marks a struct type for generation. The function is named FuncName if it is
// given. Otherwise it is "Append" followed by the type name, or "append" for
// an unexported type.
//
//	//bingen:endian big|little
//
// Selects the byte order of multi-byte numbers in the type. The default is
// configured by the command, big endian unless changed.
//
//	//bingen:skip
//
// Excludes a struct field from the encoding. It may be written in the doc
// comment of the field or as its trailing comment.
//
// # Encoding
//
// Fields are encoded in declaration order without any framing:
//
//   - bool is one byte, 0 or 1.
//   - Integers and floats have their fixed size. int and uint are 64 bits.
//   - Strings and byte slices are a uvarint length followed by the bytes.
//   - Slices and maps are a uvarint length followed by the elements. Map
//     entries follow the iteration order of the map, so an encoding with a
//     map is not canonical.
//   - Arrays are their elements. Byte arrays are copied as is.
//   - Pointers are a presence byte followed by the element if it is not nil.
//   - Types with an AppendBinary method, such as [time.Time], are encoded by
//     the method.
//   - Other codec types are encoded by their generated functions.
//   - Named types are encoded by their underlying types.
//
// Channels, functions, interfaces, complex numbers, uintptr and unsafe.Pointer
// cannot be encoded. A named type which contains itself must be a codec.
//
// # Bounds
//
// The generated function of a generic type is generic as well. The constraint
// of each type parameter is inferred from how the fields use it. A parameter
// encoded directly requires [encoding.BinaryAppender], and a parameter used as
// a map key also requires comparable:
//
//	// source:
//	//bingen:codec
//	type Index[K comparable, V any] struct {
//		M map[K][]V
//	}
//
//	// generated:
//	func AppendIndex[K interface {
//		comparable
//		encoding.BinaryAppender
//	}, V encoding.BinaryAppender](b []byte, v Index[K, V]) ([]byte, error)
//
// //bingen:bound replaces the inference with explicit constraints for the
// parameters it names. Predicates are separated by commas, and "+" joins the
// constraints of one parameter:
//
//	//bingen:codec
//	//bingen:bound K: comparable + encoding.BinaryAppender, V: fmt.Stringer
//	type Index[K comparable, V any] struct { ... }
//
// Each parameter can be bound only once. The declared constraint of the
// parameter is always kept, and the bound is added to it. The constraints are
// copied into the generated code with their package qualifiers resolved
// against the imports of the declaring file. The declaring file must still
// use such a package in Go code, or the compiler reports the import as unused:
//
//	import "fmt"
//
//	var _ fmt.Stringer
//
//	//bingen:codec
//	//bingen:bound T: fmt.Stringer
//	type Box[T any] struct{ V T }
//
// Bingen does not check that an explicit bound allows the encoding; the
// compiler does when the generated code is built.
package bingen
