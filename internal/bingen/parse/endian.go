package parse

import (
	"fmt"
	"go/token"
	"strings"
)

// Endian is the byte order of multi-byte numbers.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

func (e Endian) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// Ident returns the name of the [encoding/binary] byte order variable.
func (e Endian) Ident() string {
	if e == LittleEndian {
		return "LittleEndian"
	}
	return "BigEndian"
}

// EndianAttr is the argument of //bingen:endian.
type EndianAttr string

// TrySet accepts "big" and "little" in any case.
func (a EndianAttr) TrySet(to *Endian) error {
	switch strings.ToLower(string(a)) {
	case "big":
		*to = BigEndian
	case "little":
		*to = LittleEndian
	default:
		return fmt.Errorf("invalid endian %q; want big or little", string(a))
	}
	return nil
}

// nameAttr is the optional argument of //bingen:codec.
type nameAttr string

func (a nameAttr) TrySet(to *string) error {
	if !token.IsIdentifier(string(a)) {
		return fmt.Errorf("invalid function name %q", string(a))
	}
	*to = string(a)
	return nil
}
