package codefmt

import (
	"fmt"
	"go/token"
	"go/types"
	"iter"
	"maps"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NS manages unique names in a namespace.
type NS map[string]struct{}

// NewNS creates a new namespace which reserves the names in the given scope.
// Objects for which skip returns true are not reserved. skip may be nil.
func NewNS(scope *types.Scope, skip func(types.Object) bool) NS {
	ns := make(NS)
	for _, name := range scope.Names() {
		if skip != nil && skip(scope.Lookup(name)) {
			continue
		}
		ns.Reserve(name)
	}
	return ns
}

// Reserve marks a name as used in the namespace. If the name is already used,
// it returns false.
func (ns NS) Reserve(name string) bool {
	if _, ok := ns[name]; ok {
		return false
	}
	ns[name] = struct{}{}
	return true
}

// Fork returns a copy of the namespace. Names reserved in the copy do not
// affect ns.
func (ns NS) Fork() NS {
	if ns == nil {
		return make(NS)
	}
	return maps.Clone(ns)
}

// Name returns a unique name in its namespace. Once a name is used, it is
// reserved in the namespace to avoid conflicts. If conflicts occur, a numbering
// suffix is added.
//
// Panics if the name is empty.
func (ns NS) Name(name string) string {
	name = NormalizeName(name)
	if ns == nil {
		return name
	}
	if token.Lookup(name).IsKeyword() {
		name += "_"
	}
	for name := range DisambiguateName(name) {
		if ok := ns.Reserve(name); ok {
			return name
		}
	}
	panic("unreachable")
}

// NormalizeName joins the identifier chunks of name in camel case.
//
// e.g., NormalizeName("append pair") => "appendPair"
func NormalizeName(name string) string {
	if name == "" {
		panic("empty name")
	}

	chunks := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	if len(chunks) == 0 {
		panic(fmt.Sprintf("no identifier in name %q", name))
	}

	title := cases.Title(language.English, cases.NoLower)
	for i := 1; i < len(chunks); i++ {
		chunks[i] = title.String(chunks[i])
	}
	return strings.Join(chunks, "")
}

// DisambiguateName offers an alternative unique names.
func DisambiguateName(name string) iter.Seq[string] {
	if name == "" {
		panic("empty name")
	}

	return func(yield func(string) bool) {
		if !yield(name) {
			return
		}

		// Postfix "_" to the name if it already ends with a number.
		// "answer42_2" is better than "answer422".
		sep := ""
		if name[len(name)-1] != '_' && name[len(name)-1] >= '0' && name[len(name)-1] <= '9' {
			sep = "_"
		}

		for i := 2; ; i++ {
			if !yield(fmt.Sprintf("%s%s%d", name, sep, i)) {
				return
			}
		}
	}
}
