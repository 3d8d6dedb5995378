package parse

import (
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//bingen:"

// directive is a line comment in the form of "//bingen:name args".
type directive struct {
	Name    string
	Args    string
	Comment *ast.Comment

	// ArgsPos is the position of the first byte of Args.
	ArgsPos token.Pos
}

func (d directive) Pos() token.Pos { return d.Comment.Slash }
func (d directive) End() token.Pos { return d.Comment.End() }

// parseDirective parses a bingen directive comment. A trailing line comment
// after the arguments is dropped:
//
//	//bingen:endian little // wire format of v2
//	               ^^^^^^
func parseDirective(c *ast.Comment) (directive, bool) {
	rest, ok := strings.CutPrefix(c.Text, directivePrefix)
	if !ok {
		return directive{}, false
	}

	name := rest
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		name = rest[:i]
	}
	if name == "" {
		return directive{}, false
	}

	args := rest[len(name):]
	if i := strings.Index(args, "//"); i >= 0 {
		args = args[:i]
	}

	offset := len(directivePrefix) + len(name)
	trimmed := strings.TrimLeft(args, " \t")
	offset += len(args) - len(trimmed)

	return directive{
		Name:    name,
		Args:    strings.TrimRight(trimmed, " \t"),
		Comment: c,
		ArgsPos: c.Slash + token.Pos(offset),
	}, true
}

// directives returns the bingen directives in the comment group.
func directives(group *ast.CommentGroup) []directive {
	if group == nil {
		return nil
	}

	var ds []directive
	for _, c := range group.List {
		if d, ok := parseDirective(c); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

// segment is a piece of directive arguments with its byte offset.
type segment struct {
	text string
	off  int
}

// pos returns the position of the first non-blank byte of the segment.
func (s segment) pos(base token.Pos) token.Pos {
	trimmed := strings.TrimLeft(s.text, " \t")
	return base + token.Pos(s.off+len(s.text)-len(trimmed))
}

func (s segment) trim() string { return strings.TrimSpace(s.text) }

// splitTop splits s by sep outside of brackets. Offsets are relative to the
// start of s plus off.
//
//	splitTop("A, Box[B, C]", ',') => "A", " Box[B, C]"
func splitTop(s string, sep byte, off int) []segment {
	var segs []segment
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case sep:
			if depth == 0 {
				segs = append(segs, segment{s[start:i], off + start})
				start = i + 1
			}
		}
	}
	return append(segs, segment{s[start:], off + start})
}

// cutTop is like [strings.Cut] but ignores sep inside brackets.
func cutTop(s segment, sep byte) (before, after segment, found bool) {
	parts := splitTop(s.text, sep, s.off)
	if len(parts) == 1 {
		return s, segment{}, false
	}
	return parts[0], segment{s.text[len(parts[0].text)+1:], parts[1].off}, true
}
