package parse

import (
	"bytes"
	"context"
	"strconv"
	"unicode/utf8"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	Const string

	// Keyword matches a whole word.
	Keyword string

	// Ident matches a name that is not a keyword.
	Ident struct{}

	Str struct{}
)

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {}, "def": {},
	"del": {}, "elif": {}, "else": {}, "except": {}, "finally": {}, "for": {},
	"from": {}, "global": {}, "if": {}, "import": {}, "in": {}, "is": {},
	"lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {}, "raise": {},
	"return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

func (p Const) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	if bytes.HasPrefix(b[st:], []byte(p)) {
		return p, st + len(p), nil
	}

	return nil, st, errors.New("%q expected", string(p))
}

func (p Const) String() string { return strconv.Quote(string(p)) }

func (p Keyword) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	if word(b, st) == string(p) {
		return p, st + len(p), nil
	}

	return nil, st, errors.New("%q expected", string(p))
}

func (p Keyword) String() string { return strconv.Quote(string(p)) }

func (Ident) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	w := word(b, st)
	if w == "" {
		return nil, st, errors.New("name expected")
	}

	if _, ok := keywords[w]; ok {
		return nil, st, errors.New("name expected, got keyword %q", w)
	}

	i = st + len(w)

	return &ast.Name{
		Base: ast.Base{Pos: st, End: i},
		ID:   w,
	}, i, nil
}

func (Ident) String() string { return "name" }

func (Str) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	if st == len(b) || b[st] != '"' && b[st] != '\'' {
		return nil, st, errors.New("string expected")
	}

	q := b[st]
	long := isTriple(b, st)

	i = st + 1
	if long {
		i = st + 3
	}

	var v []byte

	for {
		if i == len(b) || b[i] == '\n' && !long {
			return nil, i, errors.New("unterminated string")
		}

		c := b[i]

		if c == q && (!long || isTriple(b, i)) {
			if long {
				i += 2
			}

			i++
			break
		}

		if c == '\r' && long && i+1 < len(b) && b[i+1] == '\n' {
			i++
			continue
		}

		if c != '\\' {
			v = append(v, c)
			i++
			continue
		}

		i++

		if i == len(b) {
			return nil, i, errors.New("unterminated string")
		}

		switch c = b[i]; c {
		case 'n':
			v = append(v, '\n')
		case 't':
			v = append(v, '\t')
		case 'r':
			v = append(v, '\r')
		case '0':
			v = append(v, 0)
		case '\\', '\'', '"':
			v = append(v, c)
		case '\n':
			// line continuation
		case 'x':
			if i+2 >= len(b) {
				return nil, i, errors.New("bad \\x escape")
			}

			n, err := strconv.ParseUint(string(b[i+1:i+3]), 16, 8)
			if err != nil {
				return nil, i, errors.New("bad \\x escape")
			}

			v = utf8.AppendRune(v, rune(n))
			i += 2
		default:
			v = append(v, '\\', c)
		}

		i++
	}

	return &ast.Constant{
		Base:  ast.Base{Pos: st, End: i},
		Value: string(v),
	}, i, nil
}

func (Str) String() string { return "string" }

// word returns the identifier starting at st or "".
func word(b []byte, st int) string {
	i := st

	if i == len(b) {
		return ""
	}

	if c := b[i]; !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= utf8.RuneSelf) {
		return ""
	}

	for i < len(b) {
		c := b[i]

		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_':
			i++
		case c >= utf8.RuneSelf:
			r, w := utf8.DecodeRune(b[i:])
			if r == utf8.RuneError {
				return string(b[st:i])
			}

			i += w
		default:
			return string(b[st:i])
		}
	}

	return string(b[st:i])
}
