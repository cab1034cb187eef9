package parse

import (
	"context"
	"math"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	Num struct{}
)

// Parse reads an int (decimal, 0x, 0o, 0b) or a float literal.
// Ints are returned as int64, floats as float64.
func (p Num) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	i = st

	base := 10

	if i+1 < len(b) && b[i] == '0' {
		switch b[i+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}

		if base != 10 {
			i += 2 // skip base prefix
		}
	}

	dst := i
	dot := false
	exp := false

loop:
	for ; i < len(b); i++ {
		c := b[i]

		switch {
		case c >= '0' && c <= '9' || c == '_':
		case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		case base == 10 && !dot && !exp && c == '.':
			dot = true
		case base == 10 && !exp && i != dst && (c == 'e' || c == 'E'):
			exp = true

			if i+1 < len(b) && (b[i+1] == '+' || b[i+1] == '-') {
				i++
			}
		default:
			break loop
		}
	}

	if i == dst || i == dst+1 && b[dst] == '.' {
		return nil, st, errors.New("number expected")
	}

	if word(b, i) != "" {
		return nil, i, errors.New("bad number suffix")
	}

	text := strings.ReplaceAll(string(b[dst:i]), "_", "")
	pos := ast.Base{Pos: st, End: i}

	if dot || exp {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, i, errors.New("bad float literal %q", b[st:i])
		}

		return &ast.Constant{Base: pos, Value: v}, i, nil
	}

	v, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return nil, i, errors.New("bad int literal %q", b[st:i])
	}

	return &ast.Constant{Base: pos, Value: v}, i, nil
}

func (Num) String() string { return "number" }
