package parse

import (
	"bytes"
	"context"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	LeftToRight struct {
		Op  Parser
		Arg Parser
	}

	BinOper interface {
		BinOp(l, r ast.Node) (ast.Node, error)
	}

	// Operator matches one of Syms, longest first.
	Operator struct {
		Syms    []string
		Compare bool
	}

	binOp struct {
		sym string
		cmp bool
	}
)

var (
	cmpOps = Operator{Syms: []string{"==", "!=", "<=", ">=", "<", ">"}, Compare: true}
	addOps = Operator{Syms: []string{"+", "-"}}
	mulOps = Operator{Syms: []string{"//", "/", "*", "%"}}
)

func (p LeftToRight) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = p.Arg.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	for i < len(b) {
		var op any
		opst := i
		op, i, err = p.Op.Parse(ctx, b, i)
		if i == opst {
			err = nil
			break
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "op")
		}

		c, ok := op.(BinOper)
		if !ok {
			return nil, i, errors.New("BinOper expected, got %T", op)
		}

		var r any
		r, i, err = p.Arg.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "right operand")
		}

		x, err = c.BinOp(x.(ast.Node), r.(ast.Node))
		if err != nil {
			return nil, i, errors.Wrap(err, "%v", c)
		}
	}

	return
}

func (p Operator) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	for _, s := range p.Syms {
		if !bytes.HasPrefix(b[st:], []byte(s)) {
			continue
		}

		next := st + len(s)

		// keep = for assignment and ** for the power level
		if next < len(b) && (b[next] == '=' || s == "*" && b[next] == '*') {
			continue
		}

		return binOp{sym: s, cmp: p.Compare}, next, nil
	}

	return nil, st, errors.New("operator expected")
}

func (p Operator) String() string { return strings.Join(p.Syms, " ") }

func (o binOp) BinOp(l, r ast.Node) (ast.Node, error) {
	base := ast.Base{Pos: l.Span().Pos, End: r.Span().End}

	if o.cmp {
		return &ast.Compare{Base: base, Op: o.sym, Left: l, Right: r}, nil
	}

	return &ast.BinOp{Base: base, Op: o.sym, Left: l, Right: r}, nil
}

func (o binOp) String() string { return o.sym }
