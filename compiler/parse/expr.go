package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	// Expr is a comma separated expression list.
	// More than one element or a trailing comma makes a tuple.
	Expr struct{}

	// Test is a single expression: comparisons and below.
	Test struct{}

	Arith  struct{}
	Term   struct{}
	Factor struct{}
	Power  struct{}
	Atom   struct{}

	// Postfix is an atom followed by call argument lists.
	Postfix struct{}

	Paren struct{}

	// NameConst is a name or one of True, False, None.
	NameConst struct{}
)

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = Spaced(Test{}).Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	first := x.(ast.Node)
	elts := []ast.Node{first}
	comma := false

	for {
		j := SpaceLine.Skip(b, i)
		if j == len(b) || b[j] != ',' {
			break
		}

		comma = true
		i = j + 1

		x, j, err = Spaced(Test{}).Parse(ctx, b, i)
		if err != nil {
			if j == i {
				break // trailing comma
			}

			return nil, j, err
		}

		elts = append(elts, x.(ast.Node))
		i = j
	}

	if !comma {
		return first, i, nil
	}

	return &ast.Tuple{
		Base: ast.Base{Pos: first.Span().Pos, End: i},
		Elts: elts,
	}, i, nil
}

func (p Test) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	return LeftToRight{Op: Spaced(cmpOps), Arg: Spaced(Arith{})}.Parse(ctx, b, st)
}

func (p Arith) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	return LeftToRight{Op: Spaced(addOps), Arg: Spaced(Term{})}.Parse(ctx, b, st)
}

func (p Term) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	return LeftToRight{Op: Spaced(mulOps), Arg: Spaced(Factor{})}.Parse(ctx, b, st)
}

func (p Factor) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	if st == len(b) || b[st] != '-' && b[st] != '+' {
		return Power{}.Parse(ctx, b, st)
	}

	x, i, err = Spaced(Factor{}).Parse(ctx, b, st+1)
	if err != nil {
		if i == st+1 {
			i = st
		}

		return nil, i, errors.Wrap(err, "unary %c", b[st])
	}

	operand := x.(ast.Node)

	return &ast.UnaryOp{
		Base:    ast.Base{Pos: st, End: operand.Span().End},
		Op:      string(b[st]),
		Operand: operand,
	}, i, nil
}

func (p Power) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = Postfix{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	_, j, err := Spaced(Const("**")).Parse(ctx, b, i)
	if err != nil {
		return x, i, nil
	}

	r, j, err := Spaced(Factor{}).Parse(ctx, b, j)
	if err != nil {
		return nil, j, errors.Wrap(err, "power exponent")
	}

	l, rn := x.(ast.Node), r.(ast.Node)

	return &ast.BinOp{
		Base:  ast.Base{Pos: l.Span().Pos, End: rn.Span().End},
		Op:    "**",
		Left:  l,
		Right: rn,
	}, j, nil
}

func (p Postfix) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = Atom{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	for {
		j := SpaceLine.Skip(b, i)
		if j == len(b) || b[j] != '(' {
			return x, i, nil
		}

		fn := x.(ast.Node)

		call := &ast.Call{
			Func: fn,
		}

		i, err = p.parseArgs(ctx, b, j+1, call)
		if err != nil {
			return nil, i, errors.Wrap(err, "call arguments")
		}

		call.Base = ast.Base{Pos: fn.Span().Pos, End: i}
		x = call
	}
}

func (p Postfix) parseArgs(ctx context.Context, b []byte, st int, call *ast.Call) (i int, err error) {
	i = SpaceLine.Skip(b, st)

	for {
		if i < len(b) && b[i] == ')' {
			return i + 1, nil
		}

		var kw *ast.Keyword

		// name=value, but not name==value
		if w := word(b, i); w != "" {
			j := SpaceLine.Skip(b, i+len(w))
			if j < len(b) && b[j] == '=' && (j+1 == len(b) || b[j+1] != '=') {
				kw = &ast.Keyword{Name: w}
				kw.Pos = i
				i = j + 1
			}
		}

		var x any
		x, i, err = Spaced(Test{}).Parse(ctx, b, i)
		if err != nil {
			return i, err
		}

		arg := x.(ast.Node)

		switch {
		case kw != nil:
			kw.Value = arg
			kw.End = arg.Span().End
			call.Keywords = append(call.Keywords, *kw)
		case len(call.Keywords) != 0:
			return arg.Span().Pos, errors.New("positional argument follows keyword argument")
		default:
			call.Args = append(call.Args, arg)
		}

		i = SpaceLine.Skip(b, i)

		if i < len(b) && b[i] == ',' {
			i = SpaceLine.Skip(b, i+1)
			continue
		}

		if i < len(b) && b[i] == ')' {
			return i + 1, nil
		}

		return i, errors.New("',' or ')' expected")
	}
}

func (p Atom) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	return AnyOf{Paren{}, Num{}, Str{}, NameConst{}}.Parse(ctx, b, st)
}

func (p Paren) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	if st == len(b) || b[st] != '(' {
		return nil, st, errors.New("'(' expected")
	}

	i = SpaceLine.Skip(b, st+1)

	if i < len(b) && b[i] == ')' {
		return &ast.Tuple{Base: ast.Base{Pos: st, End: i + 1}}, i + 1, nil
	}

	x, i, err = Expr{}.Parse(ctx, b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "parenthesized")
	}

	_, i, err = Spaced(Const(")")).Parse(ctx, b, i)
	if err != nil {
		return nil, i, err
	}

	if t, ok := x.(*ast.Tuple); ok {
		t.Base = ast.Base{Pos: st, End: i}
	}

	return x, i, nil
}

func (Paren) String() string { return "parenthesized expression" }

func (p NameConst) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	w := word(b, st)
	pos := ast.Base{Pos: st, End: st + len(w)}

	switch w {
	case "True":
		return &ast.Constant{Base: pos, Value: true}, pos.End, nil
	case "False":
		return &ast.Constant{Base: pos, Value: false}, pos.End, nil
	case "None":
		return &ast.Constant{Base: pos, Value: nil}, pos.End, nil
	}

	return Ident{}.Parse(ctx, b, st)
}

func (NameConst) String() string { return "name" }
