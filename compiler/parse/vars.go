package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	// Assignment parses `t1 = t2 = ... = value` or a bare expression statement.
	Assignment struct{}
)

func (p Assignment) Parse(ctx context.Context, b []byte, st int) (x any, i int, err error) {
	x, i, err = Expr{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	parts := []ast.Node{x.(ast.Node)}

	for {
		j := SpaceLine.Skip(b, i)
		if j == len(b) || b[j] != '=' || j+1 < len(b) && b[j+1] == '=' {
			break
		}

		x, i, err = Expr{}.Parse(ctx, b, j+1)
		if err != nil {
			return nil, i, errors.Wrap(err, "assigned value")
		}

		parts = append(parts, x.(ast.Node))
	}

	last := parts[len(parts)-1]

	if len(parts) == 1 {
		return &ast.ExprStmt{
			Base:  last.Span(),
			Value: last,
		}, i, nil
	}

	return &ast.Assign{
		Base:    ast.Base{Pos: parts[0].Span().Pos, End: last.Span().End},
		Targets: parts[:len(parts)-1],
		Value:   last,
	}, i, nil
}

func (Assignment) String() string { return "statement" }
