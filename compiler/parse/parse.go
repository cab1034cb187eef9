package parse

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tinypy/compiler/ast"
)

type (
	State struct {
		name  string
		b     []byte
		lines []int
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x any, i int, err error)
	}

	PartialReadError struct {
		End int
	}
)

func ParseFile(ctx context.Context, name string) (*ast.Module, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, name, data)
}

func Parse(ctx context.Context, name string, text []byte) (*ast.Module, error) {
	return New(name, text).Parse(ctx)
}

func New(name string, text []byte) *State {
	s := &State{
		name:  name,
		b:     joinLines(text),
		lines: []int{0},
	}

	for i, c := range text {
		if c == '\n' && i+1 < len(text) {
			s.lines = append(s.lines, i+1)
		}
	}

	return s
}

func (s *State) Parse(ctx context.Context) (m *ast.Module, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "name", s.name, "size", len(s.b))
	defer tr.Finish("err", &err)

	m = &ast.Module{
		Base:  ast.Base{Pos: 0, End: len(s.b)},
		Name:  s.name,
		Lines: s.lines,
	}

	body, i, err := s.parseBlock(ctx, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "%v", m.Where(i))
	}

	if i != len(s.b) {
		return nil, errors.Wrap(PartialReadError{End: i}, "%v", m.Where(i))
	}

	m.Body = body

	if tr.If("dump_ast") {
		for _, x := range m.Body {
			tr.Printw("top level", "kind", x.Kind(), "node", x)
		}
	}

	return m, nil
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("partial read: stopped at %d", e.End)
}
