package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ast"
)

// parseBlock parses statements indented exactly by indent.
// It stops before the first line indented less.
func (s *State) parseBlock(ctx context.Context, st, indent int) (body []ast.Node, i int, err error) {
	i = st

	for {
		ls, cs, ind := s.nextLine(i)
		if cs == len(s.b) {
			return body, len(s.b), nil
		}

		if ind < indent {
			return body, ls, nil
		}

		if ind > indent {
			return nil, cs, errors.New("unexpected indent")
		}

		var x ast.Node

		x, i, err = s.parseStmt(ctx, cs, indent)
		if err != nil {
			return nil, i, err
		}

		body = append(body, x)
	}
}

// nextLine skips blank and comment lines.
// It returns the line start, the first significant byte and the indentation width.
func (s *State) nextLine(st int) (ls, cs, ind int) {
	b := s.b
	ls = st

	for {
		i := ls
		ind = 0

		for i < len(b) && (b[i] == ' ' || b[i] == '\t' || b[i] == '\f') {
			if b[i] == '\t' {
				ind = (ind/8 + 1) * 8
			} else if b[i] == ' ' {
				ind++
			}

			i++
		}

		if i < len(b) && b[i] == '\r' {
			i++
		}

		if i == len(b) {
			return ls, len(b), ind
		}

		if b[i] != '\n' && b[i] != '#' {
			return ls, i, ind
		}

		ls = skipLine(b, i)
	}
}

// parseStmt parses one statement starting at the first significant byte of a line.
// It returns the position after the statement's last line.
func (s *State) parseStmt(ctx context.Context, st, indent int) (x ast.Node, i int, err error) {
	b := s.b

	if b[st] == '@' {
		return s.parseDecorated(ctx, st, indent)
	}

	switch word(b, st) {
	case "def":
		return s.parseFunc(ctx, st, indent, nil)
	case "for":
		return s.parseFor(ctx, st, indent)
	case "if":
		return s.parseIf(ctx, st, indent)
	case "while":
		return s.parseWhile(ctx, st, indent)
	case "elif", "else":
		return nil, st, errors.New("%q without matching statement", word(b, st))
	}

	x, i, err = s.parseSimple(ctx, st)
	if err != nil {
		return nil, i, err
	}

	i, err = s.eol(i)
	if err != nil {
		return nil, i, err
	}

	return x, i, nil
}

// parseSimple parses a single line statement without its line end.
func (s *State) parseSimple(ctx context.Context, st int) (x ast.Node, i int, err error) {
	b := s.b
	w := word(b, st)

	switch w {
	case "pass":
		return &ast.Pass{Base: ast.Base{Pos: st, End: st + len(w)}}, st + len(w), nil
	case "return":
		ret := &ast.Return{Base: ast.Base{Pos: st, End: st + len(w)}}
		i = st + len(w)

		v, j, err := Optional{Expr{}}.Parse(ctx, b, i)
		if err != nil {
			return nil, j, errors.Wrap(err, "return value")
		}

		if v != nil {
			ret.Value = v.(ast.Node)
			ret.End = j
			i = j
		}

		return ret, i, nil
	}

	if _, ok := keywords[w]; ok && w != "True" && w != "False" && w != "None" {
		return nil, st, errors.New("unsupported statement: %v", w)
	}

	v, i, err := Assignment{}.Parse(ctx, b, st)
	if err != nil {
		return nil, i, err
	}

	return v.(ast.Node), i, nil
}

func (s *State) parseDecorated(ctx context.Context, st, indent int) (x ast.Node, i int, err error) {
	var decs []string

	cs := st

	for s.b[cs] == '@' {
		v, j, err := Spaced(Ident{}).Parse(ctx, s.b, cs+1)
		if err != nil {
			return nil, j, errors.Wrap(err, "decorator")
		}

		// decorator arguments are not kept
		if _, k, err := (Postfix{}).Parse(ctx, s.b, SpaceLine.Skip(s.b, cs+1)); err == nil {
			j = k
		}

		decs = append(decs, v.(*ast.Name).ID)

		i, err = s.eol(j)
		if err != nil {
			return nil, i, err
		}

		var ind int

		_, cs, ind = s.nextLine(i)
		if cs == len(s.b) || ind != indent {
			return nil, cs, errors.New("function definition expected after decorator")
		}
	}

	if word(s.b, cs) != "def" {
		return nil, cs, errors.New("function definition expected after decorator")
	}

	return s.parseFunc(ctx, cs, indent, decs)
}

func (s *State) parseFunc(ctx context.Context, st, indent int, decs []string) (_ ast.Node, i int, err error) {
	var x any

	b := s.b

	fn := &ast.FunctionDef{
		Decorators: decs,
	}

	x, i, err = Spaced(Ident{}).Parse(ctx, b, st+len("def"))
	if err != nil {
		return nil, i, errors.Wrap(err, "function name")
	}

	fn.Name = x.(*ast.Name).ID

	_, i, err = Spaced(Const("(")).Parse(ctx, b, i)
	if err != nil {
		return nil, i, err
	}

	for {
		i = SpaceLine.Skip(b, i)

		if i < len(b) && b[i] == ')' {
			i++
			break
		}

		x, i, err = Ident{}.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "parameter")
		}

		fn.Params = append(fn.Params, x.(*ast.Name).ID)

		i = SpaceLine.Skip(b, i)

		if i < len(b) && b[i] == ',' {
			i++
			continue
		}

		if i < len(b) && b[i] == ')' {
			i++
			break
		}

		return nil, i, errors.New("',' or ')' expected")
	}

	if _, j, err := Spaced(Const("->")).Parse(ctx, b, i); err == nil {
		x, i, err = Spaced(Test{}).Parse(ctx, b, j)
		if err != nil {
			return nil, i, errors.Wrap(err, "return annotation")
		}

		fn.Returns = x.(ast.Node)
	}

	fn.Body, i, err = s.parseSuite(ctx, i, indent)
	if err != nil {
		return nil, i, errors.Wrap(err, "def %v", fn.Name)
	}

	fn.Base = ast.Base{Pos: st, End: i}

	return fn, i, nil
}

func (s *State) parseFor(ctx context.Context, st, indent int) (_ ast.Node, i int, err error) {
	var x any

	loop := &ast.For{}

	x, i, err = Expr{}.Parse(ctx, s.b, st+len("for"))
	if err != nil {
		return nil, i, errors.Wrap(err, "for target")
	}

	loop.Target = x.(ast.Node)

	_, i, err = Spaced(Keyword("in")).Parse(ctx, s.b, i)
	if err != nil {
		return nil, i, err
	}

	x, i, err = Expr{}.Parse(ctx, s.b, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "for iterator")
	}

	loop.Iter = x.(ast.Node)

	loop.Body, i, err = s.parseSuite(ctx, i, indent)
	if err != nil {
		return nil, i, errors.Wrap(err, "for body")
	}

	loop.Else, i, err = s.parseElse(ctx, i, indent)
	if err != nil {
		return nil, i, err
	}

	loop.Base = ast.Base{Pos: st, End: i}

	return loop, i, nil
}

func (s *State) parseWhile(ctx context.Context, st, indent int) (_ ast.Node, i int, err error) {
	var x any

	loop := &ast.While{}

	x, i, err = Spaced(Test{}).Parse(ctx, s.b, st+len("while"))
	if err != nil {
		return nil, i, errors.Wrap(err, "while condition")
	}

	loop.Test = x.(ast.Node)

	loop.Body, i, err = s.parseSuite(ctx, i, indent)
	if err != nil {
		return nil, i, errors.Wrap(err, "while body")
	}

	loop.Else, i, err = s.parseElse(ctx, i, indent)
	if err != nil {
		return nil, i, err
	}

	loop.Base = ast.Base{Pos: st, End: i}

	return loop, i, nil
}

// parseIf parses if and elif, elif being a nested if in the else branch.
func (s *State) parseIf(ctx context.Context, st, indent int) (_ ast.Node, i int, err error) {
	var x any

	w := word(s.b, st)
	cond := &ast.If{}

	x, i, err = Spaced(Test{}).Parse(ctx, s.b, st+len(w))
	if err != nil {
		return nil, i, errors.Wrap(err, "%v condition", w)
	}

	cond.Test = x.(ast.Node)

	cond.Body, i, err = s.parseSuite(ctx, i, indent)
	if err != nil {
		return nil, i, errors.Wrap(err, "%v body", w)
	}

	_, cs, ind := s.nextLine(i)

	if cs < len(s.b) && ind == indent && word(s.b, cs) == "elif" {
		var elif ast.Node

		elif, i, err = s.parseIf(ctx, cs, indent)
		if err != nil {
			return nil, i, err
		}

		cond.Else = []ast.Node{elif}
	} else {
		cond.Else, i, err = s.parseElse(ctx, i, indent)
		if err != nil {
			return nil, i, err
		}
	}

	cond.Base = ast.Base{Pos: st, End: i}

	return cond, i, nil
}

func (s *State) parseElse(ctx context.Context, st, indent int) (body []ast.Node, i int, err error) {
	_, cs, ind := s.nextLine(st)

	if cs == len(s.b) || ind != indent || word(s.b, cs) != "else" {
		return nil, st, nil
	}

	body, i, err = s.parseSuite(ctx, cs+len("else"), indent)
	if err != nil {
		return nil, i, errors.Wrap(err, "else")
	}

	return body, i, nil
}

// parseSuite parses ':' and the block after it,
// either on the same line or indented deeper on the following lines.
func (s *State) parseSuite(ctx context.Context, st, indent int) (body []ast.Node, i int, err error) {
	_, i, err = Spaced(Const(":")).Parse(ctx, s.b, st)
	if err != nil {
		return nil, i, err
	}

	j := SpaceLine.Skip(s.b, i)

	if j < len(s.b) && s.b[j] != '\n' && s.b[j] != '#' {
		x, i, err := s.parseSimple(ctx, j)
		if err != nil {
			return nil, i, err
		}

		i, err = s.eol(i)
		if err != nil {
			return nil, i, err
		}

		return []ast.Node{x}, i, nil
	}

	i, err = s.eol(i)
	if err != nil {
		return nil, i, err
	}

	ls, cs, ind := s.nextLine(i)
	if cs == len(s.b) || ind <= indent {
		return nil, cs, errors.New("expected an indented block")
	}

	return s.parseBlock(ctx, ls, ind)
}

// eol expects the end of the line, allowing trailing spaces and a comment.
func (s *State) eol(st int) (i int, err error) {
	b := s.b
	i = SpaceLine.Skip(b, st)

	if i == len(b) {
		return i, nil
	}

	switch b[i] {
	case '\n', '#':
		return skipLine(b, i), nil
	case ';':
		return i, errors.New("multiple statements on one line are not supported")
	}

	return i, errors.New("unexpected %q", b[i])
}

// skipLine returns the start of the next line.
func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	if i < len(b) {
		i++
	}

	return i
}
