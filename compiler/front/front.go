package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tinypy/compiler/ast"
	"github.com/slowlang/tinypy/compiler/attr"
	"github.com/slowlang/tinypy/compiler/dialect"
	"github.com/slowlang/tinypy/compiler/ir"
)

type (
	// Front lowers one parsed module into tiny_py operations.
	Front struct {
		d *dialect.Dialect
		m *ast.Module
	}

	UnsupportedConstructError struct {
		Construct string
		Where     string
		Reason    string
	}

	UnsupportedOperatorError struct {
		Op    string
		Where string
	}
)

var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrUnsupportedOperator  = errors.New("unsupported operator")
)

func New(m *ast.Module) *Front {
	return &Front{
		d: dialect.TinyPy,
		m: m,
	}
}

// Lower lowers m into a verified module op.
func Lower(ctx context.Context, m *ast.Module) (*ir.Op, error) {
	return New(m).Lower(ctx, m)
}

// Lower dispatches on the node kind. Children are built before their parent.
func (f *Front) Lower(ctx context.Context, x ast.Node) (*ir.Op, error) {
	switch x := x.(type) {
	case *ast.Module:
		if x != f.m {
			return nil, f.unsupported(x, "module must be the root")
		}

		return f.module(ctx, x)
	case *ast.FunctionDef:
		return f.function(ctx, x)
	case *ast.Assign:
		return f.assign(ctx, x)
	case *ast.For:
		return f.loop(ctx, x)
	case *ast.Return:
		if x.Value != nil {
			return nil, f.unsupported(x, "return value")
		}

		return ir.NewReturn()
	case *ast.ExprStmt:
		return f.Lower(ctx, x.Value)
	case *ast.Name:
		return ir.NewVar(x.ID)
	case *ast.Constant:
		op, err := ir.NewConstant(x.Value, attr.DefaultWidth)
		if err != nil {
			return nil, errors.Wrap(err, "%v", f.where(x))
		}

		return op, nil
	case *ast.BinOp:
		return f.binOp(ctx, x)
	case *ast.Call:
		return f.call(ctx, x)
	case *ast.If, *ast.While, *ast.Pass, *ast.Compare, *ast.UnaryOp, *ast.Tuple:
		return nil, f.unsupported(x, "")
	case nil:
		return nil, NewUnsupportedConstruct("nil", "", "missing node")
	default:
		return nil, f.unsupported(x, "")
	}
}

func (f *Front) module(ctx context.Context, m *ast.Module) (op *ir.Op, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower module", "name", m.Name, "stmts", len(m.Body))
	defer tr.Finish("err", &err)

	body, err := f.block(ctx, m.Body)
	if err != nil {
		return nil, err
	}

	op, err = ir.NewModule(body)
	if err != nil {
		return nil, errors.Wrap(err, "module")
	}

	if tr.If("dump_ir") {
		op.Walk(func(op *ir.Op, d int) bool {
			tr.Printw("op", "depth", d, "op", op)
			return true
		})
	}

	return op, nil
}

func (f *Front) function(ctx context.Context, x *ast.FunctionDef) (op *ir.Op, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "lower function", "name", x.Name, "decorators", x.Decorators)
	defer tr.Finish("err", &err)

	if len(x.Params) != 0 {
		return nil, f.unsupported(x, "function parameters")
	}

	if x.Returns != nil {
		return nil, f.unsupported(x, "return annotation")
	}

	body, err := f.block(ctx, x.Body)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", x.Name)
	}

	op, err = ir.NewFunction(x.Name, attr.Empty{}, nil, body)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", x.Name)
	}

	if tr.If("lower") {
		tr.Printw("function lowered", "name", x.Name, "stmts", len(body))
	}

	return op, nil
}

func (f *Front) assign(ctx context.Context, x *ast.Assign) (*ir.Op, error) {
	if len(x.Targets) != 1 {
		return nil, f.unsupported(x, "multiple assignment targets")
	}

	n, ok := x.Targets[0].(*ast.Name)
	if !ok {
		return nil, f.unsupported(x.Targets[0], "assignment target")
	}

	v, err := f.Lower(ctx, x.Value)
	if err != nil {
		return nil, errors.Wrap(err, "assign %v", n.ID)
	}

	return ir.NewAssign(n.ID, v)
}

func (f *Front) loop(ctx context.Context, x *ast.For) (_ *ir.Op, err error) {
	n, ok := x.Target.(*ast.Name)
	if !ok {
		return nil, f.unsupported(x.Target, "loop target")
	}

	if len(x.Else) != 0 {
		return nil, f.unsupported(x, "for-else")
	}

	c, ok := x.Iter.(*ast.Call)
	if !ok || !isName(c.Func, "range") {
		return nil, f.unsupported(x.Iter, "loop iterator must be range(lo, hi)")
	}

	if len(c.Args) != 2 || len(c.Keywords) != 0 {
		return nil, f.unsupported(c, fmt.Sprintf("range takes 2 arguments, got %d", len(c.Args)+len(c.Keywords)))
	}

	from, err := f.Lower(ctx, c.Args[0])
	if err != nil {
		return nil, errors.Wrap(err, "for %v: from", n.ID)
	}

	to, err := f.Lower(ctx, c.Args[1])
	if err != nil {
		return nil, errors.Wrap(err, "for %v: to", n.ID)
	}

	body, err := f.block(ctx, x.Body)
	if err != nil {
		return nil, errors.Wrap(err, "for %v", n.ID)
	}

	return ir.NewLoop(n.ID, from, to, body)
}

func (f *Front) binOp(ctx context.Context, x *ast.BinOp) (*ir.Op, error) {
	code, ok := f.d.OpCode(x.Op)
	if !ok {
		return nil, NewUnsupportedOperator(x.Op, f.where(x))
	}

	l, err := f.Lower(ctx, x.Left)
	if err != nil {
		return nil, errors.Wrap(err, "%v lhs", code)
	}

	r, err := f.Lower(ctx, x.Right)
	if err != nil {
		return nil, errors.Wrap(err, "%v rhs", code)
	}

	return ir.NewBinaryOperation(code, l, r)
}

func (f *Front) call(ctx context.Context, x *ast.Call) (*ir.Op, error) {
	n, ok := x.Func.(*ast.Name)
	if !ok {
		return nil, f.unsupported(x.Func, "callee must be a name")
	}

	if len(x.Keywords) != 0 {
		return nil, f.unsupported(x, "keyword arguments")
	}

	args := make([]*ir.Op, len(x.Args))

	for i, a := range x.Args {
		op, err := f.Lower(ctx, a)
		if err != nil {
			return nil, errors.Wrap(err, "call %v: arg %d", n.ID, i)
		}

		args[i] = op
	}

	return ir.NewCallExpr(n.ID, args, attr.Empty{}, f.d.IsBuiltin(n.ID))
}

func (f *Front) block(ctx context.Context, xs []ast.Node) (ops []*ir.Op, err error) {
	ops = make([]*ir.Op, 0, len(xs))

	for _, x := range xs {
		op, err := f.Lower(ctx, x)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, nil
}

func (f *Front) unsupported(x ast.Node, reason string) error {
	return NewUnsupportedConstruct(x.Kind().String(), f.where(x), reason)
}

func (f *Front) where(x ast.Node) string {
	if f.m == nil {
		return fmt.Sprintf("offset %d", x.Span().Pos)
	}

	return f.m.Where(x.Span().Pos)
}

func isName(x ast.Node, id string) bool {
	n, ok := x.(*ast.Name)

	return ok && n.ID == id
}

func NewUnsupportedConstruct(construct, where, reason string) UnsupportedConstructError {
	return UnsupportedConstructError{
		Construct: construct,
		Where:     where,
		Reason:    reason,
	}
}

func (e UnsupportedConstructError) Error() string {
	s := "unsupported construct: " + e.Construct

	if e.Where != "" {
		s = e.Where + ": " + s
	}

	if e.Reason != "" {
		s += ": " + e.Reason
	}

	return s
}

func (e UnsupportedConstructError) Is(target error) bool {
	return target == ErrUnsupportedConstruct
}

func NewUnsupportedOperator(op, where string) UnsupportedOperatorError {
	return UnsupportedOperatorError{
		Op:    op,
		Where: where,
	}
}

func (e UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("%v: unsupported operator: %q", e.Where, e.Op)
}

func (e UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}
