package ir

import (
	"github.com/slowlang/tinypy/compiler/attr"
)

func NewModule(ops []*Op, opts ...Option) (*Op, error) {
	return New(Module, nil, []Region{ops}, opts...)
}

// NewFunction builds a function. Nil ret means no declared return type.
func NewFunction(name string, ret attr.Attr, args []attr.Attr, body []*Op, opts ...Option) (*Op, error) {
	if ret == nil {
		ret = attr.Empty{}
	}

	props := []Prop{
		{FnName, attr.String(name)},
		{ReturnVar, ret},
		{Args, append(attr.Array{}, args...)},
	}

	return New(Function, props, []Region{body}, opts...)
}

func NewAssign(name string, value *Op, opts ...Option) (*Op, error) {
	return New(Assign, []Prop{{VarName, attr.String(name)}}, []Region{{value}}, opts...)
}

func NewLoop(variable string, from, to *Op, body []*Op, opts ...Option) (*Op, error) {
	return New(Loop, []Prop{{Variable, attr.String(variable)}}, []Region{{from}, {to}, body}, opts...)
}

func NewVar(name string, opts ...Option) (*Op, error) {
	return New(Var, []Prop{{Variable, attr.String(name)}}, nil, opts...)
}

func NewBinaryOperation(code string, lhs, rhs *Op, opts ...Option) (*Op, error) {
	return New(BinaryOperation, []Prop{{OpCode, attr.String(code)}}, []Region{{lhs}, {rhs}}, opts...)
}

// NewConstant wraps a raw int, float or string. Width 0 means attr.DefaultWidth.
func NewConstant(value any, width int, opts ...Option) (*Op, error) {
	a, err := attr.Literal(value, width)
	if err != nil {
		return nil, err
	}

	return New(Constant, []Prop{{Value, a}}, nil, opts...)
}

func NewReturn(opts ...Option) (*Op, error) {
	return New(Return, nil, nil, opts...)
}

// NewCallExpr builds a call. Nil typ means the result is not used as a value.
func NewCallExpr(fn string, args []*Op, typ attr.Attr, builtin bool, opts ...Option) (*Op, error) {
	if typ == nil {
		typ = attr.Empty{}
	}

	props := []Prop{
		{Func, attr.String(fn)},
		{Type, typ},
		{Builtin, attr.Bool(builtin)},
	}

	return New(CallExpr, props, []Region{args}, opts...)
}
