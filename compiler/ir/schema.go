package ir

import (
	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/attr"
	"github.com/slowlang/tinypy/compiler/dialect"
)

type (
	propSchema struct {
		Name  string
		Check func(a attr.Attr) error
	}

	regionSchema struct {
		Name string
		Ops  int // AnyOps or exact number of ops
	}

	schema struct {
		Props   []propSchema
		Regions []regionSchema
	}
)

const AnyOps = -1

var schemas = [numKinds]schema{
	Module: {
		Regions: []regionSchema{{"body", AnyOps}},
	},
	Function: {
		Props: []propSchema{
			{FnName, isString},
			{ReturnVar, isAny},
			{Args, isArray},
		},
		Regions: []regionSchema{{"body", AnyOps}},
	},
	Assign: {
		Props:   []propSchema{{VarName, isString}},
		Regions: []regionSchema{{"value", 1}},
	},
	Loop: {
		Props: []propSchema{{Variable, isString}},
		Regions: []regionSchema{
			{"from_expr", 1},
			{"to_expr", 1},
			{"body", AnyOps},
		},
	},
	Var: {
		Props: []propSchema{{Variable, isString}},
	},
	BinaryOperation: {
		Props: []propSchema{{OpCode, isOpCode}},
		Regions: []regionSchema{
			{"lhs", 1},
			{"rhs", 1},
		},
	},
	Constant: {
		Props: []propSchema{{Value, isLiteral}},
	},
	Return: {},
	CallExpr: {
		Props: []propSchema{
			{Func, isString},
			{Type, isAny},
			{Builtin, isBool},
		},
		Regions: []regionSchema{{"args", AnyOps}},
	},
}

func isAny(a attr.Attr) error {
	if a == nil {
		return errors.New("nil attribute")
	}

	return nil
}

func isString(a attr.Attr) error {
	if _, ok := a.(attr.String); !ok {
		return errors.New("expected string, got %v", attr.KindOf(a))
	}

	return nil
}

func isBool(a attr.Attr) error {
	if _, ok := a.(attr.Bool); !ok {
		return errors.New("expected bool, got %v", attr.KindOf(a))
	}

	return nil
}

func isArray(a attr.Attr) error {
	x, ok := a.(attr.Array)
	if !ok {
		return errors.New("expected array, got %v", attr.KindOf(a))
	}

	for i, el := range x {
		if el == nil {
			return errors.New("nil array element %d", i)
		}
	}

	return nil
}

func isOpCode(a attr.Attr) error {
	s, ok := a.(attr.String)
	if !ok {
		return errors.New("expected string, got %v", attr.KindOf(a))
	}

	if !dialect.TinyPy.IsOpCode(string(s)) {
		return errors.New("unknown operator code %q, want one of %v", string(s), dialect.TinyPy.OpCodes())
	}

	return nil
}

func isLiteral(a attr.Attr) error {
	switch a := a.(type) {
	case attr.Int:
		return a.Check()
	case attr.Float:
		return a.Check()
	case attr.String:
		return nil
	default:
		return errors.New("expected int, float or string, got %v", attr.KindOf(a))
	}
}
