package ast

import (
	"sort"
	"strconv"
)

type (
	Kind int

	// Node is one of the node types of this package.
	Node interface {
		Kind() Kind
		Span() Base
	}

	Base struct {
		Pos int
		End int
	}

	Module struct {
		Base `tlog:",embed"`

		Name  string
		Lines []int // offset of each line start

		Body []Node
	}

	FunctionDef struct {
		Base `tlog:",embed"`

		Name       string
		Params     []string
		Returns    Node `tlog:",omitempty"`
		Decorators []string

		Body []Node
	}

	Assign struct {
		Base `tlog:",embed"`

		Targets []Node
		Value   Node
	}

	For struct {
		Base `tlog:",embed"`

		Target Node
		Iter   Node

		Body []Node
		Else []Node `tlog:",omitempty"`
	}

	If struct {
		Base `tlog:",embed"`

		Test Node

		Body []Node
		Else []Node `tlog:",omitempty"`
	}

	While struct {
		Base `tlog:",embed"`

		Test Node

		Body []Node
		Else []Node `tlog:",omitempty"`
	}

	Return struct {
		Base `tlog:",embed"`

		Value Node `tlog:",omitempty"`
	}

	Pass struct {
		Base `tlog:",embed"`
	}

	ExprStmt struct {
		Base `tlog:",embed"`

		Value Node
	}

	Name struct {
		Base `tlog:",embed"`

		ID string
	}

	// Constant is a literal. Value is int64, float64, string, bool or nil (None).
	Constant struct {
		Base `tlog:",embed"`

		Value any
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op    string
		Left  Node
		Right Node
	}

	UnaryOp struct {
		Base `tlog:",embed"`

		Op      string
		Operand Node
	}

	Compare struct {
		Base `tlog:",embed"`

		Op    string
		Left  Node
		Right Node
	}

	Call struct {
		Base `tlog:",embed"`

		Func     Node
		Args     []Node
		Keywords []Keyword `tlog:",omitempty"`
	}

	Keyword struct {
		Base `tlog:",embed"`

		Name  string
		Value Node
	}

	Tuple struct {
		Base `tlog:",embed"`

		Elts []Node
	}
)

const (
	KindModule Kind = iota
	KindFunctionDef
	KindAssign
	KindFor
	KindIf
	KindWhile
	KindReturn
	KindPass
	KindExprStmt
	KindName
	KindConstant
	KindBinOp
	KindUnaryOp
	KindCompare
	KindCall
	KindTuple
)

var kindNames = []string{
	KindModule:      "Module",
	KindFunctionDef: "FunctionDef",
	KindAssign:      "Assign",
	KindFor:         "For",
	KindIf:          "If",
	KindWhile:       "While",
	KindReturn:      "Return",
	KindPass:        "Pass",
	KindExprStmt:    "Expr",
	KindName:        "Name",
	KindConstant:    "Constant",
	KindBinOp:       "BinOp",
	KindUnaryOp:     "UnaryOp",
	KindCompare:     "Compare",
	KindCall:        "Call",
	KindTuple:       "Tuple",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

func (b Base) Span() Base { return b }

func (*Module) Kind() Kind      { return KindModule }
func (*FunctionDef) Kind() Kind { return KindFunctionDef }
func (*Assign) Kind() Kind      { return KindAssign }
func (*For) Kind() Kind         { return KindFor }
func (*If) Kind() Kind          { return KindIf }
func (*While) Kind() Kind       { return KindWhile }
func (*Return) Kind() Kind      { return KindReturn }
func (*Pass) Kind() Kind        { return KindPass }
func (*ExprStmt) Kind() Kind    { return KindExprStmt }
func (*Name) Kind() Kind        { return KindName }
func (*Constant) Kind() Kind    { return KindConstant }
func (*BinOp) Kind() Kind       { return KindBinOp }
func (*UnaryOp) Kind() Kind     { return KindUnaryOp }
func (*Compare) Kind() Kind     { return KindCompare }
func (*Call) Kind() Kind        { return KindCall }
func (*Tuple) Kind() Kind       { return KindTuple }

// Position converts a byte offset into 1-based line and column.
func (m *Module) Position(pos int) (line, col int) {
	if len(m.Lines) == 0 {
		return 1, pos + 1
	}

	i := sort.Search(len(m.Lines), func(i int) bool { return m.Lines[i] > pos }) - 1
	if i < 0 {
		i = 0
	}

	return i + 1, pos - m.Lines[i] + 1
}

// Where formats a position as name:line:col.
func (m *Module) Where(pos int) string {
	line, col := m.Position(pos)

	return m.Name + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(col)
}
