package ir

import (
	"sort"
	"strconv"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"

	"github.com/slowlang/tinypy/compiler/attr"
	"github.com/slowlang/tinypy/compiler/dialect"
)

type (
	Kind int

	Prop struct {
		Name string
		Attr attr.Attr
	}

	// Region is a single block: an ordered sequence of child operations.
	Region []*Op

	// Op is one node of the tree. It is never modified after construction.
	Op struct {
		kind    Kind
		props   []Prop
		regions []Region
	}

	Option func(*options)

	options struct {
		trusted bool
	}
)

const (
	Module Kind = iota
	Function
	Assign
	Loop
	Var
	BinaryOperation
	Constant
	Return
	CallExpr

	numKinds
)

// Property names.
const (
	FnName    = "fn_name"
	ReturnVar = "return_var"
	Args      = "args"
	VarName   = "var_name"
	Variable  = "variable"
	OpCode    = "op"
	Value     = "value"
	Func      = "func"
	Type      = "type"
	Builtin   = "builtin"
)

var kindNames = [...]string{
	Module:          "module",
	Function:        "function",
	Assign:          "assign",
	Loop:            "loop",
	Var:             "var",
	BinaryOperation: "binaryoperation",
	Constant:        "constant",
	Return:          "return",
	CallExpr:        "call_expr",
}

// Trusted skips self verification of the op being built.
// It is meant for embedding subtrees that were already verified.
// Deep Verify still checks it.
func Trusted() Option {
	return func(o *options) {
		o.trusted = true
	}
}

// New builds an op of the given kind. Properties and regions are copied.
func New(kind Kind, props []Prop, regions []Region, opts ...Option) (_ *Op, err error) {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	op := &Op{
		kind:    kind,
		props:   cloneProps(props),
		regions: make([]Region, len(regions)),
	}

	for i, r := range regions {
		op.regions[i] = append(Region{}, r...)
	}

	if kind.Valid() {
		op.sortProps()
	}

	if o.trusted {
		return op, nil
	}

	err = op.Verify()
	if err != nil {
		tlog.V("schema").Printw("schema violation", "kind", kind, "err", err, "from", loc.Callers(1, 3))

		return nil, err
	}

	return op, nil
}

func (op *Op) Kind() Kind { return op.kind }

// Name is the qualified op name, like tiny_py.loop.
func (op *Op) Name() string { return op.kind.Name() }

func (op *Op) Prop(name string) (attr.Attr, bool) {
	for _, p := range op.props {
		if p.Name == name {
			return attr.Clone(p.Attr), true
		}
	}

	return nil, false
}

// Str returns a string property value or "".
func (op *Op) Str(name string) string {
	a, _ := op.Prop(name)
	s, _ := a.(attr.String)

	return string(s)
}

func (op *Op) Props() []Prop {
	return cloneProps(op.props)
}

func cloneProps(props []Prop) []Prop {
	r := make([]Prop, len(props))

	for i, p := range props {
		r[i] = Prop{Name: p.Name, Attr: attr.Clone(p.Attr)}
	}

	return r
}

func (op *Op) NumRegions() int { return len(op.regions) }

func (op *Op) Region(i int) Region {
	return append(Region{}, op.regions[i]...)
}

// Walk calls f for op and all its descendants in pre-order.
func (op *Op) Walk(f func(op *Op, depth int) bool) {
	op.walk(f, 0)
}

func (op *Op) walk(f func(*Op, int) bool, d int) {
	if op == nil || !f(op, d) {
		return
	}

	for _, r := range op.regions {
		for _, c := range r {
			c.walk(f, d+1)
		}
	}
}

func (op *Op) sortProps() {
	s := schemas[op.kind]

	idx := func(name string) int {
		for i, p := range s.Props {
			if p.Name == name {
				return i
			}
		}

		return len(s.Props)
	}

	sort.SliceStable(op.props, func(i, j int) bool {
		return idx(op.props[i].Name) < idx(op.props[j].Name)
	})
}

func (op *Op) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	n := 0
	for _, r := range op.regions {
		n += len(r)
	}

	b = e.AppendMap(b, 3)
	b = e.AppendKeyString(b, "op", op.Name())
	b = e.AppendKeyInt(b, "props", len(op.props))
	b = e.AppendKeyInt(b, "children", n)

	return b
}

func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindNames[k]
}

func (k Kind) Name() string {
	return dialect.TinyPy.Qualify(k.String())
}

func (k Kind) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, k.String())
}
