package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/slowlang/tinypy/compiler/attr"
	"github.com/slowlang/tinypy/compiler/ir"
)

var allKinds = []ir.Kind{
	ir.Module,
	ir.Function,
	ir.Assign,
	ir.Loop,
	ir.Var,
	ir.BinaryOperation,
	ir.Constant,
	ir.Return,
	ir.CallExpr,
}

func leaf() *ir.Op {
	op, err := ir.NewVar("x")
	if err != nil {
		panic(err)
	}

	return op
}

// valid returns properties and regions that satisfy the schema of k.
func valid(k ir.Kind) ([]ir.Prop, []ir.Region) {
	switch k {
	case ir.Module:
		return nil, []ir.Region{{}}
	case ir.Function:
		return []ir.Prop{
			{Name: ir.FnName, Attr: attr.String("f")},
			{Name: ir.ReturnVar, Attr: attr.Empty{}},
			{Name: ir.Args, Attr: attr.Array{}},
		}, []ir.Region{{leaf()}}
	case ir.Assign:
		return []ir.Prop{{Name: ir.VarName, Attr: attr.String("x")}}, []ir.Region{{leaf()}}
	case ir.Loop:
		return []ir.Prop{{Name: ir.Variable, Attr: attr.String("i")}}, []ir.Region{{leaf()}, {leaf()}, {}}
	case ir.Var:
		return []ir.Prop{{Name: ir.Variable, Attr: attr.String("x")}}, nil
	case ir.BinaryOperation:
		return []ir.Prop{{Name: ir.OpCode, Attr: attr.String("add")}}, []ir.Region{{leaf()}, {leaf()}}
	case ir.Constant:
		return []ir.Prop{{Name: ir.Value, Attr: attr.NewInt(1)}}, nil
	case ir.Return:
		return nil, nil
	case ir.CallExpr:
		return []ir.Prop{
			{Name: ir.Func, Attr: attr.String("print")},
			{Name: ir.Type, Attr: attr.Empty{}},
			{Name: ir.Builtin, Attr: attr.Bool(true)},
		}, []ir.Region{{leaf(), leaf()}}
	}

	Fail("no fixture for " + k.String())

	return nil, nil
}

var _ = Describe("Schema", func() {
	It("accepts every kind built to schema", func() {
		for _, k := range allKinds {
			props, regions := valid(k)

			op, err := ir.New(k, props, regions)
			Expect(err).NotTo(HaveOccurred(), k.String())
			Expect(op.Kind()).To(Equal(k))
			Expect(op.NumRegions()).To(Equal(len(regions)))
		}
	})

	It("rejects every missing required property", func() {
		for _, k := range allKinds {
			props, regions := valid(k)

			for i := range props {
				short := append(append([]ir.Prop{}, props[:i]...), props[i+1:]...)

				_, err := ir.New(k, short, regions)
				Expect(err).To(MatchError(ir.ErrSchemaViolation), "%v without %v", k, props[i].Name)
				Expect(err.Error()).To(ContainSubstring("missing property " + props[i].Name))
			}
		}
	})

	It("rejects an extra region on every kind", func() {
		for _, k := range allKinds {
			props, regions := valid(k)
			regions = append(regions, ir.Region{})

			_, err := ir.New(k, props, regions)
			Expect(err).To(MatchError(ir.ErrSchemaViolation), k.String())
		}
	})

	It("rejects a missing region on every kind that has regions", func() {
		for _, k := range allKinds {
			props, regions := valid(k)
			if len(regions) == 0 {
				continue
			}

			_, err := ir.New(k, props, regions[:len(regions)-1])
			Expect(err).To(MatchError(ir.ErrSchemaViolation), k.String())
		}
	})

	It("rejects unknown and duplicated properties", func() {
		props, regions := valid(ir.Var)

		_, err := ir.New(ir.Var, append(props, ir.Prop{Name: "other", Attr: attr.String("y")}), regions)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
		Expect(err.Error()).To(ContainSubstring("unexpected property other"))

		_, err = ir.New(ir.Var, append(props, props[0]), regions)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))

		_, err = ir.New(ir.Return, props, nil)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
	})

	It("rejects an unknown kind", func() {
		_, err := ir.New(ir.Kind(100), nil, nil)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
	})

	DescribeTable("property types",
		func(k ir.Kind, name string, a attr.Attr, ok bool) {
			props, regions := valid(k)

			for i := range props {
				if props[i].Name == name {
					props[i].Attr = a
				}
			}

			_, err := ir.New(k, props, regions)
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(ir.ErrSchemaViolation))
			}
		},
		Entry("fn_name int", ir.Function, ir.FnName, attr.NewInt(1), false),
		Entry("return_var typed", ir.Function, ir.ReturnVar, attr.NewInt(0), true),
		Entry("return_var nil", ir.Function, ir.ReturnVar, nil, false),
		Entry("args not array", ir.Function, ir.Args, attr.String("a"), false),
		Entry("var_name bool", ir.Assign, ir.VarName, attr.Bool(true), false),
		Entry("variable empty", ir.Var, ir.Variable, attr.Empty{}, false),
		Entry("op sub", ir.BinaryOperation, ir.OpCode, attr.String("sub"), true),
		Entry("op mult", ir.BinaryOperation, ir.OpCode, attr.String("mult"), true),
		Entry("op div", ir.BinaryOperation, ir.OpCode, attr.String("div"), true),
		Entry("op mod", ir.BinaryOperation, ir.OpCode, attr.String("mod"), false),
		Entry("op symbol", ir.BinaryOperation, ir.OpCode, attr.String("+"), false),
		Entry("value float", ir.Constant, ir.Value, attr.NewFloat(1.5), true),
		Entry("value string", ir.Constant, ir.Value, attr.String("s"), true),
		Entry("value bool", ir.Constant, ir.Value, attr.Bool(true), false),
		Entry("value empty", ir.Constant, ir.Value, attr.Empty{}, false),
		Entry("value int overflow", ir.Constant, ir.Value, attr.NewInt(1<<40), false),
		Entry("value float width", ir.Constant, ir.Value, attr.Float{Value: 1, Width: 8}, false),
		Entry("builtin int", ir.CallExpr, ir.Builtin, attr.NewInt(1), false),
		Entry("call type int", ir.CallExpr, ir.Type, attr.NewInt(0), true),
	)

	DescribeTable("region arity",
		func(k ir.Kind, regions []ir.Region, ok bool) {
			props, _ := valid(k)

			_, err := ir.New(k, props, regions)
			if ok {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(err).To(MatchError(ir.ErrSchemaViolation))
			}
		},
		Entry("assign without value", ir.Assign, []ir.Region{{}}, false),
		Entry("assign with two values", ir.Assign, []ir.Region{{leaf(), leaf()}}, false),
		Entry("assign nil value", ir.Assign, []ir.Region{{nil}}, false),
		Entry("loop empty from", ir.Loop, []ir.Region{{}, {leaf()}, {}}, false),
		Entry("loop two to", ir.Loop, []ir.Region{{leaf()}, {leaf(), leaf()}, {}}, false),
		Entry("loop long body", ir.Loop, []ir.Region{{leaf()}, {leaf()}, {leaf(), leaf(), leaf()}}, true),
		Entry("binop missing rhs", ir.BinaryOperation, []ir.Region{{leaf()}, {}}, false),
		Entry("binop two lhs", ir.BinaryOperation, []ir.Region{{leaf(), leaf()}, {leaf()}}, false),
		Entry("call without args", ir.CallExpr, []ir.Region{{}}, true),
		Entry("module empty", ir.Module, []ir.Region{{}}, true),
		Entry("function empty body", ir.Function, []ir.Region{{}}, true),
		Entry("var with region", ir.Var, []ir.Region{{leaf()}}, false),
		Entry("return with region", ir.Return, []ir.Region{{}}, false),
	)
})

var _ = Describe("Constructors", func() {
	It("fill placeholders and keep children in order", func() {
		a, b := leaf(), leaf()

		call, err := ir.NewCallExpr("f", []*ir.Op{a, b}, nil, false)
		Expect(err).NotTo(HaveOccurred())

		typ, _ := call.Prop(ir.Type)
		Expect(typ).To(Equal(attr.Attr(attr.Empty{})))

		builtin, _ := call.Prop(ir.Builtin)
		Expect(builtin).To(Equal(attr.Attr(attr.Bool(false))))
		Expect(call.Region(0)).To(Equal(ir.Region{a, b}))

		fn, err := ir.NewFunction("f", nil, nil, []*ir.Op{call})
		Expect(err).NotTo(HaveOccurred())

		ret, _ := fn.Prop(ir.ReturnVar)
		Expect(ret).To(Equal(attr.Attr(attr.Empty{})))

		args, _ := fn.Prop(ir.Args)
		Expect(attr.Equal(args, attr.Array{})).To(BeTrue())

		Expect(fn.Str(ir.FnName)).To(Equal("f"))
		Expect(fn.Name()).To(Equal("tiny_py.function"))
	})

	It("builds loops with three regions", func() {
		from, err := ir.NewConstant(0, 0)
		Expect(err).NotTo(HaveOccurred())

		to, err := ir.NewConstant(10, 0)
		Expect(err).NotTo(HaveOccurred())

		loop, err := ir.NewLoop("i", from, to, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loop.NumRegions()).To(Equal(3))
		Expect(loop.Region(0)).To(Equal(ir.Region{from}))
		Expect(loop.Region(1)).To(Equal(ir.Region{to}))
		Expect(loop.Region(2)).To(BeEmpty())

		_, err = ir.NewLoop("i", nil, to, nil)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
	})

	It("rejects unsupported literal kinds", func() {
		_, err := ir.NewConstant(true, 32)
		Expect(err).To(MatchError(attr.ErrUnsupportedLiteralKind))

		_, err = ir.NewConstant(nil, 32)
		Expect(err).To(MatchError(attr.ErrUnsupportedLiteralKind))
	})

	It("rejects unknown operator codes", func() {
		_, err := ir.NewBinaryOperation("pow", leaf(), leaf())
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
	})

	It("does not share caller slices", func() {
		body := []*ir.Op{leaf()}

		fn, err := ir.NewFunction("f", nil, nil, body)
		Expect(err).NotTo(HaveOccurred())

		body[0] = leaf()
		Expect(fn.Region(0)[0]).NotTo(BeIdenticalTo(body[0]))

		r := fn.Region(0)
		r[0] = nil
		Expect(fn.Region(0)[0]).NotTo(BeNil())
	})

	It("does not share property arrays", func() {
		args := attr.Array{attr.String("a")}

		fn, err := ir.NewFunction("f", nil, args, nil)
		Expect(err).NotTo(HaveOccurred())

		args[0] = nil
		Expect(fn.Verify()).To(Succeed())

		a, ok := fn.Prop(ir.Args)
		Expect(ok).To(BeTrue())
		a.(attr.Array)[0] = attr.NewInt(5)

		for _, p := range fn.Props() {
			if p.Name == ir.Args {
				p.Attr.(attr.Array)[0] = attr.NewInt(6)
			}
		}

		a, _ = fn.Prop(ir.Args)
		Expect(a).To(Equal(attr.Array{attr.String("a")}))
		Expect(fn.Verify()).To(Succeed())
	})

	It("stores properties in schema order", func() {
		op, err := ir.New(ir.CallExpr, []ir.Prop{
			{Name: ir.Builtin, Attr: attr.Bool(false)},
			{Name: ir.Func, Attr: attr.String("g")},
			{Name: ir.Type, Attr: attr.Empty{}},
		}, []ir.Region{{}})
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, p := range op.Props() {
			names = append(names, p.Name)
		}

		Expect(names).To(Equal([]string{ir.Func, ir.Type, ir.Builtin}))
	})
})

var _ = Describe("Deep verification", func() {
	It("accepts a well formed tree", func() {
		x, _ := ir.NewConstant(1, 32)
		as, _ := ir.NewAssign("x", x)
		fn, _ := ir.NewFunction("f", nil, nil, []*ir.Op{as})

		mod, err := ir.NewModule([]*ir.Op{fn})
		Expect(err).NotTo(HaveOccurred())
		Expect(ir.Verify(mod)).To(Succeed())
	})

	It("catches trusted ops that break the schema", func() {
		bad, err := ir.New(ir.Assign, nil, []ir.Region{{}}, ir.Trusted())
		Expect(err).NotTo(HaveOccurred())
		Expect(bad.Verify()).To(MatchError(ir.ErrSchemaViolation))

		fn, err := ir.NewFunction("f", nil, nil, []*ir.Op{bad})
		Expect(err).NotTo(HaveOccurred())

		err = ir.Verify(fn)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
		Expect(err.Error()).To(ContainSubstring("tiny_py.function body[0]"))
	})

	It("rejects shared sub-trees", func() {
		x := leaf()

		bin, err := ir.NewBinaryOperation("add", x, x)
		Expect(err).NotTo(HaveOccurred())

		err = ir.Verify(bin)
		Expect(err).To(MatchError(ir.ErrSchemaViolation))
		Expect(err.Error()).To(ContainSubstring("more than one parent"))
	})

	It("rejects nested modules", func() {
		inner, _ := ir.NewModule(nil)

		outer, err := ir.NewModule([]*ir.Op{inner})
		Expect(err).NotTo(HaveOccurred())

		Expect(ir.Verify(outer)).To(MatchError(ir.ErrSchemaViolation))
		Expect(ir.Verify(inner)).To(Succeed())
	})

	It("walks in pre-order", func() {
		l, _ := ir.NewConstant(1, 0)
		r, _ := ir.NewConstant(2, 0)
		bin, _ := ir.NewBinaryOperation("mult", l, r)
		as, _ := ir.NewAssign("y", bin)

		var kinds []ir.Kind
		var depths []int

		as.Walk(func(op *ir.Op, d int) bool {
			kinds = append(kinds, op.Kind())
			depths = append(depths, d)
			return true
		})

		Expect(kinds).To(Equal([]ir.Kind{ir.Assign, ir.BinaryOperation, ir.Constant, ir.Constant}))
		Expect(depths).To(Equal([]int{0, 1, 2, 2}))
	})
})
