package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	for _, tc := range []struct {
		v     any
		width int
		exp   Attr
	}{
		{v: 1, exp: Int{Value: 1, Width: 32}},
		{v: int64(-7), width: 64, exp: Int{Value: -7, Width: 64}},
		{v: 1.5, exp: Float{Value: 1.5, Width: 32}},
		{v: float32(2), width: 64, exp: Float{Value: 2, Width: 64}},
		{v: "abc", exp: String("abc")},
		{v: "", width: 8, exp: String("")},
		{v: int8(-2), exp: Int{Value: -2, Width: 32}},
		{v: int16(300), exp: Int{Value: 300, Width: 32}},
		{v: uint8(255), width: 8, exp: Int{Value: 255, Width: 8}},
		{v: uint16(7), exp: Int{Value: 7, Width: 32}},
		{v: uint32(1 << 31), exp: Int{Value: 1 << 31, Width: 32}},
		{v: uint(9), exp: Int{Value: 9, Width: 32}},
		{v: uint64(10), width: 64, exp: Int{Value: 10, Width: 64}},
	} {
		a, err := Literal(tc.v, tc.width)
		require.NoError(t, err, "%v", tc.v)
		assert.Equal(t, tc.exp, a)
		assert.True(t, Equal(tc.exp, a))
	}
}

func TestLiteralUnsupported(t *testing.T) {
	for _, v := range []any{true, false, nil, []int{1}, struct{}{}, complex(1, 2)} {
		_, err := Literal(v, 32)
		assert.ErrorIs(t, err, ErrUnsupportedLiteralKind, "%v", v)
	}

	_, err := Literal(nil, 32)
	assert.EqualError(t, err, "unsupported literal kind: None")

	_, err = Literal(true, 32)
	assert.EqualError(t, err, "unsupported literal kind: bool")

	_, err = Literal(uint64(1<<63), 64)
	assert.ErrorContains(t, err, "overflows int64")
	assert.NotErrorIs(t, err, ErrUnsupportedLiteralKind)
}

func TestClone(t *testing.T) {
	inner := Array{NewInt(1)}
	a := Array{String("a"), inner}

	c := Clone(a)
	require.True(t, Equal(a, c))

	a[0] = nil
	inner[0] = NewInt(2)

	assert.Equal(t, Array{String("a"), Array{NewInt(1)}}, c)

	assert.Equal(t, NewInt(5), Clone(NewInt(5)))
	assert.Nil(t, Clone(nil))
}

func TestText(t *testing.T) {
	for _, tc := range []struct {
		a   Attr
		exp string
	}{
		{NewInt(1), "1 : i32"},
		{Int{Value: -3, Width: 64}, "-3 : i64"},
		{NewFloat(1.5), "1.500000e+00 : f32"},
		{Float{Value: 0.001, Width: 64}, "1.000000e-03 : f64"},
		{String("x"), `"x"`},
		{String("a\"b\\c\nd\x01é"), `"a\"b\\c\nd\01\C3\A9"`},
		{Bool(true), `#tiny_py.bool<"True">`},
		{Bool(false), `#tiny_py.bool<"False">`},
		{Empty{}, "!tiny_py.empty"},
		{Array{}, "[]"},
		{Array{NewInt(1), String("s"), Array{Empty{}}}, `[1 : i32, "s", [!tiny_py.empty]]`},
	} {
		assert.Equal(t, tc.exp, tc.a.String())
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(NewInt(3), Int{Value: 3, Width: 32}))
	assert.False(t, Equal(NewInt(3), Int{Value: 3, Width: 64}))
	assert.False(t, Equal(NewInt(1), NewFloat(1)))
	assert.False(t, Equal(Bool(true), NewInt(1)))
	assert.True(t, Equal(Array{String("a"), Empty{}}, Array{String("a"), Empty{}}))
	assert.False(t, Equal(Array{String("a")}, Array{String("b")}))
	assert.False(t, Equal(Array{}, Empty{}))
	assert.False(t, Equal(Empty{}, Array{}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Empty{}))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, NewInt(1<<31-1).Check())
	assert.NoError(t, NewInt(1<<32-1).Check())
	assert.NoError(t, NewInt(-1<<31).Check())
	assert.Error(t, NewInt(1<<32).Check())
	assert.Error(t, NewInt(-1<<31-1).Check())
	assert.NoError(t, Int{Value: -1 << 63, Width: 64}.Check())
	assert.NoError(t, Int{Value: 1, Width: 1}.Check())
	assert.Error(t, Int{Value: 2, Width: 1}.Check())
	assert.Error(t, Int{Value: 0, Width: 0}.Check())
	assert.Error(t, Int{Value: 0, Width: 65}.Check())

	assert.NoError(t, NewFloat(1).Check())
	assert.NoError(t, Float{Width: 16}.Check())
	assert.NoError(t, Float{Width: 64}.Check())
	assert.Error(t, Float{Width: 8}.Check())

	assert.Equal(t, "int", KindOf(NewInt(1)))
	assert.Equal(t, "empty", KindOf(Empty{}))
	assert.Equal(t, "nil", KindOf(nil))
}
