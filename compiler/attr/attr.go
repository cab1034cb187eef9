package attr

import (
	"fmt"
	"math"
	"strconv"

	"github.com/slowlang/tinypy/compiler/dialect"
	"tlog.app/go/errors"
)

type (
	// Attr is an immutable value attached to an operation property.
	Attr interface {
		AppendText(b []byte) []byte
		String() string

		attr()
	}

	Int struct {
		Value int64
		Width int
	}

	Float struct {
		Value float64
		Width int
	}

	String string

	Bool bool

	Array []Attr

	// Empty marks a slot that is structurally required but semantically absent.
	Empty struct{}

	UnsupportedLiteralKindError struct {
		Value any
	}
)

const DefaultWidth = 32

var ErrUnsupportedLiteralKind = errors.New("unsupported literal kind")

func NewInt(v int64) Int { return Int{Value: v, Width: DefaultWidth} }

func NewFloat(v float64) Float { return Float{Value: v, Width: DefaultWidth} }

// Literal wraps a raw Go integer, float or string value.
// Any other kind fails with ErrUnsupportedLiteralKind.
func Literal(v any, width int) (Attr, error) {
	if width == 0 {
		width = DefaultWidth
	}

	switch v := v.(type) {
	case int:
		return Int{Value: int64(v), Width: width}, nil
	case int8:
		return Int{Value: int64(v), Width: width}, nil
	case int16:
		return Int{Value: int64(v), Width: width}, nil
	case int32:
		return Int{Value: int64(v), Width: width}, nil
	case int64:
		return Int{Value: v, Width: width}, nil
	case uint8:
		return Int{Value: int64(v), Width: width}, nil
	case uint16:
		return Int{Value: int64(v), Width: width}, nil
	case uint32:
		return Int{Value: int64(v), Width: width}, nil
	case uint:
		return unsigned(uint64(v), width)
	case uint64:
		return unsigned(v, width)
	case float32:
		return Float{Value: float64(v), Width: width}, nil
	case float64:
		return Float{Value: v, Width: width}, nil
	case string:
		return String(v), nil
	default:
		return nil, NewUnsupportedLiteralKind(v)
	}
}

func unsigned(v uint64, width int) (Attr, error) {
	if v > math.MaxInt64 {
		return nil, errors.New("integer %d overflows int64", v)
	}

	return Int{Value: int64(v), Width: width}, nil
}

// Clone returns a copy of a that shares no memory with it.
func Clone(a Attr) Attr {
	arr, ok := a.(Array)
	if !ok {
		return a
	}

	if arr == nil {
		return Array(nil)
	}

	r := make(Array, len(arr))

	for i, x := range arr {
		r[i] = Clone(x)
	}

	return r
}

// Check validates the width of numeric attributes.
func (x Int) Check() error {
	if x.Width < 1 || x.Width > 64 {
		return errors.New("integer width %d out of range [1, 64]", x.Width)
	}

	if x.Width == 64 {
		return nil
	}

	// signless: both the signed and the unsigned range are accepted
	lo := -int64(1) << (x.Width - 1)
	hi := int64(1)<<x.Width - 1

	if x.Value < lo || x.Value > hi {
		return errors.New("value %d does not fit i%d", x.Value, x.Width)
	}

	return nil
}

func (x Float) Check() error {
	switch x.Width {
	case 16, 32, 64:
		return nil
	}

	return errors.New("float width %d is not one of 16, 32, 64", x.Width)
}

func (x Int) AppendText(b []byte) []byte {
	b = strconv.AppendInt(b, x.Value, 10)
	b = append(b, " : i"...)
	return strconv.AppendInt(b, int64(x.Width), 10)
}

func (x Float) AppendText(b []byte) []byte {
	b = strconv.AppendFloat(b, x.Value, 'e', 6, 64)
	b = append(b, " : f"...)
	return strconv.AppendInt(b, int64(x.Width), 10)
}

func (x String) AppendText(b []byte) []byte {
	return appendQuoted(b, string(x))
}

func (x Bool) AppendText(b []byte) []byte {
	b = append(b, '#')
	b = append(b, dialect.TinyPy.Qualify("bool")...)

	if x {
		return append(b, `<"True">`...)
	}

	return append(b, `<"False">`...)
}

func (x Array) AppendText(b []byte) []byte {
	b = append(b, '[')

	for i, a := range x {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = a.AppendText(b)
	}

	return append(b, ']')
}

func (Empty) AppendText(b []byte) []byte {
	b = append(b, '!')
	return append(b, dialect.TinyPy.Qualify("empty")...)
}

func (x Int) String() string    { return string(x.AppendText(nil)) }
func (x Float) String() string  { return string(x.AppendText(nil)) }
func (x String) String() string { return string(x.AppendText(nil)) }
func (x Bool) String() string   { return string(x.AppendText(nil)) }
func (x Array) String() string  { return string(x.AppendText(nil)) }
func (x Empty) String() string  { return string(x.AppendText(nil)) }

func (Int) attr()    {}
func (Float) attr()  {}
func (String) attr() {}
func (Bool) attr()   {}
func (Array) attr()  {}
func (Empty) attr()  {}

// Equal compares attributes by value.
func Equal(a, b Attr) bool {
	switch a := a.(type) {
	case Array:
		b, ok := b.(Array)
		if !ok || len(a) != len(b) {
			return false
		}

		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}

		return true
	case nil:
		return b == nil
	default:
		if _, ok := b.(Array); ok {
			return false
		}

		return a == b
	}
}

// KindOf names the attribute type for diagnostics.
func KindOf(a Attr) string {
	switch a.(type) {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Empty:
		return "empty"
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}

func NewUnsupportedLiteralKind(v any) UnsupportedLiteralKindError {
	return UnsupportedLiteralKindError{Value: v}
}

func (e UnsupportedLiteralKindError) Error() string {
	if e.Value == nil {
		return "unsupported literal kind: None"
	}

	return "unsupported literal kind: " + kindName(e.Value)
}

func (e UnsupportedLiteralKindError) Is(target error) bool {
	return target == ErrUnsupportedLiteralKind
}

func kindName(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func appendQuoted(b []byte, s string) []byte {
	const hex = "0123456789ABCDEF"

	b = append(b, '"')

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '"' || c == '\\':
			b = append(b, '\\', c)
		case c == '\n':
			b = append(b, `\n`...)
		case c == '\t':
			b = append(b, `\t`...)
		case c < 0x20 || c >= 0x7f:
			b = append(b, '\\', hex[c>>4], hex[c&0xf])
		default:
			b = append(b, c)
		}
	}

	return append(b, '"')
}
