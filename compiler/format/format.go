package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/tinypy/compiler/ir"
)

// Format appends op in MLIR generic form. No trailing newline is added.
func Format(ctx context.Context, b []byte, op *ir.Op) ([]byte, error) {
	return format(ctx, b, op, 0)
}

func format(ctx context.Context, b []byte, op *ir.Op, d int) (_ []byte, err error) {
	if op == nil {
		return nil, errors.New("nil op")
	}

	b = app(b, d, "\"%s\"()", op.Name())

	if props := op.Props(); len(props) != 0 {
		b = append(b, " <{"...)

		for i, p := range props {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, "%s = ", p.Name)
			b = p.Attr.AppendText(b)
		}

		b = append(b, "}>"...)
	}

	if n := op.NumRegions(); n != 0 {
		b = append(b, " ("...)

		for r := 0; r < n; r++ {
			if r != 0 {
				b = append(b, ", "...)
			}

			b = append(b, "{\n"...)

			for j, x := range op.Region(r) {
				b, err = format(ctx, b, x, d+1)
				if err != nil {
					return nil, errors.Wrap(err, "%v region %d[%d]", op.Name(), r, j)
				}

				b = append(b, '\n')
			}

			b = app(b, d, "}")
		}

		b = append(b, ')')
	}

	b = append(b, " : () -> ()"...)

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	const spaces = "                                "

	for d*2 > len(spaces) {
		b = append(b, spaces...)
		d -= len(spaces) / 2
	}

	b = append(b, spaces[:d*2]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
