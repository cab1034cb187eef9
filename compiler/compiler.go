package compiler

import (
	"context"
	"fmt"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tinypy/compiler/ast"
	"github.com/slowlang/tinypy/compiler/format"
	"github.com/slowlang/tinypy/compiler/front"
	"github.com/slowlang/tinypy/compiler/ir"
	"github.com/slowlang/tinypy/compiler/parse"
)

type (
	OutputWriteError struct {
		Sink string
		Err  error
	}
)

// OutputFile is where Emit puts the file copy of the output.
const OutputFile = "output.mlir"

var ErrOutputWriteFailure = errors.New("output write failure")

func CompileFile(ctx context.Context, name string) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

// Compile lowers the single function in text and returns its printed form
// terminated by a newline.
func Compile(ctx context.Context, name string, text []byte) (obj []byte, err error) {
	op, err := Build(ctx, name, text)
	if err != nil {
		return nil, err
	}

	obj, err = format.Format(ctx, nil, op)
	if err != nil {
		return nil, errors.Wrap(err, "format")
	}

	obj = append(obj, '\n')

	return obj, nil
}

// Build parses, lowers and verifies text without printing it.
func Build(ctx context.Context, name string, text []byte) (op *ir.Op, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	m, err := parse.Parse(ctx, name, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	err = checkEntry(m)
	if err != nil {
		return nil, err
	}

	op, err = front.Lower(ctx, m)
	if err != nil {
		return nil, errors.Wrap(err, "lower")
	}

	err = ir.Verify(op)
	if err != nil {
		return nil, errors.Wrap(err, "verify")
	}

	return op, nil
}

// checkEntry requires exactly one top-level function definition and nothing else.
func checkEntry(m *ast.Module) error {
	var funcs int

	for _, x := range m.Body {
		if _, ok := x.(*ast.FunctionDef); !ok {
			return front.NewUnsupportedConstruct(x.Kind().String(), m.Where(x.Span().Pos), "top level statement outside of the function")
		}

		funcs++
	}

	if funcs != 1 {
		return front.NewUnsupportedConstruct("Module", m.Name, fmt.Sprintf("expected exactly one function definition, got %d", funcs))
	}

	return nil
}

// Emit writes obj to w and then to the file at path.
// The file is created or truncated and always closed before returning.
func Emit(ctx context.Context, obj []byte, w io.Writer, path string) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "emit", "path", path, "size", len(obj))
	defer tr.Finish("err", &err)

	_, err = w.Write(obj)
	if err != nil {
		return NewOutputWriteError("stream", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return NewOutputWriteError(path, err)
	}

	defer func() {
		e := f.Close()
		if err == nil && e != nil {
			err = NewOutputWriteError(path, e)
		}
	}()

	_, err = f.Write(obj)
	if err != nil {
		return NewOutputWriteError(path, err)
	}

	return nil
}

func NewOutputWriteError(sink string, err error) OutputWriteError {
	return OutputWriteError{
		Sink: sink,
		Err:  err,
	}
}

func (e OutputWriteError) Error() string {
	return fmt.Sprintf("output write failure: %v: %v", e.Sink, e.Err)
}

func (e OutputWriteError) Is(target error) bool {
	return target == ErrOutputWriteFailure
}

func (e OutputWriteError) Unwrap() error { return e.Err }
