package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/tinypy/compiler"
	"github.com/slowlang/tinypy/compiler/parse"
)

func main() {
	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "dump the source tree of FILE",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile the function in FILE to stdout and " + compiler.OutputFile,
		Action:      compileAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "tinypy",
		Description: "tinypy lowers a python function into the tiny_py dialect",
		Commands: []*cli.Command{
			parseCmd,
			compileCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	name, err := fileArg(c)
	if err != nil {
		return err
	}

	m, err := parse.ParseFile(ctx, name)
	if err != nil {
		return errors.Wrap(err, "parse %v", name)
	}

	for _, x := range m.Body {
		fmt.Printf("%v: %v %+v\n", m.Where(x.Span().Pos), x.Kind(), x)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	name, err := fileArg(c)
	if err != nil {
		return err
	}

	obj, err := compiler.CompileFile(ctx, name)
	if err != nil {
		return errors.Wrap(err, "compile %v", name)
	}

	err = compiler.Emit(ctx, obj, os.Stdout, compiler.OutputFile)
	if err != nil {
		return errors.Wrap(err, "emit")
	}

	return nil
}

func fileArg(c *cli.Command) (string, error) {
	if len(c.Args) != 1 {
		return "", errors.New("expected exactly one file argument, got %d", len(c.Args))
	}

	return c.Args[0], nil
}
