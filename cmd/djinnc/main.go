package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"djinn/compiler-go/pkg/compiler"
	"djinn/compiler-go/pkg/driver"
	"djinn/compiler-go/pkg/runtime"
	"djinn/compiler-go/pkg/translator"
)

const cliToolVersion = "djinnc 0.1.0-dev"

func main() {
	os.Exit(newCLI(os.Stdin, os.Stdout, os.Stderr).run(os.Args[1:]))
}

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		c.printUsage()
		return 1
	}
	switch args[0] {
	case "--help", "-h", "help":
		c.printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return 0
	case "translate":
		return c.runTranslate(args[1:])
	case "check":
		return c.runCheck(args[1:])
	case "repl":
		return c.runRepl(args[1:])
	case "prelude":
		return c.runPrelude(args[1:])
	default:
		return c.runTranslate(args)
	}
}

func (c *cli) fail(err error) int {
	var terr *translator.Error
	if errors.As(err, &terr) {
		fmt.Fprintf(c.stderr, "djinnc: %s error: %v\n", terr.Kind, terr)
		return 1
	}
	fmt.Fprintf(c.stderr, "djinnc: %v\n", err)
	return 1
}

func (c *cli) runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	flags := registerFlags(fs, true)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(c.stderr, "djinnc: translate takes at most one input file")
		return 2
	}
	input := fs.Arg(0)

	s, err := c.loadSettings(flags, input)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	src, err := driver.ReadSource(input, c.stdin)
	if err != nil {
		return c.fail(err)
	}
	comp := compiler.New(s.compilerOptions())
	res, err := comp.Compile(src)
	if err != nil {
		s.logger.Debug("translation failed", "source", src.Name(), "error", err)
		return c.fail(err)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintln(c.stderr, warning)
	}

	if s.outputDir != "" {
		if err := res.Write(s.outputDir); err != nil {
			return c.fail(err)
		}
		s.logger.Info("wrote output", "dir", s.outputDir, "files", len(res.Files))
		return 0
	}
	if _, err := c.stdout.Write(res.Output()); err != nil {
		return c.fail(err)
	}
	return 0
}

func (c *cli) runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	flags := registerFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(c.stderr, "djinnc: check takes at most one input file")
		return 2
	}
	input := fs.Arg(0)

	s, err := c.loadSettings(flags, input)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	src, err := driver.ReadSource(input, c.stdin)
	if err != nil {
		return c.fail(err)
	}
	program, err := src.Program()
	if err != nil {
		return c.fail(err)
	}
	if err := compiler.New(s.compilerOptions()).Check(program); err != nil {
		return c.fail(err)
	}
	fmt.Fprintf(c.stdout, "%s: ok\n", src.Name())
	return 0
}

func (c *cli) runPrelude(args []string) int {
	fs := flag.NewFlagSet("prelude", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	flags := registerFlags(fs, false)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	s, err := c.loadSettings(flags, "")
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()
	if _, err := c.stdout.Write(runtime.Prelude(s.namespace, s.catalog)); err != nil {
		return c.fail(err)
	}
	return 0
}
