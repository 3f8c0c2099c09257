package main

import "fmt"

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  djinnc [flags] <tree.json>")
	fmt.Fprintln(c.stderr, "  djinnc translate [-format=js|estree] [-prelude] [-verify] [-o dir] [tree.json]")
	fmt.Fprintln(c.stderr, "  djinnc check [tree.json]")
	fmt.Fprintln(c.stderr, "  djinnc repl")
	fmt.Fprintln(c.stderr, "  djinnc prelude [-ns NAME] [-catalog builtins.yml]")
	fmt.Fprintln(c.stderr, "  djinnc version")
	fmt.Fprintln(c.stderr, "")
	fmt.Fprintln(c.stderr, "Input is the parse tree as JSON; it is read from stdin when no file (or -) is given.")
	fmt.Fprintln(c.stderr, "Shared flags: -config djinn.yml, -ns NAME, -catalog FILE, -log-level LEVEL, -verify")
}
