package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"djinn/compiler-go/pkg/ast"
	"djinn/compiler-go/pkg/render"
	"djinn/compiler-go/pkg/translator"
)

const (
	historyFile = ".djinnc_history"
	promptMain  = "djinn> "
	promptCont  = "...... "
	replBanner  = "djinnc repl: enter parse tree JSON (a node, an array of nodes or a Program). :help lists commands."
)

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

func (c *cli) runRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
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

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer func() {
		signal.Stop(sigc)
		close(done)
	}()
	go func() {
		select {
		case <-sigc:
			ln.Close()
			os.Exit(130)
		case <-done:
		}
	}()

	t := translator.New(translator.Options{Namespace: s.namespace, Catalog: s.catalog})
	fmt.Fprintln(c.stdout, replBanner)
	return c.repl(ln, t.NewSession(), ln.AppendHistory)
}

// repl reads entries until EOF or :quit. Each entry is translated against everything
// accepted before it; rejected entries leave the session untouched.
func (c *cli) repl(in lineReader, session *translator.Session, remember func(string)) int {
	for {
		entry, ok := readEntry(in, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(c.stdout)
			return 0
		}
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return 0
			case ":reset":
				session.Reset()
				fmt.Fprintln(c.stdout, "session cleared")
			case ":history":
				fmt.Fprintf(c.stdout, "%d statement(s) accepted\n", len(session.History()))
			case ":help":
				fmt.Fprintln(c.stdout, ":reset    forget every accepted statement")
				fmt.Fprintln(c.stdout, ":history  count accepted statements")
				fmt.Fprintln(c.stdout, ":quit     leave the prompt")
			default:
				fmt.Fprintln(c.stdout, "unknown command. Type :help for the list.")
			}
			continue
		}

		stmts, err := ast.DecodeStatements([]byte(entry))
		if err != nil {
			c.report(translator.FromDecodeError(err))
			continue
		}
		program, err := session.Submit(stmts...)
		if err != nil {
			c.report(err)
			continue
		}
		out, err := render.Render(program)
		if err != nil {
			c.report(err)
			continue
		}
		if _, err := c.stdout.Write(out); err != nil {
			c.report(fmt.Errorf("write output: %w", err))
			return 1
		}
		if remember != nil {
			remember(strings.Join(strings.Fields(entry), " "))
		}
	}
}

func (c *cli) report(err error) {
	var terr *translator.Error
	if errors.As(err, &terr) {
		fmt.Fprintf(c.stderr, "%s: %v\n", terr.Kind, terr)
		return
	}
	fmt.Fprintln(c.stderr, err)
}

// readEntry keeps prompting while the buffered JSON is merely unfinished.
func readEntry(in lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := in.Prompt(p)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			// liner.ErrPromptAborted: drop the partial entry.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incompleteJSON(src) {
			return src, true
		}
	}
}

func incompleteJSON(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	var v any
	err := json.NewDecoder(bytes.NewReader([]byte(src))).Decode(&v)
	return errors.Is(err, io.ErrUnexpectedEOF)
}
