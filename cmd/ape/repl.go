package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/godfearingman/ape/pkg/driver"
	"github.com/godfearingman/ape/pkg/interpreter"
	"github.com/godfearingman/ape/pkg/lexer"
	"github.com/godfearingman/ape/pkg/parser"
)

const replHelp = `Enter a program to evaluate it. Input continues on the next line while
a parenthesis or brace is open or the line ends with an operator.

  :vars    list global variables
  :funcs   list defined functions
  :help    show this help
  :quit    leave the REPL (also Ctrl+D)
`

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.startRepl()
		},
	}
}

func (c *cli) startRepl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	history := c.cfg.HistoryFile
	if history != "" {
		if f, err := os.Open(history); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				log.Warnf("repl: read history %s: %v", history, err)
			}
			_ = f.Close()
		}
	}

	fmt.Fprintf(c.stdout, "%s (:help for help)\n", cliToolVersion)
	c.repl(ln, interpreter.New())

	if history != "" {
		f, err := os.Create(history)
		if err != nil {
			log.Warnf("repl: write history %s: %v", history, err)
			return nil
		}
		defer f.Close()
		if _, err := ln.WriteHistory(f); err != nil {
			log.Warnf("repl: write history %s: %v", history, err)
		}
	}
	return nil
}

// repl evaluates inputs on one interpreter until EOF or :quit. Errors are
// reported and the session continues with its state intact.
func (c *cli) repl(in lineReader, interp *interpreter.Interpreter) {
	for {
		src, ok := c.readInput(in)
		if !ok {
			fmt.Fprintln(c.stdout)
			return
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		in.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if quit := c.replCommand(trimmed, interp); quit {
				return
			}
			continue
		}

		val, err := interp.EvaluateSource(src)
		if err != nil {
			fmt.Fprint(c.stderr, strings.TrimRight(driver.FormatError(err, "", src), "\n")+"\n")
			continue
		}
		fmt.Fprintln(c.stdout, c.format(val))
	}
}

// readInput collects lines until the buffer forms a complete program. Ctrl+C
// discards the pending buffer.
func (c *cli) readInput(in lineReader) (string, bool) {
	var b strings.Builder
	for {
		prompt := c.cfg.Prompt
		if b.Len() > 0 {
			prompt = c.cfg.ContinuationPrompt
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			log.Errf("repl: %v", err)
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if src := b.String(); strings.HasPrefix(strings.TrimSpace(src), ":") || inputComplete(src) {
			return src, true
		}
	}
}

// inputComplete reports whether src can be evaluated as is. Input is
// incomplete only when the parser ran out of tokens inside an open group,
// an open block or after a dangling operator. Other errors count as
// complete so they get reported.
func inputComplete(src string) bool {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return true
	}
	_, err = parser.Parse(tokens)
	var parseErr *parser.Error
	if !errors.As(err, &parseErr) || parseErr.Cursor < len(tokens) {
		return true
	}
	return !errors.Is(err, parser.ErrMissingParen) &&
		!errors.Is(err, parser.ErrMissingBrace) &&
		!errors.Is(err, parser.ErrEmptyInput)
}

func (c *cli) replCommand(line string, interp *interpreter.Interpreter) (quit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprint(c.stdout, replHelp)
	case ":vars":
		vars := interp.Variables()
		if len(vars) == 0 {
			fmt.Fprintln(c.stdout, "no variables")
		}
		for _, v := range vars {
			fmt.Fprintf(c.stdout, "%s = %s\n", v.Name, c.format(v.Value))
		}
	case ":funcs":
		fns := interp.Functions()
		if len(fns) == 0 {
			fmt.Fprintln(c.stdout, "no functions")
		}
		for _, fn := range fns {
			fmt.Fprintln(c.stdout, fn.Signature())
		}
	default:
		fmt.Fprintf(c.stdout, "unknown command %s, type :help for help\n", fields[0])
	}
	return false
}
