package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/godfearingman/ape/pkg/ast"
	"github.com/godfearingman/ape/pkg/driver"
	"github.com/godfearingman/ape/pkg/lexer"
	"github.com/godfearingman/ape/pkg/parser"
)

func newRunCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Evaluate a script file and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.runFile(args[0])
		},
	}
}

func (c *cli) runFile(path string) error {
	val, src, err := driver.RunFile(path)
	if err != nil {
		return c.diagnose(err, path, src)
	}
	fmt.Fprintln(c.stdout, c.format(val))
	return nil
}

func newEvalCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPR...",
		Short: "Evaluate source given on the command line",
		Long:  "Arguments are joined with spaces and evaluated as one program.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src := strings.Join(args, " ")
			val, err := driver.Run(src)
			if err != nil {
				return c.diagnose(err, "", src)
			}
			fmt.Fprintln(c.stdout, c.format(val))
			return nil
		},
	}
}

func newTokensCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a script, one token per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return c.fail(err)
			}
			tokens, err := lexer.Tokenize(src)
			if err != nil {
				return c.diagnose(err, args[0], src)
			}
			for _, tok := range tokens {
				fmt.Fprintf(c.stdout, "%d:%d\t%s\n", tok.Line+1, tok.Column, tok)
			}
			return nil
		},
	}
}

func newASTCommand(c *cli) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast FILE",
		Short: "Print the parsed trees of a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return c.fail(err)
			}
			tokens, err := lexer.Tokenize(src)
			if err != nil {
				return c.diagnose(err, args[0], src)
			}
			exprs, err := parser.Parse(tokens)
			if err != nil {
				return c.diagnose(err, args[0], src)
			}
			out, err := dumpAST(exprs, format)
			if err != nil {
				return c.fail(err)
			}
			fmt.Fprintln(c.stdout, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "sexpr", "output format: sexpr, json or yaml")
	return cmd
}

func dumpAST(exprs []ast.Expr, format string) (string, error) {
	switch format {
	case "sexpr":
		return ast.Program(exprs), nil
	case "json":
		data, err := json.MarshalIndent(exprs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(exprs)
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected sexpr, json or yaml)", format)
	}
}

func newVersionCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(c.stdout, cliToolVersion)
			return nil
		},
	}
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// diagnose prints err as a source snippet and returns an exitError.
func (c *cli) diagnose(err error, name, src string) error {
	if src == "" && name != "" {
		return c.fail(err)
	}
	fmt.Fprint(c.stderr, strings.TrimRight(driver.FormatError(err, name, src), "\n")+"\n")
	return &exitError{code: 1}
}
