package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/godfearingman/ape/pkg/driver"
	"github.com/godfearingman/ape/pkg/runtime"
)

// cli carries the streams and the resolved configuration shared by every
// subcommand.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	precision  int

	cfg *driver.Config
}

// exitError reports a failure that has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCodeOf(err error) (int, bool) {
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code, true
	}
	return 0, false
}

func newRootCommand(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "ape [file]",
		Short: "Evaluate arithmetic programs",
		Long: `ape evaluates programs in a small arithmetic language with variables,
blocks and functions. Every value is a 64-bit float.

Running "ape FILE" is shorthand for "ape run FILE".`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return c.loadConfig(cmd) },
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return c.runFile(args[0])
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: nearest ape.yml, ape.yaml or ape.toml)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, verbose, info, warning, error)")
	flags.IntVar(&c.precision, "precision", runtime.ShortestPrecision, "digits after the decimal point, -1 for shortest")

	root.AddCommand(
		newRunCommand(c),
		newEvalCommand(c),
		newTokensCommand(c),
		newASTCommand(c),
		newReplCommand(c),
		newTestCommand(c),
		newVersionCommand(c),
	)
	return root
}

// loadConfig resolves the config file and lets explicit flags override it.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return c.fail(err)
	}
	cfg, err := driver.ResolveConfig(c.configPath, wd)
	if err != nil {
		return c.fail(err)
	}
	if cmd.Flags().Changed("precision") {
		if err := driver.ValidatePrecision(c.precision); err != nil {
			return c.fail(err)
		}
		cfg.Precision = c.precision
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if err := driver.ApplyLogLevel(cfg.LogLevel); err != nil {
		return c.fail(err)
	}
	c.cfg = cfg
	return nil
}

// fail prints err and returns an exitError so cobra does not print it
// again.
func (c *cli) fail(err error) error {
	fmt.Fprintf(c.stderr, "ape: %v\n", err)
	return &exitError{code: 1}
}

func (c *cli) format(val float64) string {
	return runtime.FormatNumber(val, c.cfg.Precision)
}
