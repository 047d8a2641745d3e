package main

import (
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/godfearingman/ape/pkg/driver"
)

type testOptions struct {
	source driver.SuiteSource
}

func newTestCommand(c *cli) *cobra.Command {
	var opts testOptions
	cmd := &cobra.Command{
		Use:   "test [DIR...]",
		Short: "Run fixture suites",
		Long: `Runs every suite.yml found under the given directories (default: the
current directory). With --git the suites are cloned from a repository
into the cache directory and pinned to --rev, --tag or --branch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTests(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.source.URL, "git", "", "repository holding the suites")
	flags.StringVar(&opts.source.Rev, "rev", "", "commit to check out")
	flags.StringVar(&opts.source.Tag, "tag", "", "tag to check out")
	flags.StringVar(&opts.source.Branch, "branch", "", "branch to check out")
	flags.StringVar(&opts.source.Path, "path", "", "subdirectory of the repository holding the suites")
	return cmd
}

func (c *cli) runTests(cmd *cobra.Command, args []string, opts testOptions) error {
	roots := args
	if opts.source.URL != "" {
		if len(args) > 0 {
			return c.fail(fmt.Errorf("test: directories cannot be combined with --git"))
		}
		checkout, err := driver.FetchSuites(cmd.Context(), c.cfg.CacheDir, opts.source)
		if err != nil {
			return c.fail(err)
		}
		log.Infof("test: suites from %s at %s", opts.source.URL, checkout.Version)
		roots = []string{checkout.Dir}
	} else if opts.source.Rev != "" || opts.source.Tag != "" || opts.source.Branch != "" || opts.source.Path != "" {
		return c.fail(fmt.Errorf("test: --rev, --tag, --branch and --path require --git"))
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var dirs []string
	for _, root := range roots {
		found, err := driver.DiscoverSuites(root)
		if err != nil {
			return c.fail(err)
		}
		dirs = append(dirs, found...)
	}
	if len(dirs) == 0 {
		fmt.Fprintf(c.stdout, "ape test: no suites found under %s\n", strings.Join(roots, ", "))
		return nil
	}

	passed, failed := 0, 0
	for _, dir := range dirs {
		suite, err := driver.LoadSuite(dir)
		if err != nil {
			fmt.Fprintf(c.stderr, "%v\n", err)
			failed++
			continue
		}
		report := driver.RunSuite(suite)
		passed += report.Passed()
		failed += report.Failed()
		if err := report.Err(); err != nil {
			fmt.Fprintf(c.stdout, "FAIL %s (%d/%d passed)\n", suite.Name, report.Passed(), len(report.Results))
			fmt.Fprintln(c.stderr, strings.TrimRight(err.Error(), "\n"))
			continue
		}
		fmt.Fprintf(c.stdout, "ok   %s (%d cases)\n", suite.Name, len(report.Results))
	}

	fmt.Fprintf(c.stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}
