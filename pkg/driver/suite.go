package driver

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/godfearingman/ape/pkg/interpreter"
	"github.com/godfearingman/ape/pkg/runtime"
)

// SuiteFileName marks a directory as a fixture suite.
const SuiteFileName = "suite.yml"

// Suite is a named list of sources with their expected outcomes.
type Suite struct {
	Name  string
	Dir   string
	Cases []*Case
}

// Case is one fixture. Exactly one of Expect, NaN or Error describes the
// expected outcome. Source holds the program text even when it came from
// File.
type Case struct {
	Name      string
	Source    string
	File      string
	Expect    *float64
	Tolerance float64
	NaN       bool
	Error     string
}

type suiteFile struct {
	Name  string     `yaml:"name"`
	Cases []caseFile `yaml:"cases"`
}

type caseFile struct {
	Name      string   `yaml:"name"`
	Source    *string  `yaml:"source"`
	File      string   `yaml:"file"`
	Expect    *float64 `yaml:"expect"`
	Tolerance float64  `yaml:"tolerance"`
	NaN       bool     `yaml:"nan"`
	Error     string   `yaml:"error"`
}

// LoadSuite reads dir/suite.yml and the case files it references.
func LoadSuite(dir string) (*Suite, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("suite: resolve %s: %w", dir, err)
	}
	path := filepath.Join(absDir, SuiteFileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw suiteFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	return raw.toSuite(absDir, path)
}

func (raw suiteFile) toSuite(dir, path string) (*Suite, error) {
	errs := ValidationError{Subject: "suite " + path}
	suite := &Suite{Name: strings.TrimSpace(raw.Name), Dir: dir}
	if suite.Name == "" {
		errs.add("name must be provided")
	}
	if len(raw.Cases) == 0 {
		errs.add("cases must not be empty")
	}

	seen := make(map[string]int, len(raw.Cases))
	for idx, rc := range raw.Cases {
		label := fmt.Sprintf("cases[%d]", idx)
		c := &Case{
			Name:      strings.TrimSpace(rc.Name),
			File:      strings.TrimSpace(rc.File),
			Expect:    rc.Expect,
			Tolerance: rc.Tolerance,
			NaN:       rc.NaN,
			Error:     rc.Error,
		}
		if c.Name == "" {
			errs.add(label + ": name must be provided")
		} else if prev, ok := seen[c.Name]; ok {
			errs.add(fmt.Sprintf("%s: name %q duplicates cases[%d]", label, c.Name, prev))
		} else {
			seen[c.Name] = idx
		}

		switch {
		case rc.Source != nil && c.File != "":
			errs.add(label + ": source and file are mutually exclusive")
		case rc.Source != nil:
			c.Source = *rc.Source
		case c.File != "":
			data, err := os.ReadFile(filepath.Join(dir, c.File))
			if err != nil {
				errs.add(fmt.Sprintf("%s: read file: %v", label, err))
			}
			c.Source = string(data)
		default:
			errs.add(label + ": one of source or file must be provided")
		}

		outcomes := 0
		if c.Expect != nil {
			outcomes++
		}
		if c.NaN {
			outcomes++
		}
		if c.Error != "" {
			outcomes++
		}
		if outcomes != 1 {
			errs.add(label + ": exactly one of expect, nan or error must be provided")
		}
		if c.Tolerance < 0 {
			errs.add(label + ": tolerance must not be negative")
		}
		suite.Cases = append(suite.Cases, c)
	}

	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return suite, nil
}

// CaseResult records how one case ran. Failure is nil when it passed.
type CaseResult struct {
	Case    *Case
	Value   float64
	Err     error
	Failure error
}

func (r CaseResult) Passed() bool { return r.Failure == nil }

// Report is the outcome of running a suite.
type Report struct {
	Suite   *Suite
	Results []CaseResult
}

func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed() {
			n++
		}
	}
	return n
}

func (r *Report) Failed() int { return len(r.Results) - r.Passed() }

// Err aggregates every failure, or returns nil when all cases passed.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, res := range r.Results {
		if res.Failure != nil {
			result = multierror.Append(result, fmt.Errorf("%s/%s: %w", r.Suite.Name, res.Case.Name, res.Failure))
		}
	}
	return result.ErrorOrNil()
}

// RunSuite runs every case on its own fresh interpreter.
func RunSuite(suite *Suite) *Report {
	report := &Report{Suite: suite, Results: make([]CaseResult, 0, len(suite.Cases))}
	for _, c := range suite.Cases {
		res := runCase(c)
		if res.Passed() {
			log.LogVf("suite %s: case %q passed", suite.Name, c.Name)
		} else {
			log.LogVf("suite %s: case %q failed: %v", suite.Name, c.Name, res.Failure)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func runCase(c *Case) CaseResult {
	val, err := interpreter.New().EvaluateSource(c.Source)
	res := CaseResult{Case: c, Value: val, Err: err}
	switch {
	case c.Error != "":
		if err == nil {
			res.Failure = fmt.Errorf("expected error containing %q, got %s", c.Error, runtime.FormatNumber(val, runtime.ShortestPrecision))
		} else if !strings.Contains(err.Error(), c.Error) {
			res.Failure = fmt.Errorf("expected error containing %q, got %q", c.Error, err.Error())
		}
	case err != nil:
		res.Failure = fmt.Errorf("unexpected error: %w", err)
	case c.NaN:
		if !math.IsNaN(val) {
			res.Failure = fmt.Errorf("expected NaN, got %s", runtime.FormatNumber(val, runtime.ShortestPrecision))
		}
	case c.Expect != nil:
		if !withinTolerance(val, *c.Expect, c.Tolerance) {
			res.Failure = fmt.Errorf("expected %s, got %s",
				runtime.FormatNumber(*c.Expect, runtime.ShortestPrecision),
				runtime.FormatNumber(val, runtime.ShortestPrecision))
		}
	}
	return res
}

func withinTolerance(got, want, tolerance float64) bool {
	if got == want {
		return true
	}
	return tolerance > 0 && math.Abs(got-want) <= tolerance
}

// DiscoverSuites returns every directory under root holding a suite file,
// sorted. root itself counts when it holds one.
func DiscoverSuites(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == SuiteFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("suite: discover under %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}
