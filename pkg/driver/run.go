package driver

import (
	"fmt"
	"os"

	"github.com/godfearingman/ape/pkg/interpreter"
)

// Run tokenizes, parses and evaluates src on a fresh interpreter.
func Run(src string) (float64, error) {
	return interpreter.New().EvaluateSource(src)
}

// RunFile evaluates the script at path. The source is returned alongside
// the result so errors can be rendered with FormatError.
func RunFile(path string) (float64, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", fmt.Errorf("read %s: %w", path, err)
	}
	src := string(data)
	val, err := Run(src)
	return val, src, err
}
