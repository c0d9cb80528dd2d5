package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// =============================================================================
// CHECK COMMAND
// =============================================================================

//go:embed cases/legacy.yaml
var legacyCases []byte

// defaultTolerance is the absolute difference accepted between a case's
// expected and actual value when the case does not set one.
const defaultTolerance = 1e-9

// CheckCase is one formula expectation. Exactly one of Expect and Error is set.
//
// Expect accepts YAML's .inf, -.inf and .nan. Error is an error code such as
// "T0410", or "any" to accept every compile failure.
type CheckCase struct {
	Name      string   `yaml:"name" validate:"required"`
	Formula   string   `yaml:"formula" validate:"required"`
	Field     string   `yaml:"field"`
	X         float64  `yaml:"x"`
	Expect    *float64 `yaml:"expect" validate:"required_without=Error,excluded_with=Error"`
	Tolerance float64  `yaml:"tolerance" validate:"gte=0"`
	Error     string   `yaml:"error"`
}

// CheckSuite is the content of a case file.
type CheckSuite struct {
	Cases []CheckCase `yaml:"cases" validate:"required,min=1,dive"`
}

// CheckOutcome is the result of one case.
type CheckOutcome struct {
	Name   string
	Passed bool
	Detail string
}

var checkValidate = validator.New()

// parseSuite decodes and validates a case file.
func parseSuite(data []byte) (*CheckSuite, error) {
	var suite CheckSuite
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := checkValidate.Struct(suite); err != nil {
		return nil, err
	}
	return &suite, nil
}

// runCase compiles and evaluates one case.
func runCase(ctx context.Context, p *scoreplot.Plotter, c CheckCase) CheckOutcome {
	out := CheckOutcome{Name: c.Name}
	expr, err := p.Compile(ctx, c.Formula, c.Field)

	if c.Error != "" {
		switch {
		case err == nil:
			out.Detail = fmt.Sprintf("compiled, want error %s", c.Error)
		case c.Error != "any" && string(types.CodeOf(err)) != c.Error:
			out.Detail = fmt.Sprintf("got error %s, want %s", types.CodeOf(err), c.Error)
		default:
			out.Passed = true
		}
		return out
	}

	if err != nil {
		out.Detail = fmt.Sprintf("compile failed: %v", err)
		return out
	}
	got, want := expr.Eval(c.X), *c.Expect
	tol := c.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	if sameValue(got, want, tol) {
		out.Passed = true
	} else {
		out.Detail = fmt.Sprintf("f(%s) = %s, want %s", formatFloat(c.X), formatFloat(got), formatFloat(want))
	}
	return out
}

// sameValue compares with NaN equal to NaN and infinities compared exactly.
func sameValue(got, want, tol float64) bool {
	switch {
	case math.IsNaN(want):
		return math.IsNaN(got)
	case math.IsInf(want, 0):
		return got == want
	}
	return math.Abs(got-want) <= tol
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [CASES.yaml ...]",
		Short: "Run formula expectations and report PASS/FAIL",
		Long: `Run the cases in each YAML file, or the built-in regression cases when no
file is given, and print PASS or FAIL for each.

A case file looks like:

  cases:
    - name: add
      formula: sum(2, x)
      x: 2
      expect: 4
    - name: unknown
      formula: bogus(x)
      error: F0102

# Exit Codes

  - 0: All cases passed
  - 1: At least one case failed
  - 2: A case file could not be read or is invalid`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := map[string][]byte{}
			order := []string{}
			if len(args) == 0 {
				sources["built-in"] = legacyCases
				order = append(order, "built-in")
			}
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return withExitCode(CLIExitError, err)
				}
				sources[path] = data
				order = append(order, path)
			}

			p, err := a.cfg.plotter(a.logger)
			if err != nil {
				return withExitCode(CLIExitError, err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			w := cmd.OutOrStdout()
			passed, failed := 0, 0
			for _, src := range order {
				suite, err := parseSuite(sources[src])
				if err != nil {
					return withExitCode(CLIExitError, fmt.Errorf("%s: %w", src, err))
				}
				for _, c := range suite.Cases {
					res := runCase(ctx, p, c)
					if res.Passed {
						passed++
						fmt.Fprintf(w, "%s: PASS\n", res.Name)
						continue
					}
					failed++
					fmt.Fprintf(w, "%s: FAIL (%s)\n", res.Name, res.Detail)
				}
			}
			fmt.Fprintf(w, "\n%d passed, %d failed\n", passed, failed)
			if failed > 0 {
				return withExitCode(CLIExitFailure, fmt.Errorf("%d case(s) failed", failed))
			}
			return nil
		},
	}
}
