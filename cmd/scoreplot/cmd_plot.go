package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/internal/protocol"
	"github.com/sandrolain/scoreplot/internal/wasmhost"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// =============================================================================
// PLOT COMMAND
// =============================================================================

type plotFlags struct {
	field      string
	start      float64
	end        float64
	engine     string
	wasmModule string
}

func newPlotCmd(a *app) *cobra.Command {
	var pf plotFlags

	cmd := &cobra.Command{
		Use:   "plot FORMULA",
		Short: "Compile a formula and print its samples",
		Long: `Compile FORMULA and sample it from --start to --end (inclusive).

Whitespace in FORMULA is ignored. When --field is given, that name stands for
the variable inside the formula; otherwise the variable token (default "x")
is used directly.

# Exit Codes

  - 0: Samples printed
  - 1: The formula is invalid
  - 2: Usage, configuration or I/O error`,
		Example: `  scoreplot plot 'recip(price, 4, 4, 0)' --field price --start 0 --end 10
  scoreplot plot 'max(2, x)' --format table
  scoreplot plot 'pow(x, 2)' --engine wasm --wasm-module scoreplot.wasm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlot(cmd, args[0], pf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&pf.field, "field", "", "field name used for the variable in FORMULA")
	f.Float64Var(&pf.start, "start", 0, "first x value")
	f.Float64Var(&pf.end, "end", 10, "last x value (inclusive)")
	f.StringVar(&pf.engine, "engine", "native", "evaluation engine: native, wasm")
	f.StringVar(&pf.wasmModule, "wasm-module", "", "path to the WASI build (required with --engine wasm)")
	f.Float64Var(&a.flagCfg.Step, "step", a.flagCfg.Step, "distance between x values")
	f.BoolVar(&a.flagCfg.ZeroSeededBounds, "zero-seeded", a.flagCfg.ZeroSeededBounds, "start minY/maxY at 0 instead of the first sample")
	f.IntVar(&a.flagCfg.MaxPoints, "max-points", a.flagCfg.MaxPoints, "refuse ranges needing more points")
	f.BoolVar(&a.flagCfg.Parallel, "parallel", false, "sample sub-ranges concurrently")
	f.StringVarP(&a.flagCfg.Format, "format", "o", a.flagCfg.Format, "output format: json, yaml, csv, table")
	return cmd
}

func (a *app) runPlot(cmd *cobra.Command, formula string, pf plotFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	req := scoreplot.Request{
		Formula: formula,
		Field:   pf.field,
		Start:   pf.start,
		End:     pf.end,
	}

	var res *scoreplot.Result
	var err error
	switch pf.engine {
	case "native":
		res, err = a.plotNative(ctx, req)
	case "wasm":
		res, err = a.plotWASM(ctx, req, pf.wasmModule)
	default:
		return withExitCode(CLIExitError, fmt.Errorf("unknown engine %q (want native or wasm)", pf.engine))
	}
	if err != nil {
		if types.IsCompileError(err) {
			a.logger.Info("formula rejected", "formula", formula, "code", types.CodeOf(err))
			return withExitCode(CLIExitFailure, fmt.Errorf("invalid formula: %w", err))
		}
		return withExitCode(CLIExitError, err)
	}

	if err := writeResult(cmd.OutOrStdout(), a.cfg.Format, res); err != nil {
		return withExitCode(CLIExitError, err)
	}
	return nil
}

func (a *app) plotNative(ctx context.Context, req scoreplot.Request) (*scoreplot.Result, error) {
	p, err := a.cfg.plotter(a.logger)
	if err != nil {
		return nil, err
	}
	return p.Plot(ctx, req)
}

func (a *app) plotWASM(ctx context.Context, req scoreplot.Request, module string) (*scoreplot.Result, error) {
	if module == "" {
		return nil, fmt.Errorf("--wasm-module is required with --engine wasm")
	}
	host, err := wasmhost.Open(ctx, module)
	if err != nil {
		return nil, err
	}
	defer host.Close(ctx)

	return host.Plot(ctx, protocol.Request{
		Request:    req,
		Step:       a.cfg.Step,
		Unseeded:   !a.cfg.ZeroSeededBounds,
		Variable:   a.cfg.Variable,
		Lenient:    a.cfg.LenientNumbers,
		Extensions: a.cfg.Extensions,
		MaxDepth:   a.cfg.MaxDepth,
		MaxPoints:  a.cfg.MaxPoints,
		Parallel:   a.cfg.Parallel,
	})
}
