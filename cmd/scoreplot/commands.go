package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/internal/telemetry"
)

// Exit codes.
const (
	CLIExitSuccess = 0
	CLIExitFailure = 1 // invalid formula or failed check case
	CLIExitError   = 2 // usage, configuration or I/O error
)

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// app holds the state shared by the commands of one invocation.
type app struct {
	configPath string
	flagCfg    Config
	cfg        Config
	logger     *slog.Logger
	shutdown   telemetry.ShutdownFunc
}

// newRootCmd builds the command tree. Each call returns an independent tree,
// so tests can run commands without sharing flag state.
func newRootCmd() *cobra.Command {
	a := &app{flagCfg: defaultConfig()}

	root := &cobra.Command{
		Use:   "scoreplot",
		Short: "Compile scoring formulas and sample them as curves",
		Long: `scoreplot compiles a scoring formula written in function-call syntax,
such as "sum(price,div(price,30))", and samples it over a range of the field
so the resulting curve can be charted.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.preRun,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown != nil {
				return a.shutdown(context.Background())
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.flagCfg.Variable, "variable", a.flagCfg.Variable, "token standing for the variable inside formulas")
	pf.BoolVar(&a.flagCfg.LenientNumbers, "lenient", false, `accept numeric prefixes such as "45foo" as numbers`)
	pf.IntVar(&a.flagCfg.MaxDepth, "max-depth", 0, "maximum call nesting (0 = default)")
	pf.StringSliceVar(&a.flagCfg.Extensions, "ext", nil, "extra operation packs: numeric, solr, all")
	pf.StringVar(&a.flagCfg.LogLevel, "log-level", a.flagCfg.LogLevel, "log level: debug, info, warn, error")
	pf.BoolVar(&a.flagCfg.LogJSON, "log-json", false, "log as JSON")
	pf.StringVar(&a.flagCfg.Trace, "trace", a.flagCfg.Trace, "trace exporter: none, stdout (spans go to stderr)")

	root.AddCommand(
		newPlotCmd(a),
		newOpsCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// preRun resolves the effective configuration and sets up logging and tracing.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	cfg := defaultConfig()
	if a.configPath != "" {
		loaded, err := loadConfigFile(a.configPath, cfg)
		if err != nil {
			return withExitCode(CLIExitError, err)
		}
		cfg = loaded
	}
	cfg = overlayFlags(cfg, a.flagCfg, cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return withExitCode(CLIExitError, err)
	}
	a.cfg = cfg
	a.logger = cfg.logger(cmd.ErrOrStderr())

	shutdown, err := telemetry.Setup(telemetry.Config{
		Exporter:    cfg.Trace,
		Writer:      cmd.ErrOrStderr(),
		ServiceName: "scoreplot",
		Version:     scoreplot.Version(),
	})
	if err != nil {
		return withExitCode(CLIExitError, err)
	}
	a.shutdown = shutdown

	a.logger.Debug("configuration resolved", "config_file", a.configPath, "format", cfg.Format)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the scoreplot version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), scoreplot.Version())
			return err
		},
	}
}
