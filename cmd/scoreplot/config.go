package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/pkg/evaluator"
	"github.com/sandrolain/scoreplot/pkg/ext"
	"github.com/sandrolain/scoreplot/pkg/sampler"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds every setting the commands share. It can be loaded from a
// YAML file with --config; flags given on the command line win over the file.
//
// Example config.yaml:
//
//	variable: x
//	step: 0.5
//	zero_seeded_bounds: false
//	extensions: [solr]
//	format: table
//	log_level: debug
type Config struct {
	Variable         string   `yaml:"variable" validate:"omitempty,excludesall=()"`
	Step             float64  `yaml:"step" validate:"omitempty,gt=0"`
	ZeroSeededBounds bool     `yaml:"zero_seeded_bounds"`
	LenientNumbers   bool     `yaml:"lenient_numbers"`
	MaxDepth         int      `yaml:"max_depth" validate:"gte=0"`
	MaxPoints        int      `yaml:"max_points" validate:"gte=0"`
	Extensions       []string `yaml:"extensions" validate:"dive,oneof=numeric solr all"`
	Parallel         bool     `yaml:"parallel"`
	Format           string   `yaml:"format" validate:"omitempty,oneof=json yaml csv table"`
	LogLevel         string   `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogJSON          bool     `yaml:"log_json"`
	Trace            string   `yaml:"trace" validate:"omitempty,oneof=none stdout"`
}

// defaultConfig returns the settings used when neither a file nor a flag
// says otherwise.
func defaultConfig() Config {
	return Config{
		Variable:         "x",
		Step:             sampler.DefaultStep,
		ZeroSeededBounds: true,
		MaxPoints:        sampler.DefaultMaxPoints,
		Format:           "json",
		LogLevel:         "warn",
		Trace:            "none",
	}
}

var configValidate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// loadConfigFile decodes a YAML config over base. Unknown keys are an error.
func loadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := base
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overlayFlags copies the values of flags set on the command line from
// flagCfg into cfg.
func overlayFlags(cfg Config, flagCfg Config, flags *pflag.FlagSet) Config {
	set := func(name string, apply func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("variable", func() { cfg.Variable = flagCfg.Variable })
	set("step", func() { cfg.Step = flagCfg.Step })
	set("zero-seeded", func() { cfg.ZeroSeededBounds = flagCfg.ZeroSeededBounds })
	set("lenient", func() { cfg.LenientNumbers = flagCfg.LenientNumbers })
	set("max-depth", func() { cfg.MaxDepth = flagCfg.MaxDepth })
	set("max-points", func() { cfg.MaxPoints = flagCfg.MaxPoints })
	set("ext", func() { cfg.Extensions = flagCfg.Extensions })
	set("parallel", func() { cfg.Parallel = flagCfg.Parallel })
	set("format", func() { cfg.Format = flagCfg.Format })
	set("log-level", func() { cfg.LogLevel = flagCfg.LogLevel })
	set("log-json", func() { cfg.LogJSON = flagCfg.LogJSON })
	set("trace", func() { cfg.Trace = flagCfg.Trace })
	return cfg
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// logger builds the slog logger described by the config.
func (c Config) logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// evalOptions builds evaluator options.
func (c Config) evalOptions(logger *slog.Logger) ([]evaluator.EvalOption, error) {
	opts := []evaluator.EvalOption{
		evaluator.WithLogger(logger),
		evaluator.WithDebug(c.LogLevel == "debug"),
		evaluator.WithLenientNumbers(c.LenientNumbers),
	}
	if c.Variable != "" {
		opts = append(opts, evaluator.WithVariable(c.Variable))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, evaluator.WithMaxDepth(c.MaxDepth))
	}
	for _, name := range c.Extensions {
		ops, ok := ext.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown extension pack %q", name)
		}
		opts = append(opts, evaluator.WithOperations(ops...))
	}
	return opts, nil
}

// sampleOptions builds sampler options.
func (c Config) sampleOptions(logger *slog.Logger) []sampler.Option {
	opts := []sampler.Option{
		sampler.WithLogger(logger),
		sampler.WithSeededBounds(c.ZeroSeededBounds),
	}
	if c.Step > 0 {
		opts = append(opts, sampler.WithStep(c.Step))
	}
	if c.MaxPoints > 0 {
		opts = append(opts, sampler.WithMaxPoints(c.MaxPoints))
	}
	return opts
}

// plotter builds a Plotter from the config.
func (c Config) plotter(logger *slog.Logger) (*scoreplot.Plotter, error) {
	evalOpts, err := c.evalOptions(logger)
	if err != nil {
		return nil, err
	}
	return scoreplot.NewPlotter(
		scoreplot.WithEvalOptions(evalOpts...),
		scoreplot.WithSampleOptions(c.sampleOptions(logger)...),
		scoreplot.WithParallel(c.Parallel),
	)
}
