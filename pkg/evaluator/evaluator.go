// Package evaluator turns parsed formulas into callable functions.
//
// The evaluator receives an AST from the parser and binds every node to a
// closure: literals become constants, the variable becomes the identity and
// calls become compositions of their bound arguments with the operation
// taken from the registry. The resulting function holds no mutable state, so
// it may be invoked repeatedly and from many goroutines at once.
//
// # Example
//
//	ev := evaluator.New()
//	expr, err := ev.Compile("sum(x,div(x,30))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(expr.Eval(30)) // 31
package evaluator

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sandrolain/scoreplot/pkg/cache"
	"github.com/sandrolain/scoreplot/pkg/functions"
	"github.com/sandrolain/scoreplot/pkg/parser"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// Evaluator compiles formulas into expressions.
type Evaluator struct {
	opts     EvalOptions
	logger   *slog.Logger
	cache    *cache.Cache // non-nil when Caching is enabled
	registry *functions.Registry
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// Caching enables compiled expression caching keyed by formula text.
	// The default cache holds up to 256 entries with LRU eviction.
	Caching bool
	// CacheSize sets the maximum number of cached expressions.
	// Only used when Caching is true and no explicit Cache is provided.
	// Defaults to 256.
	CacheSize int
	// Cache is a custom expression cache. If non-nil, Caching is implicitly enabled.
	// A cache shared between evaluators must only be shared between
	// evaluators built with the same registry.
	Cache *cache.Cache
	// Registry resolves operation names. Defaults to functions.Default().
	Registry *functions.Registry
	// Operations are added on top of Registry.
	Operations []functions.Operation
	// Variable is the token standing for the independent variable.
	Variable string
	// LenientNumbers enables legacy prefix parsing of numeric literals.
	LenientNumbers bool
	// MaxDepth limits call nesting.
	MaxDepth int
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// EvalOption configures an Evaluator.
type EvalOption func(*EvalOptions)

// New creates a new Evaluator. It panics if WithOperations supplies an
// invalid operation descriptor; use NewChecked to get the error instead.
func New(opts ...EvalOption) *Evaluator {
	e, err := NewChecked(opts...)
	if err != nil {
		panic("evaluator: " + err.Error())
	}
	return e
}

// NewChecked creates a new Evaluator, reporting invalid options as an error.
func NewChecked(opts ...EvalOption) (*Evaluator, error) {
	options := EvalOptions{
		Caching:  false, // Disabled by default
		Variable: parser.DefaultVariable,
		MaxDepth: parser.DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	reg := options.Registry
	if reg == nil {
		reg = functions.Default()
	}
	if len(options.Operations) > 0 {
		extended, err := reg.With(options.Operations...)
		if err != nil {
			return nil, err
		}
		reg = extended
	}

	var c *cache.Cache
	if options.Cache != nil {
		c = options.Cache
	} else if options.Caching {
		size := options.CacheSize
		if size <= 0 {
			size = 256
		}
		c = cache.New(size)
	}

	return &Evaluator{
		opts:     options,
		logger:   options.Logger,
		cache:    c,
		registry: reg,
	}, nil
}

// Cache returns the expression cache, or nil if caching is disabled.
func (e *Evaluator) Cache() *cache.Cache {
	return e.cache
}

// Registry returns the operation registry the evaluator resolves names with.
func (e *Evaluator) Registry() *functions.Registry {
	return e.registry
}

// Variable returns the variable token.
func (e *Evaluator) Variable() string {
	return e.opts.Variable
}

// Compile parses and binds a prepared formula.
//
// On failure the returned error is a *types.Error; no expression is returned
// alongside it.
func (e *Evaluator) Compile(query string) (*types.Expression, error) {
	if e.cache == nil {
		return e.compile(query)
	}
	return e.cache.GetOrCompile(e.cacheKey(query), func() (*types.Expression, error) {
		return e.compile(query)
	})
}

func (e *Evaluator) compile(query string) (*types.Expression, error) {
	ast, err := parser.Parse(query, e.parserOptions()...)
	if err != nil {
		if e.opts.Debug {
			e.logger.Debug("formula rejected", "query", query, "error", err)
		}
		return nil, err
	}

	fn, err := e.Bind(ast)
	if err != nil {
		return nil, err
	}

	if e.opts.Debug {
		e.logger.Debug("formula compiled", "query", query, "depth", ast.Depth())
	}
	return types.NewExpression(ast, query, e.opts.Variable, fn), nil
}

func (e *Evaluator) parserOptions() []parser.CompileOption {
	return []parser.CompileOption{
		parser.WithRegistry(e.registry),
		parser.WithVariable(e.opts.Variable),
		parser.WithLenientNumbers(e.opts.LenientNumbers),
		parser.WithMaxDepth(e.opts.MaxDepth),
	}
}

// cacheKey distinguishes entries compiled under different parsing rules.
func (e *Evaluator) cacheKey(query string) string {
	return e.opts.Variable + "\x00" + strconv.FormatBool(e.opts.LenientNumbers) + "\x00" + query
}

// WithCaching enables or disables expression caching.
func WithCaching(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Caching = enabled
	}
}

// WithCacheSize sets the maximum number of cached expressions.
func WithCacheSize(size int) EvalOption {
	return func(opts *EvalOptions) {
		opts.CacheSize = size
	}
}

// WithCache sets a custom expression cache.
func WithCache(c *cache.Cache) EvalOption {
	return func(opts *EvalOptions) {
		opts.Cache = c
	}
}

// WithRegistry sets the operation registry.
func WithRegistry(reg *functions.Registry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Registry = reg
	}
}

// WithOperations registers extra operations on top of the registry.
func WithOperations(ops ...functions.Operation) EvalOption {
	return func(opts *EvalOptions) {
		opts.Operations = append(opts.Operations, ops...)
	}
}

// WithVariable sets the variable token.
func WithVariable(token string) EvalOption {
	return func(opts *EvalOptions) {
		opts.Variable = token
	}
}

// WithLenientNumbers enables legacy numeric literal parsing, where "45foo"
// reads as 45 and "Infinity" is accepted.
func WithLenientNumbers(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.LenientNumbers = enabled
	}
}

// WithMaxDepth sets the maximum call nesting depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// String implements fmt.Stringer for debugging.
func (e *Evaluator) String() string {
	return fmt.Sprintf("Evaluator{variable=%q, operations=%d, caching=%t}",
		e.opts.Variable, e.registry.Len(), e.cache != nil)
}
