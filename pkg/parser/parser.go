// Package parser implements the scoring formula parser.
//
// Formulas use function-call syntax only: numeric literals, a single
// variable token, and calls of registered operations whose arguments are
// themselves formulas. There is no tokenizer; the parser works directly on
// substrings, dividing argument lists with Split and recursing into each
// piece. Every recursive call receives a strict substring of its input, so
// parsing terminates for any finite formula.
//
// # Example
//
//	ast, err := parser.Parse("sum(x,div(x,30))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ast.Depth()) // 3
//
// Callers are expected to run raw user input through Prepare first, which
// removes whitespace and replaces the user's field name with the variable
// token.
package parser

import (
	"fmt"
	"strings"

	"github.com/sandrolain/scoreplot/pkg/functions"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// DefaultVariable is the token that stands for the independent variable
// unless WithVariable says otherwise.
const DefaultVariable = "x"

// DefaultMaxDepth bounds call nesting.
const DefaultMaxDepth = 512

// Parse parses a prepared formula and returns its AST.
//
// If parsing fails, the returned error is a *types.Error carrying the code
// and position of the first problem found.
func Parse(query string, opts ...CompileOption) (*types.ASTNode, error) {
	p := NewParser(query, opts...)
	return p.Parse()
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// Variable is the token recognised as the independent variable.
	Variable string
	// LenientNumbers accepts any numeric prefix as a literal ("45foo" is 45)
	// and non-finite literals such as "Infinity".
	LenientNumbers bool
	// MaxDepth limits call nesting to prevent stack exhaustion.
	MaxDepth int
	// Registry resolves operation names. Defaults to functions.Default().
	Registry *functions.Registry
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Variable: DefaultVariable,
		MaxDepth: DefaultMaxDepth,
		Registry: functions.Default(),
	}
}

// Validate checks the option values.
func (o CompileOptions) Validate() error {
	if o.Variable == "" {
		return fmt.Errorf("variable token must not be empty")
	}
	if strings.ContainsAny(o.Variable, "(),") || strings.IndexFunc(o.Variable, isSpace) >= 0 {
		return fmt.Errorf("variable token %q must not contain parentheses, commas or spaces", o.Variable)
	}
	if o.Registry != nil {
		if _, clash := o.Registry.Lookup(o.Variable); clash {
			return fmt.Errorf("variable token %q collides with an operation name", o.Variable)
		}
	}
	return nil
}

// WithVariable sets the variable token.
func WithVariable(token string) CompileOption {
	return func(opts *CompileOptions) {
		opts.Variable = token
	}
}

// WithLenientNumbers enables legacy numeric literal parsing.
func WithLenientNumbers(enable bool) CompileOption {
	return func(opts *CompileOptions) {
		opts.LenientNumbers = enable
	}
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// WithRegistry sets the operation registry used to recognise calls.
func WithRegistry(reg *functions.Registry) CompileOption {
	return func(opts *CompileOptions) {
		opts.Registry = reg
	}
}
