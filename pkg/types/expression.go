// Package types defines the core type system for scoreplot.
//
// This package contains type definitions for:
//   - ASTNode: parsed formula tree
//   - Expression: a compiled formula, usable as a pure float64 function
//   - Point and SampleSet: sampler output
//   - Error types: structured errors with codes
package types

// Func is a pure mapping from the variable's value to the formula's value.
type Func func(x float64) float64

// Expression represents a compiled formula.
//
// An Expression holds no mutable state: every call to Eval recomputes the
// result from scratch. It is safe for concurrent use by multiple goroutines.
type Expression struct {
	ast      *ASTNode
	source   string
	variable string
	fn       Func
}

// NewExpression creates a new Expression from an AST and its bound evaluator.
func NewExpression(ast *ASTNode, source, variable string, fn Func) *Expression {
	return &Expression{
		ast:      ast,
		source:   source,
		variable: variable,
		fn:       fn,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the formula text the expression was compiled from.
func (e *Expression) Source() string {
	return e.source
}

// Variable returns the token that stands for the independent variable.
func (e *Expression) Variable() string {
	return e.variable
}

// Eval evaluates the expression at x. Numeric anomalies such as division by
// zero surface as IEEE-754 infinities or NaN.
func (e *Expression) Eval(x float64) float64 {
	return e.fn(x)
}

// Func returns the expression as a plain function value.
func (e *Expression) Func() Func {
	return e.fn
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
