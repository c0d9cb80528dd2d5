package evaluator

import (
	"fmt"

	"github.com/sandrolain/scoreplot/pkg/functions"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// Bind turns an AST into a function. Trees produced by the parser always
// bind; hand-built trees may fail with ErrUndefinedOperation or
// ErrArityMismatch.
func (e *Evaluator) Bind(node *types.ASTNode) (types.Func, error) {
	if node == nil {
		return nil, types.NewError(types.ErrEmptyExpression, "nil expression tree", -1)
	}

	switch node.Type {
	case types.NodeNumber:
		v := node.NumValue
		return func(float64) float64 { return v }, nil

	case types.NodeVariable:
		return func(x float64) float64 { return x }, nil

	case types.NodeCall:
		return e.bindCall(node)
	}
	return nil, types.NewError(types.ErrUnknownToken,
		fmt.Sprintf("unsupported node type %q", node.Type), node.Position)
}

func (e *Evaluator) bindCall(node *types.ASTNode) (types.Func, error) {
	op, ok := e.registry.Lookup(node.Name)
	if !ok {
		return nil, types.NewError(types.ErrUndefinedOperation,
			fmt.Sprintf("operation %q is not registered", node.Name), node.Position).WithToken(node.Name)
	}
	if err := op.CheckArgs(len(node.Arguments), node.Position); err != nil {
		return nil, err
	}

	args := make([]types.Func, len(node.Arguments))
	for i, arg := range node.Arguments {
		fn, err := e.Bind(arg)
		if err != nil {
			return nil, err
		}
		args[i] = fn
	}
	return compose(op, args), nil
}

// compose builds the closure for a call. Unary and reducer operations avoid
// allocating an argument slice per invocation.
func compose(op functions.Operation, args []types.Func) types.Func {
	switch op.Arity {
	case functions.Unary:
		f, arg := op.UnaryFn, args[0]
		return func(x float64) float64 {
			return f(arg(x))
		}

	case functions.Reducer:
		f := op.BinaryFn
		if len(args) == 2 {
			a, b := args[0], args[1]
			return func(x float64) float64 {
				return f(a(x), b(x))
			}
		}
		first, rest := args[0], args[1:]
		return func(x float64) float64 {
			acc := first(x)
			for _, arg := range rest {
				acc = f(acc, arg(x))
			}
			return acc
		}

	default:
		f, n := op.CustomFn, len(args)
		return func(x float64) float64 {
			vals := make([]float64, n)
			for i, arg := range args {
				vals[i] = arg(x)
			}
			return f(vals)
		}
	}
}
