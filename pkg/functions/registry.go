// Package functions defines the operation registry used to resolve the names
// that may appear in call position inside a formula.
//
// A Registry is immutable once built. The default registry holds the
// built-in operations (sum, sub, product, div, mod, max, min, pow, abs, sqrt,
// log, exp, tanh, recip); new operations are added by deriving a new registry
// with [Registry.With], which is the only extension point the compiler needs.
//
// # Example
//
//	reg, err := functions.Default().With(
//	    functions.NewUnary("sin", math.Sin),
//	    functions.NewFixed("lerp", 3, func(a []float64) float64 {
//	        return a[0] + (a[1]-a[0])*a[2]
//	    }),
//	)
package functions

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sandrolain/scoreplot/pkg/types"
)

// Arity is the argument-count discipline of an operation.
type Arity int

const (
	// Unary operations take exactly one argument.
	Unary Arity = iota
	// Reducer operations take two or more arguments and fold them
	// pairwise from left to right.
	Reducer
	// Fixed operations take exactly N arguments combined by a bespoke rule.
	Fixed
)

// String returns the name of the arity class.
func (a Arity) String() string {
	switch a {
	case Unary:
		return "unary"
	case Reducer:
		return "variadic-reducer"
	case Fixed:
		return "fixed-arity"
	default:
		return "unknown"
	}
}

// Operation describes a named numeric operation.
// Exactly one of UnaryFn, BinaryFn or CustomFn is set, matching Arity.
type Operation struct {
	Name  string
	Arity Arity
	// N is the exact argument count for Fixed operations.
	N int

	UnaryFn  func(x float64) float64
	BinaryFn func(a, b float64) float64
	CustomFn func(args []float64) float64
}

// NewUnary creates a one-argument operation.
func NewUnary(name string, fn func(float64) float64) Operation {
	return Operation{Name: name, Arity: Unary, N: 1, UnaryFn: fn}
}

// NewReducer creates a left-folding operation over two or more arguments.
func NewReducer(name string, fn func(a, b float64) float64) Operation {
	return Operation{Name: name, Arity: Reducer, N: 2, BinaryFn: fn}
}

// NewFixed creates an operation that takes exactly n arguments.
func NewFixed(name string, n int, fn func(args []float64) float64) Operation {
	return Operation{Name: name, Arity: Fixed, N: n, CustomFn: fn}
}

// Validate checks that the descriptor is internally consistent.
func (op Operation) Validate() error {
	if op.Name == "" {
		return fmt.Errorf("operation name must not be empty")
	}
	for _, r := range op.Name {
		if r == '(' || r == ')' || r == ',' {
			return fmt.Errorf("operation %q: name must not contain %q", op.Name, r)
		}
	}
	switch op.Arity {
	case Unary:
		if op.UnaryFn == nil {
			return fmt.Errorf("operation %q: unary implementation missing", op.Name)
		}
	case Reducer:
		if op.BinaryFn == nil {
			return fmt.Errorf("operation %q: reducer implementation missing", op.Name)
		}
	case Fixed:
		if op.CustomFn == nil {
			return fmt.Errorf("operation %q: implementation missing", op.Name)
		}
		if op.N < 1 {
			return fmt.Errorf("operation %q: fixed arity must be at least 1, got %d", op.Name, op.N)
		}
	default:
		return fmt.Errorf("operation %q: unknown arity class %d", op.Name, op.Arity)
	}
	return nil
}

// CheckArgs reports an ErrArityMismatch error when n arguments cannot be
// passed to op. position is the offset of the call in the formula.
func (op Operation) CheckArgs(n, position int) error {
	var ok bool
	var want string
	switch op.Arity {
	case Unary:
		ok, want = n == 1, "exactly 1 argument"
	case Reducer:
		ok, want = n >= 2, "at least 2 arguments"
	case Fixed:
		ok, want = n == op.N, fmt.Sprintf("exactly %d arguments", op.N)
	}
	if ok {
		return nil
	}
	return types.NewError(types.ErrArityMismatch,
		fmt.Sprintf("%s expects %s, got %d", op.Name, want, n), position).WithToken(op.Name)
}

// Apply combines already-evaluated arguments. The caller must have checked
// the count with CheckArgs.
func (op Operation) Apply(args []float64) float64 {
	switch op.Arity {
	case Unary:
		return op.UnaryFn(args[0])
	case Reducer:
		acc := args[0]
		for _, v := range args[1:] {
			acc = op.BinaryFn(acc, v)
		}
		return acc
	default:
		return op.CustomFn(args)
	}
}

// Signature renders a short human readable signature, e.g. "sum(a, b, ...)".
func (op Operation) Signature() string {
	switch op.Arity {
	case Unary:
		return op.Name + "(a)"
	case Reducer:
		return op.Name + "(a, b, ...)"
	}
	s := op.Name + "("
	for i := 0; i < op.N; i++ {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("a%d", i)
	}
	return s + ")"
}

// Registry maps operation names to descriptors. It is never mutated after
// construction and is safe for concurrent use.
type Registry struct {
	ops map[string]Operation
}

// New builds a registry from ops. Duplicate names are an error.
func New(ops ...Operation) (*Registry, error) {
	r := &Registry{ops: make(map[string]Operation, len(ops))}
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.ops[op.Name]; dup {
			return nil, fmt.Errorf("operation %q registered twice", op.Name)
		}
		r.ops[op.Name] = op
	}
	return r, nil
}

// With returns a new registry holding r's operations plus ops. Operations in
// ops replace same-named entries of r; r itself is left untouched.
func (r *Registry) With(ops ...Operation) (*Registry, error) {
	out := &Registry{ops: make(map[string]Operation, len(r.ops)+len(ops))}
	for name, op := range r.ops {
		out.ops[name] = op
	}
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
		out.ops[op.Name] = op
	}
	return out, nil
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Names returns the registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.ops)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the built-in registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := New(Builtins()...)
		if err != nil {
			panic("functions: invalid built-in registry: " + err.Error())
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Builtins returns the descriptors of the built-in operations.
func Builtins() []Operation {
	return []Operation{
		// Reducers
		NewReducer("sum", func(a, b float64) float64 { return a + b }),
		NewReducer("sub", func(a, b float64) float64 { return a - b }),
		NewReducer("product", func(a, b float64) float64 { return a * b }),
		NewReducer("div", func(a, b float64) float64 { return a / b }),
		NewReducer("mod", math.Mod),
		NewReducer("max", math.Max),
		NewReducer("min", math.Min),
		NewReducer("pow", math.Pow),

		// Elementary functions
		NewUnary("abs", math.Abs),
		NewUnary("sqrt", math.Sqrt),
		NewUnary("log", math.Log),
		NewUnary("exp", math.Exp),
		NewUnary("tanh", math.Tanh),

		// recip(x, m, a, b) = a / (m*x + b)
		NewFixed("recip", 4, func(args []float64) float64 {
			x, m, a, b := args[0], args[1], args[2], args[3]
			return a / (m*x + b)
		}),
	}
}
