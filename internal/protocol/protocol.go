// Package protocol defines the JSON request/response exchanged with the
// WebAssembly builds of scoreplot, and the handler both entrypoints share.
//
//	request:  {"formula": "sum(x,1)", "field": "price", "start": 0, "end": 1}
//	response: {"result": {...}}                         on success
//	          {"error": "...", "code": "F0101", ...}    on failure
package protocol

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/sandrolain/scoreplot"
	"github.com/sandrolain/scoreplot/pkg/evaluator"
	"github.com/sandrolain/scoreplot/pkg/ext"
	"github.com/sandrolain/scoreplot/pkg/sampler"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// Request is a plot request with optional tuning.
type Request struct {
	scoreplot.Request

	// Step overrides the sampling step when > 0.
	Step float64 `json:"step,omitempty" validate:"gte=0"`
	// Unseeded seeds the y bounds from the first sample instead of 0.
	Unseeded bool `json:"unseeded,omitempty"`
	// Variable overrides the variable token.
	Variable string `json:"variable,omitempty" validate:"omitempty,excludesall=()"`
	// Lenient enables legacy numeric literal parsing.
	Lenient bool `json:"lenient,omitempty"`
	// Extensions names operation packs to enable ("numeric", "solr", "all").
	Extensions []string `json:"extensions,omitempty" validate:"dive,oneof=numeric solr all"`
	// MaxDepth overrides the nesting limit when > 0.
	MaxDepth int `json:"max_depth,omitempty" validate:"gte=0"`
	// MaxPoints overrides the sample count limit when > 0.
	MaxPoints int `json:"max_points,omitempty" validate:"gte=0"`
	// Parallel samples disjoint sub-ranges concurrently.
	Parallel bool `json:"parallel,omitempty"`
}

// Response carries either a result or an error.
type Response struct {
	Result   *scoreplot.Result `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
	Code     types.ErrorCode   `json:"code,omitempty"`
	Position *int              `json:"position,omitempty"`
}

// Err converts a failed response back to an error, or returns nil.
func (r Response) Err() error {
	if r.Error == "" {
		return nil
	}
	if r.Code == "" {
		return errors.New(r.Error)
	}
	pos := -1
	if r.Position != nil {
		pos = *r.Position
	}
	return types.NewError(r.Code, r.Error, pos)
}

var validate = validator.New()

// Validate checks the tuning fields.
func (req Request) Validate() error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid request: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// Options turns the tuning fields of req into plotter options.
func (req Request) Options() ([]scoreplot.Option, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var evalOpts []evaluator.EvalOption
	if req.Variable != "" {
		evalOpts = append(evalOpts, evaluator.WithVariable(req.Variable))
	}
	if req.Lenient {
		evalOpts = append(evalOpts, evaluator.WithLenientNumbers(true))
	}
	if req.MaxDepth > 0 {
		evalOpts = append(evalOpts, evaluator.WithMaxDepth(req.MaxDepth))
	}
	for _, name := range req.Extensions {
		ops, ok := ext.ByName(name)
		if !ok {
			return nil, errors.New("unknown extension pack " + name)
		}
		evalOpts = append(evalOpts, evaluator.WithOperations(ops...))
	}

	var sampleOpts []sampler.Option
	if req.Step > 0 {
		sampleOpts = append(sampleOpts, sampler.WithStep(req.Step))
	}
	if req.Unseeded {
		sampleOpts = append(sampleOpts, sampler.WithSeededBounds(false))
	}
	if req.MaxPoints > 0 {
		sampleOpts = append(sampleOpts, sampler.WithMaxPoints(req.MaxPoints))
	}

	return []scoreplot.Option{
		scoreplot.WithEvalOptions(evalOpts...),
		scoreplot.WithSampleOptions(sampleOpts...),
		scoreplot.WithParallel(req.Parallel),
	}, nil
}

// Handle plots req and wraps the outcome in a Response.
func Handle(ctx context.Context, req Request) Response {
	opts, err := req.Options()
	if err != nil {
		return Fail(err)
	}
	res, err := scoreplot.Plot(ctx, req.Request, opts...)
	if err != nil {
		return Fail(err)
	}
	return Response{Result: res}
}

// Fail builds an error response.
func Fail(err error) Response {
	resp := Response{Error: err.Error()}
	var fe *types.Error
	if errors.As(err, &fe) {
		resp.Code = fe.Code
		resp.Error = fe.Message
		if fe.Position >= 0 {
			pos := fe.Position
			resp.Position = &pos
		}
	}
	return resp
}
