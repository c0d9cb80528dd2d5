package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/sandrolain/scoreplot/pkg/functions"
	"github.com/sandrolain/scoreplot/pkg/types"
)

// Parser parses a single prepared formula.
type Parser struct {
	query string
	opts  CompileOptions
}

// NewParser creates a parser for query with the given options applied on top
// of DefaultOptions.
func NewParser(query string, opts ...CompileOption) *Parser {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Registry == nil {
		options.Registry = functions.Default()
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}
	return &Parser{query: query, opts: options}
}

// Options returns the effective options of the parser.
func (p *Parser) Options() CompileOptions {
	return p.opts
}

// Parse parses the formula into an AST.
func (p *Parser) Parse() (*types.ASTNode, error) {
	if err := p.opts.Validate(); err != nil {
		return nil, err
	}
	if p.query == "" {
		return nil, types.NewError(types.ErrEmptyExpression, "formula is empty", 0)
	}
	if err := checkBalance(p.query, 0); err != nil {
		return nil, err
	}
	return p.parseExpr(p.query, 0, 1)
}

// parseExpr parses text, located at offset in the full formula, at the given
// nesting depth. Recognition order: registered call, numeric literal,
// variable token.
func (p *Parser) parseExpr(text string, offset, depth int) (*types.ASTNode, error) {
	if depth > p.opts.MaxDepth {
		return nil, types.NewError(types.ErrDepthExceeded,
			fmt.Sprintf("nesting exceeds maximum depth %d", p.opts.MaxDepth), offset)
	}
	if text == "" {
		return nil, types.NewError(types.ErrUnknownToken, "missing operand", offset)
	}

	open := strings.IndexByte(text, '(')
	if open >= 0 {
		if op, ok := p.opts.Registry.Lookup(text[:open]); ok {
			return p.parseCall(op, text, open, offset, depth)
		}
	}

	if node, matched, err := p.parseNumber(text, offset); matched {
		return node, err
	}

	if text == p.opts.Variable {
		node := types.NewASTNode(types.NodeVariable, offset)
		node.Name = text
		return node, nil
	}

	if open == 0 {
		return nil, types.NewError(types.ErrUnknownToken,
			"parenthesized group without an operation name", offset).WithToken(text)
	}
	if open > 0 {
		name := text[:open]
		return nil, types.NewError(types.ErrUnknownFunction,
			fmt.Sprintf("unknown operation %q", name), offset).WithToken(name)
	}
	return nil, types.NewError(types.ErrUnknownToken,
		fmt.Sprintf("unrecognized token %q", text), offset).WithToken(text)
}

// parseCall parses name(args...) where text[open] is the first '('.
func (p *Parser) parseCall(op functions.Operation, text string, open, offset, depth int) (*types.ASTNode, error) {
	closing := strings.LastIndexByte(text, ')')
	if closing < open {
		return nil, types.NewError(types.ErrMalformedCall,
			fmt.Sprintf("call to %s is not closed", op.Name), offset+open).WithToken(op.Name)
	}
	if closing != len(text)-1 {
		return nil, types.NewError(types.ErrMalformedCall,
			fmt.Sprintf("unexpected %q after call to %s", text[closing+1:], op.Name),
			offset+closing+1).WithToken(text[closing+1:])
	}

	inner := text[open+1 : closing]
	innerOffset := offset + open + 1
	if err := checkBalance(inner, innerOffset); err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeCall, offset)
	node.Name = op.Name

	pieces, starts := splitOffsets(inner)
	if len(pieces) == 1 && pieces[0] == "" {
		pieces = nil
	}
	node.Arguments = make([]*types.ASTNode, 0, len(pieces))
	for i, piece := range pieces {
		arg, err := p.parseExpr(piece, innerOffset+starts[i], depth+1)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)
	}

	if err := op.CheckArgs(len(node.Arguments), offset); err != nil {
		return nil, err
	}
	return node, nil
}

// parseNumber recognises a numeric literal. matched is false when text is
// not a number at all, so that the caller can try the remaining alternatives.
func (p *Parser) parseNumber(text string, offset int) (node *types.ASTNode, matched bool, err error) {
	n := scanNumber(text)
	if n == 0 || text == p.opts.Variable {
		return nil, false, nil
	}

	if !p.opts.LenientNumbers {
		if n < len(text) {
			return nil, true, types.NewError(types.ErrInvalidNumber,
				fmt.Sprintf("unexpected %q after number", text[n:]), offset+n).WithToken(text)
		}
		v := parseLiteral(text, n)
		if math.IsInf(v, 0) {
			return nil, true, types.NewError(types.ErrInvalidNumber,
				fmt.Sprintf("number %q is not finite", text), offset).WithToken(text)
		}
		node = types.NewASTNode(types.NodeNumber, offset)
		node.NumValue = v
		return node, true, nil
	}

	node = types.NewASTNode(types.NodeNumber, offset)
	node.NumValue = parseLiteral(text, n)
	return node, true, nil
}
