package types

import (
	"strconv"
	"strings"
)

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types of the formula grammar.
const (
	NodeCall     NodeType = "call"     // name(arg, ...)
	NodeNumber   NodeType = "number"   // numeric literal
	NodeVariable NodeType = "variable" // the independent variable
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	Name     string  // Operation name for NodeCall, token text for NodeVariable
	NumValue float64 // Literal value for NodeNumber
	Position int     // Byte offset of the node in the prepared formula

	Arguments []*ASTNode // Call arguments, in source order
}

// NewASTNode creates a new AST node of the specified type.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// Depth returns the nesting depth of the tree rooted at n. A leaf has depth 1.
func (n *ASTNode) Depth() int {
	if n == nil {
		return 0
	}
	max := 0
	for _, arg := range n.Arguments {
		if d := arg.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// String renders the node back to canonical formula text (no whitespace).
func (n *ASTNode) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *ASTNode) write(sb *strings.Builder) {
	if n == nil {
		return
	}
	switch n.Type {
	case NodeNumber:
		sb.WriteString(strconv.FormatFloat(n.NumValue, 'g', -1, 64))
	case NodeVariable:
		sb.WriteString(n.Name)
	case NodeCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Arguments {
			if i > 0 {
				sb.WriteByte(',')
			}
			arg.write(sb)
		}
		sb.WriteByte(')')
	}
}
