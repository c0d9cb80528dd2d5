package parser

import (
	"fmt"

	"github.com/sandrolain/scoreplot/pkg/types"
)

// Split divides the interior of an argument list into its top-level
// comma-separated pieces. Commas nested inside parentheses stay with their
// enclosing piece, so "x,sum(1,2),y" yields ["x", "sum(1,2)", "y"].
//
// Pieces are returned verbatim, without trimming. An empty input yields a
// single empty piece, which callers treat as "no arguments".
func Split(params string) []string {
	return splitPieces(params, nil)
}

// splitOffsets is Split that also records the byte offset of every piece.
func splitOffsets(params string) ([]string, []int) {
	offsets := []int{0}
	return splitPieces(params, &offsets), offsets
}

func splitPieces(params string, offsets *[]int) []string {
	pieces := make([]string, 0, 4)
	depth := 0
	start := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				pieces = append(pieces, params[start:i])
				start = i + 1
				if offsets != nil {
					*offsets = append(*offsets, start)
				}
			}
		}
	}
	return append(pieces, params[start:])
}

// checkBalance reports an ErrMalformedCall error when the parentheses of s do
// not pair up. base is added to reported positions.
func checkBalance(s string, base int) error {
	depth := 0
	open := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			if depth == 0 {
				open = i
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return types.NewError(types.ErrMalformedCall,
					"unmatched ')'", base+i).WithToken(")")
			}
		}
	}
	if depth > 0 {
		return types.NewError(types.ErrMalformedCall,
			fmt.Sprintf("%d unclosed '('", depth), base+open).WithToken("(")
	}
	return nil
}
