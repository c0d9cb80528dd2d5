package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prepare turns raw user input into parser input: all whitespace is removed
// and every occurrence of field is replaced with variable.
//
// Only whole identifiers are replaced. An occurrence glued to letters, digits
// or underscores on either side is left alone, as is one directly followed by
// '(' (a call of an operation that happens to share the field's name). This
// keeps a field called "e" from rewriting "exp(" or "1e5". An empty field
// disables substitution.
func Prepare(raw, field, variable string) string {
	query := stripSpace(raw)
	field = stripSpace(field)
	if field == "" || field == variable {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query))
	i := 0
	for i < len(query) {
		j := strings.Index(query[i:], field)
		if j < 0 {
			break
		}
		j += i
		end := j + len(field)
		if !isBoundary(query, j, end) {
			_, size := utf8.DecodeRuneInString(query[j:])
			sb.WriteString(query[i : j+size])
			i = j + size
			continue
		}
		sb.WriteString(query[i:j])
		sb.WriteString(variable)
		i = end
	}
	sb.WriteString(query[i:])
	return sb.String()
}

func isBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isIdentRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isIdentRune(r) || r == '(' {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func stripSpace(s string) string {
	if strings.IndexFunc(s, isSpace) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, s)
}
