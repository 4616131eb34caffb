package output

import (
	"math"
	"strconv"
	"strings"
)

// RemoveParentheses removes the parentheses enclosing the whole expression, repeatedly,
// so that the result is a fixed point. "(a).b" and "(a)(b)" are returned unchanged.
func RemoveParentheses(expr string) string {
	for {
		stripped := stripParentheses(expr)
		if stripped == expr {
			return expr
		}
		expr = stripped
	}
}

func stripParentheses(expr string) string {
	if !strings.HasPrefix(expr, "(") || !strings.HasSuffix(expr, ")") || len(expr) < 2 {
		return expr
	}
	level := 0
	inner := expr[1 : len(expr)-1]
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '"', '\'', '`':
			end := skipQuoted(inner, i)
			if end < 0 {
				return expr
			}
			i = end
		case '(':
			level++
		case ')':
			if level == 0 {
				return expr
			}
			level--
		}
	}
	if level != 0 {
		return expr
	}
	return inner
}

// skipQuoted returns the index of the quote closing the literal opened at start, -1 if
// the literal is not terminated
func skipQuoted(s string, start int) int {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// FormatNumber renders a number literal. Non-finite values become 0 and magnitudes
// above 1e9 use the exponent notation.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	if math.Abs(n) > 1e9 {
		return strconv.FormatFloat(n, 'e', -1, 64)
	}
	if n == 0 {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
