package expr

import (
	"math"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// ApplyOperator applies op to l and r. Division, floor division and modulo
// by zero return l unchanged.
func ApplyOperator(l, r float64, op string) float64 {
	var out float64
	switch op {
	case "+":
		out = l + r
	case "-":
		out = l - r
	case "*":
		out = l * r
	case "/":
		if r == 0 {
			return l
		}
		out = l / r
	case "//":
		if r == 0 {
			return l
		}
		out = math.Floor(l / r)
	case "%":
		if r == 0 {
			return l
		}
		out = math.Mod(l, r)
	case "**":
		out = math.Pow(l, r)
	default:
		return l
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return l
	}
	return out
}

// ParseBinary splits expr on its first top-level arithmetic operator and
// applies it to the resolved operands. Only one operator level is
// recognised; the right operand may itself contain further operators.
func ParseBinary(expr string, s *trace.Store) (*trace.Operation, bool) {
	return parseBinary(trimStatement(expr), s, 0)
}

func parseBinary(t string, s *trace.Store, depth int) (*trace.Operation, bool) {
	if depth > maxDepth {
		return nil, false
	}
	pos, op := findOperator(t)
	if pos < 0 {
		return nil, false
	}
	left := strings.TrimSpace(t[:pos])
	right := strings.TrimSpace(t[pos+len(op):])
	if left == "" || right == "" {
		return nil, false
	}
	l := resolveNumber(left, s, depth+1)
	r := resolveNumber(right, s, depth+1)
	return &trace.Operation{
		Left:     l,
		Operator: op,
		Right:    r,
		Result:   ApplyOperator(l, r, op),
	}, true
}

// findOperator locates the first top-level arithmetic operator of t.
// Leading signs, signs following another operator and exponent signs are
// not split points; ++, --, +=, ->, and comments are rejected.
func findOperator(t string) (int, string) {
	top := TopLevel(t)
	for i := 0; i < len(t); i++ {
		if !top[i] {
			continue
		}
		c := t[i]
		if c != '+' && c != '-' && c != '*' && c != '/' && c != '%' {
			continue
		}
		if i == 0 {
			continue
		}
		next := byte(0)
		if i+1 < len(t) {
			next = t[i+1]
		}
		if next == '=' || (c == '+' && next == '+') || (c == '-' && next == '-') || (c == '-' && next == '>') {
			return -1, ""
		}
		if (c == '+' || c == '-') && (precededByOperator(t, i) || isExponentSign(t, i)) {
			continue
		}
		switch {
		case c == '/' && next == '/':
			return i, "//"
		case c == '*' && next == '*':
			return i, "**"
		}
		return i, string(c)
	}
	return -1, ""
}

func precededByOperator(t string, i int) bool {
	j := i - 1
	for j >= 0 && t[j] == ' ' {
		j--
	}
	if j < 0 {
		return true
	}
	return strings.IndexByte("+-*/%(=,<>!&|", t[j]) >= 0
}

func isExponentSign(t string, i int) bool {
	if i < 2 || (t[i-1] != 'e' && t[i-1] != 'E') {
		return false
	}
	c := t[i-2]
	if c < '0' || c > '9' {
		return false
	}
	// Walk back over the mantissa; an identifier like "size" is not a literal.
	j := i - 2
	for j >= 0 && (t[j] >= '0' && t[j] <= '9' || t[j] == '.') {
		j--
	}
	return j < 0 || !isIdentByte(t[j])
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
