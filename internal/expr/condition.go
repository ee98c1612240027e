package expr

import (
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// comparators in match priority; longer tokens first.
var comparators = []string{"===", "!==", "==", "!=", ">=", "<=", ">", "<"}

// EvaluateCondition evaluates a single comparison. Top-level &&, ||, and,
// or combine comparisons. Anything without a comparator is false.
func EvaluateCondition(expr string, s *trace.Store) bool {
	return evaluateCondition(expr, s, 0)
}

func evaluateCondition(expr string, s *trace.Store, depth int) bool {
	t := trimCondition(expr)
	if t == "" || depth > maxDepth {
		return false
	}
	for _, sep := range []string{"||", " or "} {
		if parts := SplitTopLevel(t, sep); len(parts) > 1 {
			for _, p := range parts {
				if evaluateCondition(p, s, depth+1) {
					return true
				}
			}
			return false
		}
	}
	for _, sep := range []string{"&&", " and "} {
		if parts := SplitTopLevel(t, sep); len(parts) > 1 {
			for _, p := range parts {
				if !evaluateCondition(p, s, depth+1) {
					return false
				}
			}
			return true
		}
	}
	if inner, ok := unwrapParens(t); ok {
		return evaluateCondition(inner, s, depth+1)
	}

	pos, op := findComparator(t)
	if pos < 0 {
		return false
	}
	left := strings.TrimSpace(t[:pos])
	right := strings.TrimSpace(t[pos+len(op):])
	if left == "" || right == "" {
		return false
	}
	if ls, rs, ok := stringOperands(left, right, s); ok {
		return compareStrings(ls, rs, op)
	}
	return compareNumbers(resolveNumber(left, s, depth+1), resolveNumber(right, s, depth+1), op)
}

// trimCondition strips whitespace and a trailing ':' or '{'.
func trimCondition(expr string) string {
	t := strings.TrimSpace(expr)
	t = strings.TrimSuffix(t, "{")
	t = strings.TrimSuffix(strings.TrimSpace(t), ":")
	return strings.TrimSpace(t)
}

// findComparator returns the first top-level comparator of t.
func findComparator(t string) (int, string) {
	top := TopLevel(t)
	for i := 0; i < len(t); i++ {
		if !top[i] {
			continue
		}
		for _, op := range comparators {
			if !strings.HasPrefix(t[i:], op) {
				continue
			}
			if !validComparator(t, i, op) {
				break
			}
			return i, op
		}
	}
	return -1, ""
}

// validComparator rejects shifts, arrows and assignments that share characters
// with comparison operators.
func validComparator(t string, i int, op string) bool {
	prev := byte(0)
	if i > 0 {
		prev = t[i-1]
	}
	end := i + len(op)
	next := byte(0)
	if end < len(t) {
		next = t[end]
	}
	switch op {
	case ">":
		return prev != '-' && prev != '=' && prev != '>' && next != '>'
	case "<":
		return prev != '<' && next != '<'
	case "==", "!=":
		return prev != '=' && prev != '!' && prev != '<' && prev != '>'
	}
	return true
}

func stringOperands(left, right string, s *trace.Store) (string, string, bool) {
	l, lok := stringOperand(left, s)
	r, rok := stringOperand(right, s)
	if !lok && !rok {
		return "", "", false
	}
	if !lok {
		l = trace.FormatNumber(ResolveNumber(left, s))
	}
	if !rok {
		r = trace.FormatNumber(ResolveNumber(right, s))
	}
	return l, r, true
}

func stringOperand(t string, s *trace.Store) (string, bool) {
	if lit, ok := Unquote(t); ok {
		return lit, true
	}
	if IsIdentifier(t) {
		if v, ok := s.Get(t); ok && v.Kind == trace.KindString {
			return v.Str, true
		}
	}
	return "", false
}

func compareStrings(l, r, op string) bool {
	switch op {
	case "==", "===":
		return l == r
	case "!=", "!==":
		return l != r
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	}
	return false
}

func compareNumbers(l, r float64, op string) bool {
	switch op {
	case "==", "===":
		return l == r
	case "!=", "!==":
		return l != r
	case ">":
		return l > r
	case "<":
		return l < r
	case ">=":
		return l >= r
	case "<=":
		return l <= r
	}
	return false
}
