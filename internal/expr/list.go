package expr

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// listPrefix matches what may precede the bracket of a list literal:
// vec![..], new int[]{..}, new List<int>{..}, []int{..}, [3]int{..},
// std::vector<int>{..}, List.of(..), Arrays.asList(..).
var listPrefix = regexp.MustCompile(`^(?:vec!|new\s+[\w.]+(?:<[^>]*>)?\s*(?:\[\s*[^\]]*\])?(?:\s*\(\s*\))?|\[\s*\w*\s*\]\s*[\w.]+|(?:std::)?(?:vector|array|list)<[^>]*>|List\.of|Arrays\.asList|Array\.of|list|tuple|array)?$`)

// ResolveList recognises list literals and bare comma-separated items.
// Each item is resolved with ResolveNumber.
func ResolveList(expr string, s *trace.Store) ([]float64, bool) {
	t := trimStatement(expr)
	if t == "" {
		return nil, false
	}
	if inner, ok := bracketBody(t); ok {
		return resolveItems(inner, s), true
	}
	parts := SplitTopLevel(t, ",")
	if len(parts) < 2 {
		return nil, false
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || IsQuoted(p) {
			return nil, false
		}
	}
	return resolveItems(t, s), true
}

// bracketBody returns the inside of a list literal, or false.
func bracketBody(t string) (string, bool) {
	open := -1
	for i := 0; i < len(t); i++ {
		if strings.IndexByte("[{(", t[i]) >= 0 && MatchClose(t, i) == len(t)-1 {
			open = i
			break
		}
	}
	if open < 0 {
		return "", false
	}
	prefix := strings.TrimSpace(t[:open])
	if !listPrefix.MatchString(prefix) {
		return "", false
	}
	inner := strings.TrimSpace(t[open+1 : len(t)-1])
	switch t[open] {
	case '(':
		if prefix == "" && IndexTopLevel(inner, ",") < 0 {
			// parenthesised expression, not a tuple
			return "", false
		}
	case '[':
		if callPrefix[prefix] {
			return "", false
		}
		if sizedArray.MatchString(t) {
			// new int[5] has no body, only a size
			return "", false
		}
	case '{':
		if callPrefix[prefix] || strings.Contains(inner, ":") {
			// object literal
			return "", false
		}
	}
	return inner, true
}

var (
	callPrefix = map[string]bool{
		"list": true, "tuple": true, "array": true,
		"List.of": true, "Arrays.asList": true, "Array.of": true,
	}
	sizedArray = regexp.MustCompile(`^new\s+[\w.]+\s*\[\s*([^\]]+)\]$`)
)

// SizedArray recognises new T[n] and returns n zeros, capped at limit.
func SizedArray(expr string, s *trace.Store, limit int) ([]float64, bool) {
	m := sizedArray.FindStringSubmatch(trimStatement(expr))
	if m == nil {
		return nil, false
	}
	n := int(ResolveNumber(m[1], s))
	if n < 0 {
		n = 0
	}
	if n > limit {
		n = limit
	}
	return make([]float64, n), true
}

func resolveItems(inner string, s *trace.Store) []float64 {
	items := []float64{}
	if strings.TrimSpace(inner) == "" {
		return items
	}
	for _, p := range SplitTopLevel(inner, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		items = append(items, ResolveNumber(p, s))
	}
	return items
}
