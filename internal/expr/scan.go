package expr

import "strings"

// TopLevel marks, for every byte of s, whether it sits outside quotes and
// outside any (), [] or {} nesting. Opening and closing brackets of a
// top-level group are themselves marked top-level.
func TopLevel(s string) []bool {
	top := make([]bool, len(s))
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '(', '[', '{':
			top[i] = depth == 0
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			top[i] = depth == 0
		default:
			top[i] = depth == 0
		}
	}
	return top
}

// SplitTopLevel splits s on top-level occurrences of sep. Separators inside
// quotes or brackets are left alone.
func SplitTopLevel(s, sep string) []string {
	if sep == "" {
		return []string{s}
	}
	top := TopLevel(s)
	var parts []string
	start := 0
	for i := 0; i+len(sep) <= len(s); i++ {
		if !top[i] || !strings.HasPrefix(s[i:], sep) {
			continue
		}
		parts = append(parts, s[start:i])
		i += len(sep) - 1
		start = i + 1
	}
	return append(parts, s[start:])
}

// IndexTopLevel returns the first top-level index of sep in s, or -1.
func IndexTopLevel(s, sep string) int {
	top := TopLevel(s)
	for i := 0; i+len(sep) <= len(s); i++ {
		if top[i] && strings.HasPrefix(s[i:], sep) {
			return i
		}
	}
	return -1
}

// MatchClose returns the index of the bracket closing the one at open, or -1.
func MatchClose(s string, open int) int {
	if open < 0 || open >= len(s) {
		return -1
	}
	var closer byte
	switch s[open] {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	case '{':
		closer = '}'
	default:
		return -1
	}
	opener := s[open]
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// IsQuoted reports whether s is a single string or char literal.
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	if q != '"' && q != '\'' && q != '`' {
		return false
	}
	if s[len(s)-1] != q {
		return false
	}
	// "a" + "b" starts and ends with a quote but is two literals.
	top := TopLevel(s)
	for i := 1; i < len(s)-1; i++ {
		if top[i] {
			return false
		}
	}
	return true
}

// Unquote strips the quotes of a literal and resolves the common escapes.
func Unquote(s string) (string, bool) {
	if !IsQuoted(s) {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, `\`) {
		return inner, true
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 == len(inner) {
			b.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
		case '0':
		default:
			b.WriteByte(inner[i])
		}
	}
	return b.String(), true
}

// trimStatement drops surrounding whitespace and a trailing semicolon.
func trimStatement(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

// unwrapParens strips one pair of parentheses enclosing all of s.
func unwrapParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' {
		return s, false
	}
	if MatchClose(s, 0) != len(s)-1 {
		return s, false
	}
	return strings.TrimSpace(s[1 : len(s)-1]), true
}
