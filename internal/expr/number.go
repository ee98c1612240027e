// Package expr resolves the textual expressions found in snippets against a
// variable store. Nothing here fails: unresolvable input degrades to 0, an
// absent list, or a false condition.
package expr

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// maxDepth bounds the mutual recursion between number, index and binary
// resolution.
const maxDepth = 32

var (
	numberLiteral = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?[fFlLuUdDmM]*$`)
	identifier    = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

	// xs.length, xs.Length, xs.Count, xs.len(), xs.size(), xs.length(), xs.count()
	memberLength = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*\.\s*(?:length|Length|Count|len\(\)|size\(\)|length\(\)|count\(\)|Count\(\))$`)
	callLength   = regexp.MustCompile(`^len\(\s*([A-Za-z_$][\w$]*)\s*\)$`)
	sizeofLength = regexp.MustCompile(`^sizeof\(\s*(\w+)\s*\)\s*/\s*sizeof\(\s*(\w+)\s*\[\s*0\s*\]\s*\)$`)

	// (int) x, (double) y
	castPrefix = regexp.MustCompile(`^\(\s*(?:int|long|short|float|double|size_t)\s*\)\s*(.+)$`)
	// int(x), float(x), abs(x), Math.abs(x) and friends.
	callName = regexp.MustCompile(`^(int|float|abs|round|Math\.abs|Math\.floor|Math\.ceil|Math\.round|Math\.trunc|parseInt|parseFloat|Number|math\.Abs|math\.Floor)\s*\(`)
)

// ResolveNumber resolves token to a number. Literals, lengths, index reads,
// variable lookups and single binary operations are tried in that order;
// anything else is 0.
func ResolveNumber(token string, s *trace.Store) float64 {
	return resolveNumber(token, s, 0)
}

func resolveNumber(token string, s *trace.Store, depth int) float64 {
	t := trimStatement(token)
	if t == "" || depth > maxDepth {
		return 0
	}
	if n, ok := parseLiteral(t); ok {
		return n
	}
	if inner, ok := unwrapParens(t); ok {
		return resolveNumber(inner, s, depth+1)
	}
	if m := castPrefix.FindStringSubmatch(t); m != nil && !strings.ContainsAny(m[1], "+-*/") {
		return math.Trunc(resolveNumber(m[1], s, depth+1))
	}
	if n, ok := lengthOf(t, s); ok {
		return n
	}
	if n, ok := indexRead(t, s, depth); ok {
		return n
	}
	if n, ok := builtinCall(t, s, depth); ok {
		return n
	}
	if identifier.MatchString(t) {
		if v, ok := s.Get(t); ok {
			return v.Float()
		}
		return 0
	}
	if op, ok := parseBinary(t, s, depth); ok {
		return op.Result
	}
	if strings.HasPrefix(t, "-") {
		return -resolveNumber(t[1:], s, depth+1)
	}
	return 0
}

func parseLiteral(t string) (float64, bool) {
	switch t {
	case "true", "True":
		return 1, true
	case "false", "False":
		return 0, true
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseInt(t[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	if !numberLiteral.MatchString(t) {
		return 0, false
	}
	clean := strings.TrimRight(t, "fFlLuUdDmM")
	clean = strings.TrimSuffix(clean, ".")
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// lengthOf handles xs.length, len(xs) and the sizeof idiom.
func lengthOf(t string, s *trace.Store) (float64, bool) {
	var name string
	if m := memberLength.FindStringSubmatch(t); m != nil {
		name = m[1]
	} else if m := callLength.FindStringSubmatch(t); m != nil {
		name = m[1]
	} else if m := sizeofLength.FindStringSubmatch(t); m != nil && m[1] == m[2] {
		name = m[1]
	} else {
		return 0, false
	}
	v, ok := s.Get(name)
	if !ok {
		return 0, true
	}
	switch v.Kind {
	case trace.KindList:
		return float64(len(v.List)), true
	case trace.KindString:
		return float64(utf8.RuneCountInString(v.Str)), true
	default:
		return 0, true
	}
}

// indexRead handles name[expr]. Out of range reads are 0.
func indexRead(t string, s *trace.Store, depth int) (float64, bool) {
	open := strings.IndexByte(t, '[')
	if open <= 0 || t[len(t)-1] != ']' {
		return 0, false
	}
	name := strings.TrimSpace(t[:open])
	if !identifier.MatchString(name) || MatchClose(t, open) != len(t)-1 {
		return 0, false
	}
	idx := int(math.Trunc(resolveNumber(t[open+1:len(t)-1], s, depth+1)))
	v, ok := s.Get(name)
	if !ok || v.Kind != trace.KindList {
		return 0, true
	}
	if idx < 0 || idx >= len(v.List) {
		return 0, true
	}
	return v.List[idx], true
}

// IndexRead reports whether t is an index read and, if so, its value.
func IndexRead(t string, s *trace.Store) (float64, bool) {
	return indexRead(trimStatement(t), s, 0)
}

func builtinCall(t string, s *trace.Store, depth int) (float64, bool) {
	m := callName.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	open := len(m[0]) - 1
	if MatchClose(t, open) != len(t)-1 {
		return 0, false
	}
	args := SplitTopLevel(t[open+1:len(t)-1], ",")
	n := resolveNumber(args[0], s, depth+1)
	switch m[1] {
	case "int", "parseInt", "Math.trunc":
		return math.Trunc(n), true
	case "abs", "Math.abs", "math.Abs":
		return math.Abs(n), true
	case "round", "Math.round":
		return math.Round(n), true
	case "Math.floor", "math.Floor":
		return math.Floor(n), true
	case "Math.ceil":
		return math.Ceil(n), true
	default:
		return n, true
	}
}

// IsIdentifier reports whether t is a bare variable name.
func IsIdentifier(t string) bool {
	return identifier.MatchString(strings.TrimSpace(t))
}
