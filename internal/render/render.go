// Package render turns the arguments of print-like statements into the text
// line they would print.
package render

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var (
	printfVerb = regexp.MustCompile(`%[-+ 0#]*(\d+)?(?:\.(\d+))?(?:hh|h|ll|l|L|z|j|t)?([diufFeEgGxXoscpvqtn%])`)

	// str(x), String(x), x.toString(), to_string(x) and similar wrappers.
	stringify = regexp.MustCompile(`^(?:str|String|String\.valueOf|Integer\.toString|Double\.toString|(?:std::)?to_string|strconv\.Itoa|Convert\.ToString)\s*\((.+)\)$`)
	toString  = regexp.MustCompile(`^(.+?)\s*\.\s*(?:toString|to_string|ToString)\s*\(\s*\)$`)

	precision = regexp.MustCompile(`^(?:\.(\d+)[fF]?|[FfNn](\d+))$`)
)

// SplitArgs splits an argument list on top-level commas, trimming each item
// and dropping empty ones.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range expr.SplitTopLevel(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Arg renders a single argument: quoted literals as their text, list
// literals and list variables in compact form, known variables by value and
// everything else through numeric resolution.
func Arg(arg string, s *trace.Store) string {
	t := strings.TrimSpace(arg)
	if t == "" {
		return ""
	}
	if strings.HasPrefix(t, "`") && expr.IsQuoted(t) {
		return Template(t[1:len(t)-1], s)
	}
	if text, ok := expr.Unquote(t); ok {
		return text
	}
	if out, ok := interpolated(t, s); ok {
		return out
	}
	if out, ok := percentFormat(t, s); ok {
		return out
	}
	if out, ok := formatCall(t, s); ok {
		return out
	}
	if out, ok := Concat(t, s); ok {
		return out
	}
	if m := stringify.FindStringSubmatch(t); m != nil && expr.MatchClose(t, strings.IndexByte(t, '(')) == len(t)-1 {
		return Arg(m[1], s)
	}
	if m := toString.FindStringSubmatch(t); m != nil {
		return Arg(m[1], s)
	}
	switch t {
	case "true", "false", "True", "False":
		return t
	}
	if expr.IsIdentifier(t) {
		if v, ok := s.Get(t); ok {
			return v.Display()
		}
	}
	if strings.HasPrefix(t, "[") || strings.HasPrefix(t, "{") || strings.HasPrefix(t, "vec!") {
		if items, ok := expr.ResolveList(t, s); ok {
			return trace.FormatList(items)
		}
	}
	return trace.FormatNumber(expr.ResolveNumber(t, s))
}

// Text renders t when it is a string-valued expression: a literal, an
// interpolated or formatted string, or a concatenation involving text.
func Text(t string, s *trace.Store) (string, bool) {
	t = strings.TrimSpace(t)
	if !isTextual(t, s) {
		if _, ok := percentFormat(t, s); !ok {
			if _, ok := formatCall(t, s); !ok {
				if _, ok := Concat(t, s); !ok {
					return "", false
				}
			}
		}
	}
	if expr.IsIdentifier(t) {
		return "", false
	}
	return Arg(t, s), true
}

// Join renders every argument and joins them with sep.
func Join(args []string, sep string, s *trace.Store) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = Arg(a, s)
	}
	return strings.Join(parts, sep)
}

// Concat renders a + b + c when at least one operand is textual, joining the
// rendered operands without separators.
func Concat(t string, s *trace.Store) (string, bool) {
	parts := expr.SplitTopLevel(t, "+")
	if len(parts) < 2 {
		return "", false
	}
	textual := false
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			return "", false
		}
		if isTextual(p, s) {
			textual = true
		}
	}
	if !textual {
		return "", false
	}
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(Arg(p, s))
	}
	return b.String(), true
}

func isTextual(t string, s *trace.Store) bool {
	if expr.IsQuoted(t) || stringify.MatchString(t) || toString.MatchString(t) {
		return true
	}
	if _, ok := interpolated(t, s); ok {
		return true
	}
	if expr.IsIdentifier(t) {
		v, ok := s.Get(t)
		return ok && v.Kind == trace.KindString
	}
	return false
}

// Placeholders substitutes printf-style verbs in format with the rendered
// args, left to right. Verbs left over once args run out stay as written.
func Placeholders(format string, args []string, s *trace.Store) string {
	next := 0
	return printfVerb.ReplaceAllStringFunc(format, func(verb string) string {
		m := printfVerb.FindStringSubmatch(verb)
		switch m[3] {
		case "%":
			return "%"
		case "n":
			return "\n"
		}
		if next >= len(args) {
			return verb
		}
		arg := args[next]
		next++
		switch m[3] {
		case "d", "i", "u":
			return trace.FormatNumber(math.Trunc(expr.ResolveNumber(arg, s)))
		case "f", "F", "e", "E", "g", "G":
			if m[2] != "" {
				p, _ := strconv.Atoi(m[2])
				return strconv.FormatFloat(expr.ResolveNumber(arg, s), 'f', p, 64)
			}
			return trace.FormatNumber(expr.ResolveNumber(arg, s))
		case "x", "X":
			h := strconv.FormatInt(int64(expr.ResolveNumber(arg, s)), 16)
			if m[3] == "X" {
				h = strings.ToUpper(h)
			}
			return h
		case "c":
			if text, ok := expr.Unquote(arg); ok {
				return text
			}
			return string(rune(int(expr.ResolveNumber(arg, s))))
		default:
			return Arg(arg, s)
		}
	})
}

// Braces substitutes {} style placeholders. Empty braces take the next
// positional argument, {0} indexes args and {name} or {expr} is resolved in
// place. {{ and }} are literal braces.
func Braces(format string, args []string, s *trace.Store) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if (c == '{' || c == '}') && i+1 < len(format) && format[i+1] == c {
			b.WriteByte(c)
			i++
			continue
		}
		if c != '{' {
			b.WriteByte(c)
			continue
		}
		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			b.WriteString(format[i:])
			break
		}
		raw := format[i : i+end+1]
		body := raw[1 : len(raw)-1]
		name, spec := body, ""
		if k := strings.LastIndexByte(body, ':'); k >= 0 {
			name, spec = body[:k], body[k+1:]
		}
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			if next < len(args) {
				b.WriteString(formatSpec(args[next], spec, s))
				next++
			} else {
				b.WriteString(raw)
			}
		case isDigits(name):
			k, _ := strconv.Atoi(name)
			if k < len(args) {
				b.WriteString(formatSpec(args[k], spec, s))
			} else {
				b.WriteString(raw)
			}
		default:
			b.WriteString(formatSpec(name, spec, s))
		}
		i += end
	}
	return b.String()
}

// Template substitutes ${expr} spans of a backtick template.
func Template(tmpl string, s *trace.Store) string {
	var b strings.Builder
	for {
		i := strings.Index(tmpl, "${")
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := expr.MatchClose(tmpl, i+1)
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:i])
		b.WriteString(Arg(tmpl[i+2:end], s))
		tmpl = tmpl[end+1:]
	}
}

// Stream renders the operands of an insertion chain such as
// cout << "x = " << x << endl. End-of-line markers are dropped.
func Stream(chain string, s *trace.Store) string {
	var b strings.Builder
	for _, p := range expr.SplitTopLevel(chain, "<<") {
		p = strings.TrimSpace(p)
		switch p {
		case "", "endl", "std::endl", `"\n"`, `'\n'`:
			continue
		}
		b.WriteString(Arg(p, s))
	}
	return b.String()
}

func formatSpec(arg, spec string, s *trace.Store) string {
	if m := precision.FindStringSubmatch(strings.TrimSpace(spec)); m != nil {
		digits := m[1] + m[2]
		p, _ := strconv.Atoi(digits)
		return strconv.FormatFloat(expr.ResolveNumber(arg, s), 'f', p, 64)
	}
	return Arg(arg, s)
}

// interpolated handles f"..." and $"..." strings.
func interpolated(t string, s *trace.Store) (string, bool) {
	for _, prefix := range []string{"f", "F", "$", "$@", "@$"} {
		if !strings.HasPrefix(t, prefix) {
			continue
		}
		if body, ok := expr.Unquote(t[len(prefix):]); ok {
			return Braces(body, nil, s), true
		}
	}
	return "", false
}

// percentFormat handles "fmt" % x and "fmt" % (a, b).
func percentFormat(t string, s *trace.Store) (string, bool) {
	i := expr.IndexTopLevel(t, "%")
	if i <= 0 {
		return "", false
	}
	format, ok := expr.Unquote(strings.TrimSpace(t[:i]))
	if !ok {
		return "", false
	}
	right := strings.TrimSpace(t[i+1:])
	args := []string{right}
	if strings.HasPrefix(right, "(") && expr.MatchClose(right, 0) == len(right)-1 {
		args = SplitArgs(right[1 : len(right)-1])
	}
	return Placeholders(format, args, s), true
}

// formatCall handles "...".format(..), String.format, string.Format,
// format! and fmt.Sprintf.
func formatCall(t string, s *trace.Store) (string, bool) {
	if i := expr.IndexTopLevel(t, ".format("); i > 0 {
		format, ok := expr.Unquote(strings.TrimSpace(t[:i]))
		open := i + len(".format")
		if ok && expr.MatchClose(t, open) == len(t)-1 {
			return Braces(format, SplitArgs(t[open+1:len(t)-1]), s), true
		}
	}
	if args, ok := Call(t, "String.format", "fmt.Sprintf"); ok && len(args) > 0 {
		if format, ok := expr.Unquote(args[0]); ok {
			return Placeholders(format, args[1:], s), true
		}
	}
	if args, ok := Call(t, "string.Format", "String.Format", "format!"); ok && len(args) > 0 {
		if format, ok := expr.Unquote(args[0]); ok {
			return Braces(format, args[1:], s), true
		}
	}
	return "", false
}

// Call matches t against name(args) for any of names and returns the split
// argument list.
func Call(t string, names ...string) ([]string, bool) {
	t = strings.TrimSpace(t)
	for _, name := range names {
		if !strings.HasPrefix(t, name) {
			continue
		}
		rest := strings.TrimLeft(t[len(name):], " \t")
		if !strings.HasPrefix(rest, "(") {
			continue
		}
		open := len(t) - len(rest)
		if expr.MatchClose(t, open) != len(t)-1 {
			continue
		}
		return SplitArgs(t[open+1 : len(t)-1]), true
	}
	return nil, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
