package render

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var coutPrefix = regexp.MustCompile(`^(?:std::)?cout\s*<<`)

// Print recognizes stmt as the print statement of dialect id and renders
// the line it would output. Trailing newlines are dropped.
func Print(id dialect.ID, stmt string, s *trace.Store) (string, bool) {
	t := strings.TrimSpace(stmt)
	t = strings.TrimSpace(strings.TrimSuffix(t, ";"))

	var (
		line string
		ok   bool
	)
	switch id {
	case dialect.Python:
		line, ok = python(t, s)
	case dialect.JavaScript:
		line, ok = javascript(t, s)
	case dialect.Java:
		line, ok = java(t, s)
	case dialect.C:
		line, ok = c(t, s)
	case dialect.CPP:
		if coutPrefix.MatchString(t) {
			line, ok = Stream(t[strings.Index(t, "<<"):], s), true
		} else {
			line, ok = c(t, s)
		}
	case dialect.CSharp:
		line, ok = csharp(t, s)
	case dialect.Go:
		line, ok = golang(t, s)
	case dialect.Rust:
		line, ok = rust(t, s)
	}
	if !ok {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func python(t string, s *trace.Store) (string, bool) {
	args, ok := Call(t, "print")
	if !ok {
		return "", false
	}
	sep := " "
	var values []string
	for _, a := range args {
		if k := keyword(a); k != "" {
			if k == "sep" {
				sep = Arg(a[strings.IndexByte(a, '=')+1:], s)
			}
			continue
		}
		values = append(values, a)
	}
	return Join(values, sep, s), true
}

// keyword returns the name of a name=value argument.
func keyword(a string) string {
	i := strings.IndexByte(a, '=')
	if i <= 0 || (i+1 < len(a) && a[i+1] == '=') {
		return ""
	}
	name := strings.TrimSpace(a[:i])
	if !expr.IsIdentifier(name) {
		return ""
	}
	return name
}

func javascript(t string, s *trace.Store) (string, bool) {
	args, ok := Call(t, "console.log", "console.info", "console.warn", "console.error", "console.debug", "document.write")
	if !ok {
		return "", false
	}
	if len(args) > 1 {
		if format, ok := expr.Unquote(args[0]); ok && printfVerb.MatchString(format) {
			return Placeholders(format, args[1:], s), true
		}
	}
	return Join(args, " ", s), true
}

func java(t string, s *trace.Store) (string, bool) {
	if args, ok := Call(t, "System.out.printf", "System.out.format"); ok {
		return formatted(args, s), true
	}
	args, ok := Call(t, "System.out.println", "System.out.print")
	if !ok {
		return "", false
	}
	return Join(args, "", s), true
}

func c(t string, s *trace.Store) (string, bool) {
	if args, ok := Call(t, "printf"); ok {
		return formatted(args, s), true
	}
	if args, ok := Call(t, "puts"); ok {
		return Join(args, "", s), true
	}
	return "", false
}

func csharp(t string, s *trace.Store) (string, bool) {
	args, ok := Call(t, "Console.WriteLine", "Console.Write")
	if !ok {
		return "", false
	}
	if len(args) > 1 {
		if format, ok := expr.Unquote(args[0]); ok {
			return Braces(format, args[1:], s), true
		}
	}
	return Join(args, "", s), true
}

func golang(t string, s *trace.Store) (string, bool) {
	if args, ok := Call(t, "fmt.Printf"); ok {
		return formatted(args, s), true
	}
	if args, ok := Call(t, "fmt.Println", "println"); ok {
		return Join(args, " ", s), true
	}
	if args, ok := Call(t, "fmt.Print", "print"); ok {
		return Join(args, "", s), true
	}
	return "", false
}

func rust(t string, s *trace.Store) (string, bool) {
	args, ok := Call(t, "println!", "print!")
	if !ok {
		return "", false
	}
	if len(args) == 0 {
		return "", true
	}
	format, ok := expr.Unquote(args[0])
	if !ok {
		return Join(args, " ", s), true
	}
	return Braces(format, args[1:], s), true
}

// formatted renders printf(format, args...).
func formatted(args []string, s *trace.Store) string {
	if len(args) == 0 {
		return ""
	}
	format, ok := expr.Unquote(args[0])
	if !ok {
		return Join(args, "", s)
	}
	return Placeholders(format, args[1:], s)
}
