package sandbox

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
)

// Go executes a Go subset by rewriting it into a tengo script.
type Go struct {
	maxAllocs int64
}

// NewGo creates a Go executor.
func NewGo() *Go {
	return &Go{maxAllocs: 1000000}
}

// Execute rewrites source, runs it and collects fmt output.
func (g *Go) Execute(ctx context.Context, source string, timeout time.Duration) Result {
	buf := &logBuffer{}
	return settle(ctx, timeout, buf, func(ctx context.Context) Result {
		script := tengo.NewScript([]byte(RewriteGo(source)))
		script.SetMaxAllocs(g.maxAllocs)
		if err := addBuiltins(script, buf); err != nil {
			return Result{Error: fmt.Sprintf("failed to setup environment: %v", err)}
		}

		compiled, err := script.Compile()
		if err != nil {
			return Result{Error: fmt.Sprintf("compile error: %v", err)}
		}
		if err := compiled.RunContext(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return Result{Logs: buf.Lines(), Error: "execution timed out", TimedOut: true}
			}
			return Result{Logs: buf.Lines(), Error: fmt.Sprintf("runtime error: %v", err)}
		}
		return Result{Logs: buf.Lines()}
	})
}

// addBuiltins exposes fmt.Println, fmt.Print, fmt.Printf, fmt.Sprintf and
// the println/print builtins.
func addBuiltins(script *tengo.Script, buf *logBuffer) error {
	join := func(args []tengo.Object, sep string) string {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = objectToString(arg)
		}
		return strings.Join(parts, sep)
	}
	printlnFn := &tengo.UserFunction{
		Name: "Println",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			buf.WriteLine(join(args, " "))
			return tengo.UndefinedValue, nil
		},
	}
	printFn := &tengo.UserFunction{
		Name: "Print",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			buf.Write(join(args, ""))
			return tengo.UndefinedValue, nil
		},
	}
	sprintf := func(args []tengo.Object) (string, error) {
		if len(args) < 1 {
			return "", tengo.ErrWrongNumArguments
		}
		format, ok := tengo.ToString(args[0])
		if !ok {
			return "", tengo.ErrInvalidArgumentType{Name: "format", Expected: "string", Found: args[0].TypeName()}
		}
		return tengo.Format(format, args[1:]...)
	}

	fmtModule := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"Println": printlnFn,
		"Print":   printFn,
		"Printf": &tengo.UserFunction{
			Name: "Printf",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				s, err := sprintf(args)
				if err != nil {
					return nil, err
				}
				buf.Write(s)
				return tengo.UndefinedValue, nil
			},
		},
		"Sprintf": &tengo.UserFunction{
			Name: "Sprintf",
			Value: func(args ...tengo.Object) (tengo.Object, error) {
				s, err := sprintf(args)
				if err != nil {
					return nil, err
				}
				return &tengo.String{Value: s}, nil
			},
		},
	}}

	if err := script.Add("fmt", fmtModule); err != nil {
		return fmt.Errorf("failed to add fmt: %w", err)
	}
	if err := script.Add("println", printlnFn); err != nil {
		return fmt.Errorf("failed to add println: %w", err)
	}
	if err := script.Add("print", printFn); err != nil {
		return fmt.Errorf("failed to add print: %w", err)
	}
	return nil
}

var (
	goPackageRe  = regexp.MustCompile(`^\s*package\s+\w+\s*$`)
	goImportRe   = regexp.MustCompile(`^\s*import\s+(?:\w+\s+)?"[^"]*"\s*$`)
	goMainRe     = regexp.MustCompile(`^\s*func\s+main\s*\(\s*\)\s*\{\s*$`)
	goFuncRe     = regexp.MustCompile(`^(\s*)func\s+([A-Za-z_]\w*)\s*\(([^)]*)\)[^{]*\{\s*$`)
	goVarTypedRe = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)\s+[\w.\[\]]+\s*=`)
	goVarBareRe  = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)\s*=`)
	goVarZeroRe  = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)\s+([\w.\[\]]+)\s*$`)
	goConstRe    = regexp.MustCompile(`\bconst\s+([A-Za-z_]\w*)\s*(?:[\w.]+\s*)?=`)
	goSliceRe    = regexp.MustCompile(`\[\d*\][\w.]+\{`)
	goMapRe      = regexp.MustCompile(`map\[[^\]]*\][\w.\[\]]+\{`)
	goRangeKVRe  = regexp.MustCompile(`for\s+([A-Za-z_]\w*)\s*,\s*([A-Za-z_]\w*)\s*:=\s*range\s+(.+?)\s*\{`)
	goRangeKRe   = regexp.MustCompile(`for\s+([A-Za-z_]\w*)\s*:=\s*range\s+(.+?)\s*\{`)
	goFloatRe    = regexp.MustCompile(`\bfloat(?:32|64)\(`)
	goIntRe      = regexp.MustCompile(`\b(?:u?int(?:8|16|32|64)?)\(`)
)

// RewriteGo turns a small Go program into an equivalent tengo script:
// package and import clauses go, the body of main runs at top level after
// the other declarations, functions become closures, and typed
// declarations, composite literals and range loops take tengo syntax.
func RewriteGo(source string) string {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	var top, main []string
	inImport, inMain, depth := false, false, 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case inImport:
			if trimmed == ")" {
				inImport = false
			}
			continue
		case goPackageRe.MatchString(line), goImportRe.MatchString(line):
			continue
		case strings.HasPrefix(trimmed, "import ("):
			inImport = true
			continue
		case !inMain && goMainRe.MatchString(line):
			inMain, depth = true, 1
			continue
		}

		if inMain {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 {
				inMain = false
				continue
			}
			main = append(main, rewriteLine(line))
			continue
		}
		top = append(top, rewriteLine(line))
	}
	return strings.Join(append(top, main...), "\n")
}

func rewriteLine(line string) string {
	if m := goFuncRe.FindStringSubmatch(line); m != nil {
		return fmt.Sprintf("%s%s := func(%s) {", m[1], m[2], paramNames(m[3]))
	}
	line = goVarTypedRe.ReplaceAllString(line, "$1 :=")
	line = goVarBareRe.ReplaceAllString(line, "$1 :=")
	if m := goVarZeroRe.FindStringSubmatchIndex(line); m != nil {
		name, typ := line[m[2]:m[3]], line[m[4]:m[5]]
		line = line[:m[0]] + name + " := " + zeroValue(typ)
	}
	line = goConstRe.ReplaceAllString(line, "$1 :=")
	line = goMapRe.ReplaceAllString(line, "{")
	line = rewriteSlices(line)
	line = goRangeKVRe.ReplaceAllString(line, "for $1, $2 in $3 {")
	line = goRangeKRe.ReplaceAllString(line, "for $1, _ in $2 {")
	line = goFloatRe.ReplaceAllString(line, "float(")
	line = goIntRe.ReplaceAllString(line, "int(")
	return line
}

// rewriteSlices turns []T{a, b} into [a, b].
func rewriteSlices(line string) string {
	for {
		loc := goSliceRe.FindStringIndex(line)
		if loc == nil {
			return line
		}
		open := loc[1] - 1
		closeAt := matchingBrace(line, open)
		if closeAt < 0 {
			return line
		}
		line = line[:loc[0]] + "[" + line[open+1:closeAt] + "]" + line[closeAt+1:]
	}
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// paramNames drops the types from a Go parameter list.
func paramNames(params string) string {
	var names []string
	for _, p := range strings.Split(params, ",") {
		fields := strings.Fields(p)
		if len(fields) > 0 {
			names = append(names, fields[0])
		}
	}
	return strings.Join(names, ", ")
}

func zeroValue(typ string) string {
	switch {
	case typ == "string":
		return `""`
	case typ == "bool":
		return "false"
	case strings.HasPrefix(typ, "[]"):
		return "[]"
	case strings.HasPrefix(typ, "map["):
		return "{}"
	case strings.HasPrefix(typ, "float"):
		return "0.0"
	}
	return "0"
}

// objectToString converts a tengo object to the text fmt would print.
func objectToString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return fmt.Sprintf("%d", v.Value)
	case *tengo.Float:
		return fmt.Sprintf("%g", v.Value)
	case *tengo.Bool:
		if !v.IsFalsy() {
			return "true"
		}
		return "false"
	case *tengo.Undefined:
		return "<nil>"
	case *tengo.Array:
		parts := make([]string, len(v.Value))
		for i, item := range v.Value {
			parts[i] = objectToString(item)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return obj.String()
	}
}
