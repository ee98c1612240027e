package engine

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/render"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var (
	compoundRe  = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*(\*\*|//|[-+*/%])=\s*(.+)$`)
	postfixRe   = regexp.MustCompile(`^([A-Za-z_$][\w$]*)\s*(\+\+|--)$`)
	prefixRe    = regexp.MustCompile(`^(\+\+|--)\s*([A-Za-z_$][\w$]*)$`)
	defineRe    = regexp.MustCompile(`^#define\s+([A-Za-z_]\w*)\s+(.+)$`)
	bareDeclRe  = regexp.MustCompile(`^(?:(?:const|static|final|unsigned|signed)\s+)*(?:int|long|float|double|char|bool|boolean|short|auto|var|let|string|String|size_t|i32|i64|u32|u64|usize|f32|f64|float32|float64|int64|int32)\s+([A-Za-z_]\w*)\s*(?:\[\s*([^\]]*)\])?$`)
	goVarDeclRe = regexp.MustCompile(`^var\s+([A-Za-z_]\w*)\s+(?:\[\s*([^\]]*)\])?[\w.]+$`)

	// Lines with no visible effect on the store or output.
	structuralRe = regexp.MustCompile(`^(?:#|import\b|from\s+\S+\s+import\b|package\b|using\b|use\b|extern\b|return\b|pass$|global\b|nonlocal\b|"use strict"|'use strict'|@\w+|module\.exports\b|require\b)`)
)

// structural reports whether text should be passed over without an entry.
func structural(text string) bool {
	switch text {
	case "", "{", "}", ";":
		return true
	}
	if defineRe.MatchString(text) {
		return false
	}
	return structuralRe.MatchString(text)
}

// apply performs a plain statement against the store. It reports false
// when no statement form matched.
func (m *machine) apply(text string) (outcome, bool) {
	t := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if t == "" {
		return outcome{}, false
	}
	if oc, ok := m.compound(t); ok {
		return oc, true
	}
	if m.id != dialect.Python {
		if oc, ok := m.increment(t); ok {
			return oc, true
		}
	}
	if oc, ok := m.declare(t); ok {
		return oc, true
	}
	if oc, ok := m.assign(t); ok {
		return oc, true
	}
	if line, ok := render.Print(m.id, t, m.rec.Store); ok {
		m.rec.Out.Append(line)
		return outcome{
			action: trace.ActionPrint,
			note:   m.notes.Sprintf(i18n.Print, line),
			output: line,
		}, true
	}
	return outcome{}, false
}

// applyAll runs a comma separated clause such as i++, j-- silently.
func (m *machine) applyAll(clause string) {
	for _, part := range expr.SplitTopLevel(clause, ",") {
		m.apply(part)
	}
}

func (m *machine) compound(t string) (outcome, bool) {
	mt := compoundRe.FindStringSubmatch(t)
	if mt == nil {
		return outcome{}, false
	}
	name, op, rhs := mt[1], mt[2], mt[3]
	cur, _ := m.rec.Store.Get(name)
	s := m.rec.Store

	switch {
	case cur.Kind == trace.KindString && op == "+":
		add := render.Arg(rhs, s)
		s.Set(name, trace.String(cur.Str+add))
		return outcome{
			action: trace.ActionCompound,
			note:   m.notes.Sprintf(i18n.Assign, name, cur.Str+add),
		}, true
	case cur.Kind == trace.KindList && op == "+":
		if items, ok := expr.ResolveList(rhs, s); ok {
			joined := append(append([]float64{}, cur.List...), items...)
			s.Set(name, trace.List(joined))
			return outcome{
				action: trace.ActionList,
				note:   m.notes.Sprintf(i18n.CreateList, name, len(joined)),
			}, true
		}
	}

	left := cur.Float()
	right := expr.ResolveNumber(rhs, s)
	result := expr.ApplyOperator(left, right, op)
	s.Set(name, trace.Number(result))
	return outcome{
		action: trace.ActionCompound,
		note: m.notes.Sprintf(i18n.Compound, name,
			trace.FormatNumber(left), op, trace.FormatNumber(right), trace.FormatNumber(result)),
		op: &trace.Operation{Left: left, Operator: op, Right: right, Result: result, Target: name},
	}, true
}

func (m *machine) increment(t string) (outcome, bool) {
	var name, op string
	if mt := postfixRe.FindStringSubmatch(t); mt != nil {
		name, op = mt[1], mt[2]
	} else if mt := prefixRe.FindStringSubmatch(t); mt != nil {
		name, op = mt[2], mt[1]
	} else {
		return outcome{}, false
	}
	cur, _ := m.rec.Store.Get(name)
	left := cur.Float()
	sign := op[:1]
	result := expr.ApplyOperator(left, 1, sign)
	m.rec.Store.Set(name, trace.Number(result))
	return outcome{
		action: trace.ActionIncrement,
		note: m.notes.Sprintf(i18n.Compound, name,
			trace.FormatNumber(left), sign, "1", trace.FormatNumber(result)),
		op: &trace.Operation{Left: left, Operator: sign, Right: 1, Result: result, Target: name},
	}, true
}

// declare handles declarations without an initializer: int x; int xs[3];
// var x int; #define N 5.
func (m *machine) declare(t string) (outcome, bool) {
	if mt := defineRe.FindStringSubmatch(t); mt != nil {
		return m.bind(mt[1], mt[2], true), true
	}
	mt := bareDeclRe.FindStringSubmatch(t)
	if mt == nil && m.id == dialect.Go {
		mt = goVarDeclRe.FindStringSubmatch(t)
	}
	if mt == nil {
		return outcome{}, false
	}
	name := mt[1]
	if strings.TrimSpace(mt[2]) != "" {
		n := int(expr.ResolveNumber(mt[2], m.rec.Store))
		n = max(0, min(n, m.limit))
		m.rec.Store.Set(name, trace.List(make([]float64, n)))
		return outcome{
			action: trace.ActionList,
			note:   m.notes.Sprintf(i18n.CreateList, name, n),
		}, true
	}
	m.rec.Store.Set(name, trace.Number(0))
	return outcome{
		action: trace.ActionDeclare,
		note:   m.notes.Sprintf(i18n.Declare, name, "0"),
	}, true
}

// assign handles name = expr, typed declarations with an initializer,
// := bindings and parallel assignment a, b = b, a.
func (m *machine) assign(t string) (outcome, bool) {
	lhs, rhs, walrus, ok := splitAssign(t)
	if !ok {
		return outcome{}, false
	}
	names, declared, ok := m.targets(lhs)
	if !ok {
		return outcome{}, false
	}
	declared = declared || walrus

	if len(names) > 1 {
		parts := expr.SplitTopLevel(rhs, ",")
		if len(parts) != len(names) {
			return outcome{}, false
		}
		vals := make([]trace.Value, len(parts))
		for i, p := range parts {
			vals[i], _ = m.evaluate(p)
		}
		shown := make([]string, len(vals))
		for i, v := range vals {
			m.rec.Store.Set(names[i], v)
			shown[i] = v.Display()
		}
		return outcome{
			action: trace.ActionAssign,
			note:   m.notes.Sprintf(i18n.Assign, strings.Join(names, ", "), strings.Join(shown, ", ")),
		}, true
	}
	return m.bind(names[0], rhs, declared), true
}

func (m *machine) bind(name, rhs string, declared bool) outcome {
	v, op := m.evaluate(rhs)
	m.rec.Store.Set(name, v)
	if op != nil {
		op.Target = name
	}
	if v.Kind == trace.KindList {
		return outcome{
			action: trace.ActionList,
			note:   m.notes.Sprintf(i18n.CreateList, name, len(v.List)),
		}
	}
	action, key := trace.ActionAssign, i18n.Assign
	if declared {
		action, key = trace.ActionDeclare, i18n.Declare
	}
	return outcome{action: action, note: m.notes.Sprintf(key, name, v.Display()), op: op}
}

// evaluate resolves the right side of an assignment: text, lists, copies of
// list or string bindings, index reads, a binary operation or a number.
func (m *machine) evaluate(rhs string) (trace.Value, *trace.Operation) {
	s := m.rec.Store
	t := strings.TrimSpace(rhs)
	if text, ok := render.Text(t, s); ok {
		return trace.String(text), nil
	}
	if items, ok := expr.SizedArray(t, s, m.limit); ok {
		return trace.List(items), nil
	}
	if items, ok := expr.ResolveList(t, s); ok {
		return trace.List(items), nil
	}
	if expr.IsIdentifier(t) {
		if v, ok := s.Get(t); ok && v.Kind != trace.KindNumber {
			return v.Clone(), nil
		}
	}
	if n, ok := expr.IndexRead(t, s); ok {
		return trace.Number(n), nil
	}
	if op, ok := expr.ParseBinary(t, s); ok {
		return trace.Number(op.Result), op
	}
	return trace.Number(expr.ResolveNumber(t, s)), nil
}

// splitAssign splits t at its top-level assignment operator.
func splitAssign(t string) (lhs, rhs string, walrus, ok bool) {
	top := expr.TopLevel(t)
	for i := 0; i < len(t); i++ {
		if t[i] != '=' || !top[i] {
			continue
		}
		if i+1 < len(t) && (t[i+1] == '=' || t[i+1] == '>') {
			i++
			continue
		}
		if i > 0 && strings.IndexByte("=!<>+-*/%&|^", t[i-1]) >= 0 {
			continue
		}
		lhs, rhs = t[:i], t[i+1:]
		if i > 0 && t[i-1] == ':' {
			lhs, walrus = t[:i-1], true
		}
		lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)
		if lhs == "" || rhs == "" {
			return "", "", false, false
		}
		if _, _, _, chained := splitAssign(rhs); chained {
			return "", "", false, false
		}
		return lhs, rhs, walrus, true
	}
	return "", "", false, false
}

// targets extracts the bound names from the left side of an assignment and
// reports whether it carries a declaration keyword or type.
func (m *machine) targets(lhs string) ([]string, bool, bool) {
	if strings.ContainsAny(lhs, "(.") {
		return nil, false, false
	}
	lhs = stripAnnotation(lhs)

	if parts := expr.SplitTopLevel(lhs, ","); len(parts) > 1 && !strings.Contains(lhs, "<") {
		names := make([]string, len(parts))
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if !expr.IsIdentifier(p) {
				return nil, false, false
			}
			names[i] = p
		}
		return names, false, true
	}

	fields := strings.Fields(lhs)
	if len(fields) == 0 {
		return nil, false, false
	}
	name := fields[len(fields)-1]
	if len(fields) > 1 && (fields[0] == "var" || (m.id == dialect.Go && fields[0] == "const")) {
		name = fields[1]
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		if len(fields) == 1 {
			// index writes are not supported
			return nil, false, false
		}
		name = name[:i]
	}
	name = strings.TrimLeft(name, "*&")
	if !expr.IsIdentifier(name) {
		return nil, false, false
	}
	return []string{name}, len(fields) > 1, true
}

// stripAnnotation drops a type annotation such as x: int or let v: Vec<i32>.
func stripAnnotation(lhs string) string {
	for i := 0; i < len(lhs); i++ {
		if lhs[i] != ':' {
			continue
		}
		if i+1 < len(lhs) && lhs[i+1] == ':' {
			i++
			continue
		}
		return strings.TrimSpace(lhs[:i])
	}
	return lhs
}
