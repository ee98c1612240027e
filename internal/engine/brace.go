package engine

import (
	"math"
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
)

var (
	funcHeaderRe = regexp.MustCompile(`^(?:(?:public|private|protected|internal|static|final|async|virtual|override|inline|extern|unsafe|pub(?:\(crate\))?|const|constexpr|export|default)\s+)*(?:fn\s+|func\s+(?:\([^)]*\)\s*)?|function\s*\*?\s*|[\w<>\[\],.:*&?]+\s+[*&]?)([A-Za-z_]\w*)\s*(?:<[^>]*>)?\s*\(`)
	typeHeaderRe = regexp.MustCompile(`^(?:(?:public|private|protected|internal|static|final|abstract|sealed|partial|pub|export|default)\s+)*(class|namespace|impl|module|object|struct|enum|interface|union|trait|record)\b`)
	collectionRe = regexp.MustCompile(`^(?:.*?\s)?[&*]?([A-Za-z_$][\w$]*)\s*(:|\bof\b|\bin\b)\s*(.+)$`)
	goRangeRe    = regexp.MustCompile(`^([A-Za-z_]\w*)(?:\s*,\s*([A-Za-z_]\w*))?\s*:?=\s*range\s+(.+)$`)
)

// braceRunner executes brace-delimited sources.
type braceRunner struct {
	*machine
	lines []braceLine
	close map[int]int
}

func newBraceRunner(m *machine, source string) *braceRunner {
	lines := splitBraces(source)
	return &braceRunner{machine: m, lines: lines, close: braceMap(lines)}
}

// clause is the body of a header: a record range, or a single statement
// written on the header line itself.
type clause struct {
	start, end int
	line       int
	inline     string
	next       int // first record after the clause
}

func (r *braceRunner) run(start, end int) flow {
	for i := start; i < end; {
		var f flow
		f, i = r.step(i)
		if f != flowNext {
			return f
		}
	}
	return flowNext
}

// step runs the construct starting at record i and returns the index of
// the record after it.
func (r *braceRunner) step(i int) (flow, int) {
	l := r.lines[i]
	text := l.text
	if text == "" {
		return flowNext, i + 1
	}

	switch kw := keyword(text); kw {
	case "if":
		return r.ifChain(i)
	case "for", "foreach":
		return r.forLoop(i, kw)
	case "while":
		cond, tail := parenHeader(text, kw)
		a := r.arm(i, tail)
		return r.repeat(l.line, text, cond, false, func() flow { return r.body(a) }), a.next
	case "do":
		return r.doLoop(i)
	case "loop":
		if text == kw {
			a := r.arm(i, "")
			return r.repeat(l.line, text, "", false, func() flow { return r.body(a) }), a.next
		}
	case "else", "catch", "except":
		if l.opens > 0 || kw == "else" {
			// else without a preceding if, or an exception handler
			return flowNext, r.arm(i, strings.TrimSpace(text[len(kw):])).next
		}
	case "switch", "match", "select":
		if l.opens > 0 {
			if !r.exec(l.line, text) {
				return flowStop, i + 1
			}
			return flowNext, r.arm(i, "").next
		}
	case "break":
		return flowBreak, i + 1
	case "continue":
		return flowContinue, i + 1
	}

	if l.opens > 0 {
		a := r.arm(i, "")
		if skipsBody(text) {
			return flowNext, a.next
		}
		return r.body(a), a.next
	}
	return r.inline(l.line, text), i + 1
}

// inline runs a single statement.
func (r *braceRunner) inline(line int, text string) flow {
	text = strings.TrimSpace(text)
	switch keyword(text) {
	case "break":
		return flowBreak
	case "continue":
		return flowContinue
	case "if":
		cond, tail := parenHeader(text, "if")
		res, ok := r.condition(line, text, cond)
		if !ok {
			return flowStop
		}
		if res && tail != "" {
			return r.inline(line, tail)
		}
		return flowNext
	}
	if structural(text) {
		return flowNext
	}
	if !r.exec(line, text) {
		return flowStop
	}
	return flowNext
}

func (r *braceRunner) body(a clause) flow {
	if a.inline != "" {
		return r.inline(a.line, a.inline)
	}
	return r.run(a.start, a.end)
}

// arm resolves the body of the header at record i. A braced header owns
// the records up to its matching close; a header with tail text owns that
// text; otherwise it owns the next statement.
func (r *braceRunner) arm(i int, tail string) clause {
	l := r.lines[i]
	if l.opens > 0 {
		c, ok := r.close[i]
		if !ok {
			c = len(r.lines)
		}
		return clause{start: i + 1, end: c, next: r.after(c)}
	}
	if tail != "" {
		return clause{line: l.line, inline: tail, next: i + 1}
	}
	n := r.span(i + 1)
	return clause{start: i + 1, end: n, next: n}
}

// after returns the record following close record c. A close that carries
// text, such as "} else {", is itself the next record.
func (r *braceRunner) after(c int) int {
	if c < len(r.lines) && r.lines[c].text == "" {
		return c + 1
	}
	return c
}

// span returns the index after the single statement at j.
func (r *braceRunner) span(j int) int {
	if j >= len(r.lines) {
		return j
	}
	if r.lines[j].opens > 0 {
		c, ok := r.close[j]
		if !ok {
			return len(r.lines)
		}
		return r.after(c)
	}
	return j + 1
}

// ifChain runs an if / else if / else chain starting at record i.
func (r *braceRunner) ifChain(i int) (flow, int) {
	taken := false
	for {
		l := r.lines[i]
		text := l.text
		isElse := false
		if keyword(text) == "else" {
			text = strings.TrimSpace(text[len("else"):])
			isElse = keyword(text) != "if"
		}
		var cond, tail string
		if isElse {
			tail = text
		} else {
			cond, tail = parenHeader(text, "if")
		}
		a := r.arm(i, tail)

		run := false
		if !taken {
			if isElse {
				run = true
			} else {
				init, c := splitInit(cond)
				if init != "" {
					r.apply(init)
				}
				res, ok := r.condition(l.line, l.text, c)
				if !ok {
					return flowStop, a.next
				}
				run = res
			}
		}
		if run {
			taken = true
			if f := r.body(a); f != flowNext {
				return f, a.next
			}
		}
		if isElse || a.next >= len(r.lines) || keyword(r.lines[a.next].text) != "else" {
			return flowNext, a.next
		}
		i = a.next
	}
}

func (r *braceRunner) forLoop(i int, kw string) (flow, int) {
	l := r.lines[i]
	rest := strings.TrimSpace(l.text[len(kw):])
	head, tail := rest, ""
	paren := strings.HasPrefix(rest, "(")
	if paren {
		if k := expr.MatchClose(rest, 0); k > 0 {
			head, tail = rest[1:k], strings.TrimSpace(rest[k+1:])
		}
	}
	a := r.arm(i, tail)
	body := func() flow { return r.body(a) }

	if parts := expr.SplitTopLevel(head, ";"); len(parts) == 3 {
		return r.counted(l.line, l.text, parts[0], parts[1], parts[2], body), a.next
	}
	if mt := goRangeRe.FindStringSubmatch(head); mt != nil {
		names := []string{mt[1]}
		seq := r.iterable(mt[3])
		if mt[2] != "" {
			names = append(names, mt[2])
			seq.enumerate = true
		} else if len(seq.values) > 0 {
			seq.values = indices(len(seq.values))
		} else {
			n := math.Floor(expr.ResolveNumber(mt[3], r.rec.Store))
			seq.values = r.steps(0, n, 1)
		}
		return r.each(l.line, l.text, names, seq, body), a.next
	}
	if !paren {
		if mt := forInRe.FindStringSubmatch("for " + head); mt != nil {
			return r.each(l.line, l.text, loopNames(mt[1]), r.iterable(mt[2]), body), a.next
		}
	}
	if mt := collectionRe.FindStringSubmatch(head); mt != nil {
		seq := r.iterable(mt[3])
		if mt[2] == "in" && r.id == dialect.JavaScript {
			seq.values = indices(len(seq.values))
		}
		return r.each(l.line, l.text, []string{mt[1]}, seq, body), a.next
	}
	// for { } and for cond { }
	return r.repeat(l.line, l.text, head, false, body), a.next
}

// doLoop runs do { } while (cond). The condition sits on the record that
// closes the body.
func (r *braceRunner) doLoop(i int) (flow, int) {
	l := r.lines[i]
	a := r.arm(i, strings.TrimSpace(l.text[len("do"):]))
	cond, next := "", a.next
	if next < len(r.lines) && keyword(r.lines[next].text) == "while" {
		cond, _ = parenHeader(r.lines[next].text, "while")
		next++
	}
	return r.repeat(l.line, l.text, cond, true, func() flow { return r.body(a) }), next
}

// parenHeader splits "if (cond) stmt" into cond and stmt. Headers without
// parentheses, as in Go and Rust, are all condition.
func parenHeader(text, kw string) (string, string) {
	rest := strings.TrimSpace(text[len(kw):])
	if !strings.HasPrefix(rest, "(") {
		return rest, ""
	}
	k := expr.MatchClose(rest, 0)
	if k < 0 {
		return rest, ""
	}
	tail := strings.TrimSpace(rest[k+1:])
	if tail != "" && strings.ContainsAny(tail[:1], "&|+-*/<>=!%.") {
		// (a > b) && c
		return rest, ""
	}
	return rest[1:k], tail
}

// splitInit separates the init statement of "x := f(); x > 0".
func splitInit(cond string) (string, string) {
	parts := expr.SplitTopLevel(cond, ";")
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", cond
}

// skipsBody reports whether a block header declares something that is not
// run in place: functions other than main, lambdas and data types.
func skipsBody(text string) bool {
	if strings.Contains(text, "=>") || strings.HasPrefix(text, "function") {
		return true
	}
	if mt := typeHeaderRe.FindStringSubmatch(text); mt != nil {
		switch mt[1] {
		case "class", "namespace", "impl", "module", "object":
			return false
		}
		return true
	}
	if mt := funcHeaderRe.FindStringSubmatch(text); mt != nil {
		return mt[1] != "main" && mt[1] != "Main"
	}
	return false
}

func indices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
