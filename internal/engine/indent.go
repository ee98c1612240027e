package engine

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/blocks"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
)

var forInRe = regexp.MustCompile(`^for\s+(.+?)\s+in\s+(.+)$`)

// indentRunner executes indentation-delimited sources.
type indentRunner struct {
	*machine
	lines []blocks.IndentLine
}

func newIndentRunner(m *machine, source string) *indentRunner {
	lines := blocks.IndentLines(source, "#")
	for i := range lines {
		lines[i].Trimmed = stripComment(lines[i].Trimmed, '#')
	}
	return &indentRunner{machine: m, lines: joinContinuations(lines)}
}

// run executes lines[start:end].
func (r *indentRunner) run(start, end int) flow {
	for i := start; i < end; {
		l := r.lines[i]
		text := l.Trimmed
		bodyEnd := min(blocks.IndentEnd(r.lines, i, l.Indent), end)

		var f flow
		switch keyword(text) {
		case "if":
			f, i = r.ifChain(i, end)
		case "for":
			f = r.forLoop(i, bodyEnd)
			i = bodyEnd
		case "while":
			header, inline := splitHeader(text)
			cond := strings.TrimSpace(strings.TrimPrefix(header, "while"))
			f = r.repeat(l.Line, text, cond, false, func() flow { return r.body(i, bodyEnd, inline) })
			i = bodyEnd
		case "def", "class", "except", "elif", "else", "async":
			i = bodyEnd
		case "try", "finally", "with":
			_, inline := splitHeader(text)
			f = r.body(i, bodyEnd, inline)
			i = bodyEnd
		case "break":
			return flowBreak
		case "continue":
			return flowContinue
		default:
			f = r.statement(l.Line, text)
			i++
		}
		if f != flowNext {
			return f
		}
	}
	return flowNext
}

// statement runs one simple statement, which may be a ; separated list.
func (r *indentRunner) statement(line int, text string) flow {
	for _, part := range expr.SplitTopLevel(text, ";") {
		part = strings.TrimSpace(part)
		switch {
		case part == "break":
			return flowBreak
		case part == "continue":
			return flowContinue
		case structural(part):
			continue
		}
		if !r.exec(line, part) {
			return flowStop
		}
	}
	return flowNext
}

// body runs the block of header i, or its inline statement.
func (r *indentRunner) body(i, end int, inline string) flow {
	if inline != "" {
		return r.statement(r.lines[i].Line, inline)
	}
	return r.run(i+1, end)
}

// ifChain runs an if/elif/else chain starting at i and returns the index
// after it.
func (r *indentRunner) ifChain(i, limit int) (flow, int) {
	indent := r.lines[i].Indent
	taken := false
	for {
		l := r.lines[i]
		end := min(blocks.IndentEnd(r.lines, i, indent), limit)
		header, inline := splitHeader(l.Trimmed)
		kw := keyword(header)

		run := false
		if !taken {
			if kw == "else" {
				run = true
			} else {
				cond := strings.TrimSpace(header[len(kw):])
				res, ok := r.condition(l.Line, l.Trimmed, cond)
				if !ok {
					return flowStop, end
				}
				run = res
			}
		}
		if run {
			taken = true
			if f := r.body(i, end, inline); f != flowNext {
				return f, end
			}
		}
		if kw == "else" || end >= limit || !blocks.ElseAt(r.lines, end, indent) {
			return flowNext, end
		}
		i = end
	}
}

func (r *indentRunner) forLoop(i, end int) flow {
	l := r.lines[i]
	header, inline := splitHeader(l.Trimmed)
	mt := forInRe.FindStringSubmatch(header)
	if mt == nil {
		if !r.exec(l.Line, l.Trimmed) {
			return flowStop
		}
		return flowNext
	}
	names := loopNames(mt[1])
	seq := r.iterable(mt[2])
	return r.each(l.Line, l.Trimmed, names, seq, func() flow { return r.body(i, end, inline) })
}

// loopNames splits loop targets such as i, (i, v) or _.
func loopNames(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	var names []string
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		n = strings.TrimPrefix(n, "mut ")
		n = strings.TrimLeft(n, "&")
		names = append(names, strings.TrimSpace(n))
	}
	return names
}

// splitHeader splits "if x > 1: y = 2" into its header and inline body.
func splitHeader(text string) (string, string) {
	if strings.HasSuffix(text, ":") {
		return strings.TrimSpace(strings.TrimSuffix(text, ":")), ""
	}
	if i := expr.IndexTopLevel(text, ":"); i > 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
	}
	return text, ""
}

// keyword returns the leading word of text.
func keyword(text string) string {
	end := 0
	for end < len(text) {
		c := text[end]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		end++
	}
	return text[:end]
}

// stripComment drops a trailing comment outside string literals.
func stripComment(text string, marker byte) string {
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case marker:
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

// joinContinuations merges lines that continue an open bracket.
func joinContinuations(lines []blocks.IndentLine) []blocks.IndentLine {
	out := make([]blocks.IndentLine, 0, len(lines))
	depth := 0
	for _, l := range lines {
		if depth > 0 && len(out) > 0 {
			out[len(out)-1].Trimmed += " " + l.Trimmed
		} else {
			out = append(out, l)
		}
		depth += bracketDelta(l.Trimmed)
		if depth < 0 {
			depth = 0
		}
	}
	return out
}

func bracketDelta(s string) int {
	d := 0
	var quote byte
	for i := 0; i < len(s); i++ {
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
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			d++
		case ')', ']', '}':
			d--
		}
	}
	return d
}
