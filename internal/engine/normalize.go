package engine

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/blocks"
)

// braceLine is one logical statement of a brace-delimited source: the text
// between separators, the block braces closed before it and opened after it.
type braceLine struct {
	line   int
	text   string
	closes int
	opens  int
}

var (
	// = {..}, f({..}), [3]int{..}, new int[] {..}, x := Point{..}, return {..}
	literalBefore = regexp.MustCompile(`(?:[=,(\[]|\breturn|\]\s*[\w.]*|\bnew\s+[\w.]+(?:<[^>]*>)?(?:\[\s*\])?|(?::=|[^=!<>]=)\s*&?[A-Z][\w.]*(?:<[^>]*>)?)\s*$`)
)

// splitBraces turns source into logical lines. Statements end at a
// top-level ';' or newline, block braces end the line they open and start
// the line they close, and braces that begin a literal stay in the text.
func splitBraces(source string) []braceLine {
	src := stripComments(source)
	sp := &splitter{line: 1}
	parens, literal := 0, 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			sp.add(c)
			if c == '\\' && i+1 < len(src) {
				i++
				sp.add(src[i])
			} else if c == quote {
				quote = 0
			}
			if c == '\n' {
				sp.line++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' && sp.empty() && sp.pending > 0 {
			if kw := keyword(src[i:]); kw != "else" && kw != "while" {
				sp.flushCloses()
			}
		}
		switch {
		case c == '"' || c == '`' || (c == '\'' && isCharLiteral(src[i:])):
			quote = c
			sp.add(c)
		case c == '\n':
			if parens == 0 && literal == 0 {
				if !sp.empty() {
					sp.semi = false
				}
				sp.flush()
				sp.flushCloses()
			} else {
				sp.add(' ')
			}
			sp.line++
		case c == '(' || c == '[':
			parens++
			sp.add(c)
		case c == ')' || c == ']':
			if parens > 0 {
				parens--
			}
			sp.add(c)
		case c == ';' && parens == 0 && literal == 0:
			if sp.clauseHeader(src[i:]) {
				sp.add(c)
				continue
			}
			sp.flush()
			sp.semi = true
		case c == '{' && parens == 0:
			if literal > 0 || literalBefore.MatchString(sp.seg.String()) {
				literal++
				sp.add(c)
				continue
			}
			sp.open()
		case c == '}' && parens == 0:
			if literal > 0 {
				literal--
				sp.add(c)
				continue
			}
			sp.flush()
			sp.pending++
			sp.closeLine = sp.line
		default:
			sp.add(c)
		}
	}
	sp.flush()
	sp.flushCloses()
	return sp.out
}

// braceMap matches the block braces of lines.
func braceMap(lines []braceLine) map[int]int {
	view := make([]blocks.BraceLine, len(lines))
	for i, l := range lines {
		view[i] = blocks.BraceLine{Closes: l.closes, Opens: l.opens}
	}
	return blocks.BraceMap(view)
}

type splitter struct {
	out       []braceLine
	seg       strings.Builder
	segLine   int
	line      int
	pending   int
	closeLine int
	semi      bool // last line ended with ';'
}

func (sp *splitter) empty() bool {
	return strings.TrimSpace(sp.seg.String()) == ""
}

func (sp *splitter) add(c byte) {
	if sp.empty() {
		if c == ' ' || c == '\t' || c == '\r' {
			return
		}
		sp.segLine = sp.line
	}
	sp.seg.WriteByte(c)
}

// clauseHeader reports whether the segment is a parenthesis-free header
// such as Go's for i := 0; i < n; i++ {, whose clauses are separated by ';'.
func (sp *splitter) clauseHeader(rest string) bool {
	t := strings.TrimSpace(sp.seg.String())
	kw := keyword(t)
	if kw != "for" && kw != "if" && kw != "switch" {
		return false
	}
	if strings.HasPrefix(strings.TrimSpace(t[len(kw):]), "(") {
		return false
	}
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.Contains(rest, "{")
}

func (sp *splitter) flush() {
	text := strings.TrimSpace(sp.seg.String())
	sp.seg.Reset()
	if text == "" {
		return
	}
	sp.out = append(sp.out, braceLine{line: sp.segLine, text: text, closes: sp.pending})
	sp.pending = 0
}

func (sp *splitter) flushCloses() {
	if sp.pending == 0 {
		return
	}
	sp.out = append(sp.out, braceLine{line: sp.closeLine, closes: sp.pending})
	sp.pending = 0
}

// open ends the segment as a block header.
func (sp *splitter) open() {
	text := strings.TrimSpace(sp.seg.String())
	sp.seg.Reset()
	if text == "" {
		if n := len(sp.out); n > 0 && sp.pending == 0 && !sp.semi && sp.out[n-1].text != "" {
			sp.out[n-1].opens++
			return
		}
		sp.out = append(sp.out, braceLine{line: sp.line, closes: sp.pending, opens: 1})
		sp.pending = 0
		return
	}
	sp.out = append(sp.out, braceLine{line: sp.segLine, text: text, closes: sp.pending, opens: 1})
	sp.pending = 0
}

// stripComments blanks // and /* */ comments outside literals, keeping
// newlines so line numbers survive.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(src) {
				i++
				b.WriteByte(src[i])
			} else if c == quote || c == '\n' {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '\'' && isCharLiteral(src[i:]):
			quote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i < len(src) && !(src[i] == '*' && i+1 < len(src) && src[i+1] == '/') {
				if src[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isCharLiteral tells a char literal such as 'a' or '\n' from a Rust
// lifetime such as 'a.
func isCharLiteral(s string) bool {
	if len(s) >= 3 && s[1] != '\\' && s[2] == '\'' {
		return true
	}
	if len(s) >= 4 && s[1] == '\\' && s[3] == '\'' {
		return true
	}
	// JavaScript and Python style single-quoted strings.
	end := strings.IndexByte(s[1:], '\'')
	nl := strings.IndexByte(s[1:], '\n')
	return end >= 0 && (nl < 0 || end < nl)
}
