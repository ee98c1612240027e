// Package blocks recovers control-flow block boundaries from source lines,
// either by indentation depth or by brace matching.
package blocks

import (
	"strings"
	"unicode"
)

// IndentLine is the indentation view of one logical line.
type IndentLine struct {
	Line    int
	Indent  int
	Trimmed string
}

// IndentEnd returns the index one past the block opened at start: the first
// following line whose indent is at or below parentIndent, or len(lines).
func IndentEnd(lines []IndentLine, start, parentIndent int) int {
	j := start + 1
	for j < len(lines) && lines[j].Indent > parentIndent {
		j++
	}
	return j
}

// ElseAt reports whether lines[i] continues an if chain at parentIndent
// with an else or elif clause.
func ElseAt(lines []IndentLine, i, parentIndent int) bool {
	if i < 0 || i >= len(lines) || lines[i].Indent != parentIndent {
		return false
	}
	kw := leadingWord(lines[i].Trimmed)
	return kw == "else" || kw == "elif"
}

// leadingWord returns the identifier at the start of t.
func leadingWord(t string) string {
	end := strings.IndexFunc(t, func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if end < 0 {
		return t
	}
	return t[:end]
}

// BraceLine is the brace view of one logical line: whether it closes the
// innermost open block before its own content, and whether it opens a
// new block at its end.
type BraceLine struct {
	Closes int
	Opens  int
}

// BraceMap matches block openers to closers in a single forward scan.
// Closers without an opener are ignored; openers never closed map to
// len(lines).
func BraceMap(lines []BraceLine) map[int]int {
	m := make(map[int]int)
	var stack []int
	for i, l := range lines {
		for k := 0; k < l.Closes; k++ {
			if len(stack) == 0 {
				break
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m[top] = i
		}
		for k := 0; k < l.Opens; k++ {
			stack = append(stack, i)
		}
	}
	for _, open := range stack {
		if _, ok := m[open]; !ok {
			m[open] = len(lines)
		}
	}
	return m
}

// CountBraces counts block braces outside string and char literals.
func CountBraces(s string) (opens, closes int) {
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
		case '"', '\'', '`':
			quote = c
		case '{':
			opens++
		case '}':
			closes++
		}
	}
	return opens, closes
}
