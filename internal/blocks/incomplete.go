package blocks

import (
	"strings"
)

// Family groups dialects by how they delimit blocks.
type Family string

const (
	FamilyIndent Family = "indent"
	FamilyBrace  Family = "brace"
	FamilyNone   Family = "none"
)

// Incomplete flags snippets that look cut off: unbalanced braces, or a
// block opener with no indented continuation. It is advisory only.
func Incomplete(source string, family Family) bool {
	switch family {
	case FamilyBrace:
		opens, closes := CountBraces(source)
		return opens != closes
	case FamilyIndent:
		lines := IndentLines(source, "#")
		for i, l := range lines {
			if !strings.HasSuffix(l.Trimmed, ":") {
				continue
			}
			if i+1 >= len(lines) || lines[i+1].Indent <= l.Indent {
				return true
			}
		}
	}
	return false
}

// IndentLines splits source into non-blank lines with their 1-based line
// number and indentation.
// Tabs count as four spaces and comment lines starting with comment are dropped.
func IndentLines(source, comment string) []IndentLine {
	var out []IndentLine
	for i, raw := range strings.Split(source, "\n") {
		raw = strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || (comment != "" && strings.HasPrefix(trimmed, comment)) {
			continue
		}
		out = append(out, IndentLine{Line: i + 1, Indent: Indentation(raw), Trimmed: trimmed})
	}
	return out
}

// Indentation measures the leading whitespace of a line.
func Indentation(raw string) int {
	n := 0
	for _, r := range raw {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}
