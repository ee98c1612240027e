// Package dialect guesses which surface syntax a snippet is written in.
package dialect

import (
	"regexp"
	"strings"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/blocks"
)

// ID identifies a dialect.
type ID string

const (
	Python     ID = "python"
	JavaScript ID = "javascript"
	Java       ID = "java"
	C          ID = "c"
	CPP        ID = "cpp"
	CSharp     ID = "csharp"
	Go         ID = "go"
	Rust       ID = "rust"
	Unknown    ID = "unknown"
	Empty      ID = "empty"
)

// Info is the classifier result.
type Info struct {
	ID    ID     `json:"id"`
	Label string `json:"label"`
}

var labels = map[ID]string{
	Python:     "Python",
	JavaScript: "JavaScript",
	Java:       "Java",
	C:          "C",
	CPP:        "C++",
	CSharp:     "C#",
	Go:         "Go",
	Rust:       "Rust",
	Unknown:    "Unknown",
	Empty:      "Empty",
}

// Label returns the display label for id.
func Label(id ID) string {
	if l, ok := labels[id]; ok {
		return l
	}
	return labels[Unknown]
}

// All returns the executable dialects.
func All() []ID {
	return []ID{Python, JavaScript, Java, C, CPP, CSharp, Go, Rust}
}

// Parse maps user input such as "js", "c++" or "py" to an ID.
func Parse(s string) (ID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, true
	case "javascript", "js", "node":
		return JavaScript, true
	case "java":
		return Java, true
	case "c":
		return C, true
	case "cpp", "c++", "cxx":
		return CPP, true
	case "csharp", "c#", "cs":
		return CSharp, true
	case "go", "golang":
		return Go, true
	case "rust", "rs":
		return Rust, true
	}
	return Unknown, false
}

// Family returns how id delimits blocks.
func Family(id ID) blocks.Family {
	switch id {
	case Python:
		return blocks.FamilyIndent
	case JavaScript, Java, C, CPP, CSharp, Go, Rust:
		return blocks.FamilyBrace
	default:
		return blocks.FamilyNone
	}
}

type rule struct {
	id       ID
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// rules are tried in order; several dialects share tokens, so the most
// distinctive markers come first.
var rules = []rule{
	{Rust, compile(`\bfn\s+main\s*\(`, `\blet\s+mut\b`, `\bprintln!\s*\(`, `\bvec!\s*\[`, `\bprint!\s*\(`)},
	{Go, compile(`(?m)^\s*package\s+main\b`, `\bfmt\.Print`, `\bfunc\s+main\s*\(`, `(?m)^\s*\w+\s*:=`, `\bfor\s+\w+\s*:=`)},
	{CSharp, compile(`\bConsole\.Write`, `(?m)^\s*using\s+System`, `\bforeach\s*\(`, `\bstatic\s+void\s+Main\s*\(`)},
	{Java, compile(`\bSystem\.out\.print`, `\bpublic\s+static\s+void\s+main\s*\(`, `\bpublic\s+class\b`)},
	{CPP, compile(`\bcout\s*<<`, `#include\s*<iostream>`, `\bstd::`, `\busing\s+namespace\s+std\b`)},
	{C, compile(`\bprintf\s*\(`, `#include\s*<stdio\.h>`, `\bputs\s*\(`)},
	{JavaScript, compile(`\bconsole\.log\s*\(`, `(?m)^\s*(?:let|const|var)\s+\w+`, `\bfunction\s+\w*\s*\(`, `=>`, `\bdocument\.`)},
	{Python, compile(`(?m)^\s*print\s*\(`, `(?m)^\s*def\s+\w+\s*\(`, `(?m)^\s*elif\b`, `(?m)^\s*for\s+\w+\s+in\s+.+:\s*$`, `(?m)^\s*(?:if|while)\s+.+:\s*$`, `\brange\s*\(`)},
}

var (
	assignLike = regexp.MustCompile(`(?m)^\s*[A-Za-z_]\w*\s*(?:[-+*/]?=|\+\+|--)`)
	callLike   = regexp.MustCompile(`\w+\s*\(.*\)`)
)

// Detect classifies source. It always returns exactly one ID.
func Detect(source string) Info {
	id := detect(strings.TrimSpace(source))
	return Info{ID: id, Label: Label(id)}
}

func detect(src string) ID {
	if src == "" {
		return Empty
	}
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(src) {
				return r.id
			}
		}
	}
	// Generic fallback: anything that still looks like code.
	if assignLike.MatchString(src) || callLike.MatchString(src) || strings.ContainsAny(src, "{};") {
		if strings.ContainsAny(src, "{};") {
			return JavaScript
		}
		return Python
	}
	return Unknown
}
