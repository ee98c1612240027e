package toyscript

import "strings"

// Jumps maps block openers to their closers, by line index.
type Jumps struct {
	IfEnd   map[int]int // if -> endif
	EndIf   map[int]int // endif -> if
	LoopEnd map[int]int // loop -> end
	EndLoop map[int]int // end -> loop
}

// BuildJumps pairs if/endif and loop/end in one pass with a stack per
// construct. A closer pairs with the most recent unmatched opener of its
// kind; closers with nothing open are left out.
func BuildJumps(lines []string) Jumps {
	j := Jumps{
		IfEnd:   map[int]int{},
		EndIf:   map[int]int{},
		LoopEnd: map[int]int{},
		EndLoop: map[int]int{},
	}
	var ifs, loops []int
	for i, raw := range lines {
		switch op(raw) {
		case "if":
			ifs = append(ifs, i)
		case "loop":
			loops = append(loops, i)
		case "endif":
			if n := len(ifs); n > 0 {
				open := ifs[n-1]
				ifs = ifs[:n-1]
				j.IfEnd[open] = i
				j.EndIf[i] = open
			}
		case "end":
			if n := len(loops); n > 0 {
				open := loops[n-1]
				loops = loops[:n-1]
				j.LoopEnd[open] = i
				j.EndLoop[i] = open
			}
		}
	}
	return j
}

// op returns the lowercased instruction name of a line, or "" for blank
// and comment lines.
func op(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" || strings.HasPrefix(t, "#") || strings.HasPrefix(t, "//") {
		return ""
	}
	name, _, _ := strings.Cut(t, " ")
	return strings.ToLower(strings.TrimSpace(name))
}
