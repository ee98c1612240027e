package blocks

import "testing"

func TestIndentEnd(t *testing.T) {
	lines := IndentLines("for x in xs:\n  a = 1\n  if a:\n    b = 2\nprint(a)", "#")
	tests := []struct {
		name   string
		start  int
		parent int
		want   int
	}{
		{"outer loop", 0, 0, 4},
		{"nested if", 2, 2, 4},
		{"last line", 4, 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IndentEnd(lines, tt.start, tt.parent); got != tt.want {
				t.Errorf("IndentEnd() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestElseAt(t *testing.T) {
	lines := IndentLines("if x > 1:\n    y = 1\nelse:\n    y = 2\n", "#")
	if !ElseAt(lines, 2, 0) {
		t.Error("ElseAt(2) = false, want true")
	}
	if ElseAt(lines, 2, 4) {
		t.Error("ElseAt() matched at the wrong indent")
	}
	if ElseAt(lines, 9, 0) {
		t.Error("ElseAt() out of range should be false")
	}

	tests := []struct {
		next string
		want bool
	}{
		{"else:", true},
		{"elif x > 2:", true},
		{"else :", true},
		{"elsewhere = 3", false},
		{"elif_count = 4", false},
		{"elsey(1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			lines := IndentLines("if x > 1:\n    y = 1\n"+tt.next+"\n", "#")
			if got := ElseAt(lines, 2, 0); got != tt.want {
				t.Errorf("ElseAt(%q) = %v, want %v", tt.next, got, tt.want)
			}
		})
	}
}

func TestBraceMap(t *testing.T) {
	// if (x) {      0
	//   y = 1;      1
	// } else {      2
	//   y = 2;      3
	// }             4
	// }             5 (stray)
	lines := []BraceLine{{Opens: 1}, {}, {Closes: 1, Opens: 1}, {}, {Closes: 1}, {Closes: 1}}
	m := BraceMap(lines)
	if m[0] != 2 {
		t.Errorf("m[0] = %d, want 2", m[0])
	}
	if m[2] != 4 {
		t.Errorf("m[2] = %d, want 4", m[2])
	}
	if len(m) != 2 {
		t.Errorf("len(m) = %d, want 2", len(m))
	}
}

func TestBraceMap_UnmatchedOpener(t *testing.T) {
	m := BraceMap([]BraceLine{{Opens: 1}, {}, {Opens: 1}, {Closes: 1}})
	if m[0] != 4 {
		t.Errorf("m[0] = %d, want end of input", m[0])
	}
	if m[2] != 3 {
		t.Errorf("m[2] = %d, want 3", m[2])
	}
}

func TestCountBraces(t *testing.T) {
	opens, closes := CountBraces(`if (a) { print("}{") } '{'`)
	if opens != 1 || closes != 1 {
		t.Errorf("CountBraces() = %d, %d", opens, closes)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		family Family
		want   bool
	}{
		{"balanced", "if (x) {\n}\n", FamilyBrace, false},
		{"missing close", "for (;;) {\n x++;\n", FamilyBrace, true},
		{"indented body", "if x:\n    y = 1\n", FamilyIndent, false},
		{"missing body", "for i in range(3):\n", FamilyIndent, true},
		{"body not indented", "while x > 0:\nx -= 1\n", FamilyIndent, true},
		{"unknown", "{{{", FamilyNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Incomplete(tt.src, tt.family); got != tt.want {
				t.Errorf("Incomplete() = %v, want %v", got, tt.want)
			}
		})
	}
}
