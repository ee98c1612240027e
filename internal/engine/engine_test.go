package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

func actions(entries []trace.Entry, want trace.Action) []trace.Entry {
	var out []trace.Entry
	for _, e := range entries {
		if e.Action == want {
			out = append(out, e)
		}
	}
	return out
}

func bySource(entries []trace.Entry, source string) int {
	n := 0
	for _, e := range entries {
		if e.Source == source {
			n++
		}
	}
	return n
}

func number(t *testing.T, s *trace.Store, name string) float64 {
	t.Helper()
	v, ok := s.Get(name)
	require.True(t, ok, "variable %s not bound", name)
	return v.Num
}

func TestRun_PythonListLoop(t *testing.T) {
	src := "numeros = [10,20,30]\nsuma = 0\nfor num in numeros:\n  suma += num\nprint(suma)"
	res := Run(src, dialect.Python, Options{})

	assert.Equal(t, []string{"60"}, res.Outputs)
	loops := actions(res.Entries, trace.ActionLoop)
	require.Len(t, loops, 3)
	for i, want := range []float64{10, 20, 30} {
		assert.Equal(t, want, number(t, loops[i].After, "num"))
		assert.Equal(t, 3, loops[i].Line)
	}
	last := res.Entries[len(res.Entries)-1]
	assert.Equal(t, trace.ActionPrint, last.Action)
	assert.Equal(t, "60", last.Output)
	assert.False(t, res.Truncated)
}

func TestRun_BraceConditional(t *testing.T) {
	src := "int x = 5; if (x > 3) { x = 1; } else { x = 2; }"
	res := Run(src, dialect.Java, Options{})

	require.Len(t, res.Entries, 3)
	assert.Equal(t, trace.ActionDeclare, res.Entries[0].Action)
	cond := res.Entries[1]
	assert.Equal(t, trace.ActionCondition, cond.Action)
	assert.Equal(t, "Condition x > 3 is true", cond.Note)
	assert.Equal(t, float64(1), number(t, res.Entries[2].After, "x"))
	assert.Zero(t, bySource(res.Entries, "x = 2"))
}

func TestRun_Empty(t *testing.T) {
	for _, src := range []string{"", "   \n\t"} {
		res := Run(src, dialect.Python, Options{})
		assert.NotNil(t, res.Entries)
		assert.Empty(t, res.Entries)
		assert.Empty(t, res.Outputs)
	}
	assert.Empty(t, BuildTrace("", dialect.Empty, "en"))
}

func TestRun_UnsupportedDialect(t *testing.T) {
	res := Run("x = 1", dialect.Unknown, Options{})
	assert.Empty(t, res.Entries)
}

func TestRun_Deterministic(t *testing.T) {
	src := "let total = 0;\nfor (let i = 0; i < 4; i++) {\n  total += i * 2;\n}\nconsole.log(total);"
	first := BuildTrace(src, dialect.JavaScript, "en")
	second := BuildTrace(src, dialect.JavaScript, "en")
	assert.Equal(t, first, second)
}

func TestRun_StepsAreSequential(t *testing.T) {
	src := "x = 1\nwhile x < 20:\n    x = x * 3\nprint(x)"
	entries := BuildTrace(src, dialect.Python, "en")
	require.NotEmpty(t, entries)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Step)
		assert.NotNil(t, e.Before)
		assert.NotNil(t, e.After)
	}
}

func TestRun_SnapshotsAreIndependent(t *testing.T) {
	entries := BuildTrace("int x = 5; if (x > 3) { x = 1; }", dialect.C, "en")
	require.Len(t, entries, 3)
	assert.Equal(t, float64(5), number(t, entries[0].After, "x"))
	assert.Equal(t, float64(5), number(t, entries[2].Before, "x"))
	assert.Equal(t, float64(1), number(t, entries[2].After, "x"))
	_, ok := entries[0].Before.Get("x")
	assert.False(t, ok)
}

func TestRun_OutputSnapshots(t *testing.T) {
	entries := BuildTrace("print(1)\nprint(2)", dialect.Python, "en")
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"1"}, entries[0].OutputsAfter)
	assert.Equal(t, []string{"1"}, entries[1].OutputsBefore)
	assert.Equal(t, []string{"1", "2"}, entries[1].OutputsAfter)
	assert.True(t, entries[1].Produced())
}

func TestRun_LoopGuard(t *testing.T) {
	src := "let x = 0;\nfor (let i = 0; i >= 0; i++) {\n  x = i;\n}"

	res := Run(src, dialect.JavaScript, Options{})
	assert.Equal(t, DefaultLoopGuard, bySource(res.Entries, "x = i"))
	assert.False(t, res.Truncated)

	res = Run(src, dialect.JavaScript, Options{LoopGuard: 7})
	assert.Equal(t, 7, bySource(res.Entries, "x = i"))
}

func TestRun_WhileGuard(t *testing.T) {
	src := "n = 1\nwhile n > 0:\n    n += 1"
	res := Run(src, dialect.Python, Options{LoopGuard: 5})
	assert.Len(t, actions(res.Entries, trace.ActionLoop), 5)
	assert.Equal(t, 5, bySource(res.Entries, "n += 1"))
}

func TestRun_MaxSteps(t *testing.T) {
	src := "let n = 1;\nwhile (n > 0) {\n  n++;\n}"
	res := Run(src, dialect.JavaScript, Options{MaxSteps: 10})
	assert.Len(t, res.Entries, 10)
	assert.True(t, res.Truncated)
}

func TestRun_NonPositiveMaxStepsKeepsCap(t *testing.T) {
	src := "let n = 1;\nwhile (n > 0) {\n  n++;\n}"
	for _, steps := range []int{0, -1} {
		res := Run(src, dialect.JavaScript, Options{MaxSteps: steps, LoopGuard: 1000})
		assert.Len(t, res.Entries, trace.DefaultMaxSteps, "MaxSteps %d", steps)
		assert.True(t, res.Truncated, "MaxSteps %d", steps)
	}
}

func TestRun_Dialects(t *testing.T) {
	tests := []struct {
		name    string
		id      dialect.ID
		source  string
		outputs []string
	}{
		{
			name: "c counted loop",
			id:   dialect.C,
			source: "#include <stdio.h>\nint main() {\n  int sum = 0;\n" +
				"  for (int i = 1; i <= 5; i++) {\n    sum += i;\n  }\n" +
				"  printf(\"%d\\n\", sum);\n  return 0;\n}",
			outputs: []string{"15"},
		},
		{
			name: "go range",
			id:   dialect.Go,
			source: "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tnums := []int{1, 2, 3}\n" +
				"\ttotal := 0\n\tfor _, n := range nums {\n\t\ttotal += n\n\t}\n" +
				"\tfmt.Println(\"total:\", total)\n}",
			outputs: []string{"total: 6"},
		},
		{
			name: "rust inclusive range",
			id:   dialect.Rust,
			source: "fn main() {\n    let mut sum = 0;\n    for i in 1..=4 {\n        sum += i;\n    }\n" +
				"    println!(\"sum = {}\", sum);\n}",
			outputs: []string{"sum = 10"},
		},
		{
			name: "cpp while with stream",
			id:   dialect.CPP,
			source: "#include <iostream>\nusing namespace std;\nint main() {\n    int x = 3;\n" +
				"    while (x > 0) {\n        cout << x << endl;\n        x--;\n    }\n}",
			outputs: []string{"3", "2", "1"},
		},
		{
			name:    "csharp foreach",
			id:      dialect.CSharp,
			source:  "int[] arr = {4, 5};\nforeach (var a in arr) {\n    Console.WriteLine($\"item {a}\");\n}",
			outputs: []string{"item 4", "item 5"},
		},
		{
			name: "java if else",
			id:   dialect.Java,
			source: "public class Main {\n  public static void main(String[] args) {\n    int n = 4;\n" +
				"    if (n % 2 == 0) {\n      System.out.println(\"even\");\n    } else {\n" +
				"      System.out.println(\"odd\");\n    }\n  }\n}",
			outputs: []string{"even"},
		},
		{
			name:    "javascript template",
			id:      dialect.JavaScript,
			source:  "let i = 0;\nwhile (i < 3) {\n  console.log(`i=${i}`);\n  i++;\n}",
			outputs: []string{"i=0", "i=1", "i=2"},
		},
		{
			name:    "python elif",
			id:      dialect.Python,
			source:  "x = 7\nif x > 10:\n    print(\"big\")\nelif x > 5:\n    print(\"medium\")\nelse:\n    print(\"small\")",
			outputs: []string{"medium"},
		},
		{
			name:    "python range",
			id:      dialect.Python,
			source:  "for i in range(3):\n    print(i)",
			outputs: []string{"0", "1", "2"},
		},
		{
			name:    "python break",
			id:      dialect.Python,
			source:  "for i in range(10):\n    if i == 2:\n        break\n    print(i)",
			outputs: []string{"0", "1"},
		},
		{
			name:    "skipped function body",
			id:      dialect.JavaScript,
			source:  "function greet() {\n  console.log(\"hi\");\n}\nconsole.log(\"done\");",
			outputs: []string{"done"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(tt.source, tt.id, Options{})
			assert.Equal(t, tt.outputs, res.Outputs)
			assert.False(t, res.Truncated)
		})
	}
}

func TestRun_ElifEntries(t *testing.T) {
	src := "x = 7\nif x > 10:\n    print(\"big\")\nelif x > 5:\n    print(\"medium\")\nelse:\n    print(\"small\")"
	entries := BuildTrace(src, dialect.Python, "en")
	require.Len(t, entries, 4)
	assert.Equal(t, "Condition x > 10 is false", entries[1].Note)
	assert.Equal(t, "Condition x > 5 is true", entries[2].Note)
	assert.Equal(t, 4, entries[2].Line)
}

func TestRun_ElsePrefixedNameAfterIf(t *testing.T) {
	for _, name := range []string{"elsewhere", "elif_count"} {
		t.Run(name, func(t *testing.T) {
			src := "x = 1\nif x > 5:\n    y = 1\n" + name + " = 3\nprint(" + name + ")"
			res := Run(src, dialect.Python, Options{})
			assert.Equal(t, []string{"3"}, res.Outputs)
			require.Len(t, res.Entries, 4)
			assert.Equal(t, trace.ActionCondition, res.Entries[1].Action)
			assert.Equal(t, 4, res.Entries[2].Line)
			assert.NotEqual(t, trace.ActionCondition, res.Entries[2].Action)
		})
	}
}

func TestRun_UnrecognizedLine(t *testing.T) {
	entries := BuildTrace("obj.method(1)", dialect.JavaScript, "en")
	require.Len(t, entries, 1)
	assert.Equal(t, trace.ActionExecution, entries[0].Action)
	assert.Equal(t, entries[0].Before, entries[0].After)
}

func TestRun_SpanishNotes(t *testing.T) {
	entries := BuildTrace("int x = 5; if (x > 3) { x = 1; }", dialect.C, "es")
	require.Len(t, entries, 3)
	assert.Equal(t, "La condición x > 3 es verdadera", entries[1].Note)
}

func TestRun_Incomplete(t *testing.T) {
	res := Run("for i in range(3):\n", dialect.Python, Options{})
	assert.True(t, res.Incomplete)

	res = Run("if (x > 1) {\n  x = 2;\n", dialect.JavaScript, Options{})
	assert.True(t, res.Incomplete)
}

func TestSplitBraces(t *testing.T) {
	lines := splitBraces("int x = 5; if (x > 3) { x = 1; } else { x = 2; }")
	want := []braceLine{
		{line: 1, text: "int x = 5"},
		{line: 1, text: "if (x > 3)", opens: 1},
		{line: 1, text: "x = 1"},
		{line: 1, text: "else", closes: 1, opens: 1},
		{line: 1, text: "x = 2"},
		{line: 1, closes: 1},
	}
	assert.Equal(t, want, lines)
}

func TestSplitBraces_Literals(t *testing.T) {
	lines := splitBraces("int[] a = {1, 2};\nnums := []int{3}")
	require.Len(t, lines, 2)
	assert.Equal(t, "int[] a = {1, 2}", lines[0].text)
	assert.Equal(t, "nums := []int{3}", lines[1].text)
	assert.Zero(t, lines[0].opens)
	assert.Zero(t, lines[1].opens)
}

func TestSplitBraces_Comments(t *testing.T) {
	lines := splitBraces("// heading\nx = 1; /* a\nb */ y = 2;\nz = \"// kept\";")
	require.Len(t, lines, 3)
	assert.Equal(t, braceLine{line: 2, text: "x = 1"}, lines[0])
	assert.Equal(t, braceLine{line: 3, text: "y = 2"}, lines[1])
	assert.Equal(t, `z = "// kept"`, lines[2].text)
}

func TestSplitBraces_GoHeader(t *testing.T) {
	lines := splitBraces("for i := 0; i < 3; i++ {\n\tx += i\n}")
	require.Len(t, lines, 3)
	assert.Equal(t, "for i := 0; i < 3; i++", lines[0].text)
	assert.Equal(t, 1, lines[0].opens)
	assert.Equal(t, 1, lines[2].closes)
}

func TestSkipsBody(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"int main()", false},
		{"func main()", false},
		{"fn main()", false},
		{"public static void main(String[] args)", false},
		{"static void Main(string[] args)", false},
		{"public class Main", false},
		{"int add(int a, int b)", true},
		{"func (s *Server) Start()", true},
		{"function greet()", true},
		{"const f = () =>", true},
		{"struct Point", true},
		{"enum Color", true},
		{"if (x > 1)", false},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, skipsBody(tt.header))
		})
	}
}
