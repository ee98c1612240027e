package expr

import (
	"math"
	"testing"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

func testStore() *trace.Store {
	s := trace.NewStore()
	s.Set("x", trace.Number(5))
	s.Set("y", trace.Number(2))
	s.Set("nums", trace.List([]float64{10, 20, 30}))
	s.Set("name", trace.String("Ana"))
	return s
}

func TestResolveNumber(t *testing.T) {
	s := testStore()
	tests := []struct {
		token string
		want  float64
	}{
		{"42", 42},
		{"-3.5", -3.5},
		{"2.5f", 2.5},
		{"100L", 100},
		{"0x1F", 31},
		{"true", 1},
		{"x", 5},
		{"nums", 0},
		{"missing", 0},
		{"nums.length", 3},
		{"len(nums)", 3},
		{"nums.size()", 3},
		{"name.length", 3},
		{"sizeof(nums) / sizeof(nums[0])", 3},
		{"nums[1]", 20},
		{"nums[x - 4]", 20},
		{"nums[7]", 0},
		{"nums[-1]", 0},
		{"nums[1.9]", 20},
		{"x + y", 7},
		{"(x + y)", 7},
		{"x * y + 1", 15},
		{"-x", -5},
		{"int(7 / 2)", 3},
		{"abs(-4)", 4},
		{"(int) 3.7", 3},
		{"hello world", 0},
		{"", 0},
		{"x;", 5},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ResolveNumber(tt.token, s); got != tt.want {
				t.Errorf("ResolveNumber(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseBinary(t *testing.T) {
	s := testStore()
	tests := []struct {
		expr   string
		ok     bool
		op     string
		result float64
	}{
		{"x + y", true, "+", 7},
		{"x - y", true, "-", 3},
		{"x * y", true, "*", 10},
		{"x / y", true, "/", 2.5},
		{"x / 0", true, "/", 5},
		{"7 // 2", true, "//", 3},
		{"7 % 3", true, "%", 1},
		{"2 ** 3", true, "**", 8},
		{"-x + 1", true, "+", -4},
		{"1e-3 + 1", true, "+", 1.001},
		{"nums[0] + nums[2]", true, "+", 40},
		{"x", false, "", 0},
		{"x++", false, "", 0},
		{"x += 1", false, "", 0},
		{"-5", false, "", 0},
		{`"a" + "b"`, true, "+", 0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			op, ok := ParseBinary(tt.expr, s)
			if ok != tt.ok {
				t.Fatalf("ParseBinary(%q) ok = %v, want %v", tt.expr, ok, tt.ok)
			}
			if !ok {
				return
			}
			if op.Operator != tt.op {
				t.Errorf("operator = %q, want %q", op.Operator, tt.op)
			}
			if math.Abs(op.Result-tt.result) > 1e-9 {
				t.Errorf("result = %v, want %v", op.Result, tt.result)
			}
		})
	}
}

func TestApplyOperator_DivisionSafety(t *testing.T) {
	for _, x := range []float64{0, 1, -7.5, 1e9} {
		for _, op := range []string{"/", "//", "%"} {
			if got := ApplyOperator(x, 0, op); got != x {
				t.Errorf("ApplyOperator(%v, 0, %q) = %v, want %v", x, op, got, x)
			}
		}
	}
}

func TestResolveList(t *testing.T) {
	s := testStore()
	tests := []struct {
		expr string
		ok   bool
		want []float64
	}{
		{"[10,20,30]", true, []float64{10, 20, 30}},
		{"[]", true, []float64{}},
		{"{1, 2, 3}", true, []float64{1, 2, 3}},
		{"vec![4, 5]", true, []float64{4, 5}},
		{"[]int{1, 2}", true, []float64{1, 2}},
		{"new int[]{7, 8}", true, []float64{7, 8}},
		{"new int[] { 7, 8 }", true, []float64{7, 8}},
		{"new List<int> { 1 }", true, []float64{1}},
		{"Arrays.asList(1, 2)", true, []float64{1, 2}},
		{"[x, y * 2]", true, []float64{5, 4}},
		{"1, 2, 3", true, []float64{1, 2, 3}},
		{"(1, 2)", true, []float64{1, 2}},
		{"nums[0]", false, nil},
		{"(x + y)", false, nil},
		{"{a: 1}", false, nil},
		{"new int[5]", false, nil},
		{`"a, b"`, false, nil},
		{"x", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, ok := ResolveList(tt.expr, s)
			if ok != tt.ok {
				t.Fatalf("ResolveList(%q) ok = %v, want %v", tt.expr, ok, tt.ok)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ResolveList(%q) = %v, want %v", tt.expr, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSizedArray(t *testing.T) {
	got, ok := SizedArray("new int[3]", testStore(), 100)
	if !ok || len(got) != 3 {
		t.Errorf("SizedArray() = %v, %v", got, ok)
	}
}

func TestEvaluateCondition(t *testing.T) {
	s := testStore()
	tests := []struct {
		expr string
		want bool
	}{
		{"x > 3", true},
		{"(x > 3)", true},
		{"x < 3", false},
		{"x >= 5", true},
		{"x <= 4", false},
		{"x == 5", true},
		{"x === 5", true},
		{"x != 5", false},
		{"x !== 4", true},
		{"nums[0] == 10", true},
		{"x > 3 && y > 3", false},
		{"x > 3 || y > 3", true},
		{"x > 3 and y == 2", true},
		{"x > 10 or y < 1", false},
		{`name == "Ana"`, true},
		{`name != "Ana"`, false},
		{"x % 2 == 1", true},
		{"x", false},
		{"True", false},
		{"x << 2", false},
		{"x > 3:", true},
		{"x > 3 {", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := EvaluateCondition(tt.expr, s); got != tt.want {
				t.Errorf("EvaluateCondition(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	parts := SplitTopLevel(`"a, b", f(1, 2), [3, 4], 'x,'`, ",")
	if len(parts) != 4 {
		t.Fatalf("SplitTopLevel() = %q, want 4 parts", parts)
	}
}

func TestUnquote(t *testing.T) {
	got, ok := Unquote(`"a\tb\n"`)
	if !ok || got != "a\tb\n" {
		t.Errorf("Unquote() = %q, %v", got, ok)
	}
	if _, ok := Unquote(`"a" + "b"`); ok {
		t.Error("Unquote() accepted two literals")
	}
}
