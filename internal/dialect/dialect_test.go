package dialect

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ID
	}{
		{"empty", "", Empty},
		{"whitespace", "  \n\t ", Empty},
		{"python loop", "numeros = [10,20,30]\nsuma = 0\nfor num in numeros:\n  suma += num\nprint(suma)", Python},
		{"python def", "def f(x):\n    return x", Python},
		{"javascript", "let x = 1;\nconsole.log(x);", JavaScript},
		{"java", "int x = 5;\nSystem.out.println(x);", Java},
		{"c", "#include <stdio.h>\nint main() {\n  printf(\"%d\", 1);\n}", C},
		{"cpp", "#include <iostream>\nint main() { std::cout << 1 << std::endl; }", CPP},
		{"csharp", "int x = 1;\nConsole.WriteLine(x);", CSharp},
		{"go", "package main\nimport \"fmt\"\nfunc main() {\n  x := 1\n  fmt.Println(x)\n}", Go},
		{"rust", "fn main() {\n  let mut x = 1;\n  println!(\"{}\", x);\n}", Rust},
		{"brace fallback", "int x = 5; if (x > 3) { x = 1; } else { x = 2; }", JavaScript},
		{"plain fallback", "x = 5\ny = x * 2", Python},
		{"prose", "hello there", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.src)
			if got.ID != tt.want {
				t.Errorf("Detect() = %q, want %q", got.ID, tt.want)
			}
			if got.Label == "" {
				t.Error("Detect() returned an empty label")
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]ID{"py": Python, "JS": JavaScript, "c++": CPP, "C#": CSharp, "golang": Go, "rs": Rust}
	for in, want := range tests {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Errorf("Parse(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Parse("cobol"); ok {
		t.Error("Parse(cobol) should fail")
	}
}

func TestFamily(t *testing.T) {
	if Family(Python) != "indent" || Family(Rust) != "brace" || Family(Empty) != "none" {
		t.Error("Family() mapping is wrong")
	}
}

func TestAll(t *testing.T) {
	ids := All()
	if len(ids) != 8 {
		t.Fatalf("All() = %d dialects, want 8", len(ids))
	}
	for _, id := range ids {
		if got, ok := Parse(string(id)); !ok || got != id {
			t.Errorf("Parse(%q) = %q, %v", id, got, ok)
		}
		if Family(id) == "none" {
			t.Errorf("Family(%q) = none, want an executable family", id)
		}
	}
}
