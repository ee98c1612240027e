package i18n

import (
	"fmt"
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"", English},
		{"en", English},
		{"en-GB", English},
		{"es", Spanish},
		{"es-MX", Spanish},
		{"fr", English},
		{"not a tag!", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Match(tt.in); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNotes_Sprintf(t *testing.T) {
	tests := []struct {
		locale string
		key    Key
		args   []any
		want   string
	}{
		{"en", Assign, []any{"x", "2"}, "Assign x = 2"},
		{"es", Assign, []any{"x", "2"}, "Se asigna x = 2"},
		{"es-AR", ConditionFalse, []any{"x > 3"}, "La condición x > 3 es falsa"},
		{"de", ToyIfFalse, []any{"x > 5", 4}, "x > 5 fails, jumping to line 4"},
		{"en", LabelEmpty, nil, "Empty"},
		{"en", ToyLoopEnter, []any{1}, "loop with 1 iteration left"},
		{"en", ToyLoopEnter, []any{3}, "loop with 3 iterations left"},
		{"en", ToyEndRepeat, []any{1}, "repeat loop, 1 iteration left"},
		{"en", ToyEndRepeat, []any{2}, "repeat loop, 2 iterations left"},
		{"es", ToyLoopEnter, []any{1}, "ciclo con 1 iteración restante"},
		{"es", ToyEndRepeat, []any{4}, "se repite el ciclo, quedan 4 iteraciones"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key+fmt.Sprint(tt.args...), func(t *testing.T) {
			if got := New(tt.locale).Sprintf(tt.key, tt.args...); got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
