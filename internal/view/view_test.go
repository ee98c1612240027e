package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/engine"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/sandbox"
)

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatTrace(t *testing.T) {
	res := engine.Run("x = 2\nprint(x)", dialect.Python, engine.Options{})

	var buf bytes.Buffer
	FormatTrace(&buf, Trace{Title: "Python", Entries: res.Entries, Outputs: res.Outputs})

	assertContains(t, buf.String(),
		"Dialect:", "Python", "Steps: 2",
		"STEP 1", "STEP 2", "line 2",
		"Assign x = 2", "Print: 2",
		"Output",
	)
	if strings.Contains(buf.String(), "Stopped after") {
		t.Error("untruncated trace reported as stopped")
	}
}

func TestFormatTrace_Warnings(t *testing.T) {
	res := engine.Run("while True:\n    x = 1", dialect.Python, engine.Options{MaxSteps: 3})

	var buf bytes.Buffer
	FormatTrace(&buf, Trace{Title: "Python", Entries: res.Entries, Truncated: res.Truncated, Incomplete: true})

	assertContains(t, buf.String(), "looks incomplete", "Stopped after 3 steps", "(no output)")
}

func TestFormatDetect(t *testing.T) {
	var buf bytes.Buffer
	FormatDetect(&buf, dialect.Detect("fn main() {\n    let x = 1;\n}"))
	assertContains(t, buf.String(), "Rust", "(rust)")
}

func TestFormatSandbox(t *testing.T) {
	tests := []struct {
		name  string
		res   sandbox.Result
		wants []string
	}{
		{"ok", sandbox.Result{Logs: []string{"hello"}}, []string{"hello", "OK"}},
		{"error", sandbox.Result{Logs: []string{}, Error: "runtime error: boom"}, []string{"ERROR", "runtime error: boom"}},
		{"timeout", sandbox.Result{Logs: []string{"1"}, TimedOut: true}, []string{"TIMEOUT", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatSandbox(&buf, tt.res)
			assertContains(t, buf.String(), tt.wants...)
		})
	}
}

func TestFormatExplanation(t *testing.T) {
	var buf bytes.Buffer
	FormatExplanation(&buf, explain.Answer{Text: "It prints 2.", Source: explain.SourceLocal, Error: "offline"})
	assertContains(t, buf.String(), "local", "Remote explanation failed: offline", "It prints 2.")
}

func TestFormatHistory(t *testing.T) {
	var buf bytes.Buffer
	FormatHistory(&buf, nil)
	assertContains(t, buf.String(), "No saved reports")

	buf.Reset()
	FormatHistory(&buf, []history.Summary{
		{ID: "abc", CreatedAt: time.Now(), Kind: history.KindTrace, Dialect: "go", Steps: 4},
		{ID: "def", CreatedAt: time.Now(), Kind: history.KindScript, Steps: 1},
	})
	assertContains(t, buf.String(), "abc", "trace/go", "4 steps", "def", "script", "1 steps")
}
