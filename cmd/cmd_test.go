package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// isolate points history and config at temp locations and clears the
// MINIKO_* overrides a developer may have set.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("MINIKO_HISTORY_DIR", filepath.Join(t.TempDir(), "history"))
	for _, name := range []string{"MINIKO_LOCALE", "MINIKO_API_KEY", "MINIKO_MAX_STEPS", "MINIKO_LOOP_GUARD", "MINIKO_SANDBOX_TIMEOUT"} {
		t.Setenv(name, "")
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTraceCommand_JSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "x = 2\nprint(x)\n", "trace", "--json")
	if err != nil {
		t.Fatalf("trace error = %v", err)
	}
	var res struct {
		Dialect string   `json:"dialect"`
		Outputs []string `json:"outputs"`
		Entries []any    `json:"entries"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if res.Dialect != "python" || len(res.Entries) != 2 {
		t.Errorf("trace = %+v", res)
	}
	if len(res.Outputs) != 1 || res.Outputs[0] != "2" {
		t.Errorf("outputs = %q, want [2]", res.Outputs)
	}
}

func TestTraceCommand_Text(t *testing.T) {
	isolate(t)
	out, err := execute(t, "let x = 1;\nconsole.log(x + 1);\n", "trace", "--lang", "js", "--locale", "es")
	if err != nil {
		t.Fatalf("trace error = %v", err)
	}
	for _, want := range []string{"JavaScript", "STEP 2", "Output"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTraceCommand_MaxSteps(t *testing.T) {
	isolate(t)
	out, err := execute(t, "while True:\n    x = 1\n", "trace", "--lang", "python", "--max-steps", "4", "--json")
	if err != nil {
		t.Fatalf("trace error = %v", err)
	}
	var res struct {
		Entries   []any `json:"entries"`
		Truncated bool  `json:"truncated"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 4 || !res.Truncated {
		t.Errorf("entries = %d, truncated = %v; want 4, true", len(res.Entries), res.Truncated)
	}
}

func TestTraceCommand_NonPositiveLimits(t *testing.T) {
	tests := [][]string{
		{"trace", "--max-steps", "-1"},
		{"trace", "--max-steps", "0"},
		{"trace", "--loop-guard", "-3"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[1:], "="), func(t *testing.T) {
			isolate(t)
			if _, err := execute(t, "x = 1\n", args...); err == nil {
				t.Errorf("%v error = nil, want error", args)
			}
		})
	}

	isolate(t)
	t.Setenv("MINIKO_MAX_STEPS", "-1")
	if _, err := execute(t, "loop 100000000\nadd x 1\nend\n", "script"); err == nil {
		t.Error("script with MINIKO_MAX_STEPS=-1 error = nil, want config error")
	}
}

func TestTraceCommand_LangHelp(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "trace", "--help")
	if err != nil {
		t.Fatalf("trace --help error = %v", err)
	}
	if !strings.Contains(out, "python, javascript, java, c, cpp, csharp, go, rust") {
		t.Errorf("trace --help does not list dialects:\n%s", out)
	}
}

func TestTraceCommand_BadLang(t *testing.T) {
	isolate(t)
	if _, err := execute(t, "x = 1", "trace", "--lang", "cobol"); err == nil {
		t.Error("trace --lang cobol error = nil, want error")
	}
}

func TestDetectCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "fn main() {\n    println!(\"hi\");\n}\n", "detect", "--json")
	if err != nil {
		t.Fatalf("detect error = %v", err)
	}
	if !strings.Contains(out, `"id": "rust"`) {
		t.Errorf("detect = %s, want rust", out)
	}
}

func TestScriptCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "set x 3\nprint x\n", "script")
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	if !strings.Contains(out, "Toy script") || !strings.Contains(out, "print x") {
		t.Errorf("script output:\n%s", out)
	}
}

func TestRunCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "console.log(1 + 1)", "run", "--lang", "js", "--json")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	var res struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Logs) != 1 || res.Logs[0] != "2" {
		t.Errorf("logs = %q, want [2]", res.Logs)
	}

	if _, err := execute(t, "print(1)", "run", "--lang", "python"); err == nil {
		t.Error("run --lang python error = nil, want no-sandbox error")
	}
}

func TestExplainCommand_Local(t *testing.T) {
	isolate(t)
	out, err := execute(t, "x = 2\nprint(x)\n", "explain", "--json", "--prompt", "what prints?")
	if err != nil {
		t.Fatalf("explain error = %v", err)
	}
	var ans struct {
		Text   string `json:"text"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal([]byte(out), &ans); err != nil {
		t.Fatal(err)
	}
	if ans.Source != "local" || !strings.Contains(ans.Text, "It prints: 2.") {
		t.Errorf("explain = %+v", ans)
	}
}

func TestHistoryCommand(t *testing.T) {
	isolate(t)
	run := func(stdin string, args ...string) string {
		t.Helper()
		out, err := execute(t, stdin, args...)
		if err != nil {
			t.Fatalf("%v error = %v", args, err)
		}
		return out
	}

	if out := run("", "history"); !strings.Contains(out, "No saved reports") {
		t.Errorf("empty history = %q", out)
	}

	run("x = 1\n", "trace", "--save", "--json")
	var list []struct {
		ID    string `json:"id"`
		Steps int    `json:"steps"`
	}
	if err := json.Unmarshal([]byte(run("", "history", "--json")), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Steps != 1 {
		t.Fatalf("history = %+v, want one report with 1 step", list)
	}

	if out := run("", "history", list[0].ID); !strings.Contains(out, "Python") {
		t.Errorf("history show:\n%s", out)
	}
	run("", "history", "--delete", list[0].ID)
	if out := run("", "history"); !strings.Contains(out, "No saved reports") {
		t.Errorf("history after delete = %q", out)
	}
	if _, err := execute(t, "", "history", "--delete"); err == nil {
		t.Error("history --delete without id error = nil, want error")
	}
}
