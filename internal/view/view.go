// Package view renders traces and collaborator results for the terminal.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/explain"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/history"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/sandbox"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for outputs and OK markers
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for errors and warnings
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for the output box
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// headerBoxStyle for the run header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// stepBannerStyle for step numbers
	stepBannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160")).
			Padding(0, 1)

	// varNameStyle for variable names
	varNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	// actionStyle for the action label of a step
	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))
)

// Trace is what FormatTrace renders.
type Trace struct {
	Title      string
	Entries    []trace.Entry
	Outputs    []string
	Truncated  bool
	Incomplete bool
}

// FormatHeader renders the run header with the dialect and step count
func FormatHeader(w io.Writer, title string, steps int) {
	content := fmt.Sprintf("%s %s  %s %d",
		dimStyle.Render("Dialect:"), titleStyle.Render(title),
		dimStyle.Render("Steps:"), steps,
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatStep renders one entry: banner, source line, note and the
// variables it changed.
func FormatStep(w io.Writer, e trace.Entry) {
	banner := stepBannerStyle.Render(fmt.Sprintf("STEP %d", e.Step))
	fmt.Fprintf(w, "%s %s %s\n", banner,
		dimStyle.Render(fmt.Sprintf("line %d", e.Line)),
		actionStyle.Render(string(e.Action)),
	)
	fmt.Fprintf(w, "  %s\n", e.Source)
	if e.Note != "" {
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render("->"), e.Note)
	}
	if vars := changedVars(e); vars != "" {
		fmt.Fprintf(w, "  %s\n", vars)
	}
	if e.Produced() {
		for _, line := range e.OutputsAfter[len(e.OutputsBefore):] {
			fmt.Fprintf(w, "  %s %s\n", successStyle.Render(">"), line)
		}
	}
}

func changedVars(e trace.Entry) string {
	if e.After == nil {
		return ""
	}
	before := e.Before
	if before == nil {
		before = trace.NewStore()
	}
	var parts []string
	for _, name := range before.Changed(e.After) {
		v, _ := e.After.Get(name)
		parts = append(parts, varNameStyle.Render(name)+" = "+v.Display())
	}
	return strings.Join(parts, "  ")
}

// FormatOutputs renders the collected output lines in a box
func FormatOutputs(w io.Writer, outputs []string) {
	body := dimStyle.Render("(no output)")
	if len(outputs) > 0 {
		body = strings.Join(outputs, "\n")
	}
	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("Output")+"\n"+body))
}

// FormatTrace renders a whole run.
func FormatTrace(w io.Writer, t Trace) {
	FormatHeader(w, t.Title, len(t.Entries))
	if t.Incomplete {
		fmt.Fprintln(w, errorStyle.Render("The snippet looks incomplete; the trace may stop early."))
	}
	for _, e := range t.Entries {
		FormatStep(w, e)
	}
	if t.Truncated {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Stopped after %d steps", len(t.Entries))))
	}
	FormatOutputs(w, t.Outputs)
}

// FormatDetect renders a classifier result
func FormatDetect(w io.Writer, info dialect.Info) {
	fmt.Fprintf(w, "%s %s %s\n", dimStyle.Render("Detected:"), titleStyle.Render(info.Label), dimStyle.Render("("+string(info.ID)+")"))
}

// FormatSandbox renders a sandboxed run
func FormatSandbox(w io.Writer, res sandbox.Result) {
	var status string
	switch {
	case res.TimedOut:
		status = errorStyle.Render("TIMEOUT")
	case res.Error != "":
		status = errorStyle.Render("ERROR")
	default:
		status = successStyle.Render("OK")
	}
	FormatOutputs(w, res.Logs)
	fmt.Fprintln(w, status)
	if res.Error != "" {
		fmt.Fprintln(w, errorStyle.Render(res.Error))
	}
}

// FormatExplanation renders an explanation answer
func FormatExplanation(w io.Writer, ans explain.Answer) {
	source := successStyle.Render(ans.Source)
	if ans.Source == explain.SourceLocal {
		source = dimStyle.Render(ans.Source)
	}
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render("Source:"), source)
	if ans.Error != "" {
		fmt.Fprintln(w, errorStyle.Render("Remote explanation failed: "+ans.Error))
	}
	fmt.Fprintln(w, boxStyle.Render(ans.Text))
}

// FormatHistory renders saved report summaries
func FormatHistory(w io.Writer, list []history.Summary) {
	if len(list) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No saved reports"))
		return
	}
	for _, s := range list {
		label := string(s.Kind)
		if s.Dialect != "" {
			label += "/" + s.Dialect
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			titleStyle.Render(s.ID),
			dimStyle.Render(s.CreatedAt.Local().Format("2006-01-02 15:04")),
			label,
			dimStyle.Render(fmt.Sprintf("%d steps", s.Steps)),
		)
	}
}
