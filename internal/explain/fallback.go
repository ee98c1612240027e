package explain

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/engine"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
)

// maxFallbackSteps bounds how many steps the local explanation lists.
const maxFallbackSteps = 12

// Answer sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Answer is an explanation and where it came from.
type Answer struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

// Explain asks c for an explanation and falls back to the local one when c
// is nil or fails.
func Explain(ctx context.Context, c Client, req Request, res engine.Result) Answer {
	if c != nil {
		text, err := c.Explain(ctx, req)
		if err == nil && text != "" {
			return Answer{Text: text, Source: SourceRemote}
		}
		ans := Answer{Text: Fallback(req, res), Source: SourceLocal}
		if err != nil {
			log.Warn().Err(err).Msg("remote explanation failed, using local fallback")
			ans.Error = err.Error()
		}
		return ans
	}
	return Answer{Text: Fallback(req, res), Source: SourceLocal}
}

// Fallback builds a deterministic explanation from a trace: an intro with
// the dialect and step count, the first steps, the final variables and the
// output.
func Fallback(req Request, res engine.Result) string {
	notes := i18n.New(req.Locale)
	id := res.Dialect
	if parsed, ok := dialect.Parse(req.Dialect); ok && id == "" {
		id = parsed
	}
	label := Label(notes, id)

	lines := []string{notes.Sprintf(i18n.FallbackIntro, label, len(res.Entries))}
	for i, e := range res.Entries {
		if i == maxFallbackSteps {
			lines = append(lines, "...")
			break
		}
		lines = append(lines, notes.Sprintf(i18n.FallbackSteps, e.Step, e.Source, e.Note))
	}

	if n := len(res.Entries); n > 0 {
		after := res.Entries[n-1].After
		if after != nil && after.Len() > 0 {
			vars := make([]string, 0, after.Len())
			for _, name := range after.Names() {
				v, _ := after.Get(name)
				vars = append(vars, name+" = "+v.Display())
			}
			lines = append(lines, notes.Sprintf(i18n.FallbackVars, strings.Join(vars, ", ")))
		}
	}

	if len(res.Outputs) > 0 {
		lines = append(lines, notes.Sprintf(i18n.FallbackOut, strings.Join(res.Outputs, ", ")))
	} else {
		lines = append(lines, notes.Sprintf(i18n.FallbackNone))
	}
	if q := strings.TrimSpace(req.Prompt); q != "" {
		lines = append(lines, notes.Sprintf(i18n.FallbackAsk, q))
	}
	return strings.Join(lines, "\n")
}

// Label returns the display label of id, localizing the non-dialect ids.
func Label(notes *i18n.Notes, id dialect.ID) string {
	switch id {
	case dialect.Empty:
		return notes.Sprintf(i18n.LabelEmpty)
	case dialect.Unknown, "":
		return notes.Sprintf(i18n.LabelUnknown)
	}
	return dialect.Label(id)
}
