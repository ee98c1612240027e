// Package engine runs snippets line by line with pattern-based statement
// recognition and records a step trace of the run.
package engine

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/blocks"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/dialect"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

// DefaultLoopGuard bounds the rounds of condition-driven loops.
const DefaultLoopGuard = 100

// rangeLimit caps how many values a range or collection loop materializes
// when no step cap is configured.
const rangeLimit = 10000

// Options configures a run. Non-positive MaxSteps and LoopGuard take the
// defaults.
type Options struct {
	Locale    string
	MaxSteps  int
	LoopGuard int
}

func (o Options) withDefaults() Options {
	if o.MaxSteps <= 0 {
		o.MaxSteps = trace.DefaultMaxSteps
	}
	if o.LoopGuard <= 0 {
		o.LoopGuard = DefaultLoopGuard
	}
	return o
}

// Result is the outcome of a run.
type Result struct {
	Dialect    dialect.ID    `json:"dialect"`
	Entries    []trace.Entry `json:"entries"`
	Outputs    []string      `json:"outputs"`
	Truncated  bool          `json:"truncated"`
	Incomplete bool          `json:"incomplete"`
}

// BuildTrace runs source as dialect id and returns its trace.
func BuildTrace(source string, id dialect.ID, locale string) []trace.Entry {
	return Run(source, id, Options{Locale: locale}).Entries
}

// Run executes source as dialect id. It never fails: unsupported dialects
// and empty sources produce an empty trace, and a panic inside a runner
// ends the run with the entries recorded so far.
func Run(source string, id dialect.ID, opts Options) (res Result) {
	opts = opts.withDefaults()
	family := dialect.Family(id)
	res = Result{Dialect: id, Entries: []trace.Entry{}, Outputs: []string{}}
	if strings.TrimSpace(source) == "" || family == blocks.FamilyNone {
		return res
	}
	res.Incomplete = blocks.Incomplete(source, family)

	m := newMachine(id, opts)
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Str("dialect", string(id)).Msg("run aborted")
			m.rec.Stop()
		}
		res.Entries = append(res.Entries, m.rec.Entries()...)
		res.Outputs = m.rec.Out.Lines()
		res.Truncated = m.rec.Truncated()
		log.Debug().
			Str("dialect", string(id)).
			Int("steps", len(res.Entries)).
			Bool("truncated", res.Truncated).
			Msg("run finished")
	}()

	switch family {
	case blocks.FamilyIndent:
		r := newIndentRunner(m, source)
		r.run(0, len(r.lines))
	case blocks.FamilyBrace:
		r := newBraceRunner(m, source)
		r.run(0, len(r.lines))
	}
	return res
}

// flow tells a block runner how to continue after a statement.
type flow int

const (
	flowNext flow = iota
	flowBreak
	flowContinue
	flowStop
)

// machine holds the state shared by both runners: the recorder owning the
// store and output log, the note catalog and the limits.
type machine struct {
	id    dialect.ID
	rec   *trace.Recorder
	notes *i18n.Notes
	guard int
	limit int
}

func newMachine(id dialect.ID, opts Options) *machine {
	limit := rangeLimit
	if opts.MaxSteps < limit {
		limit = opts.MaxSteps
	}
	return &machine{
		id:    id,
		rec:   trace.NewRecorder(opts.MaxSteps),
		notes: i18n.New(opts.Locale),
		guard: opts.LoopGuard,
		limit: limit,
	}
}

// outcome is what a statement did, before it is turned into an entry.
type outcome struct {
	action trace.Action
	note   string
	output string
	op     *trace.Operation
}

func (m *machine) commit(mark trace.Mark, line int, source string, oc outcome) bool {
	ok := m.rec.Commit(mark, trace.Entry{
		Line:      line,
		Source:    source,
		Action:    oc.action,
		Note:      oc.note,
		Output:    oc.output,
		Operation: oc.op,
	})
	if ok {
		log.Trace().
			Int("step", len(m.rec.Entries())).
			Int("line", line).
			Str("action", string(oc.action)).
			Msg(source)
	}
	return ok
}

// exec runs a plain statement and records it. Unrecognized statements are
// recorded as executions with unchanged state.
func (m *machine) exec(line int, text string) bool {
	mark := m.rec.Mark()
	oc, ok := m.apply(text)
	if !ok {
		oc = outcome{action: trace.ActionExecution, note: m.notes.Sprintf(i18n.Execution)}
	}
	return m.commit(mark, line, text, oc)
}

// condition evaluates cond and records the outcome.
func (m *machine) condition(line int, source, cond string) (result, ok bool) {
	mark := m.rec.Mark()
	result = m.truth(cond)
	key := i18n.ConditionFalse
	if result {
		key = i18n.ConditionTrue
	}
	ok = m.commit(mark, line, source, outcome{
		action: trace.ActionCondition,
		note:   m.notes.Sprintf(key, strings.TrimSpace(cond)),
	})
	return result, ok
}
