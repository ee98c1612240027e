// Package toyscript interprets the toy instruction language: set, add, sub,
// mul, div, print, if/endif and loop/end, one instruction per line.
package toyscript

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/render"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var mathOps = map[string]string{
	"add": "+",
	"sub": "-",
	"mul": "*",
	"div": "/",
}

// Options configures a run. A non-positive MaxSteps takes the default.
type Options struct {
	Locale   string
	MaxSteps int
}

// Result is the outcome of a run.
type Result struct {
	Entries   []trace.Entry `json:"entries"`
	Outputs   []string      `json:"outputs"`
	Truncated bool          `json:"truncated"`
}

type interpreter struct {
	lines    []string
	jumps    Jumps
	rec      *trace.Recorder
	notes    *i18n.Notes
	counters map[int]int
}

// Run interprets source. Malformed and unknown instructions are recorded
// and skipped; Run never fails.
func Run(source string, opts Options) Result {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = trace.DefaultMaxSteps
	}
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	in := &interpreter{
		lines:    lines,
		jumps:    BuildJumps(lines),
		rec:      trace.NewRecorder(opts.MaxSteps),
		notes:    i18n.New(opts.Locale),
		counters: map[int]int{},
	}

	pc := 0
	for pc < len(lines) {
		if op(lines[pc]) == "" {
			pc++
			continue
		}
		next, ok := in.step(pc)
		if !ok {
			break
		}
		pc = next
	}

	log.Debug().
		Int("steps", len(in.rec.Entries())).
		Bool("truncated", in.rec.Truncated()).
		Msg("toy script finished")

	entries := in.rec.Entries()
	if entries == nil {
		entries = []trace.Entry{}
	}
	return Result{Entries: entries, Outputs: in.rec.Out.Lines(), Truncated: in.rec.Truncated()}
}

// step executes the instruction at pc and returns the next pc. It reports
// false once the step cap is reached.
func (in *interpreter) step(pc int) (int, bool) {
	src := strings.TrimSpace(in.lines[pc])
	fields := strings.Fields(src)
	name := strings.ToLower(fields[0])
	args := fields[1:]
	store := in.rec.Store
	mark := in.rec.Mark()
	next := pc + 1

	var e trace.Entry
	switch {
	case name == "set" && len(args) >= 2:
		v := trace.Number(expr.ResolveNumber(strings.Join(args[1:], " "), store))
		store.Set(args[0], v)
		e = trace.Entry{Action: trace.ActionSet, Note: in.notes.Sprintf(i18n.ToySet, args[0], v.Display())}

	case mathOps[name] != "" && len(args) >= 2:
		sym := mathOps[name]
		cur, _ := store.Get(args[0])
		left := cur.Float()
		right := expr.ResolveNumber(strings.Join(args[1:], " "), store)
		result := expr.ApplyOperator(left, right, sym)
		store.Set(args[0], trace.Number(result))
		e = trace.Entry{
			Action: trace.ActionMath,
			Note: in.notes.Sprintf(i18n.ToyMath, trace.FormatNumber(left), sym,
				trace.FormatNumber(right), trace.FormatNumber(result)),
			Operation: &trace.Operation{Left: left, Operator: sym, Right: right, Result: result, Target: args[0]},
		}

	case name == "print" && len(args) >= 1:
		line := render.Arg(strings.TrimSpace(src[len(fields[0]):]), store)
		in.rec.Out.Append(line)
		e = trace.Entry{Action: trace.ActionPrint, Note: in.notes.Sprintf(i18n.ToyPrint, line), Output: line}

	case name == "if" && len(args) >= 1:
		cond := strings.Join(args, " ")
		if expr.EvaluateCondition(cond, store) {
			e = trace.Entry{Action: trace.ActionIf, Note: in.notes.Sprintf(i18n.ToyIfTrue, cond)}
			break
		}
		next = len(in.lines)
		if end, ok := in.jumps.IfEnd[pc]; ok {
			next = end + 1
		}
		e = trace.Entry{Action: trace.ActionSkip, Note: in.notes.Sprintf(i18n.ToyIfFalse, cond, next+1)}

	case name == "endif":
		key := i18n.ToyEndIf
		if _, ok := in.jumps.EndIf[pc]; !ok {
			key = i18n.ToyIfOrphan
		}
		e = trace.Entry{Action: trace.ActionEndIf, Note: in.notes.Sprintf(key)}

	case name == "loop" && len(args) >= 1:
		left, seen := in.counters[pc]
		if !seen {
			left = int(expr.ResolveNumber(strings.Join(args, " "), store))
			in.counters[pc] = left
		}
		if left <= 0 {
			delete(in.counters, pc)
			next = len(in.lines)
			if end, ok := in.jumps.LoopEnd[pc]; ok {
				next = end + 1
			}
			e = trace.Entry{Action: trace.ActionSkip, Note: in.notes.Sprintf(i18n.ToyLoopSkip, next+1)}
			break
		}
		e = trace.Entry{Action: trace.ActionLoop, Note: in.notes.Sprintf(i18n.ToyLoopEnter, left)}

	case name == "end":
		open, ok := in.jumps.EndLoop[pc]
		if !ok {
			e = trace.Entry{Action: trace.ActionLoopEnd, Note: in.notes.Sprintf(i18n.ToyEndOrphan)}
			break
		}
		in.counters[open]--
		if left := in.counters[open]; left > 0 {
			next = open + 1
			e = trace.Entry{Action: trace.ActionLoopEnd, Note: in.notes.Sprintf(i18n.ToyEndRepeat, left)}
			break
		}
		delete(in.counters, open)
		e = trace.Entry{Action: trace.ActionLoopEnd, Note: in.notes.Sprintf(i18n.ToyEndDone)}

	default:
		e = trace.Entry{Action: trace.ActionUnknown, Note: in.notes.Sprintf(i18n.ToyUnknown, fields[0])}
	}

	e.Line = pc + 1
	e.Source = src
	if !in.rec.Commit(mark, e) {
		return pc, false
	}
	log.Trace().Int("line", e.Line).Str("action", string(e.Action)).Msg(src)
	return next, true
}
