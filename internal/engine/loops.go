package engine

import (
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Mariana-Codebase/Miniko-Platform/internal/expr"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/i18n"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/render"
	"github.com/Mariana-Codebase/Miniko-Platform/internal/trace"
)

var (
	rustStepBy = regexp.MustCompile(`^(.+)\.step_by\((.+)\)$`)
	rustSuffix = regexp.MustCompile(`\.(?:iter|into_iter|iter_mut)\(\)$`)
)

// sequence is the materialized iterable of a for-in style loop.
type sequence struct {
	values    []float64
	enumerate bool
}

// iterable resolves the collection side of a for-in loop. Ranges, list
// literals, list bindings and enumerate/reversed/sorted wrappers are
// understood; non-list bindings iterate nothing.
func (m *machine) iterable(src string) sequence {
	s := m.rec.Store
	t := strings.TrimSpace(src)
	t = strings.TrimSpace(strings.TrimSuffix(t, ":"))

	if args, ok := render.Call(t, "range"); ok {
		return sequence{values: m.rangeArgs(args)}
	}
	if args, ok := render.Call(t, "enumerate"); ok && len(args) > 0 {
		inner := m.iterable(args[0])
		return sequence{values: inner.values, enumerate: true}
	}
	if args, ok := render.Call(t, "reversed"); ok && len(args) == 1 {
		inner := m.iterable(args[0])
		vals := slices.Clone(inner.values)
		slices.Reverse(vals)
		return sequence{values: vals}
	}
	if args, ok := render.Call(t, "sorted"); ok && len(args) == 1 {
		inner := m.iterable(args[0])
		vals := slices.Clone(inner.values)
		slices.Sort(vals)
		return sequence{values: vals}
	}

	if strings.HasSuffix(t, ".iter().enumerate()") {
		inner := m.iterable(strings.TrimSuffix(t, ".iter().enumerate()"))
		return sequence{values: inner.values, enumerate: true}
	}
	if strings.HasSuffix(t, ".rev()") {
		inner := m.iterable(strings.TrimSuffix(t, ".rev()"))
		vals := slices.Clone(inner.values)
		slices.Reverse(vals)
		return sequence{values: vals}
	}
	if mt := rustStepBy.FindStringSubmatch(t); mt != nil {
		inner := m.iterable(mt[1])
		step := int(expr.ResolveNumber(mt[2], s))
		if step < 1 {
			step = 1
		}
		var vals []float64
		for i := 0; i < len(inner.values); i += step {
			vals = append(vals, inner.values[i])
		}
		return sequence{values: vals}
	}
	t = rustSuffix.ReplaceAllString(t, "")
	t = strings.TrimPrefix(strings.TrimPrefix(t, "&mut "), "&")
	if inner, ok := strings.CutPrefix(t, "("); ok && expr.MatchClose(t, 0) == len(t)-1 {
		t = strings.TrimSuffix(inner, ")")
	}
	if i := expr.IndexTopLevel(t, ".."); i > 0 {
		hi, inclusive := t[i+2:], false
		if rest, ok := strings.CutPrefix(hi, "="); ok {
			hi, inclusive = rest, true
		}
		lo := expr.ResolveNumber(t[:i], s)
		end := expr.ResolveNumber(hi, s)
		if inclusive {
			end++
		}
		return sequence{values: m.steps(lo, end, 1)}
	}

	if expr.IsIdentifier(t) {
		if v, ok := s.Get(t); ok && v.Kind == trace.KindList {
			return sequence{values: slices.Clone(v.List)}
		}
		return sequence{}
	}
	if items, ok := expr.ResolveList(t, s); ok {
		return sequence{values: items}
	}
	return sequence{}
}

// rangeArgs evaluates range(stop), range(start, stop) and
// range(start, stop, step).
func (m *machine) rangeArgs(args []string) []float64 {
	s := m.rec.Store
	nums := make([]float64, len(args))
	for i, a := range args {
		nums[i] = math.Floor(expr.ResolveNumber(a, s))
	}
	switch len(nums) {
	case 1:
		return m.steps(0, nums[0], 1)
	case 2:
		return m.steps(nums[0], nums[1], 1)
	case 3:
		return m.steps(nums[0], nums[1], nums[2])
	}
	return nil
}

// steps lists start, start+step, ... up to but excluding stop.
func (m *machine) steps(start, stop, step float64) []float64 {
	if step == 0 {
		return nil
	}
	var vals []float64
	for v := start; (step > 0 && v < stop) || (step < 0 && v > stop); v += step {
		if len(vals) >= m.limit {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

// each runs body once per item of seq, recording a loop entry that binds
// names before every pass.
func (m *machine) each(line int, source string, names []string, seq sequence, body func() flow) flow {
	for k, item := range seq.values {
		vals := []trace.Value{trace.Number(item)}
		if seq.enumerate {
			vals = []trace.Value{trace.Number(float64(k)), trace.Number(item)}
		}
		if !m.bindLoop(line, source, k+1, names, vals) {
			return flowStop
		}
		switch body() {
		case flowStop:
			return flowStop
		case flowBreak:
			return flowNext
		}
	}
	return flowNext
}

func (m *machine) bindLoop(line int, source string, round int, names []string, vals []trace.Value) bool {
	mark := m.rec.Mark()
	var shownNames, shownVals []string
	for i, name := range names {
		if i >= len(vals) {
			break
		}
		if name == "_" || name == "" {
			continue
		}
		m.rec.Store.Set(name, vals[i])
		shownNames = append(shownNames, name)
		shownVals = append(shownVals, vals[i].Display())
	}
	note := m.notes.Sprintf(i18n.Iteration, round, strings.Join(shownNames, ", "), strings.Join(shownVals, ", "))
	return m.commit(mark, line, source, outcome{action: trace.ActionLoop, note: note})
}

// counted runs a three-clause loop. init runs before the first round and
// update before every later one; each round whose condition holds records
// a loop entry showing the loop variable and runs body. Rounds are capped
// by the loop guard.
func (m *machine) counted(line int, source, init, cond, update string, body func() flow) flow {
	name := loopVariable(init, update)
	for round := 1; round <= m.guard; round++ {
		mark := m.rec.Mark()
		if round == 1 {
			m.applyAll(init)
		} else {
			m.applyAll(update)
		}
		if !m.holds(cond) {
			return flowNext
		}
		note := m.notes.Sprintf(i18n.DoRound, round)
		if name != "" {
			v, _ := m.rec.Store.Get(name)
			note = m.notes.Sprintf(i18n.Iteration, round, name, v.Display())
		}
		if !m.commit(mark, line, source, outcome{action: trace.ActionLoop, note: note}) {
			return flowStop
		}
		switch body() {
		case flowStop:
			return flowStop
		case flowBreak:
			return flowNext
		}
	}
	log.Debug().Int("guard", m.guard).Str("loop", source).Msg("loop guard reached")
	return flowNext
}

// repeat runs a while loop; with post set the condition is checked after
// the body, as in do-while.
func (m *machine) repeat(line int, source, cond string, post bool, body func() flow) flow {
	for round := 1; round <= m.guard; round++ {
		if !post && !m.holds(cond) {
			return flowNext
		}
		mark := m.rec.Mark()
		note := m.notes.Sprintf(i18n.DoRound, round)
		if !post && strings.TrimSpace(cond) != "" {
			note = m.notes.Sprintf(i18n.WhileRound, round, strings.TrimSpace(cond))
		}
		if !m.commit(mark, line, source, outcome{action: trace.ActionLoop, note: note}) {
			return flowStop
		}
		switch body() {
		case flowStop:
			return flowStop
		case flowBreak:
			return flowNext
		}
		if post && !m.holds(cond) {
			return flowNext
		}
	}
	log.Debug().Int("guard", m.guard).Str("loop", source).Msg("loop guard reached")
	return flowNext
}

// holds evaluates a loop condition; an empty condition always holds.
func (m *machine) holds(cond string) bool {
	if strings.TrimSpace(cond) == "" {
		return true
	}
	return m.truth(cond)
}

// truth evaluates a condition. Boolean literals and negation are handled
// here; comparisons go to the evaluator.
func (m *machine) truth(cond string) bool {
	t := strings.TrimSpace(cond)
	t = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(t, "{"), ":"))
	for strings.HasPrefix(t, "(") && expr.MatchClose(t, 0) == len(t)-1 {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	switch t {
	case "true", "True", "1":
		return true
	case "false", "False", "0", "":
		return false
	}
	if strings.Contains(t, "__name__") {
		return true
	}
	if rest, ok := strings.CutPrefix(t, "not "); ok {
		return !m.truth(rest)
	}
	if rest, ok := strings.CutPrefix(t, "!"); ok && !strings.HasPrefix(rest, "=") {
		return !m.truth(rest)
	}
	return expr.EvaluateCondition(t, m.rec.Store)
}

var loopVarRe = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?:\+\+|--|[-+*/]?=|:=)`)

// loopVariable names the variable a three-clause loop counts with.
func loopVariable(init, update string) string {
	for _, clause := range []string{init, update} {
		clause = strings.TrimSpace(clause)
		if mt := prefixRe.FindStringSubmatch(clause); mt != nil {
			return mt[2]
		}
		if mt := loopVarRe.FindStringSubmatch(clause); mt != nil {
			return mt[1]
		}
	}
	return ""
}
