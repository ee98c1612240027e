// Package i18n negotiates the locale used for human-readable trace notes
// and holds the message catalog for them.
package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Key identifies a catalog message.
type Key = string

const (
	Declare        Key = "note.declare"
	Assign         Key = "note.assign"
	Compound       Key = "note.compound"
	CreateList     Key = "note.list"
	Print          Key = "note.print"
	ConditionTrue  Key = "note.condition.true"
	ConditionFalse Key = "note.condition.false"
	Iteration      Key = "note.iteration"
	WhileRound     Key = "note.while"
	DoRound        Key = "note.do"
	Execution      Key = "note.execution"

	ToySet        Key = "toy.set"
	ToyMath       Key = "toy.math"
	ToyPrint      Key = "toy.print"
	ToyIfTrue     Key = "toy.if.true"
	ToyIfFalse    Key = "toy.if.false"
	ToyEndIf      Key = "toy.endif"
	ToyLoopEnter  Key = "toy.loop.enter"
	ToyLoopSkip   Key = "toy.loop.skip"
	ToyEndRepeat  Key = "toy.end.repeat"
	ToyEndDone    Key = "toy.end.done"
	ToyEndOrphan  Key = "toy.end.orphan"
	ToyUnknown    Key = "toy.unknown"
	ToyIfOrphan   Key = "toy.endif.orphan"
	LabelUnknown  Key = "label.unknown"
	LabelEmpty    Key = "label.empty"
	FallbackIntro Key = "explain.intro"
	FallbackSteps Key = "explain.steps"
	FallbackVars  Key = "explain.vars"
	FallbackOut   Key = "explain.output"
	FallbackNone  Key = "explain.none"
	FallbackAsk   Key = "explain.prompt"
)

// Supported locales.
var (
	English = language.English
	Spanish = language.Spanish
)

var supported = []language.Tag{English, Spanish}

var matcher = language.NewMatcher(supported)

var catalog = map[language.Tag]map[Key]string{
	language.English: {
		Declare:        "Declare %s = %s",
		Assign:         "Assign %s = %s",
		Compound:       "Update %s: %s %s %s = %s",
		CreateList:     "Create list %s with %d items",
		Print:          "Print: %s",
		ConditionTrue:  "Condition %s is true",
		ConditionFalse: "Condition %s is false",
		Iteration:      "Iteration %d: %s = %s",
		WhileRound:     "Iteration %d: %s holds",
		DoRound:        "Iteration %d",
		Execution:      "Line executed (not visualized)",

		ToySet:       "set %s to %s",
		ToyMath:      "%s %s %s gives %s",
		ToyPrint:     "print %s",
		ToyIfTrue:    "%s holds, entering block",
		ToyIfFalse:   "%s fails, jumping to line %d",
		ToyEndIf:     "end of if block",
		ToyLoopSkip:  "loop finished, jumping to line %d",
		ToyEndDone:   "loop done",
		ToyEndOrphan: "end without a matching loop",
		ToyIfOrphan:  "endif without a matching if",
		ToyUnknown:   "unknown instruction %q",
		LabelUnknown: "Unknown",
		LabelEmpty:   "Empty",

		FallbackIntro: "This %s snippet runs in %d steps.",
		FallbackSteps: "Step %d (%s): %s",
		FallbackVars:  "Final variables: %s.",
		FallbackOut:   "It prints: %s.",
		FallbackNone:  "It does not print anything.",
		FallbackAsk:   "About your question (%s): follow the steps above to see how each value changes.",
	},
	language.Spanish: {
		Declare:        "Se declara %s = %s",
		Assign:         "Se asigna %s = %s",
		Compound:       "Se actualiza %s: %s %s %s = %s",
		CreateList:     "Se crea la lista %s con %d elementos",
		Print:          "Se imprime: %s",
		ConditionTrue:  "La condición %s es verdadera",
		ConditionFalse: "La condición %s es falsa",
		Iteration:      "Iteración %d: %s = %s",
		WhileRound:     "Iteración %d: se cumple %s",
		DoRound:        "Iteración %d",
		Execution:      "Línea ejecutada (sin visualización)",

		ToySet:       "%s toma el valor %s",
		ToyMath:      "%s %s %s da %s",
		ToyPrint:     "se imprime %s",
		ToyIfTrue:    "%s se cumple, se entra al bloque",
		ToyIfFalse:   "%s no se cumple, salto a la línea %d",
		ToyEndIf:     "fin del bloque if",
		ToyLoopSkip:  "ciclo terminado, salto a la línea %d",
		ToyEndDone:   "ciclo terminado",
		ToyEndOrphan: "end sin loop correspondiente",
		ToyIfOrphan:  "endif sin if correspondiente",
		ToyUnknown:   "instrucción desconocida %q",
		LabelUnknown: "Desconocido",
		LabelEmpty:   "Vacío",

		FallbackIntro: "Este fragmento de %s se ejecuta en %d pasos.",
		FallbackSteps: "Paso %d (%s): %s",
		FallbackVars:  "Variables finales: %s.",
		FallbackOut:   "Imprime: %s.",
		FallbackNone:  "No imprime nada.",
		FallbackAsk:   "Sobre tu pregunta (%s): sigue los pasos anteriores para ver cómo cambia cada valor.",
	},
}

// counted messages take their count as the first argument and have a
// singular and a plural form.
var counted = map[language.Tag]map[Key][2]string{
	language.English: {
		ToyLoopEnter: {"loop with 1 iteration left", "loop with %[1]d iterations left"},
		ToyEndRepeat: {"repeat loop, 1 iteration left", "repeat loop, %[1]d iterations left"},
	},
	language.Spanish: {
		ToyLoopEnter: {"ciclo con 1 iteración restante", "ciclo con %[1]d iteraciones restantes"},
		ToyEndRepeat: {"se repite el ciclo, queda 1 iteración", "se repite el ciclo, quedan %[1]d iteraciones"},
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, msg := range msgs {
			_ = message.SetString(tag, key, msg)
		}
	}
	for tag, msgs := range counted {
		for key, forms := range msgs {
			_ = message.Set(tag, key, plural.Selectf(1, "%d",
				"=1", forms[0],
				plural.Other, forms[1],
			))
		}
	}
}

// Match negotiates locale against the supported languages. Unknown or
// malformed tags fall back to English.
func Match(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Notes renders catalog messages for one locale.
type Notes struct {
	tag     language.Tag
	printer *message.Printer
}

// New creates a Notes for locale.
func New(locale string) *Notes {
	tag := Match(locale)
	return &Notes{tag: tag, printer: message.NewPrinter(tag)}
}

// Tag returns the negotiated language.
func (n *Notes) Tag() language.Tag { return n.tag }

// Sprintf formats the catalog message key.
func (n *Notes) Sprintf(key Key, args ...any) string {
	return n.printer.Sprintf(key, args...)
}
