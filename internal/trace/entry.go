package trace

// Action labels what kind of statement produced an entry.
type Action string

const (
	ActionDeclare   Action = "declare"
	ActionAssign    Action = "assign"
	ActionCompound  Action = "compound"
	ActionIncrement Action = "increment"
	ActionList      Action = "list"
	ActionPrint     Action = "print"
	ActionCondition Action = "condition"
	ActionLoop      Action = "loop"
	ActionExecution Action = "execution"

	// Toy script actions.
	ActionSet     Action = "set"
	ActionMath    Action = "math"
	ActionIf      Action = "if"
	ActionEndIf   Action = "endif"
	ActionLoopEnd Action = "end"
	ActionSkip    Action = "skip"
	ActionUnknown Action = "unknown"
)

// Operation describes the arithmetic performed by a step.
type Operation struct {
	Left     float64 `json:"left"`
	Operator string  `json:"operator"`
	Right    float64 `json:"right"`
	Result   float64 `json:"result"`
	Target   string  `json:"target,omitempty"`
}

// Entry is one recorded execution step.
type Entry struct {
	Step          int        `json:"step"`
	Line          int        `json:"line"`
	Source        string     `json:"source"`
	Action        Action     `json:"action"`
	Note          string     `json:"note,omitempty"`
	Before        *Store     `json:"before"`
	After         *Store     `json:"after"`
	OutputsBefore []string   `json:"outputs_before"`
	OutputsAfter  []string   `json:"outputs_after"`
	Output        string     `json:"output,omitempty"`
	Operation     *Operation `json:"operation,omitempty"`
}

// Produced reports whether the step appended a line to the output log.
func (e Entry) Produced() bool {
	return len(e.OutputsAfter) > len(e.OutputsBefore)
}
