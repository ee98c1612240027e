package trace

// DefaultMaxSteps caps the number of entries a run records.
const DefaultMaxSteps = 500

// Recorder owns the store and output log of a single run and collects the
// entries produced while the run mutates them.
type Recorder struct {
	Store *Store
	Out   *Output

	entries   []Entry
	maxSteps  int
	truncated bool
}

// NewRecorder creates a recorder with a fresh store and output log.
// A maxSteps of zero or less means no cap.
func NewRecorder(maxSteps int) *Recorder {
	return &Recorder{
		Store:    NewStore(),
		Out:      &Output{},
		maxSteps: maxSteps,
	}
}

// Mark is the state captured before a statement runs.
type Mark struct {
	vars *Store
	out  []string
}

// Mark snapshots the store and output log.
func (r *Recorder) Mark() Mark {
	return Mark{vars: r.Store.Clone(), out: r.Out.Lines()}
}

// Commit records e with the before state of m and the current after state.
// Step numbers are assigned here. Entries past the cap are dropped and the
// run is flagged as truncated.
func (r *Recorder) Commit(m Mark, e Entry) bool {
	if r.Full() {
		r.truncated = true
		return false
	}
	e.Step = len(r.entries) + 1
	e.Before = m.vars
	e.After = r.Store.Clone()
	e.OutputsBefore = m.out
	e.OutputsAfter = r.Out.Lines()
	r.entries = append(r.entries, e)
	return true
}

// Full reports whether the step cap has been reached.
func (r *Recorder) Full() bool {
	return r.maxSteps > 0 && len(r.entries) >= r.maxSteps
}

// Entries returns the recorded entries.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Truncated reports whether any entry was dropped because of the cap.
func (r *Recorder) Truncated() bool {
	return r.truncated
}

// Stop marks the run as truncated without recording anything. Engines call it
// when they unwind early because the recorder is full.
func (r *Recorder) Stop() {
	r.truncated = true
}
