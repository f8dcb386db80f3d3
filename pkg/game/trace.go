package game

import "fmt"

// Trace accumulates resolution trace lines for one lookup. Callers pass a
// Trace down the resolution path instead of the resolver mutating shared
// logger state; a nil Trace disables collection.
type Trace struct {
	lines []string
}

// Addf appends one formatted trace line.
func (t *Trace) Addf(format string, args ...any) {
	if t == nil {
		return
	}
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Lines returns the collected lines in order.
func (t *Trace) Lines() []string {
	if t == nil {
		return nil
	}
	return t.lines
}
