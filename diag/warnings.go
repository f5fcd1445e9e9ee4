// Package diag collects non-fatal diagnostics produced while processing a
// sweep.
//
// A Warnings value is threaded explicitly through the pipeline instead of
// being printed as it happens, so callers decide when and where warnings are
// surfaced.
package diag

import "fmt"

// Warnings is an ordered list of warning messages. The zero value is ready
// to use.
type Warnings struct {
	messages []string
}

// Add appends a warning message.
func (w *Warnings) Add(msg string) {
	if w == nil {
		return
	}
	w.messages = append(w.messages, msg)
}

// Addf appends a formatted warning message.
func (w *Warnings) Addf(format string, args ...any) {
	w.Add(fmt.Sprintf(format, args...))
}

// Merge appends all warnings from other, keeping their order.
func (w *Warnings) Merge(other *Warnings) {
	if w == nil || other == nil {
		return
	}
	w.messages = append(w.messages, other.messages...)
}

// Len returns the number of warnings recorded.
func (w *Warnings) Len() int {
	if w == nil {
		return 0
	}
	return len(w.messages)
}

// All returns a copy of the warnings in first-seen order.
func (w *Warnings) All() []string {
	if w == nil {
		return nil
	}
	out := make([]string, len(w.messages))
	copy(out, w.messages)
	return out
}
