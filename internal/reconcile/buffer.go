package reconcile

import (
	"fmt"
	"slices"
	"strings"
)

// MessageBuffer collects the diagnostic lines of one dataset.
// Not safe for concurrent use.
type MessageBuffer struct {
	lines []string
}

// NewMessageBuffer returns an empty buffer.
func NewMessageBuffer() *MessageBuffer {
	return &MessageBuffer{lines: []string{}}
}

// Add appends a raw line.
func (b *MessageBuffer) Add(line string) {
	b.lines = append(b.lines, line)
}

// Raised records an unexpected error by identifier.
func (b *MessageBuffer) Raised(id string) {
	b.Add(fmt.Sprintf("[error] \"%s\" raised", id))
}

// RaisedRaw records an unexpected error by its raw message.
func (b *MessageBuffer) RaisedRaw(message string) {
	b.Add(fmt.Sprintf("[error] %s raised", message))
}

// ExpectedNotRaised records one line per expected error never matched.
func (b *MessageBuffer) ExpectedNotRaised(ids []string) {
	for _, id := range ids {
		b.Add(fmt.Sprintf("[expected error] \"%s\" not raised", id))
	}
}

// Len returns the number of buffered lines.
func (b *MessageBuffer) Len() int {
	return len(b.lines)
}

// Lines returns a sorted copy of the buffered lines.
func (b *MessageBuffer) Lines() []string {
	out := slices.Clone(b.lines)
	slices.Sort(out)
	return out
}

// Flush emits the sorted lines as one block under a "<set> set[<name>]:"
// header, then clears the buffer. Nothing is emitted for an empty buffer
// unless force is set. Reports whether emit was called.
func (b *MessageBuffer) Flush(set, name string, force bool, emit func(string)) bool {
	defer b.Reset()

	if !force && len(b.lines) == 0 {
		return false
	}
	emit(fmt.Sprintf("%s set[%s]:\n%s\n", set, name, strings.Join(b.Lines(), "\n")))
	return true
}

// Reset drops every buffered line.
func (b *MessageBuffer) Reset() {
	b.lines = b.lines[:0]
}
