package form

import "strconv"

// Node is one node of a validation error report: either a *Leaf carrying a
// message or an *ErrorSchema grouping the errors of an embedded form.
type Node interface {
	node()
}

// Leaf is a single validation error.
type Leaf struct {
	Message string
}

func (*Leaf) node() {}

// String returns the raw message, which is the leaf's string form.
func (l *Leaf) String() string {
	return l.Message
}

// Error implements the error interface.
func (l *Leaf) Error() string {
	return l.Message
}

// Entry pairs a child key with its error node. Field errors use the field
// name; global (non-field) errors use their zero-based position.
type Entry struct {
	Key string
	Err Node
}

// ErrorSchema is an ordered error report for one form level.
type ErrorSchema struct {
	Entries []Entry
	globals int
}

func (*ErrorSchema) node() {}

// NewErrorSchema returns an empty report.
func NewErrorSchema() *ErrorSchema {
	return &ErrorSchema{Entries: []Entry{}}
}

// AddField records an error for the named field.
func (s *ErrorSchema) AddField(name, message string) {
	s.Entries = append(s.Entries, Entry{Key: name, Err: &Leaf{Message: message}})
}

// AddGlobal records an error that belongs to no field.
func (s *ErrorSchema) AddGlobal(message string) {
	s.Entries = append(s.Entries, Entry{Key: strconv.Itoa(s.globals), Err: &Leaf{Message: message}})
	s.globals++
}

// AddEmbedded records the report of an embedded form. Empty reports are
// not recorded.
func (s *ErrorSchema) AddEmbedded(name string, child *ErrorSchema) {
	if child == nil || child.Empty() {
		return
	}
	s.Entries = append(s.Entries, Entry{Key: name, Err: child})
}

// Empty reports whether the schema holds no errors.
func (s *ErrorSchema) Empty() bool {
	return s == nil || len(s.Entries) == 0
}

// Len returns the number of leaf errors in the whole tree.
func (s *ErrorSchema) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, e := range s.Entries {
		switch v := e.Err.(type) {
		case *Leaf:
			n++
		case *ErrorSchema:
			n += v.Len()
		}
	}
	return n
}
