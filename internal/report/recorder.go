package report

import (
	"fmt"
	"reflect"
	"strings"
)

// Event kinds.
const (
	KindPass  = "pass"
	KindFail  = "fail"
	KindInfo  = "info"
	KindDiag  = "diag"
	KindError = "error"
)

// Event is one recorded emission.
type Event struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Got     any    `json:"got,omitempty"`
	Want    any    `json:"want,omitempty"`
}

// Recorder keeps every emission in memory.
type Recorder struct {
	Events []Event `json:"events"`
	passed int
	failed int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Events: []Event{}}
}

func (r *Recorder) Pass(msg string) {
	r.passed++
	r.Events = append(r.Events, Event{Kind: KindPass, Message: msg})
}

func (r *Recorder) Fail(msg string) {
	r.failed++
	r.Events = append(r.Events, Event{Kind: KindFail, Message: msg})
}

// Is records a pass when got and want are deeply equal, a fail otherwise.
func (r *Recorder) Is(got, want any, msg string) {
	if reflect.DeepEqual(got, want) {
		r.passed++
		r.Events = append(r.Events, Event{Kind: KindPass, Message: msg})
		return
	}
	r.failed++
	r.Events = append(r.Events, Event{Kind: KindFail, Message: msg, Got: got, Want: want})
}

func (r *Recorder) Info(msg string) {
	r.Events = append(r.Events, Event{Kind: KindInfo, Message: msg})
}

func (r *Recorder) Diag(msg string) {
	r.Events = append(r.Events, Event{Kind: KindDiag, Message: msg})
}

func (r *Recorder) Error(msg string) {
	r.Events = append(r.Events, Event{Kind: KindError, Message: msg})
}

// Passed returns the number of passing assertions.
func (r *Recorder) Passed() int { return r.passed }

// Failed returns the number of failing assertions.
func (r *Recorder) Failed() int { return r.failed }

// Total returns the number of assertions.
func (r *Recorder) Total() int { return r.passed + r.failed }

// Messages returns the messages of every event of the given kind.
func (r *Recorder) Messages(kind string) []string {
	out := []string{}
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e.Message)
		}
	}
	return out
}

// Transcript renders every event on its own line, prefixed by its kind.
func (r *Recorder) Transcript() string {
	var buf strings.Builder
	for _, e := range r.Events {
		fmt.Fprintf(&buf, "%s: %s\n", e.Kind, e.Message)
	}
	return buf.String()
}
