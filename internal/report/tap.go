package report

import (
	"fmt"
	"io"
	"strings"
)

// TAP writes results as a Test Anything Protocol stream. Info lines are
// prefixed with "> ", diagnostics with "# " and error-level blocks with
// "! ". Close writes the plan and a summary.
type TAP struct {
	w      io.Writer
	count  int
	failed int
}

// NewTAP returns a TAP writer on w.
func NewTAP(w io.Writer) *TAP {
	return &TAP{w: w}
}

func (t *TAP) Pass(msg string) {
	t.count++
	fmt.Fprintf(t.w, "ok %d - %s\n", t.count, msg)
}

func (t *TAP) Fail(msg string) {
	t.count++
	t.failed++
	fmt.Fprintf(t.w, "not ok %d - %s\n", t.count, msg)
}

// Is passes when got and want are equal in their %#v rendering.
func (t *TAP) Is(got, want any, msg string) {
	if fmt.Sprintf("%#v", got) == fmt.Sprintf("%#v", want) {
		t.Pass(msg)
		return
	}
	t.Fail(msg)
	t.lines("#", fmt.Sprintf("     got: %v\nexpected: %v", got, want))
}

func (t *TAP) Info(msg string) {
	t.lines(">", msg)
}

func (t *TAP) Diag(msg string) {
	t.lines("#", msg)
}

func (t *TAP) Error(msg string) {
	t.lines("!", msg)
}

func (t *TAP) lines(prefix, msg string) {
	for _, line := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if line == "" {
			fmt.Fprintln(t.w, prefix)
			continue
		}
		fmt.Fprintf(t.w, "%s %s\n", prefix, line)
	}
}

// Failed returns the number of failing assertions so far.
func (t *TAP) Failed() int { return t.failed }

// Count returns the number of assertions so far.
func (t *TAP) Count() int { return t.count }

// Close writes the plan line and a one-line summary.
func (t *TAP) Close() error {
	if _, err := fmt.Fprintf(t.w, "1..%d\n", t.count); err != nil {
		return err
	}
	var err error
	if t.failed > 0 {
		_, err = fmt.Fprintf(t.w, "# Looks like you failed %d tests of %d.\n", t.failed, t.count)
	} else {
		_, err = fmt.Fprintln(t.w, "# Looks like everything went fine.")
	}
	return err
}
