package report

import (
	"github.com/stretchr/testify/assert"
)

// TB is the subset of testing.TB the adapter needs.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	Logf(format string, args ...any)
}

// Testing reports through a Go test: failures fail the test, everything
// else is logged.
type Testing struct {
	tb TB
}

// NewTesting returns a reporter bound to tb.
func NewTesting(tb TB) *Testing {
	return &Testing{tb: tb}
}

func (r *Testing) Pass(msg string) {
	r.tb.Helper()
	r.tb.Logf("ok - %s", msg)
}

func (r *Testing) Fail(msg string) {
	r.tb.Helper()
	r.tb.Errorf("not ok - %s", msg)
}

func (r *Testing) Is(got, want any, msg string) {
	r.tb.Helper()
	if assert.Equal(r.tb, want, got, msg) {
		r.tb.Logf("ok - %s", msg)
	}
}

func (r *Testing) Info(msg string) {
	r.tb.Helper()
	r.tb.Logf("%s", msg)
}

func (r *Testing) Diag(msg string) {
	r.tb.Helper()
	r.tb.Logf("# %s", msg)
}
