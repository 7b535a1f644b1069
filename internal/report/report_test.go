package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Pass("one")
	r.Fail("two")
	r.Is(true, true, "three")
	r.Is(1, 2, "four")
	r.Info("note")
	r.Diag("group")
	Error(r, "block")

	assert.Equal(t, 2, r.Passed())
	assert.Equal(t, 2, r.Failed())
	assert.Equal(t, 4, r.Total())
	assert.Equal(t, []string{"one", "three"}, r.Messages(KindPass))
	assert.Equal(t, []string{"two", "four"}, r.Messages(KindFail))
	assert.Equal(t, []string{"block"}, r.Messages(KindError))

	failed := r.Events[3]
	assert.Equal(t, 1, failed.Got)
	assert.Equal(t, 2, failed.Want)

	assert.Equal(t, "pass: one\nfail: two\npass: three\nfail: four\ninfo: note\ndiag: group\nerror: block\n", r.Transcript())
}

// infoOnly implements Reporter without the error channel.
type infoOnly struct {
	infos []string
}

func (r *infoOnly) Pass(string) {}
func (r *infoOnly) Fail(string) {}
func (r *infoOnly) Is(_, _ any, _ string) {}
func (r *infoOnly) Info(msg string) { r.infos = append(r.infos, msg) }
func (r *infoOnly) Diag(string) {}

func TestError_FallsBackToInfo(t *testing.T) {
	r := &infoOnly{}
	Error(r, "block")
	assert.Equal(t, []string{"block"}, r.infos)
}

func TestTAP(t *testing.T) {
	var buf bytes.Buffer
	tap := NewTAP(&buf)

	tap.Diag("valid set")
	tap.Is(true, true, "form is valid for dataset [complete]")
	tap.Fail("form is valid for dataset [broken]")
	tap.Info("valid set[broken]:\n[error] \"foo\" raised\n")
	tap.Diag("invalid set")
	tap.Pass("form is invalid for dataset [empty]")
	tap.Error("invalid set[empty]:\n[expected error] \"baz\" not raised\n")
	tap.Is("a", "b", "strings differ")
	require.NoError(t, tap.Close())

	assert.Equal(t, 4, tap.Count())
	assert.Equal(t, 2, tap.Failed())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "tap_stream", buf.Bytes())
}

func TestTAP_AllPassing(t *testing.T) {
	var buf bytes.Buffer
	tap := NewTAP(&buf)
	tap.Pass("only")
	require.NoError(t, tap.Close())

	assert.Equal(t, "ok 1 - only\n1..1\n# Looks like everything went fine.\n", buf.String())
}

// fakeTB records calls made by the testing adapter.
type fakeTB struct {
	errors []string
	logs   []string
}

func (f *fakeTB) Helper() {}

func (f *fakeTB) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeTB) Logf(format string, args ...any) {
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
}

func TestTesting(t *testing.T) {
	tb := &fakeTB{}
	r := NewTesting(tb)

	r.Pass("good")
	r.Is(true, true, "equal")
	r.Info("note")
	r.Diag("group")
	assert.Empty(t, tb.errors)
	assert.Equal(t, []string{"ok - good", "ok - equal", "note", "# group"}, tb.logs)

	r.Fail("bad")
	r.Is(false, true, "not equal")
	require.Len(t, tb.errors, 2)
	assert.Equal(t, "not ok - bad", tb.errors[0])
	assert.Contains(t, tb.errors[1], "not equal")
}
