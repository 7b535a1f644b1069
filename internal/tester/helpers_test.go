package tester

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/formtest/internal/form"
	"github.com/roach88/formtest/internal/schemaform"
)

// contactRegistry registers the testdata catalog.
func contactRegistry(t *testing.T, opts ...schemaform.Option) *form.Registry {
	t.Helper()
	catalog, err := schemaform.LoadCatalog(filepath.Join("testdata", "forms.cue"))
	require.NoError(t, err)

	reg := form.NewRegistry()
	require.NoError(t, catalog.Register(reg, opts...))
	return reg
}

// simpleRegistry registers "Simple": foo and bar required, optional csrf.
func simpleRegistry(t *testing.T, csrf bool) *form.Registry {
	t.Helper()
	catalog, err := schemaform.NewCatalog(schemaform.Definition{
		Name: "Simple",
		Fields: []schemaform.FieldDef{
			{Name: "foo", Rules: "required"},
			{Name: "bar", Rules: "required"},
		},
		CSRF: csrf,
	})
	require.NoError(t, err)

	reg := form.NewRegistry()
	require.NoError(t, catalog.Register(reg))
	return reg
}

// fakeSchema records removals.
type fakeSchema struct {
	removed  []string
	embedded map[string]*fakeSchema
}

func (s *fakeSchema) Remove(name string) {
	s.removed = append(s.removed, name)
}

func (s *fakeSchema) Embedded(name string) (form.Schema, bool) {
	child, ok := s.embedded[name]
	if !ok {
		return nil, false
	}
	return child, true
}

// fakeForm returns canned results and records what it was given.
type fakeForm struct {
	name      string
	schema    *fakeSchema
	errs      *form.ErrorSchema
	bindErr   error
	saveErr   error
	savePanic bool
	csrf      bool

	bound  []map[string]any
	resets int
	saves  int
}

func newFakeForm(name string) *fakeForm {
	return &fakeForm{
		name:   name,
		schema: &fakeSchema{embedded: map[string]*fakeSchema{"bazz": {}}},
		errs:   form.NewErrorSchema(),
	}
}

func (f *fakeForm) Name() string { return f.name }
func (f *fakeForm) Reset() { f.resets++ }

func (f *fakeForm) Bind(values map[string]any) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, values)
	return nil
}

func (f *fakeForm) IsValid() bool { return f.errs.Empty() }
func (f *fakeForm) Errors() *form.ErrorSchema { return f.errs }
func (f *fakeForm) Schema() form.Schema { return f.schema }
func (f *fakeForm) ForgeryProtected() bool { return f.csrf }
func (f *fakeForm) ForgeryToken() (string, string) { return "_token", "secret-token" }

func (f *fakeForm) Save() error {
	f.saves++
	if f.savePanic {
		panic("boom")
	}
	return f.saveErr
}

var errBind = errors.New("widget exploded")
