package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formtest/internal/fieldpath"
)

// mapSchema is a minimal Schema: a set of field names plus embedded schemas.
type mapSchema struct {
	fields   map[string]bool
	embedded map[string]*mapSchema
}

func newMapSchema(fields ...string) *mapSchema {
	s := &mapSchema{fields: map[string]bool{}, embedded: map[string]*mapSchema{}}
	for _, f := range fields {
		s.fields[f] = true
	}
	return s
}

func (s *mapSchema) Remove(name string) {
	delete(s.fields, name)
	delete(s.embedded, name)
}

func (s *mapSchema) Embedded(name string) (Schema, bool) {
	e, ok := s.embedded[name]
	if !ok {
		return nil, false
	}
	return e, true
}

func fixtureSchema() *mapSchema {
	root := newMapSchema("foo", "bar")
	child := newMapSchema("foo", "bar")
	grandchild := newMapSchema("foo", "bar")
	child.embedded["bazz"] = grandchild
	root.embedded["bazz"] = child
	return root
}

func TestPrune_TopLevelField(t *testing.T) {
	root := fixtureSchema()

	Prune(root, fieldpath.Parse("foo"))

	assert.NotContains(t, root.fields, "foo")
	assert.Contains(t, root.fields, "bar")
}

func TestPrune_NestedField(t *testing.T) {
	root := fixtureSchema()

	Prune(root, fieldpath.Parse("bazz/bazz/bar"))

	grandchild := root.embedded["bazz"].embedded["bazz"]
	assert.NotContains(t, grandchild.fields, "bar")
	assert.Contains(t, grandchild.fields, "foo")
	assert.Contains(t, root.embedded["bazz"].fields, "bar")
}

func TestPrune_WholeEmbeddedForm(t *testing.T) {
	root := fixtureSchema()

	Prune(root, fieldpath.Parse("bazz"))

	assert.NotContains(t, root.embedded, "bazz")
}

func TestPrune_NonExistentPathsAreNoOps(t *testing.T) {
	paths := []string{"nope", "nope/foo", "foo/bar", "bazz/nope/foo", ""}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			root := fixtureSchema()
			assert.NotPanics(t, func() { Prune(root, fieldpath.Parse(p)) })
			assert.Len(t, root.fields, 2)
			assert.Len(t, root.embedded["bazz"].fields, 2)
		})
	}
}

func TestPrune_NilSchema(t *testing.T) {
	assert.NotPanics(t, func() { Prune(nil, fieldpath.Parse("foo")) })
}

func TestPruneAll(t *testing.T) {
	root := fixtureSchema()

	PruneAll(root, fieldpath.ParseAll([]string{"foo", "bazz/bar"}))

	assert.NotContains(t, root.fields, "foo")
	assert.NotContains(t, root.embedded["bazz"].fields, "bar")
}

func TestErrorSchema_Build(t *testing.T) {
	child := NewErrorSchema()
	child.AddField("foo", "Required.")

	s := NewErrorSchema()
	s.AddField("bar", "Required.")
	s.AddEmbedded("bazz", child)
	s.AddEmbedded("empty", NewErrorSchema())
	s.AddGlobal(`Unexpected extra form field named "a".`)
	s.AddGlobal(`Unexpected extra form field named "b".`)

	require.Len(t, s.Entries, 4)
	assert.Equal(t, "bar", s.Entries[0].Key)
	assert.Equal(t, "bazz", s.Entries[1].Key)
	assert.Equal(t, "0", s.Entries[2].Key)
	assert.Equal(t, "1", s.Entries[3].Key)
	assert.Equal(t, 4, s.Len())
	assert.False(t, s.Empty())

	leaf, ok := s.Entries[0].Err.(*Leaf)
	require.True(t, ok)
	assert.Equal(t, "Required.", leaf.String())
}

func TestErrorSchema_NilIsEmpty(t *testing.T) {
	var s *ErrorSchema
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Len())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(options, arguments map[string]any) (Form, error) { return nil, nil }

	require.NoError(t, r.Register("Contact", factory))
	require.NoError(t, r.Register("Address", factory))

	err := r.Register("Contact", factory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	require.Error(t, r.Register("", factory))
	require.Error(t, r.Register("Nil", nil))

	_, ok := r.Lookup("Contact")
	assert.True(t, ok)
	_, ok = r.Lookup("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Address", "Contact"}, r.Names())
}
