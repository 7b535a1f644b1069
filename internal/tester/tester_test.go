package tester

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formtest/internal/config"
	"github.com/roach88/formtest/internal/dataset"
	"github.com/roach88/formtest/internal/form"
)

func TestNew_Defaults(t *testing.T) {
	tr := New()

	assert.Equal(t, config.Default(), tr.Configuration())
	assert.Empty(t, tr.ValidData())
	assert.Empty(t, tr.InvalidData())
}

func TestCreate(t *testing.T) {
	tr, err := Create(filepath.Join("testdata", "contact.yaml"), WithRegistry(contactRegistry(t)))
	require.NoError(t, err)

	assert.Equal(t, "ContactForm", tr.Configuration().FormClass)
	assert.Len(t, tr.ValidData(), 3)
	assert.Len(t, tr.InvalidData(), 6)
}

func TestLoadMapping_UnknownTopLevelKeysWarn(t *testing.T) {
	var logs bytes.Buffer
	tr := New(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"formClass": "Simple"},
		"surprise":      true,
		"pass":          []any{map[string]any{"foo": "a"}},
	}))

	assert.Equal(t, "Simple", tr.Configuration().FormClass)
	assert.Len(t, tr.ValidData(), 1)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "unknown top-level keys ignored")
	assert.Contains(t, logs.String(), "surprise")
}

func TestCreate_MissingFile(t *testing.T) {
	_, err := Create(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.True(t, dataset.IsFileNotFound(err))
}

func TestAttribute_UnknownAlwaysFails(t *testing.T) {
	tr := New()
	_, err := tr.Attribute("nonexistent")
	assert.True(t, config.IsKeyNotFound(err))

	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"withSave": true, "custom": 1},
	}))
	_, err = tr.Attribute("nonexistent")
	assert.True(t, config.IsKeyNotFound(err))

	v, err := tr.Attribute("custom")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = tr.Attribute(config.KeyWithSave)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestGet(t *testing.T) {
	tr := New(WithRegistry(simpleRegistry(t, false)))
	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"formClass": "Simple"},
		"pass":          []any{map[string]any{"foo": "a"}},
	}))

	cfg, err := tr.Get(AttrConfiguration)
	require.NoError(t, err)
	assert.Equal(t, tr.Configuration(), cfg)

	valid, err := tr.Get(AttrValidData)
	require.NoError(t, err)
	assert.Len(t, valid, 1)

	invalid, err := tr.Get(AttrInvalidData)
	require.NoError(t, err)
	assert.Empty(t, invalid)

	f, err := tr.Get(AttrForm)
	require.NoError(t, err)
	assert.Equal(t, "Simple", f.(form.Form).Name())

	_, err = tr.Get("getSomethingElse")
	require.Error(t, err)
	assert.True(t, IsUnknownAttribute(err))
	assert.Contains(t, err.Error(), "attribute [getSomethingElse] not found")
}

func TestForm_NoFormConfigured(t *testing.T) {
	tr := New()

	_, err := tr.Form(nil, nil)
	require.Error(t, err)
	assert.True(t, IsNoForm(err))
	assert.Contains(t, err.Error(), "no form is set in configuration")

	_, err = tr.Get(AttrForm)
	assert.True(t, IsNoForm(err))
}

func TestForm_UnknownClass(t *testing.T) {
	tr := New(WithRegistry(form.NewRegistry()))
	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"formClass": "Missing"},
	}))

	_, err := tr.Form(nil, nil)
	require.Error(t, err)
	assert.True(t, IsUnknownFormClass(err))
}

func TestForm_LazyConstructionIsHeld(t *testing.T) {
	tr := New(WithRegistry(simpleRegistry(t, false)))
	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"formClass": "Simple"},
	}))

	first, err := tr.Form(nil, nil)
	require.NoError(t, err)
	second, err := tr.Form(nil, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)

	scoped, err := tr.Form(map[string]any{"allow_extra_fields": true}, nil)
	require.NoError(t, err)
	assert.NotSame(t, first, scoped)

	held, err := tr.Form(nil, nil)
	require.NoError(t, err)
	assert.Same(t, first, held, "overrides leave the held form alone")
}

func TestForm_MergesConstructionParams(t *testing.T) {
	var gotOptions, gotArguments []map[string]any
	reg := form.NewRegistry()
	require.NoError(t, reg.Register("Fake", func(options, arguments map[string]any) (form.Form, error) {
		gotOptions = append(gotOptions, options)
		gotArguments = append(gotArguments, arguments)
		return newFakeForm("Fake"), nil
	}))

	tr := New(WithRegistry(reg))
	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{
			"formClass": "Fake",
			"options":   map[string]any{"a": 1, "b": 2},
			"arguments": map[string]any{"x": "configured"},
		},
	}))

	_, err := tr.Form(map[string]any{"b": 3}, map[string]any{"x": "call"})
	require.NoError(t, err)

	require.Len(t, gotOptions, 1)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, gotOptions[0])
	assert.Equal(t, map[string]any{"x": "call"}, gotArguments[0])
}

func TestForm_PrunesConfiguredFields(t *testing.T) {
	fake := newFakeForm("Fake")
	reg := form.NewRegistry()
	require.NoError(t, reg.Register("Fake", func(_, _ map[string]any) (form.Form, error) {
		return fake, nil
	}))

	tr := New(WithRegistry(reg))
	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{
			"formClass": "Fake",
			"unset":     []any{"foo", "bazz/bar", "ghost/field"},
		},
	}))

	_, err := tr.Form(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"foo"}, fake.schema.removed)
	assert.Equal(t, []string{"bar"}, fake.schema.embedded["bazz"].removed)
}

func TestSetForm(t *testing.T) {
	fake := newFakeForm("InjectedForm")
	tr := New(WithForm(fake))

	assert.Equal(t, "InjectedForm", tr.Configuration().FormClass)

	f, err := tr.Form(nil, nil)
	require.NoError(t, err)
	assert.Same(t, fake, f)

	require.NoError(t, tr.LoadMapping(map[string]any{
		"configuration": map[string]any{"unset": []any{"foo"}},
	}))
	assert.Equal(t, "InjectedForm", tr.Configuration().FormClass, "class survives reload")
	assert.Equal(t, []string{"foo"}, fake.schema.removed, "reload prunes the held form")
}

func TestCreate_InjectedFormPrunedWithLoadedConfig(t *testing.T) {
	fake := newFakeForm("ContactForm")
	_, err := Create(filepath.Join("testdata", "contact.yaml"), WithForm(fake))
	require.NoError(t, err)

	assert.Empty(t, fake.schema.removed)
	assert.Empty(t, fake.schema.embedded["bazz"].removed, "bazz/bazz/bar addresses an embed the fake lacks")
}

func TestParseWhich(t *testing.T) {
	tests := []struct {
		in      string
		want    Which
		wantErr bool
	}{
		{"", Both, false},
		{"both", Both, false},
		{"pass", Pass, false},
		{"valid", Pass, false},
		{"FAIL", Fail, false},
		{"invalid", Fail, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWhich(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
