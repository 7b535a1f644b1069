// Package tester runs data-driven form validation tests.
//
// A Tester holds a configuration and two dataset collections loaded from a
// document, plus the form under test. Run binds every dataset to the form,
// checks the validation outcome against the collection the dataset belongs
// to, reconciles the error report against the dataset's expected errors and
// emits results to a report.Reporter.
//
// A Tester is not safe for concurrent use.
package tester

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/formtest/internal/config"
	"github.com/roach88/formtest/internal/dataset"
	"github.com/roach88/formtest/internal/form"
	"github.com/roach88/formtest/internal/reconcile"
)

// Attribute names accepted by Get.
const (
	AttrConfiguration = "configuration"
	AttrValidData     = "validData"
	AttrInvalidData   = "invalidData"
	AttrForm          = "form"
)

// Tester is the test runner for one form and one dataset document.
type Tester struct {
	cfg      config.Configuration
	pass     []dataset.Dataset
	fail     []dataset.Dataset
	registry *form.Registry
	logger   *slog.Logger
	form     form.Form
	injected form.Form
	messages *reconcile.MessageBuffer
}

// Option configures a Tester.
type Option func(*Tester)

// WithRegistry sets the registry form classes are resolved from.
func WithRegistry(r *form.Registry) Option {
	return func(t *Tester) { t.registry = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tester) { t.logger = l }
}

// WithForm injects an already configured form, as SetForm does.
func WithForm(f form.Form) Option {
	return func(t *Tester) { t.injected = f }
}

func build(opts []Option) *Tester {
	t := &Tester{
		cfg:      config.Default(),
		pass:     []dataset.Dataset{},
		fail:     []dataset.Dataset{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		messages: reconcile.NewMessageBuffer(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tester) inject() {
	if t.injected != nil {
		t.SetForm(t.injected)
		t.injected = nil
	}
}

// New returns a Tester with the default configuration and no datasets.
func New(opts ...Option) *Tester {
	t := build(opts)
	t.inject()
	return t
}

// Create returns a Tester loaded from the document at path. An injected
// form is pruned with the loaded configuration.
func Create(path string, opts ...Option) (*Tester, error) {
	t := build(opts)
	if err := t.LoadFile(path); err != nil {
		return nil, err
	}
	t.inject()
	return t, nil
}

// LoadFile replaces configuration and datasets with the document at path.
func (t *Tester) LoadFile(path string) error {
	doc, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	t.LoadDocument(doc)
	t.logger.Debug("datasets loaded", "path", path, "pass", len(doc.Pass), "fail", len(doc.Fail))
	return nil
}

// LoadMapping replaces configuration and datasets with an in-memory
// document.
func (t *Tester) LoadMapping(raw map[string]any) error {
	doc, err := dataset.FromMap(raw)
	if err != nil {
		return err
	}
	t.LoadDocument(doc)
	return nil
}

// LoadDocument replaces configuration and datasets. A held form is pruned
// again with the new configuration and keeps its class when the document
// names none.
func (t *Tester) LoadDocument(doc *dataset.Document) {
	if len(doc.Ignored) > 0 {
		t.logger.Warn("unknown top-level keys ignored", "keys", doc.Ignored)
	}
	t.cfg = doc.Config
	t.pass = doc.Pass
	t.fail = doc.Fail
	if t.form != nil {
		if t.cfg.FormClass == "" {
			t.cfg.FormClass = t.form.Name()
		}
		form.PruneAll(t.form.Schema(), t.cfg.UnsetPaths())
	}
}

// Configuration returns the merged configuration.
func (t *Tester) Configuration() config.Configuration {
	return t.cfg
}

// Attribute returns a configuration option by name.
func (t *Tester) Attribute(name string) (any, error) {
	return t.cfg.Attribute(name)
}

// ValidData returns the pass collection.
func (t *Tester) ValidData() []dataset.Dataset {
	return t.pass
}

// InvalidData returns the fail collection.
func (t *Tester) InvalidData() []dataset.Dataset {
	return t.fail
}

// Get returns the configuration, a dataset collection or the form by
// attribute name. Unknown names fail with UNKNOWN_ATTRIBUTE.
func (t *Tester) Get(name string) (any, error) {
	switch name {
	case AttrConfiguration:
		return t.Configuration(), nil
	case AttrValidData:
		return t.ValidData(), nil
	case AttrInvalidData:
		return t.InvalidData(), nil
	case AttrForm:
		return t.Form(nil, nil)
	}
	return nil, &Error{
		Code:    ErrCodeUnknownAttribute,
		Message: fmt.Sprintf("attribute [%s] not found", name),
	}
}

// Form resolves the form under test.
//
// Without overrides it returns the held form, constructing it from the
// configured form class on first use. With options or arguments it builds
// a separate form from the class, merging them over the configured ones;
// the held form is left alone. A held form whose class has no registered
// factory is returned as is. Every constructed form is pruned.
func (t *Tester) Form(options, arguments map[string]any) (form.Form, error) {
	if len(options) == 0 && len(arguments) == 0 {
		if t.form != nil {
			return t.form, nil
		}
		f, err := t.construct(nil, nil)
		if err != nil {
			return nil, err
		}
		t.form = f
		return f, nil
	}
	if t.form != nil && !t.hasFactory() {
		t.logger.Debug("no factory for form overrides, using held form", "class", t.cfg.FormClass)
		return t.form, nil
	}
	return t.construct(options, arguments)
}

func (t *Tester) hasFactory() bool {
	if t.registry == nil || t.cfg.FormClass == "" {
		return false
	}
	_, ok := t.registry.Lookup(t.cfg.FormClass)
	return ok
}

func (t *Tester) construct(options, arguments map[string]any) (form.Form, error) {
	class := t.cfg.FormClass
	if class == "" {
		return nil, &Error{Code: ErrCodeNoForm, Message: "no form is set in configuration"}
	}

	var factory form.Factory
	if t.registry != nil {
		factory, _ = t.registry.Lookup(class)
	}
	if factory == nil {
		return nil, &Error{
			Code:    ErrCodeUnknownFormClass,
			Message: fmt.Sprintf("form class [%s] is not registered", class),
		}
	}

	opts, err := config.MergeParams(t.cfg.Options, options)
	if err != nil {
		return nil, err
	}
	args, err := config.MergeParams(t.cfg.Arguments, arguments)
	if err != nil {
		return nil, err
	}

	f, err := factory(opts, args)
	if err != nil {
		return nil, fmt.Errorf("construct form %s: %w", class, err)
	}

	form.PruneAll(f.Schema(), t.cfg.UnsetPaths())
	t.logger.Debug("form constructed", "class", class, "options", len(opts), "arguments", len(args))
	return f, nil
}

// SetForm injects a configured form, records its class and prunes it.
func (t *Tester) SetForm(f form.Form) {
	t.form = f
	t.cfg.FormClass = f.Name()
	form.PruneAll(f.Schema(), t.cfg.UnsetPaths())
}
