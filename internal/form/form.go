package form

// Form is a bindable, validatable form instance.
type Form interface {
	// Name identifies the form class for diagnostics.
	Name() string

	// Reset discards any previously bound values and errors.
	Reset()

	// Bind submits values to the form and runs validation. values is the
	// sanitized record: embedded forms receive nested maps.
	Bind(values map[string]any) error

	// IsValid reports whether the last Bind produced no errors.
	IsValid() bool

	// Errors returns the error report of the last Bind. The report is never
	// nil; a valid form returns an empty schema.
	Errors() *ErrorSchema

	// Schema exposes the field/validator structure for pruning.
	Schema() Schema

	// Save persists the bound values. It may fail.
	Save() error

	// ForgeryProtected reports whether submissions must carry a token.
	ForgeryProtected() bool

	// ForgeryToken returns the token field name and the expected value.
	ForgeryToken() (field, token string)
}

// Schema is the mutable field/validator structure of a form.
type Schema interface {
	// Remove deletes the named field and its validator. Removing a field
	// that does not exist is a no-op.
	Remove(name string)

	// Embedded returns the schema of the named embedded form.
	Embedded(name string) (Schema, bool)
}

// Factory constructs a form from construction options and arguments.
type Factory func(options, arguments map[string]any) (Form, error)
