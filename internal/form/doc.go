// Package form defines the narrow contract the harness needs from a form
// framework: bind a record, validate it, expose a hierarchical error report,
// optionally persist it, and expose the field schema so configured fields can
// be removed before binding.
//
// The package owns no validation logic. Concrete frameworks (see
// internal/schemaform) implement Form and register constructors in a
// Registry under a class name that configuration files can reference.
package form
