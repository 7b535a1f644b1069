// Package dataset loads dataset documents: a harness configuration section
// plus the ordered "pass" and "fail" dataset collections.
//
// A document is read from YAML, JSON, TOML or CUE. Every parser yields an
// insertion-ordered Mapping so dataset order, and therefore the 1-based
// index used in diagnostics, follows the file.
//
// Document shape:
//
//	configuration:
//	  withSave: false
//	  unset: [bazz/bar]
//	pass:
//	  complete: {foo: a, bar: b}
//	fail:
//	  empty:
//	    foo: ""
//	    _expectedErrors: [foo]
//
// pass and fail may be mappings (dataset name → dataset) or sequences, in
// which case the 1-based position is the dataset name.
package dataset
