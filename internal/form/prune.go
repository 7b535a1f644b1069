package form

import "github.com/roach88/formtest/internal/fieldpath"

// Prune removes the field addressed by path from schema.
//
// A single-segment path removes the field and its validator from schema
// itself. A nested path descends into the embedded form named by its head
// and removes the remainder there. Paths that address nothing are ignored.
func Prune(schema Schema, path fieldpath.Path) {
	if schema == nil || path.Empty() {
		return
	}

	if !path.Nested() {
		schema.Remove(path.Head())
		return
	}

	embedded, ok := schema.Embedded(path.Head())
	if !ok {
		return
	}
	Prune(embedded, path.Tail())
}

// PruneAll applies Prune for every path, in order.
func PruneAll(schema Schema, paths []fieldpath.Path) {
	for _, p := range paths {
		Prune(schema, p)
	}
}
