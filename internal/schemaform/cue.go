package schemaform

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CatalogError reports an invalid catalog source.
type CatalogError struct {
	Form    string
	Message string
	Pos     token.Pos
}

func (e *CatalogError) Error() string {
	where := "catalog"
	if e.Form != "" {
		where = "form " + e.Form
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			where, e.Message)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

// LoadCatalog reads a CUE catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	return ParseCatalog(v)
}

// ParseCatalog builds a catalog from an evaluated CUE value holding a
// top-level "forms" struct.
func ParseCatalog(v cue.Value) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("", err)
	}

	formsVal := v.LookupPath(cue.ParsePath("forms"))
	if !formsVal.Exists() {
		return nil, &CatalogError{Message: "forms is required", Pos: v.Pos()}
	}

	iter, err := formsVal.Fields()
	if err != nil {
		return nil, formatCUEError("", err)
	}

	var defs []Definition
	for iter.Next() {
		def, err := parseDefinition(iter.Selector().Unquoted(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return NewCatalog(defs...)
}

func parseDefinition(name string, v cue.Value) (Definition, error) {
	def := Definition{Name: name, Fields: []FieldDef{}}

	if csrfVal := v.LookupPath(cue.ParsePath("csrf")); csrfVal.Exists() {
		csrf, err := csrfVal.Bool()
		if err != nil {
			return Definition{}, formatCUEError(name, err)
		}
		def.CSRF = csrf
	}

	if fieldsVal := v.LookupPath(cue.ParsePath("fields")); fieldsVal.Exists() {
		iter, err := fieldsVal.Fields()
		if err != nil {
			return Definition{}, formatCUEError(name, err)
		}
		for iter.Next() {
			rules, err := iter.Value().String()
			if err != nil {
				return Definition{}, formatCUEError(name, err)
			}
			def.Fields = append(def.Fields, FieldDef{Name: iter.Selector().Unquoted(), Rules: rules})
		}
	}

	if embedVal := v.LookupPath(cue.ParsePath("embed")); embedVal.Exists() {
		iter, err := embedVal.Fields()
		if err != nil {
			return Definition{}, formatCUEError(name, err)
		}
		for iter.Next() {
			target, err := iter.Value().String()
			if err != nil {
				return Definition{}, formatCUEError(name, err)
			}
			def.Embeds = append(def.Embeds, EmbedDef{Name: iter.Selector().Unquoted(), Form: target})
		}
	}

	return def, nil
}

// formatCUEError keeps the position of the first CUE error.
func formatCUEError(form string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	pos := token.NoPos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}
	return &CatalogError{Form: form, Message: first.Error(), Pos: pos}
}
