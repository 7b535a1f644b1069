package schemaform

import (
	"slices"

	"github.com/roach88/formtest/internal/form"
)

// schema is the mutable field structure of one form level.
type schema struct {
	fields []FieldDef
	embeds []*embedded
}

type embedded struct {
	name   string
	schema *schema
}

func (c *Catalog) buildSchema(def *Definition) *schema {
	s := &schema{fields: slices.Clone(def.Fields)}
	for _, e := range def.Embeds {
		s.embeds = append(s.embeds, &embedded{name: e.Name, schema: c.buildSchema(c.defs[e.Form])})
	}
	return s
}

func (s *schema) has(name string) bool {
	for _, f := range s.fields {
		if f.Name == name {
			return true
		}
	}
	for _, e := range s.embeds {
		if e.name == name {
			return true
		}
	}
	return false
}

// Remove deletes the named field or embedded form.
func (s *schema) Remove(name string) {
	s.fields = slices.DeleteFunc(s.fields, func(f FieldDef) bool { return f.Name == name })
	s.embeds = slices.DeleteFunc(s.embeds, func(e *embedded) bool { return e.name == name })
}

// Embedded returns the schema of the named embedded form.
func (s *schema) Embedded(name string) (form.Schema, bool) {
	for _, e := range s.embeds {
		if e.name == name {
			return e.schema, true
		}
	}
	return nil, false
}

// Names returns the field and embed names in declaration order.
func (s *schema) Names() []string {
	out := make([]string, 0, len(s.fields)+len(s.embeds))
	for _, f := range s.fields {
		out = append(out, f.Name)
	}
	for _, e := range s.embeds {
		out = append(out, e.name)
	}
	return out
}

// rootSchema is the top-level schema, where removing the token field turns
// forgery protection off.
type rootSchema struct {
	*schema
	form *Form
}

func (r *rootSchema) Remove(name string) {
	if name == CSRFField {
		r.form.csrf = false
		return
	}
	r.schema.Remove(name)
}
