package schemaform

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/formtest/internal/form"
)

// FieldDef is one scalar field.
type FieldDef struct {
	Name  string `json:"name"`
	Rules string `json:"rules,omitempty"`
}

// EmbedDef embeds another form class under a field name.
type EmbedDef struct {
	Name string `json:"name"`
	Form string `json:"form"`
}

// Definition describes a form class.
type Definition struct {
	Name   string     `json:"name"`
	Fields []FieldDef `json:"fields"`
	Embeds []EmbedDef `json:"embeds,omitempty"`
	CSRF   bool       `json:"csrf"`
}

// Catalog is a validated set of form definitions.
type Catalog struct {
	defs  map[string]*Definition
	order []string
}

// NewCatalog validates defs and returns a catalog. Every embed must name a
// definition in the catalog, and embeds must not form a cycle.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	v := validator.New()

	for i := range defs {
		def := defs[i]
		if def.Name == "" {
			return nil, fmt.Errorf("definition %d: name is required", i)
		}
		if _, dup := c.defs[def.Name]; dup {
			return nil, fmt.Errorf("form %s: defined twice", def.Name)
		}
		if err := checkDefinition(v, &def); err != nil {
			return nil, err
		}
		c.defs[def.Name] = &def
		c.order = append(c.order, def.Name)
	}

	for _, name := range c.order {
		for _, e := range c.defs[name].Embeds {
			if _, ok := c.defs[e.Form]; !ok {
				return nil, fmt.Errorf("form %s: embed %q references unknown form %q", name, e.Name, e.Form)
			}
		}
	}

	if cycle := c.findCycle(); cycle != nil {
		return nil, fmt.Errorf("embed cycle detected: %s", strings.Join(cycle, " → "))
	}

	return c, nil
}

func checkDefinition(v *validator.Validate, def *Definition) error {
	seen := make(map[string]bool)
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("form %s: field name is required", def.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("form %s: field %q declared twice", def.Name, f.Name)
		}
		seen[f.Name] = true
		if err := checkRules(v, f.Rules); err != nil {
			return fmt.Errorf("form %s: field %q: %w", def.Name, f.Name, err)
		}
	}
	for _, e := range def.Embeds {
		if e.Name == "" {
			return fmt.Errorf("form %s: embed name is required", def.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("form %s: field %q declared twice", def.Name, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// checkRules dry-runs a rule tag. The validator panics on unknown tags.
func checkRules(v *validator.Validate, rules string) (err error) {
	if rules == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rules %q: %v", rules, r)
		}
	}()
	_ = v.Var("", rules)
	return nil
}

// findCycle returns the first embedding cycle found as a path that starts
// and ends with the same form, or nil.
func (c *Catalog) findCycle() []string {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(c.defs))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		state[name] = active
		stack = append(stack, name)
		for _, e := range c.defs[name].Embeds {
			switch state[e.Form] {
			case active:
				for i, n := range stack {
					if n == e.Form {
						return append(append([]string{}, stack[i:]...), e.Form)
					}
				}
			case unvisited:
				if cycle := visit(e.Form); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		return nil
	}

	for _, name := range c.order {
		if state[name] == unvisited {
			if cycle := visit(name); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Lookup returns the definition of name.
func (c *Catalog) Lookup(name string) (Definition, bool) {
	def, ok := c.defs[name]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// Definitions returns every definition in declaration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.defs[name])
	}
	return out
}

// New constructs a live form of class name.
func (c *Catalog) New(name string, options, arguments map[string]any, opts ...Option) (*Form, error) {
	return c.newForm(name, options, arguments, newEnv(opts))
}

// Factory returns a form.Factory for class name. Forms built by one factory
// share its store, sequence and token source.
func (c *Catalog) Factory(name string, opts ...Option) form.Factory {
	e := newEnv(opts)
	return func(options, arguments map[string]any) (form.Form, error) {
		return c.newForm(name, options, arguments, e)
	}
}

// Register adds a factory for every definition to reg. All factories share
// one environment.
func (c *Catalog) Register(reg *form.Registry, opts ...Option) error {
	e := newEnv(opts)
	for _, name := range c.order {
		err := reg.Register(name, func(options, arguments map[string]any) (form.Form, error) {
			return c.newForm(name, options, arguments, e)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
