package schemaform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/roach88/formtest/internal/canonical"
	"github.com/roach88/formtest/internal/form"
)

// Construction parameter names.
const (
	OptionCSRFProtection   = "csrf_protection"
	OptionAllowExtraFields = "allow_extra_fields"
	ArgumentCSRFSecret     = "csrf_secret"
)

// CSRFField is the field carrying the forgery token.
const CSRFField = "_csrf_token"

// DefaultSecret is used when no csrf_secret argument is given.
const DefaultSecret = "formtest"

// Form is a live form instance.
//
// Not safe for concurrent use.
type Form struct {
	name       string
	schema     *schema
	csrf       bool
	secret     string
	allowExtra bool
	env        *env

	bound  bool
	values map[string]any
	errors *form.ErrorSchema
}

var _ form.Form = (*Form)(nil)

func (c *Catalog) newForm(name string, options, arguments map[string]any, e *env) (*Form, error) {
	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown form %q", name)
	}

	csrf := def.CSRF
	if v, ok := options[OptionCSRFProtection]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return nil, fmt.Errorf("form %s: option %s: %w", name, OptionCSRFProtection, err)
		}
		csrf = b
	}

	allowExtra, err := cast.ToBoolE(options[OptionAllowExtraFields])
	if err != nil {
		return nil, fmt.Errorf("form %s: option %s: %w", name, OptionAllowExtraFields, err)
	}

	secret := DefaultSecret
	if v, ok := arguments[ArgumentCSRFSecret]; ok {
		if secret, err = cast.ToStringE(v); err != nil {
			return nil, fmt.Errorf("form %s: argument %s: %w", name, ArgumentCSRFSecret, err)
		}
	}

	return &Form{
		name:       name,
		schema:     c.buildSchema(def),
		csrf:       csrf,
		secret:     secret,
		allowExtra: allowExtra,
		env:        e,
		errors:     form.NewErrorSchema(),
	}, nil
}

// Name returns the form class.
func (f *Form) Name() string {
	return f.name
}

// Reset discards bound values and errors.
func (f *Form) Reset() {
	f.bound = false
	f.values = nil
	f.errors = form.NewErrorSchema()
}

// Bind validates values against the schema. The returned error reports a
// framework failure, not a validation failure; use IsValid and Errors for
// those.
func (f *Form) Bind(values map[string]any) (err error) {
	f.Reset()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("form %s: bind: %v", f.name, r)
		}
	}()

	clean, errs := f.validate(f.schema, values)

	if f.csrf {
		_, want := f.ForgeryToken()
		got, _ := cast.ToStringE(values[CSRFField])
		if got != want {
			errs.AddField(CSRFField, "CSRF attack detected.")
		}
	}

	f.bound = true
	f.values = clean
	f.errors = errs
	return nil
}

func (f *Form) validate(s *schema, values map[string]any) (map[string]any, *form.ErrorSchema) {
	errs := form.NewErrorSchema()
	clean := make(map[string]any, len(s.fields)+len(s.embeds))

	for _, fd := range s.fields {
		str, err := cast.ToStringE(values[fd.Name])
		if err != nil {
			errs.AddField(fd.Name, "Invalid.")
			continue
		}
		if msg := f.check(str, fd.Rules); msg != "" {
			errs.AddField(fd.Name, msg)
			continue
		}
		clean[fd.Name] = str
	}

	for _, em := range s.embeds {
		sub := map[string]any{}
		if raw, ok := values[em.name]; ok && raw != nil {
			m, ok := raw.(map[string]any)
			if !ok {
				errs.AddField(em.name, "Invalid.")
				continue
			}
			sub = m
		}
		childClean, childErrs := f.validate(em.schema, sub)
		errs.AddEmbedded(em.name, childErrs)
		clean[em.name] = childClean
	}

	if !f.allowExtra {
		extra := make([]string, 0)
		for k := range values {
			if s.has(k) || (s == f.schema && f.csrf && k == CSRFField) {
				continue
			}
			extra = append(extra, k)
		}
		sort.Strings(extra)
		for _, k := range extra {
			errs.AddGlobal(fmt.Sprintf("Unexpected extra form field named \"%s\".", k))
		}
	}

	return clean, errs
}

// check runs the rules against value and returns the error message, or ""
// when the value is acceptable. Empty values only fail "required".
func (f *Form) check(value, rules string) string {
	if rules == "" {
		return ""
	}
	tag := rules
	if !slices.Contains(splitRules(rules), "required") {
		tag = "omitempty," + rules
	}

	err := f.env.validate.Var(value, tag)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return message(verrs[0].Tag(), verrs[0].Param())
	}
	return "Invalid."
}

// IsValid reports whether the form is bound and error free.
func (f *Form) IsValid() bool {
	return f.bound && f.errors.Empty()
}

// Errors returns the error report of the last Bind.
func (f *Form) Errors() *form.ErrorSchema {
	return f.errors
}

// Schema exposes the field structure for pruning.
func (f *Form) Schema() form.Schema {
	return &rootSchema{schema: f.schema, form: f}
}

// ForgeryProtected reports whether the form checks forgery tokens.
func (f *Form) ForgeryProtected() bool {
	return f.csrf
}

// ForgeryToken returns the token field and the token the form expects.
func (f *Form) ForgeryToken() (string, string) {
	return CSRFField, f.env.tokens.Token(f.name, f.secret)
}

// Values returns the cleaned values of the last successful Bind.
func (f *Form) Values() map[string]any {
	return f.values
}

// Save writes the cleaned values to the store.
func (f *Form) Save() error {
	if !f.bound {
		return fmt.Errorf("form %s: cannot save an unbound form", f.name)
	}
	if !f.IsValid() {
		return fmt.Errorf("form %s: cannot save an invalid form", f.name)
	}
	if f.env.store == nil {
		return fmt.Errorf("form %s: no store configured", f.name)
	}

	payload, err := canonical.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("form %s: encode values: %w", f.name, err)
	}

	if _, err := f.env.store.SaveSubmission(context.Background(), f.name, string(payload), f.env.seq.Next()); err != nil {
		return fmt.Errorf("form %s: %w", f.name, err)
	}
	return nil
}
