// Package config holds the harness configuration: a typed struct with named,
// defaulted options decoded from the "configuration" section of a dataset
// file.
//
// Decoding is a per-key override of the defaults: keys present in the raw
// section replace the default value, absent keys keep it. Keys the harness
// does not know are kept in Extra so they remain readable via Attribute.
package config

import (
	"fmt"
	"maps"
	"slices"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"

	"github.com/roach88/formtest/internal/fieldpath"
)

// Option names as they appear in configuration files.
const (
	KeyWithSave  = "withSave"
	KeyUnset     = "unset"
	KeyFormClass = "formClass"
	KeyVerbose   = "verbose"
	KeyOptions   = "options"
	KeyArguments = "arguments"
)

// Configuration is the merged harness configuration.
type Configuration struct {
	// WithSave attempts to persist every form that passes validation.
	WithSave bool `mapstructure:"withSave"`

	// Unset lists field paths removed from the form before any binding.
	Unset []string `mapstructure:"unset"`

	// FormClass names the registered factory used to construct the form
	// lazily when none was injected.
	FormClass string `mapstructure:"formClass"`

	// Verbose enables error reconciliation diagnostics.
	Verbose bool `mapstructure:"verbose"`

	// Options and Arguments are forwarded to the form factory.
	Options   map[string]any `mapstructure:"options"`
	Arguments map[string]any `mapstructure:"arguments"`

	// Extra holds unrecognized keys, passed through untouched.
	Extra map[string]any `mapstructure:",remain"`
}

// Default returns the built-in defaults.
func Default() Configuration {
	return Configuration{
		WithSave:  false,
		Unset:     []string{},
		FormClass: "",
		Verbose:   true,
		Options:   map[string]any{},
		Arguments: map[string]any{},
		Extra:     map[string]any{},
	}
}

// Decode merges raw over the defaults. A nil or empty raw yields exactly the
// defaults.
func Decode(raw map[string]any) (Configuration, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return Configuration{}, &Error{Code: ErrCodeDecodeFailed, Message: "failed to create decoder", Err: err}
	}

	if err := decoder.Decode(raw); err != nil {
		return Configuration{}, &Error{Code: ErrCodeDecodeFailed, Message: "invalid configuration", Err: err}
	}

	cfg.normalize()
	return cfg, nil
}

// normalize replaces nils left behind by explicit null values.
func (c *Configuration) normalize() {
	if c.Unset == nil {
		c.Unset = []string{}
	}
	if c.Options == nil {
		c.Options = map[string]any{}
	}
	if c.Arguments == nil {
		c.Arguments = map[string]any{}
	}
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
}

// UnsetPaths returns the Unset entries parsed into paths.
func (c Configuration) UnsetPaths() []fieldpath.Path {
	return fieldpath.ParseAll(c.Unset)
}

// Attribute returns the value of a configuration option. Known options are
// looked up by name, anything else in Extra. Unknown names fail with a
// KEY_NOT_FOUND error.
func (c Configuration) Attribute(name string) (any, error) {
	switch name {
	case KeyWithSave:
		return c.WithSave, nil
	case KeyUnset:
		return slices.Clone(c.Unset), nil
	case KeyFormClass:
		return c.FormClass, nil
	case KeyVerbose:
		return c.Verbose, nil
	case KeyOptions:
		return maps.Clone(c.Options), nil
	case KeyArguments:
		return maps.Clone(c.Arguments), nil
	}

	if v, ok := c.Extra[name]; ok {
		return v, nil
	}

	return nil, &Error{
		Code:    ErrCodeKeyNotFound,
		Key:     name,
		Message: fmt.Sprintf("configuration option [%s] not found", name),
	}
}

// Keys returns the names of every option currently set: the known options
// followed by the Extra keys in sorted order.
func (c Configuration) Keys() []string {
	keys := []string{KeyWithSave, KeyUnset, KeyFormClass, KeyVerbose, KeyOptions, KeyArguments}
	return append(keys, slices.Sorted(maps.Keys(c.Extra))...)
}

// MergeParams combines configured construction parameters with call-site
// ones. Configured values act as defaults; call-site values win on
// collision. Neither input is modified.
func MergeParams(configured, callSite map[string]any) (map[string]any, error) {
	merged := make(map[string]any, len(configured)+len(callSite))
	maps.Copy(merged, configured)

	if len(callSite) == 0 {
		return merged, nil
	}

	if err := mergo.Merge(&merged, callSite, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge construction parameters: %w", err)
	}
	return merged, nil
}
