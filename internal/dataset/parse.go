package dataset

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Parser turns document bytes into an ordered mapping. name is used for
// positions in error messages.
type Parser interface {
	Parse(name string, data []byte) (*Mapping, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(name string, data []byte) (*Mapping, error)

// Parse calls f.
func (f ParserFunc) Parse(name string, data []byte) (*Mapping, error) {
	return f(name, data)
}

var parsers = map[string]Parser{
	".yaml": ParserFunc(ParseYAML),
	".yml":  ParserFunc(ParseYAML),
	".json": ParserFunc(ParseJSON),
	".toml": ParserFunc(ParseTOML),
	".cue":  ParserFunc(ParseCUE),
}

// ParserFor returns the parser registered for the extension of path.
func ParserFor(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := parsers[ext]
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeUnsupportedFormat,
			Path:    path,
			Message: fmt.Sprintf("no parser for extension %q", ext),
		}
	}
	return p, nil
}

// ParseYAML parses a YAML document. Mappings keep their key order; anchors,
// aliases and merge keys are resolved.
func ParseYAML(_ string, data []byte) (*Mapping, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return NewMapping(), nil
	}

	v, err := yamlValue(root.Content[0])
	if err != nil {
		return nil, err
	}
	return rootMapping(v)
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].ShortTag() != yamlMergeTag {
				continue
			}
			if err := yamlMerge(m, n.Content[i+1]); err != nil {
				return nil, err
			}
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].ShortTag() == yamlMergeTag {
				continue
			}
			key := n.Content[i].Value
			val, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

const yamlMergeTag = "!!merge"

// yamlMerge copies the entries of a merge key's mapping, or sequence of
// mappings, into dst. Earlier sources win over later ones; keys written
// explicitly next to the merge key are set afterwards and win over both.
func yamlMerge(dst *Mapping, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}

	for _, src := range sources {
		v, err := yamlValue(src)
		if err != nil {
			return err
		}
		m, ok := v.(*Mapping)
		if !ok {
			return fmt.Errorf("line %d: merge key needs a mapping or a sequence of mappings", src.Line)
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			if _, exists := dst.Get(pair.Key); !exists {
				dst.Set(pair.Key, pair.Value)
			}
		}
	}
	return nil
}

// ParseJSON parses a JSON document. Object keys keep their order; integral
// numbers decode as int64, others as float64.
func ParseJSON(_ string, data []byte) (*Mapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewMapping(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return rootMapping(v)
}

func jsonValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			out := []any{}
			for dec.More() {
				val, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return t, nil
	}
}

// ParseTOML parses a TOML document. Keys are ordered as they appear in the
// file.
func ParseTOML(_ string, data []byte) (*Mapping, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int)
	for i, k := range md.Keys() {
		id := strings.Join(k, "\x00")
		if _, seen := order[id]; !seen {
			order[id] = i
		}
	}

	return tomlValue(raw, nil, order).(*Mapping), nil
}

func tomlValue(v any, path []string, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		ks := make([]string, 0, len(t))
		for k := range t {
			ks = append(ks, k)
		}
		pos := func(k string) int {
			if i, ok := order[strings.Join(append(path[:len(path):len(path)], k), "\x00")]; ok {
				return i
			}
			return len(order)
		}
		slices.SortStableFunc(ks, func(a, b string) int {
			return cmp.Or(cmp.Compare(pos(a), pos(b)), cmp.Compare(a, b))
		})

		m := NewMapping()
		for _, k := range ks {
			m.Set(k, tomlValue(t[k], append(path[:len(path):len(path)], k), order))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = tomlValue(item, path, order)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = tomlValue(item, path, order)
		}
		return out
	default:
		return v
	}
}

// ParseCUE evaluates a CUE document. Regular fields keep their declaration
// order; every value must be concrete.
func ParseCUE(name string, data []byte) (*Mapping, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	out, err := cueValue(v)
	if err != nil {
		return nil, err
	}
	return rootMapping(out)
}

func cueValue(v cue.Value) (any, error) {
	switch v.IncompleteKind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, err
		}
		m := NewMapping()
		for iter.Next() {
			val, err := cueValue(iter.Value())
			if err != nil {
				return nil, err
			}
			m.Set(iter.Selector().Unquoted(), val)
		}
		return m, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		out := []any{}
		for iter.Next() {
			val, err := cueValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.BoolKind:
		return v.Bool()
	case cue.NullKind:
		return nil, nil
	default:
		return nil, fmt.Errorf("%s: unsupported CUE value kind %s", v.Path(), v.IncompleteKind())
	}
}

func rootMapping(v any) (*Mapping, error) {
	m, ok := v.(*Mapping)
	if !ok {
		return nil, malformed("document root must be a mapping, got %T", v)
	}
	return m, nil
}
