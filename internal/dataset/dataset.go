package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/roach88/formtest/internal/config"
	"github.com/roach88/formtest/internal/fieldpath"
)

// Top-level document keys.
const (
	KeyConfiguration = "configuration"
	KeyPass          = "pass"
	KeyFail          = "fail"
)

// Reserved dataset keys. Every key starting with MetaPrefix is metadata and
// never reaches the form.
const (
	MetaPrefix        = "_"
	KeyExpectedErrors = "_expectedErrors"
	KeyOptions        = "_options"
	KeyArguments      = "_arguments"
)

// Dataset is one named record bound to the form as a single test case.
type Dataset struct {
	// Name is the mapping key in the document, or the 1-based position when
	// the collection is a sequence.
	Name string

	// Index is the 1-based position within its collection.
	Index int

	// Values holds the raw record, metadata keys included.
	Values *Mapping

	// Expected lists the error identifiers a fail dataset asserts, in
	// document order without duplicates.
	Expected []string

	// Options and Arguments override form construction for this dataset.
	Options   map[string]any
	Arguments map[string]any
}

// HasOverrides reports whether the dataset carries construction overrides.
func (d Dataset) HasOverrides() bool {
	return len(d.Options) > 0 || len(d.Arguments) > 0
}

// Sanitized returns the bindable values: metadata keys are stripped,
// "parent/child" keys are expanded into nested maps and ordered mappings
// become plain maps.
func (d Dataset) Sanitized() map[string]any {
	out := make(map[string]any)
	if d.Values == nil {
		return out
	}
	for pair := d.Values.Oldest(); pair != nil; pair = pair.Next() {
		if strings.HasPrefix(pair.Key, MetaPrefix) {
			continue
		}
		path := fieldpath.Parse(pair.Key)
		if path.Empty() {
			continue
		}
		setPath(out, path, Plain(pair.Value))
	}
	return out
}

func setPath(dst map[string]any, path fieldpath.Path, value any) {
	for _, seg := range path[:len(path)-1] {
		child, ok := dst[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			dst[seg] = child
		}
		dst = child
	}
	leaf := path[len(path)-1]
	if existing, ok := dst[leaf].(map[string]any); ok {
		if incoming, ok := value.(map[string]any); ok {
			for k, v := range incoming {
				existing[k] = v
			}
			return
		}
	}
	dst[leaf] = value
}

// Document is a loaded dataset document.
type Document struct {
	Config config.Configuration
	Pass   []Dataset
	Fail   []Dataset

	// Ignored lists top-level keys other than configuration, pass and
	// fail, in document order. They are not loaded.
	Ignored []string
}

// FromMapping builds a Document from a parsed mapping. The configuration
// section is merged over the defaults; missing pass or fail sections yield
// empty collections.
func FromMapping(raw *Mapping) (*Document, error) {
	if raw == nil {
		raw = NewMapping()
	}

	doc := &Document{Ignored: []string{}}
	for _, k := range keys(raw) {
		switch k {
		case KeyConfiguration, KeyPass, KeyFail:
		default:
			doc.Ignored = append(doc.Ignored, k)
		}
	}

	section, _ := raw.Get(KeyConfiguration)
	settings, err := configSection(section)
	if err != nil {
		return nil, err
	}
	doc.Config, err = config.Decode(settings)
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	passRaw, _ := raw.Get(KeyPass)
	if doc.Pass, err = collection(KeyPass, passRaw); err != nil {
		return nil, err
	}

	failRaw, _ := raw.Get(KeyFail)
	if doc.Fail, err = collection(KeyFail, failRaw); err != nil {
		return nil, err
	}

	return doc, nil
}

// FromMap is FromMapping for plain Go maps. Keys of plain maps have no
// order, so mapping-shaped collections are taken in sorted key order.
func FromMap(raw map[string]any) (*Document, error) {
	return FromMapping(Ordered(raw).(*Mapping))
}

func configSection(v any) (map[string]any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Mapping:
		return Plain(t).(map[string]any), nil
	case map[string]any:
		return Plain(t).(map[string]any), nil
	default:
		return nil, malformed("configuration must be a mapping, got %T", v)
	}
}

func collection(set string, v any) ([]Dataset, error) {
	var (
		names  []string
		values []any
	)

	switch t := v.(type) {
	case nil:
		return []Dataset{}, nil
	case *Mapping:
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			names = append(names, pair.Key)
			values = append(values, pair.Value)
		}
	case []any:
		for i, item := range t {
			names = append(names, strconv.Itoa(i+1))
			values = append(values, item)
		}
	case map[string]any, []map[string]any:
		return collection(set, Ordered(t))
	default:
		return nil, malformed("%s set must be a mapping or a sequence, got %T", set, v)
	}

	out := make([]Dataset, 0, len(values))
	for i, item := range values {
		ds, err := newDataset(set, names[i], i+1, item)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

func newDataset(set, name string, index int, v any) (Dataset, error) {
	if m, ok := v.(map[string]any); ok {
		v = Ordered(m)
	}
	values, ok := v.(*Mapping)
	if !ok {
		return Dataset{}, malformed("dataset [%s] in %s set is not a mapping", name, set)
	}

	ds := Dataset{
		Name:      name,
		Index:     index,
		Values:    values,
		Expected:  []string{},
		Options:   map[string]any{},
		Arguments: map[string]any{},
	}

	if raw, ok := values.Get(KeyExpectedErrors); ok && raw != nil {
		expected, err := cast.ToStringSliceE(Plain(raw))
		if err != nil {
			return Dataset{}, malformed("dataset [%s] in %s set: %s must be a list of strings", name, set, KeyExpectedErrors)
		}
		ds.Expected = lo.Uniq(expected)
	}

	var err error
	if ds.Options, err = params(values, KeyOptions); err != nil {
		return Dataset{}, malformed("dataset [%s] in %s set: %v", name, set, err)
	}
	if ds.Arguments, err = params(values, KeyArguments); err != nil {
		return Dataset{}, malformed("dataset [%s] in %s set: %v", name, set, err)
	}

	return ds, nil
}

func params(values *Mapping, key string) (map[string]any, error) {
	raw, ok := values.Get(key)
	if !ok || raw == nil {
		return map[string]any{}, nil
	}
	m, err := cast.ToStringMapE(Plain(raw))
	if err != nil {
		return nil, fmt.Errorf("%s must be a mapping", key)
	}
	return m, nil
}
