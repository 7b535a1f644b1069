package dataset

import (
	"maps"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Mapping is an insertion-ordered string-keyed mapping, the shape every
// parser produces for mappings at any depth.
type Mapping = orderedmap.OrderedMap[string, any]

// NewMapping returns an empty Mapping.
func NewMapping() *Mapping {
	return orderedmap.New[string, any]()
}

// Plain converts v into plain Go values: every *Mapping becomes a
// map[string]any and every slice is copied element by element.
func Plain(v any) any {
	switch t := v.(type) {
	case *Mapping:
		out := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = Plain(pair.Value)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Plain(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Plain(val)
		}
		return out
	default:
		return v
	}
}

// Ordered is the inverse of Plain: every map[string]any becomes a *Mapping
// with its keys in sorted order.
func Ordered(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := NewMapping()
		for _, k := range slices.Sorted(maps.Keys(t)) {
			m.Set(k, Ordered(t[k]))
		}
		return m
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Ordered(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Ordered(val)
		}
		return out
	default:
		return v
	}
}

// keys returns the keys of m in insertion order.
func keys(m *Mapping) []string {
	out := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
