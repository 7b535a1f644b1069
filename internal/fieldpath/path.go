// Package fieldpath models the "parent/child/leaf" addresses used to name
// fields of embedded forms in unset lists and expected-error lists.
//
// Paths are parsed once at the configuration boundary and passed around as
// segment slices; nothing below the boundary splits strings again.
package fieldpath

import "strings"

// Separator joins the segments of a path in its textual form.
const Separator = "/"

// Path is an ordered sequence of field names, outermost form first.
type Path []string

// Parse splits a textual path on Separator. Empty segments are dropped, so
// "a//b/" and "a/b" address the same field.
func Parse(s string) Path {
	parts := strings.Split(s, Separator)
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		p = append(p, part)
	}
	return p
}

// ParseAll parses every entry of list, skipping entries that yield an empty
// path.
func ParseAll(list []string) []Path {
	paths := make([]Path, 0, len(list))
	for _, s := range list {
		if p := Parse(s); !p.Empty() {
			paths = append(paths, p)
		}
	}
	return paths
}

// String renders the path in its textual form.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p) == 0
}

// Nested reports whether the path reaches into an embedded form.
func (p Path) Nested() bool {
	return len(p) > 1
}

// Head returns the first segment, or "" for an empty path.
func (p Path) Head() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Tail returns the path without its first segment.
func (p Path) Tail() Path {
	if len(p) < 2 {
		return nil
	}
	return p[1:]
}

// Child returns a new path with key appended. The receiver is not modified.
func (p Path) Child(key string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, key)
}

// Prefix renders the path as a prefix for a child identifier: "" for an
// empty path, otherwise the textual form followed by Separator.
func (p Path) Prefix() string {
	if len(p) == 0 {
		return ""
	}
	return p.String() + Separator
}
