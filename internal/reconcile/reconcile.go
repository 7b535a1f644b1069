// Package reconcile compares a validation error report against the errors a
// dataset expects and collects diagnostics for mismatches in either
// direction.
package reconcile

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/roach88/formtest/internal/fieldpath"
	"github.com/roach88/formtest/internal/form"
)

// SanitizeMessage extracts the quoted name a framework embeds in a generic
// message, e.g. `Unexpected extra form field named "foofile".` yields
// foofile. The fragment runs from the first ` "` to the following `".`;
// messages without both markers are returned unchanged.
//
// This is a convention tied to one message phrasing. Keep it narrow.
func SanitizeMessage(msg string) string {
	start := strings.Index(msg, ` "`)
	if start < 0 {
		return msg
	}
	rest := msg[start+2:]
	end := strings.Index(rest, `".`)
	if end < 0 {
		return msg
	}
	return rest[:end]
}

// Walk visits every leaf of schema depth-first. A leaf whose effective
// identifier is in expected consumes it; any other leaf adds an
// "error raised" line to buf. The expected entries never consumed are
// returned in their original order. Neither schema nor expected is modified.
//
// The effective identifier is the leaf's path (parent/child/field), except
// when its message carries a quoted fragment: then the fragment replaces
// the field key.
func Walk(schema *form.ErrorSchema, expected []string, buf *MessageBuffer) []string {
	remaining := slices.Clone(expected)
	if remaining == nil {
		remaining = []string{}
	}
	walk(schema, fieldpath.Path{}, &remaining, buf)
	return remaining
}

func walk(schema *form.ErrorSchema, prefix fieldpath.Path, remaining *[]string, buf *MessageBuffer) {
	if schema == nil {
		return
	}
	for _, entry := range schema.Entries {
		switch node := entry.Err.(type) {
		case *form.ErrorSchema:
			walk(node, prefix.Child(entry.Key), remaining, buf)
		case *form.Leaf:
			msg := SanitizeMessage(node.Message)
			substituted := msg != node.Message

			field := entry.Key
			if substituted {
				field = msg
			}
			id := prefix.Prefix() + field

			if !slices.Contains(*remaining, id) {
				if substituted && prefix.Empty() {
					buf.RaisedRaw(node.String())
				} else {
					buf.Raised(id)
				}
			}
			*remaining = lo.Without(*remaining, id)
		}
	}
}
