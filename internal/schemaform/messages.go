package schemaform

import (
	"fmt"
	"strings"
)

func splitRules(rules string) []string {
	parts := strings.Split(rules, ",")
	for i, p := range parts {
		if name, _, ok := strings.Cut(p, "="); ok {
			parts[i] = name
		}
	}
	return parts
}

// message renders a failed validator tag.
func message(tag, param string) string {
	switch tag {
	case "required":
		return "Required."
	case "max":
		return fmt.Sprintf("Too long (%s characters max).", param)
	case "min":
		return fmt.Sprintf("Too short (%s characters min).", param)
	case "len":
		return fmt.Sprintf("Must be exactly %s characters.", param)
	case "oneof":
		return "Invalid choice."
	default:
		return "Invalid."
	}
}
