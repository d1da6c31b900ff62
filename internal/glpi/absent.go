package glpi

import (
	"encoding/json"
	"strings"
)

// IsAbsent reports whether a parameter value should be treated as not
// supplied and omitted from the outgoing request.
//
// The host environment may serialize an unfinished structured-input widget as
// a stringified empty placeholder ("{}", "[]", " { } ") before the value
// reaches the adapter; those must be treated identically to true absence so
// they are never sent as spurious empty objects or arrays. Numeric zero is a
// legitimate value (root entity id, pagination start offset) and is never
// absent.
func IsAbsent(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return stringAbsent(val)
	case []any:
		return sliceAbsent(val)
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

func stringAbsent(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "{}" || trimmed == "[]" {
		return true
	}
	// A parseable string is judged by what it parses to, so whitespace-padded
	// empty JSON counts as absent. An unparseable string is a plain value.
	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return false
	}
	// strings parse to themselves; stop recursing there
	if ps, ok := parsed.(string); ok {
		return ps == ""
	}
	return IsAbsent(parsed)
}

// sliceAbsent reports true for an empty slice, or one holding only empty maps
// (the serialized form of a structured widget with zero filled rows).
func sliceAbsent(s []any) bool {
	if len(s) == 0 {
		return true
	}
	for _, el := range s {
		m, ok := el.(map[string]any)
		if !ok || len(m) > 0 {
			return false
		}
	}
	return true
}
