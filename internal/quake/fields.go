package quake

import (
	"fmt"
	"strconv"
	"strings"
)

// Object is a decoded JSON object whose shape is not trusted.
type Object = map[string]any

// Lookup returns the first candidate key present with a non-empty value.
// Candidate lists are ordered by how often each spelling appears in practice.
func Lookup(obj Object, candidates []string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	for _, key := range candidates {
		v, ok := obj[key]
		if !ok || isEmpty(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// LookupString is Lookup rendered as text; missing fields give "".
func LookupString(obj Object, candidates []string) string {
	v, ok := Lookup(obj, candidates)
	if !ok {
		return ""
	}
	return toString(v)
}

// LookupObject returns the first candidate that is itself an object, or an empty one.
func LookupObject(obj Object, candidates []string) Object {
	for _, key := range candidates {
		if child, ok := obj[key].(map[string]any); ok {
			return child
		}
	}
	return Object{}
}

// LookupList returns the first candidate that is a JSON array.
func LookupList(obj Object, candidates []string) []any {
	for _, key := range candidates {
		if list, ok := obj[key].([]any); ok {
			return list
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case map[string]any:
		return len(x) == 0
	}
	return false
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
