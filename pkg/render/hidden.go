package render

import (
	"fmt"
	"sort"
	"strings"
)

// NonceFieldName is the input name default host save routines read the
// anti-tampering token from.
const NonceFieldName = "taxonomy_noncename"

// HiddenField represents a hidden input emitted alongside the radio list.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// NonceField constructs the hidden field carrying a taxonomy nonce under the
// name host save routines expect.
func NonceField(token string) HiddenField {
	return Hidden(NonceFieldName, token)
}

// NonceAction returns the action a taxonomy nonce is bound to.
func NonceAction(slug string) string {
	return "taxonomy_" + slug
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields normalises and sorts hidden fields for deterministic
// rendering. Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		if _, seen := clean[key]; !seen {
			names = append(names, key)
		}
		clean[key] = value
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: clean[name]})
	}
	return result
}

// CollectHidden merges request-level extras under the metabox's own fields and
// returns them sorted.
func CollectHidden(boxHidden map[string]string, extras []HiddenField) []HiddenField {
	merged := MergeHiddenFields(nil, extras...)
	for name, value := range boxHidden {
		merged = MergeHiddenFields(merged, Hidden(name, value))
	}
	return SortedHiddenFields(merged)
}
