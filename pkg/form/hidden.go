package form

import (
	"fmt"
	"strings"
)

// HiddenField is a value submitted with every payload without being prompted
// for, such as a client version or a locale hint.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
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
	return out
}

func (d Definition) hiddenFields() []HiddenField {
	if len(d.Hidden) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(d.Hidden))
	for name, value := range d.Hidden {
		out = append(out, Hidden(name, value))
	}
	return out
}
