package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultEndpoint is the path submissions are posted to when a definition does
// not declare one.
const DefaultEndpoint = "/rewrite"

// ErrInvalidDefinition is returned when a definition cannot be used to build a
// form (missing or duplicate field names).
var ErrInvalidDefinition = errors.New("form: invalid definition")

// Field describes one visible form control.
type Field struct {
	Name      string   `yaml:"name"`
	Label     string   `yaml:"label,omitempty"`
	Help      string   `yaml:"help,omitempty"`
	Default   string   `yaml:"default,omitempty"`
	Multiline bool     `yaml:"multiline,omitempty"`
	Secret    bool     `yaml:"secret,omitempty"`
	Options   []string `yaml:"options,omitempty"`
}

// DisplayLabel returns the label or a label derived from the field name.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return DefaultLabeler(f.Name)
}

// Definition is an ordered set of fields plus hidden values.
type Definition struct {
	Endpoint string            `yaml:"endpoint,omitempty"`
	Fields   []Field           `yaml:"fields"`
	Hidden   map[string]string `yaml:"hidden,omitempty"`
}

// Field looks up a field by name.
func (d Definition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns field names in display order.
func (d Definition) Names() []string {
	out := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, field.Name)
	}
	return out
}

// EndpointPath returns the configured endpoint or DefaultEndpoint.
func (d Definition) EndpointPath() string {
	if endpoint := strings.TrimSpace(d.Endpoint); endpoint != "" {
		return endpoint
	}
	return DefaultEndpoint
}

// Validate checks that every field has a unique, non-empty name.
func (d Definition) Validate() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidDefinition)
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for i, field := range d.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidDefinition, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Payload is the flat field-name to value mapping posted to the server.
type Payload map[string]string

// Keys returns the payload keys sorted, for logging.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
