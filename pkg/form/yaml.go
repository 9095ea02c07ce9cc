package form

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a definition from a YAML file.
func LoadYAML(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("form: read definition %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes and validates a YAML definition.
func ParseYAML(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("form: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadValues reads a flat YAML mapping of field name to value, used to fill a
// form without prompting. Scalars are kept as written.
func LoadValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: read values %s: %w", path, err)
	}
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("form: decode values %s: %w", path, err)
	}
	return values, nil
}
