package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OrderExtension orders request body properties when building a definition
// from an OpenAPI document. Properties without it sort after ordered ones, by
// name.
const OrderExtension = "x-order"

// FromOpenAPI builds a definition from the JSON request body schema of the
// operation at method and path. Property title, description, default, enum
// and format map to the field label, help, default, options and control kind
// ("textarea" is multi-line, "password" is secret).
func FromOpenAPI(ctx context.Context, data []byte, method, path string) (Definition, error) {
	if len(data) == 0 {
		return Definition{}, errors.New("form: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return Definition{}, fmt.Errorf("form: load openapi document: %w", err)
	}
	if doc.Paths == nil {
		return Definition{}, errors.New("form: openapi document does not contain any paths")
	}

	item := doc.Paths.Find(path)
	if item == nil {
		return Definition{}, fmt.Errorf("form: openapi path %q not found", path)
	}
	if method == "" {
		method = http.MethodPost
	}
	op := item.GetOperation(strings.ToUpper(method))
	if op == nil {
		return Definition{}, fmt.Errorf("form: openapi operation %s %s not found", method, path)
	}
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return Definition{}, fmt.Errorf("form: %s %s has no request body", method, path)
	}
	media := op.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return Definition{}, fmt.Errorf("form: %s %s has no application/json schema", method, path)
	}

	schema := media.Schema.Value
	type ordered struct {
		field Field
		order int
		set   bool
	}
	props := make([]ordered, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		order, set := extensionInt(ref.Value.Extensions[OrderExtension])
		props = append(props, ordered{
			field: fieldFromSchema(name, ref.Value),
			order: order,
			set:   set,
		})
	}
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i], props[j]
		if a.set != b.set {
			return a.set
		}
		if a.set && a.order != b.order {
			return a.order < b.order
		}
		return a.field.Name < b.field.Name
	})

	def := Definition{Endpoint: path}
	for _, prop := range props {
		def.Fields = append(def.Fields, prop.field)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func fieldFromSchema(name string, schema *openapi3.Schema) Field {
	field := Field{
		Name:      name,
		Label:     strings.TrimSpace(schema.Title),
		Help:      strings.TrimSpace(schema.Description),
		Multiline: schema.Format == "textarea",
		Secret:    schema.Format == "password",
	}
	if schema.Default != nil {
		field.Default = fmt.Sprint(schema.Default)
	}
	for _, value := range schema.Enum {
		field.Options = append(field.Options, fmt.Sprint(value))
	}
	return field
}

func extensionInt(value any) (int, bool) {
	switch typed := value.(type) {
	case nil:
		return 0, false
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case json.Number:
		n, err := typed.Int64()
		return int(n), err == nil
	case json.RawMessage:
		n, err := strconv.Atoi(strings.TrimSpace(string(typed)))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(typed))
		return n, err == nil
	default:
		return 0, false
	}
}
