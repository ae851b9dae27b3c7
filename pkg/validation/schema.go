package validation

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// Default patterns applied to free-text types that carry a recognisable
// shape. Patterns only apply to non-empty values.
const (
	PatternEmail = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	PatternColor = `^#[0-9a-fA-F]{6}$`
)

// SchemaFor describes the submission payload of fields as an OpenAPI object
// schema, keyed by field id. Hosts can publish it alongside their endpoints;
// the Validator uses it to check submissions.
func SchemaFor(fields []model.Field) *openapi3.Schema {
	return schemaFor(fields, defaultPatterns())
}

func schemaFor(fields []model.Field, patterns map[model.FieldType]string) *openapi3.Schema {
	root := openapi3.NewObjectSchema()
	var required []string

	for _, field := range fields {
		id := string(field.ID)
		prop := propertySchema(field, patterns)
		if field.Label != "" {
			prop.Title = field.Label
		}
		root.WithProperty(id, prop)

		if !field.Required {
			continue
		}
		switch field.Type {
		case model.FieldTypeCheckbox, model.FieldTypeFile:
			prop.WithMinItems(1)
		case model.FieldTypeSwitch:
			prop.WithEnum(true)
		}
		required = append(required, id)
	}

	if len(required) > 0 {
		root.Required = required
	}
	return root
}

func propertySchema(field model.Field, patterns map[model.FieldType]string) *openapi3.Schema {
	switch field.Type {
	case model.FieldTypeSwitch:
		return openapi3.NewBoolSchema()

	case model.FieldTypeNumber:
		return openapi3.NewFloat64Schema()

	case model.FieldTypeRange:
		prop := openapi3.NewFloat64Schema()
		if r, ok := field.Range(); ok {
			prop.WithMin(r.Min).WithMax(r.Max)
		}
		return prop

	case model.FieldTypeSelect, model.FieldTypeRadio:
		prop := openapi3.NewStringSchema()
		if opts, ok := field.Options(); ok && len(opts) > 0 {
			prop.WithEnum(toAny(opts)...)
		}
		return prop

	case model.FieldTypeCheckbox:
		item := openapi3.NewStringSchema()
		if opts, ok := field.Options(); ok && len(opts) > 0 {
			item.WithEnum(toAny(opts)...)
		}
		return openapi3.NewArraySchema().WithItems(item)

	case model.FieldTypeFile:
		ref := openapi3.NewObjectSchema().
			WithProperty("name", openapi3.NewStringSchema()).
			WithProperty("size", openapi3.NewInt64Schema()).
			WithProperty("contentType", openapi3.NewStringSchema())
		ref.Required = []string{"name"}
		return openapi3.NewArraySchema().WithItems(ref)

	default:
		prop := openapi3.NewStringSchema()
		if pattern := patterns[field.Type]; pattern != "" {
			prop.WithPattern(pattern)
		}
		return prop
	}
}

func defaultPatterns() map[model.FieldType]string {
	return map[model.FieldType]string{
		model.FieldTypeEmail: PatternEmail,
		model.FieldTypeColor: PatternColor,
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
