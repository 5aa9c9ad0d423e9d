package schema

import (
	"fmt"
	"strings"

	"decana/internal/types"
)

// PropertyKey derives the schema key for a field name: trim, lowercase,
// collapse each whitespace run to a single underscore.
func PropertyKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// CheckFields applies the caller-level validation the form designer runs
// before schema generation: at least one usable field, and every select
// field carries at least one option. Blank-named fields are ignored here,
// exactly as GenerateSchema skips them.
func CheckFields(fields []types.FieldDefinition) error {
	usable := 0
	for _, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		usable++
		if f.Type == types.FieldSelect && len(f.Options) == 0 {
			return fmt.Errorf("schema: field %q requires at least one option", f.Name)
		}
	}
	if usable == 0 {
		return fmt.Errorf("schema: at least one field is required")
	}
	return nil
}

// GenerateSchema converts field definitions into a normalized form schema.
// Blank-named fields are skipped silently. When two field names collapse to
// the same property key the later field wins; CheckFields does not reject
// the collision. The result is a pure function of its
// input: identical fields always yield an identical schema.
func GenerateSchema(fields []types.FieldDefinition) types.FormSchema {
	properties := make(map[string]types.PropertySpec)
	required := []string{}

	for _, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			continue
		}
		key := PropertyKey(field.Name)

		prop := types.PropertySpec{
			Title: field.Name,
			Type:  "string",
		}
		switch field.Type {
		case types.FieldNumber:
			prop.Type = "number"
		case types.FieldBoolean:
			prop.Type = "boolean"
		case types.FieldSelect:
			prop.Enum = make([]string, 0, len(field.Options))
			prop.EnumNames = make([]string, 0, len(field.Options))
			for _, opt := range field.Options {
				prop.Enum = append(prop.Enum, opt.Value)
				prop.EnumNames = append(prop.EnumNames, opt.Label)
			}
		case types.FieldDate:
			prop.Format = "date"
		}

		if _, seen := properties[key]; seen {
			// Last-wins overwrite; drop any required entry the earlier
			// field contributed so the required set stays consistent.
			required = removeKey(required, key)
		}
		if field.Required {
			required = append(required, key)
		}
		properties[key] = prop
	}

	return types.FormSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func removeKey(keys []string, key string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
