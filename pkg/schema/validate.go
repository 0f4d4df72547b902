package schema

import "sort"

// Schema is a map of field names to their expected types.
// Example: {"x": Float(), "text": String(), "markerEnd": Enum("arrow", "diamond")}
type Schema map[string]Type

// Validate checks that every field in data is declared in the schema and holds a
// value of the declared type. Fields declared but absent are accepted.
// Returns an *AggregateError with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []*FieldError
	for _, fieldName := range keys {
		value := data[fieldName]
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &FieldError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &FieldError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Merge returns a new schema holding the fields of all given schemas.
// Later schemas win on conflicting names.
func Merge(schemas ...Schema) Schema {
	out := make(Schema)
	for _, s := range schemas {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
