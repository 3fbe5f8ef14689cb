package utils

import (
	"fmt"
	"reflect"
	"strings"
)

// TaggedField is a struct field that carries a given tag.
type TaggedField struct {
	Path  string // dot notation for nested fields, e.g. "User.Name"
	Value string // value of the tag
	index []int
}

func validateStructTypes(data reflect.Type, fields ...string) error {
	if data.Kind() == reflect.Ptr {
		data = data.Elem()
	}
	if data.Kind() != reflect.Struct {
		return fmt.Errorf("data must be a struct, got %v", data.Kind())
	}

	for i := 0; i < data.NumField(); i++ {
		field := data.Field(i)
		// Remove the matched field from the fields list
		for j, v := range fields {
			if v == field.Name || strings.HasPrefix(v, field.Name+".") {
				fields = append(fields[:j], fields[j+1:]...)
				break
			}
		}
	}

	if len(fields) > 0 {
		return fmt.Errorf("certain fields are not actually in the struct: %v", fields)
	}
	return nil
}

// GetTagValue returns the value of tag on field. Nested fields use dot
// notation.
func GetTagValue[T any](s T, field, tag string) (string, error) {
	t := reflect.TypeOf(s)
	err := validateStructTypes(t, field)
	if err != nil {
		return "", err
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	parts := strings.Split(field, ".")
	currentType := t

	for i, part := range parts {
		structField, found := currentType.FieldByName(part)
		if !found {
			availableFields := make([]string, currentType.NumField())
			for j := 0; j < currentType.NumField(); j++ {
				availableFields[j] = currentType.Field(j).Name
			}
			return "", fmt.Errorf("field %s not found at level %d, available fields: %v", part, i, availableFields)
		}

		if i == len(parts)-1 {
			return structField.Tag.Get(tag), nil
		}

		currentType = structField.Type
		if currentType.Kind() == reflect.Ptr {
			currentType = currentType.Elem()
		}
		if currentType.Kind() != reflect.Struct {
			return "", fmt.Errorf("field %s is not a struct, cannot traverse further", part)
		}
	}

	return "", fmt.Errorf("unexpected error traversing field path")
}

// GetTaggedFields lists every field carrying tag, in declaration order,
// descending into nested structs.
func GetTaggedFields[T any](s T, tag string) ([]TaggedField, error) {
	t := reflect.TypeOf(s)
	err := validateStructTypes(t)
	if err != nil {
		return nil, err
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]TaggedField, 0)
	collectTags(t, tag, "", nil, &fields)
	return fields, nil
}

func collectTags(t reflect.Type, tag, prefix string, index []int, fields *[]TaggedField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldPath := field.Name
		if prefix != "" {
			fieldPath = prefix + "." + field.Name
		}
		fieldIndex := append(append([]int{}, index...), i)

		if value, ok := field.Tag.Lookup(tag); ok && len(value) > 0 {
			*fields = append(*fields, TaggedField{Path: fieldPath, Value: value, index: fieldIndex})
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			continue
		}
		if fieldType.Kind() == reflect.Struct {
			// time.Time and uuid.UUID are leaves
			if fieldType.PkgPath() == "time" || fieldType.PkgPath() == "github.com/gofrs/uuid" {
				continue
			}
			collectTags(fieldType, tag, fieldPath, fieldIndex, fields)
		}
	}
}

// GetAllTags is GetTaggedFields as a map of field path to tag value.
func GetAllTags[T any](s T, tag string) (map[string]string, error) {
	fields, err := GetTaggedFields(s, tag)
	if err != nil {
		return nil, err
	}
	tags := make(map[string]string, len(fields))
	for _, f := range fields {
		tags[f.Path] = f.Value
	}
	return tags, nil
}

// GetTaggedValues returns the values of the fields carrying tag, in the
// same order as GetTaggedFields.
func GetTaggedValues[T any](s T, tag string) ([]any, error) {
	fields, err := GetTaggedFields(s, tag)
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("nil pointer to %v", v.Type().Elem())
		}
		v = v.Elem()
	}

	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = v.FieldByIndex(f.index).Interface()
	}
	return values, nil
}
