package columns

import (
	"fmt"
	"reflect"
	"strings"
)

// Parse extracts column metadata from a struct type using reflection.
// It processes `db:"name"` tags; untagged fields and `db:"-"` are ignored.
// Anonymous embedded structs without a tag contribute their own tagged fields.
//
// Returns an error if:
//   - rt is not a struct type
//   - Any db tag contains dangerous SQL characters
//   - Two fields share a name
//   - No field carries a db tag
func Parse(rt reflect.Type) (*Metadata, error) {
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("columns: expected a struct type, got %s", rt.Kind())
	}

	metadata := &Metadata{
		TypeName: rt.Name(),
		Columns:  make([]Column, 0, rt.NumField()),
	}
	seen := make(map[string]string)
	if err := collect(rt, nil, metadata, seen); err != nil {
		return nil, err
	}

	// Fail-fast if no db-tagged fields found
	if len(metadata.Columns) == 0 {
		return nil, fmt.Errorf("no fields with `db` tags found in struct %s", rt.Name())
	}
	return metadata, nil
}

func collect(rt reflect.Type, prefix []int, metadata *Metadata, seen map[string]string) error {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		index := append(append([]int(nil), prefix...), i)
		dbTag := field.Tag.Get("db")

		if field.Anonymous && dbTag == "" && field.Type.Kind() == reflect.Struct {
			if err := collect(field.Type, index, metadata, seen); err != nil {
				return err
			}
			continue
		}

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Skip fields without db tag or with db:"-" (explicit ignore)
		if dbTag == "" || dbTag == "-" {
			continue
		}

		// SECURITY: Validate tag format to prevent SQL injection
		if err := validateDBTag(dbTag, metadata.TypeName, field.Name); err != nil {
			return err
		}
		if other, dup := seen[dbTag]; dup {
			return fmt.Errorf("duplicate db tag %q on fields %s.%s and %s.%s",
				dbTag, metadata.TypeName, other, metadata.TypeName, field.Name)
		}
		seen[dbTag] = field.Name

		metadata.Columns = append(metadata.Columns, Column{
			FieldName:  field.Name,
			Name:       dbTag,
			FieldIndex: index,
			FieldType:  field.Type,
		})
	}
	return nil
}

// validateDBTag checks for dangerous characters in db tags that could indicate SQL injection attempts.
func validateDBTag(tag, structName, fieldName string) error {
	dangerous := []string{";", "--", "/*", "*/"}
	for _, d := range dangerous {
		if strings.Contains(tag, d) {
			return fmt.Errorf(
				"invalid db tag %q in field %s.%s: contains dangerous SQL characters %q",
				tag, structName, fieldName, d,
			)
		}
	}

	// Column overrides belong in the mapping, tags name fields only
	if strings.ContainsAny(tag, `"' `) {
		return fmt.Errorf(
			"invalid db tag %q in field %s.%s: contains quotes or spaces",
			tag, structName, fieldName,
		)
	}
	return nil
}
