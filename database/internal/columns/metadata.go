// Package columns extracts entity field metadata from `db` struct tags.
package columns

import (
	"reflect"
)

// Column is one db-tagged struct field.
type Column struct {
	// FieldName is the Go struct field name (e.g., "ClazzID")
	FieldName string

	// Name is the entity field name taken from the db tag (e.g., "clazz_id").
	// It is the default column and the select alias.
	Name string

	// FieldIndex is the reflect index path of the field, through embedded structs.
	FieldIndex []int

	// FieldType is the reflect.Type of the struct field
	FieldType reflect.Type
}

// Metadata describes the db-tagged fields of a struct type in declaration order.
type Metadata struct {
	// TypeName is the name of the struct type (e.g., "ClazzName")
	TypeName string

	Columns []Column
}

// Names returns the entity field names in declaration order.
func (m *Metadata) Names() []string {
	names := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		names[i] = col.Name
	}
	return names
}

// Slot returns a pointer to the i-th column's field of the struct pointed to by ptr.
func (m *Metadata) Slot(ptr any, i int) any {
	return reflect.ValueOf(ptr).Elem().FieldByIndex(m.Columns[i].FieldIndex).Addr().Interface()
}
