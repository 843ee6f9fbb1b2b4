package model

import (
	"fmt"
	"reflect"

	"github.com/gaborage/go-sqlmodel/database/internal/columns"
)

// Descriptor tells the builders how to address the fields of T: its type
// name, the ordered field names, and a slot accessor returning a pointer to
// the i-th field. Build one per entity type and reuse it.
type Descriptor[T any] struct {
	typeName string
	fields   []string
	slot     func(entity *T, i int) any
}

// NewDescriptor registers T by hand. slot must return a pointer to the field
// named fields[i]; values are read through it and rows decoded into it.
func NewDescriptor[T any](typeName string, fields []string, slot func(entity *T, i int) any) *Descriptor[T] {
	return &Descriptor[T]{
		typeName: typeName,
		fields:   append([]string(nil), fields...),
		slot:     slot,
	}
}

// Describe builds a Descriptor for the struct type T from its `db` tags.
func Describe[T any]() (*Descriptor[T], error) {
	metadata, err := columns.Parse(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return &Descriptor[T]{
		typeName: metadata.TypeName,
		fields:   metadata.Names(),
		slot: func(entity *T, i int) any {
			return metadata.Slot(entity, i)
		},
	}, nil
}

// MustDescribe is like Describe but panics on error. It is meant for
// package-level descriptor variables.
func MustDescribe[T any]() *Descriptor[T] {
	d, err := Describe[T]()
	if err != nil {
		panic(fmt.Sprintf("model: describe %s: %v", reflect.TypeFor[T](), err))
	}
	return d
}

// TypeName returns the entity type name the table name derives from.
func (d *Descriptor[T]) TypeName() string { return d.typeName }

// Fields returns the ordered entity field names.
func (d *Descriptor[T]) Fields() []string { return append([]string(nil), d.fields...) }

// value reads the i-th field of entity.
func (d *Descriptor[T]) value(entity *T, i int) any {
	return reflect.ValueOf(d.slot(entity, i)).Elem().Interface()
}
