package model

import (
	"fmt"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/types"
)

// Skip is the override that excludes a field from every column list.
const Skip = "-"

// Mapping maps entity fields to column expressions, in field order.
// An empty override means the column is named like the field, Skip excludes
// the field, and any other value is used verbatim as the column expression.
type Mapping struct {
	fields    []string
	overrides map[string]string
}

// NewMapping returns a Mapping over fields with every override empty.
func NewMapping(fields []string) *Mapping {
	m := &Mapping{
		fields:    append([]string(nil), fields...),
		overrides: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		m.overrides[f] = ""
	}
	return m
}

// Set overrides the column expression of field.
func (m *Mapping) Set(field, column string) error {
	if _, ok := m.overrides[field]; !ok {
		return fmt.Errorf("%w: %q (available fields: %s)", types.ErrUnknownField, field, strings.Join(m.fields, ", "))
	}
	m.overrides[field] = column
	return nil
}

// Skip excludes fields from inserts, updates, selects and row decoding.
func (m *Mapping) Skip(fields ...string) error {
	for _, f := range fields {
		if err := m.Set(f, Skip); err != nil {
			return err
		}
	}
	return nil
}

// Override returns the raw override of field.
func (m *Mapping) Override(field string) (string, bool) {
	o, ok := m.overrides[field]
	return o, ok
}

// Column resolves the column expression of field and whether it participates.
func (m *Mapping) Column(field string) (string, bool) {
	o, ok := m.overrides[field]
	switch {
	case !ok || o == Skip:
		return "", false
	case o == "":
		return field, true
	default:
		return o, true
	}
}

// Fields returns the field names in entity order.
func (m *Mapping) Fields() []string {
	return append([]string(nil), m.fields...)
}
