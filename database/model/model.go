// Package model builds and runs parameterized statements for entity types.
//
// A Model pairs an entity with its table name and field-to-column Mapping.
// Binding it to a connection yields a one-shot Executor:
//
//	var students = model.MustDescribe[Student]()
//
//	m := model.New(students, &Student{ID: 1, Name: "Ann"})
//	_ = m.Fields.Skip("created_at")
//	n, err := m.Bind(db).InsertOne(ctx, nil)
//
//	list, err := model.New(students, &Student{}).Bind(db).
//	    OrderBy("id desc").
//	    Limit(10, 0).
//	    Query(ctx, model.Where("age > ?", 18), nil)
//
// Filters use `?` placeholders regardless of vendor; the dialect picked from
// the connection rewrites them and binds the arguments.
package model

import (
	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/database/internal/builder"
	"github.com/gaborage/go-sqlmodel/database/internal/columns"
	"github.com/gaborage/go-sqlmodel/database/types"
)

// Model is an entity bound to its table and column mapping.
type Model[T any] struct {
	// Table is derived from the type name; reassign it for schemas or aliases.
	Table string
	// Fields holds the per-field column overrides.
	Fields *Mapping

	desc   *Descriptor[T]
	entity *T
}

// New returns a Model over entity. Its values feed inserts and updates, and a
// copy of it is the starting point of every decoded row. A nil entity is the zero T.
func New[T any](desc *Descriptor[T], entity *T) *Model[T] {
	if entity == nil {
		entity = new(T)
	}
	return &Model[T]{
		Table:  columns.TableName(desc.typeName),
		Fields: NewMapping(desc.fields),
		desc:   desc,
		entity: entity,
	}
}

// Entity returns the entity the model reads values from.
func (m *Model[T]) Entity() *T { return m.entity }

// Bind returns an Executor running against q, with the dialect matching
// q.DatabaseType(). An unknown vendor surfaces on the first statement.
func (m *Model[T]) Bind(q types.Querier, opts ...Option) *Executor[T] {
	d, err := dialect.For(q.DatabaseType())
	return m.bind(q, d, err, opts)
}

// BindDialect returns an Executor running against r with an explicit dialect.
func (m *Model[T]) BindDialect(r types.Runner, d dialect.Dialect, opts ...Option) *Executor[T] {
	return m.bind(r, d, nil, opts)
}

// BindTx returns an Executor running inside tx.
func (m *Model[T]) BindTx(tx types.Tx, d dialect.Dialect, opts ...Option) *Executor[T] {
	return m.bind(tx, d, nil, opts)
}

func (m *Model[T]) bind(r types.Runner, d dialect.Dialect, err error, opts []Option) *Executor[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ex := &execution[T]{
		model:   m,
		runner:  r,
		rowConv: o.rowConverter,
		log:     o.log,
		err:     err,
	}
	if d != nil {
		ex.assembler = builder.New(d, o.argConverter)
	}
	return &Executor[T]{ex: ex}
}

// participating resolves the mapped columns and their field indexes.
func (m *Model[T]) participating() ([]builder.Column, []int) {
	cols := make([]builder.Column, 0, len(m.desc.fields))
	idx := make([]int, 0, len(m.desc.fields))
	for i, field := range m.desc.fields {
		expr, ok := m.Fields.Column(field)
		if !ok {
			continue
		}
		cols = append(cols, builder.Column{Field: field, Expr: expr})
		idx = append(idx, i)
	}
	return cols, idx
}

func (m *Model[T]) values(entity *T, idx []int) []any {
	values := make([]any, len(idx))
	for i, fi := range idx {
		values[i] = m.desc.value(entity, fi)
	}
	return values
}
