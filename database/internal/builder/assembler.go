package builder

import (
	"errors"
	"strings"

	"github.com/gaborage/go-sqlmodel/database/dialect"
)

var errNoRows = errors.New("insert requires at least one row")

// Column is one participating entity field.
type Column struct {
	// Field is the logical field name, used as the select alias.
	Field string
	// Expr is the physical column expression.
	Expr string
}

// Query carries a filter and the optional clauses of a read statement.
// Join, Where and Having may hold `?` placeholders, consumed in that order.
// GroupBy is copied verbatim; Having is only rendered alongside it.
type Query struct {
	Where   string
	Args    []any
	Join    string
	GroupBy string
	Having  string
}

// Page bounds a select.
type Page struct {
	Limit  int64
	Offset int64
}

// Assembler renders statements for one dialect.
type Assembler struct {
	dialect dialect.Dialect
	convert dialect.ArgConverter
}

// New returns an Assembler for d. convert, when non-nil, is tried before the
// dialect's built-in argument conversions.
func New(d dialect.Dialect, convert dialect.ArgConverter) *Assembler {
	return &Assembler{dialect: d, convert: convert}
}

// Dialect returns the dialect statements are rendered for.
func (a *Assembler) Dialect() dialect.Dialect { return a.dialect }

// InsertOne renders `INSERT INTO t (cols) VALUES (...)`, or with a filter the
// insert-if idiom `INSERT INTO t (cols) SELECT ... WHERE <filter>`.
func (a *Assembler) InsertOne(table string, cols []Column, values []any, filter *Query) (*Statement, error) {
	w := a.newWriter()
	w.write("INSERT INTO ", table, " (", columnList(cols), ") ")

	if filter == nil {
		w.write("VALUES (")
		if err := w.params(values); err != nil {
			return nil, err
		}
		w.write(")")
		return w.statement(), nil
	}

	w.write("SELECT ")
	if err := w.params(values); err != nil {
		return nil, err
	}
	if dual := a.dialect.Features().DualTable; dual != "" {
		w.write(" FROM ", dual)
	}
	cur := newCursor(filter.Args)
	if err := w.where(filter.Where, cur); err != nil {
		return nil, err
	}
	if err := cur.finish(); err != nil {
		return nil, err
	}
	return w.statement(), nil
}

// Insert renders one multi-row `INSERT INTO t (cols) VALUES (...),(...)`.
func (a *Assembler) Insert(table string, cols []Column, rows [][]any) (*Statement, error) {
	if len(rows) == 0 {
		return nil, errNoRows
	}
	w := a.newWriter()
	w.write("INSERT INTO ", table, " (", columnList(cols), ") VALUES ")
	for i, values := range rows {
		if i > 0 {
			w.write(",")
		}
		w.write("(")
		if err := w.params(values); err != nil {
			return nil, err
		}
		w.write(")")
	}
	return w.statement(), nil
}

// Update renders `UPDATE t SET col = ?, ...` followed by the filter's WHERE
// clause. An empty filter expression updates every row.
func (a *Assembler) Update(table string, cols []Column, values []any, filter Query) (*Statement, error) {
	w := a.newWriter()
	w.write("UPDATE ", table, " SET ")
	for i, col := range cols {
		if i > 0 {
			w.write(", ")
		}
		w.write(col.Expr, " = ")
		if err := w.param(values[i]); err != nil {
			return nil, err
		}
	}

	cur := newCursor(filter.Args)
	if err := w.where(filter.Where, cur); err != nil {
		return nil, err
	}
	if err := cur.finish(); err != nil {
		return nil, err
	}
	return w.statement(), nil
}

// Delete renders `DELETE FROM t [WHERE ...]`. An empty filter expression deletes every row.
func (a *Assembler) Delete(table string, filter Query) (*Statement, error) {
	w := a.newWriter()
	w.write("DELETE FROM ", table)

	cur := newCursor(filter.Args)
	if err := w.where(filter.Where, cur); err != nil {
		return nil, err
	}
	if err := cur.finish(); err != nil {
		return nil, err
	}
	return w.statement(), nil
}

// Count renders `SELECT COUNT(*) FROM t ...`. A grouped query is counted
// through a derived table so each group counts once.
func (a *Assembler) Count(table string, q Query) (*Statement, error) {
	w := a.newWriter()
	cur := newCursor(q.Args)

	if q.GroupBy == "" {
		w.write("SELECT COUNT(*) FROM ", table)
		if err := w.clauses(q, cur); err != nil {
			return nil, err
		}
	} else {
		w.write("SELECT COUNT(*) FROM (SELECT 1")
		if a.dialect.Features().NamedDerivedColumns {
			w.write(" AS n")
		}
		w.write(" FROM ", table)
		if err := w.clauses(q, cur); err != nil {
			return nil, err
		}
		w.write(") sub")
	}

	if err := cur.finish(); err != nil {
		return nil, err
	}
	return w.statement(), nil
}

// Select renders a select of cols aliased to their field names. A nil page
// selects every row; single caps the result at one row.
func (a *Assembler) Select(table string, cols []Column, q Query, order string, page *Page, single bool) (*Statement, error) {
	paging := a.dialect.Features().Paging
	if single {
		page = &Page{Limit: 1}
	}
	if paging == dialect.RowNumber && page != nil && !single {
		return a.selectRowNumber(table, cols, q, order, *page)
	}

	w := a.newWriter()
	cur := newCursor(q.Args)

	w.write("SELECT ")
	if single && paging == dialect.RowNumber {
		w.write("TOP 1 ")
	}
	w.write(selectList(cols), " FROM ", table)
	if err := w.clauses(q, cur); err != nil {
		return nil, err
	}
	if err := cur.finish(); err != nil {
		return nil, err
	}
	if order != "" {
		w.write(" ORDER BY ", order)
	}

	if page != nil && paging != dialect.RowNumber {
		if err := w.page(paging, *page); err != nil {
			return nil, err
		}
	}
	return w.statement(), nil
}

// selectRowNumber renders the ROW_NUMBER() paging wrapper. The offset is bound
// once and referenced by both bounds.
func (a *Assembler) selectRowNumber(table string, cols []Column, q Query, order string, page Page) (*Statement, error) {
	w := a.newWriter()
	cur := newCursor(q.Args)

	if order == "" {
		order = "(SELECT 1)"
	}
	w.write("SELECT * FROM (SELECT ", selectList(cols), ", ROW_NUMBER() OVER (ORDER BY ", order, ") AS _num FROM ", table)
	if err := w.clauses(q, cur); err != nil {
		return nil, err
	}
	if err := cur.finish(); err != nil {
		return nil, err
	}

	offset, err := w.bind(page.Offset)
	if err != nil {
		return nil, err
	}
	limit, err := w.bind(page.Limit)
	if err != nil {
		return nil, err
	}
	off := a.dialect.Placeholder(offset)
	w.write(") sub WHERE _num BETWEEN (1+", off, ") AND (", off, "+", a.dialect.Placeholder(limit), ")")
	return w.statement(), nil
}

func (w *writer) page(paging dialect.Paging, page Page) error {
	switch paging {
	case dialect.OffsetFetch:
		w.write(" OFFSET ")
		if err := w.param(page.Offset); err != nil {
			return err
		}
		w.write(" ROWS FETCH NEXT ")
		if err := w.param(page.Limit); err != nil {
			return err
		}
		w.write(" ROWS ONLY")
	default:
		w.write(" LIMIT ")
		if err := w.param(page.Limit); err != nil {
			return err
		}
		w.write(" OFFSET ")
		if err := w.param(page.Offset); err != nil {
			return err
		}
	}
	return nil
}

// clauses renders join, where, group by and having.
func (w *writer) clauses(q Query, cur *cursor) error {
	if q.Join != "" {
		w.write(" ")
		if err := w.rewrite("join", q.Join, cur); err != nil {
			return err
		}
	}
	if err := w.where(q.Where, cur); err != nil {
		return err
	}
	if q.GroupBy != "" {
		w.write(" GROUP BY ", q.GroupBy)
		if q.Having != "" {
			w.write(" HAVING ")
			if err := w.rewrite("having", q.Having, cur); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) where(expr string, cur *cursor) error {
	if expr == "" {
		return nil
	}
	w.write(" WHERE ")
	return w.rewrite("where", expr, cur)
}

// params writes comma-separated placeholders for values.
func (w *writer) params(values []any) error {
	for i, v := range values {
		if i > 0 {
			w.write(",")
		}
		if err := w.param(v); err != nil {
			return err
		}
	}
	return nil
}

func columnList(cols []Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Expr
	}
	return strings.Join(names, ",")
}

func selectList(cols []Column) string {
	items := make([]string, len(cols))
	for i, c := range cols {
		if c.Expr == c.Field {
			items[i] = c.Field
			continue
		}
		items[i] = c.Expr + " AS " + c.Field
	}
	return strings.Join(items, ", ")
}
