package builder

import (
	"testing"

	"github.com/gaborage/go-sqlmodel/database/dialect"
	"github.com/gaborage/go-sqlmodel/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var studentColumns = []Column{
	{Field: "id", Expr: "id"},
	{Field: "name", Expr: "full_name"},
}

func TestInsertOne(t *testing.T) {
	tests := []struct {
		dialect dialect.Dialect
		want    string
	}{
		{dialect.Postgres(), "INSERT INTO student (id,full_name) VALUES ($1,$2)"},
		{dialect.MySQL(), "INSERT INTO student (id,full_name) VALUES (?,?)"},
		{dialect.SQLite(), "INSERT INTO student (id,full_name) VALUES (?,?)"},
		{dialect.SQLServer(), "INSERT INTO student (id,full_name) VALUES (@P1,@P2)"},
		{dialect.Oracle(), "INSERT INTO student (id,full_name) VALUES (:1,:2)"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Vendor(), func(t *testing.T) {
			stmt, err := New(tt.dialect, nil).InsertOne(tableStudent, studentColumns, []any{int64(1), "Ann"}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.SQL)
			assert.Equal(t, []any{int64(1), "Ann"}, stmt.Args)
		})
	}
}

func TestInsertOneWithFilter(t *testing.T) {
	filter := &Query{Where: "not exists (select 1 from student where id = ?)", Args: []any{int64(1)}}

	tests := []struct {
		dialect dialect.Dialect
		want    string
	}{
		{dialect.Postgres(), "INSERT INTO student (id,full_name) SELECT $1,$2 WHERE not exists (select 1 from student where id = $3)"},
		{dialect.MySQL(), "INSERT INTO student (id,full_name) SELECT ?,? FROM dual WHERE not exists (select 1 from student where id = ?)"},
		{dialect.SQLServer(), "INSERT INTO student (id,full_name) SELECT @P1,@P2 WHERE not exists (select 1 from student where id = @P3)"},
		{dialect.Oracle(), "INSERT INTO student (id,full_name) SELECT :1,:2 FROM dual WHERE not exists (select 1 from student where id = :3)"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Vendor(), func(t *testing.T) {
			stmt, err := New(tt.dialect, nil).InsertOne(tableStudent, studentColumns, []any{int64(1), "Ann"}, filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.SQL)
			assert.Equal(t, []any{int64(1), "Ann", int64(1)}, stmt.Args)
		})
	}
}

func TestInsertOneWithFilterArgumentMismatch(t *testing.T) {
	filter := &Query{Args: []any{int64(1)}}
	_, err := New(dialect.Postgres(), nil).InsertOne(tableStudent, studentColumns, []any{int64(1), "Ann"}, filter)
	require.ErrorIs(t, err, types.ErrArgumentCountMismatch)
}

func TestInsertMany(t *testing.T) {
	rows := [][]any{{int64(1), "Ann"}, {int64(2), "Bob"}}

	stmt, err := New(dialect.Postgres(), nil).Insert(tableStudent, studentColumns, rows)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO student (id,full_name) VALUES ($1,$2),($3,$4)", stmt.SQL)
	assert.Equal(t, []any{int64(1), "Ann", int64(2), "Bob"}, stmt.Args)
}

func TestInsertManyFailsWhole(t *testing.T) {
	rows := [][]any{{int64(1), "Ann"}, {int64(2), []int{1}}}

	stmt, err := New(dialect.MySQL(), nil).Insert(tableStudent, studentColumns, rows)
	require.ErrorIs(t, err, types.ErrUnsupportedType)
	assert.Nil(t, stmt)
}

func TestInsertManyRequiresRows(t *testing.T) {
	_, err := New(dialect.MySQL(), nil).Insert(tableStudent, studentColumns, nil)
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	a := New(dialect.Postgres(), nil)

	t.Run("filtered", func(t *testing.T) {
		stmt, err := a.Update(tableStudent, studentColumns, []any{int64(1), "Ann"}, Query{Where: "id = ?", Args: []any{int64(1)}})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE student SET id = $1, full_name = $2 WHERE id = $3", stmt.SQL)
		assert.Equal(t, []any{int64(1), "Ann", int64(1)}, stmt.Args)
	})

	t.Run("unconditional", func(t *testing.T) {
		stmt, err := a.Update(tableStudent, studentColumns, []any{int64(1), "Ann"}, Query{})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE student SET id = $1, full_name = $2", stmt.SQL)
	})

	t.Run("args_without_expression", func(t *testing.T) {
		_, err := a.Update(tableStudent, studentColumns, []any{int64(1), "Ann"}, Query{Args: []any{int64(1)}})
		require.ErrorIs(t, err, types.ErrArgumentCountMismatch)
	})
}

func TestDelete(t *testing.T) {
	a := New(dialect.SQLServer(), nil)

	stmt, err := a.Delete(tableStudent, Query{Where: "id = ? or name = ?", Args: []any{int64(1), "Ann"}})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM student WHERE id = @P1 or name = @P2", stmt.SQL)

	stmt, err = a.Delete(tableStudent, Query{})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM student", stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestCount(t *testing.T) {
	grouped := Query{
		Join:    "left join clazz c on c.id = student.clazz_id and c.open = ?",
		Where:   "student.age > ?",
		GroupBy: "c.name",
		Having:  "count(*) > ?",
		Args:    []any{true, int64(10), int64(2)},
	}

	tests := []struct {
		name    string
		dialect dialect.Dialect
		query   Query
		want    string
	}{
		{
			name:    "plain",
			dialect: dialect.Postgres(),
			query:   Query{Where: "age > ?", Args: []any{int64(10)}},
			want:    "SELECT COUNT(*) FROM student WHERE age > $1",
		},
		{
			name:    "grouped_postgres",
			dialect: dialect.Postgres(),
			query:   grouped,
			want:    "SELECT COUNT(*) FROM (SELECT 1 FROM student left join clazz c on c.id = student.clazz_id and c.open = $1 WHERE student.age > $2 GROUP BY c.name HAVING count(*) > $3) sub",
		},
		{
			name:    "grouped_sqlserver",
			dialect: dialect.SQLServer(),
			query:   grouped,
			want:    "SELECT COUNT(*) FROM (SELECT 1 AS n FROM student left join clazz c on c.id = student.clazz_id and c.open = @P1 WHERE student.age > @P2 GROUP BY c.name HAVING count(*) > @P3) sub",
		},
		{
			name:    "having_without_group_is_ignored",
			dialect: dialect.MySQL(),
			query:   Query{Having: "count(*) > 1"},
			want:    "SELECT COUNT(*) FROM student",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := New(tt.dialect, nil).Count(tableStudent, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.SQL)
			assert.Len(t, stmt.Args, len(tt.query.Args))
		})
	}
}

func TestSelect(t *testing.T) {
	q := Query{Where: "age > ?", Args: []any{int64(10)}}

	tests := []struct {
		name    string
		dialect dialect.Dialect
		order   string
		page    *Page
		single  bool
		want    string
		args    []any
	}{
		{
			name:    "postgres_plain",
			dialect: dialect.Postgres(),
			want:    "SELECT id, full_name AS name FROM student WHERE age > $1",
			args:    []any{int64(10)},
		},
		{
			name:    "postgres_page",
			dialect: dialect.Postgres(),
			order:   "id desc",
			page:    &Page{Limit: 3, Offset: 1},
			want:    "SELECT id, full_name AS name FROM student WHERE age > $1 ORDER BY id desc LIMIT $2 OFFSET $3",
			args:    []any{int64(10), int64(3), int64(1)},
		},
		{
			name:    "mysql_single",
			dialect: dialect.MySQL(),
			single:  true,
			want:    "SELECT id, full_name AS name FROM student WHERE age > ? LIMIT ? OFFSET ?",
			args:    []any{int64(10), int64(1), int64(0)},
		},
		{
			name:    "oracle_page",
			dialect: dialect.Oracle(),
			order:   "id",
			page:    &Page{Limit: 3, Offset: 1},
			want:    "SELECT id, full_name AS name FROM student WHERE age > :1 ORDER BY id OFFSET :2 ROWS FETCH NEXT :3 ROWS ONLY",
			args:    []any{int64(10), int64(1), int64(3)},
		},
		{
			name:    "sqlserver_single",
			dialect: dialect.SQLServer(),
			order:   "id",
			single:  true,
			want:    "SELECT TOP 1 id, full_name AS name FROM student WHERE age > @P1 ORDER BY id",
			args:    []any{int64(10)},
		},
		{
			name:    "sqlserver_page",
			dialect: dialect.SQLServer(),
			order:   "id",
			page:    &Page{Limit: 3, Offset: 1},
			want:    "SELECT * FROM (SELECT id, full_name AS name, ROW_NUMBER() OVER (ORDER BY id) AS _num FROM student WHERE age > @P1) sub WHERE _num BETWEEN (1+@P2) AND (@P2+@P3)",
			args:    []any{int64(10), int64(1), int64(3)},
		},
		{
			name:    "sqlserver_page_unordered",
			dialect: dialect.SQLServer(),
			page:    &Page{Limit: 3, Offset: 1},
			want:    "SELECT * FROM (SELECT id, full_name AS name, ROW_NUMBER() OVER (ORDER BY (SELECT 1)) AS _num FROM student WHERE age > @P1) sub WHERE _num BETWEEN (1+@P2) AND (@P2+@P3)",
			args:    []any{int64(10), int64(1), int64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := New(tt.dialect, nil).Select(tableStudent, studentColumns, q, tt.order, tt.page, tt.single)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stmt.SQL)
			assert.Equal(t, tt.args, stmt.Args)
		})
	}
}

func TestSelectClauseOrder(t *testing.T) {
	q := Query{
		Join:    "join clazz c on c.id = s.clazz_id and c.year = ?",
		Where:   "s.age > ?",
		GroupBy: "s.id, s.full_name",
		Having:  "count(*) >= ?",
		Args:    []any{int64(2024), int64(10), int64(1)},
	}

	stmt, err := New(dialect.Postgres(), nil).Select("student s", studentColumns, q, "s.id", nil, false)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, full_name AS name FROM student s join clazz c on c.id = s.clazz_id and c.year = $1 WHERE s.age > $2 GROUP BY s.id, s.full_name HAVING count(*) >= $3 ORDER BY s.id",
		stmt.SQL)
	assert.Equal(t, []any{int64(2024), int64(10), int64(1)}, stmt.Args)
}

func TestSelectOrderIsNotRewritten(t *testing.T) {
	_, err := New(dialect.Postgres(), nil).Select(tableStudent, studentColumns, Query{}, "coalesce(name, '?')", nil, false)
	require.NoError(t, err)

	stmt, err := New(dialect.Postgres(), nil).Select(tableStudent, studentColumns, Query{}, "id ?", nil, false)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, full_name AS name FROM student ORDER BY id ?", stmt.SQL)
}

func TestOracleBindsBooleanAsNumber(t *testing.T) {
	stmt, err := New(dialect.Oracle(), nil).Delete(tableStudent, Query{Where: "active = ?", Args: []any{true}})
	require.NoError(t, err)
	assert.Equal(t, []any{1}, stmt.Args)
	assert.Equal(t, "[1]", stmt.DebugArgs())
}
