// Package builder provides a fluent API for assembling descriptors and
// compiling them in one chain.
package builder

import (
	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

// SelectBuilder builds select descriptors.
type SelectBuilder struct {
	q ast.SelectQuery
}

// Select starts a select over the given table.
func Select(table string) *SelectBuilder {
	return &SelectBuilder{q: ast.SelectQuery{Table: table}}
}

// Fields sets the selected columns; unset selects *.
func (b *SelectBuilder) Fields(cols ...string) *SelectBuilder {
	b.q.Fields = ast.Columns(cols...)
	return b
}

// FieldsExpr sets a verbatim field expression.
func (b *SelectBuilder) FieldsExpr(expr string) *SelectBuilder {
	b.q.Fields = ast.ColumnList{Expr: expr}
	return b
}

// Where sets the filter conditions and their bound values. Placeholders in
// the condition text are authored starting at ?1.
func (b *SelectBuilder) Where(condition string, params ...any) *SelectBuilder {
	b.q.Where = ast.Cond(condition, params...)
	return b
}

// WhereAll sets a list of conditions joined with AND, sharing one parameter
// list.
func (b *SelectBuilder) WhereAll(conditions []string, params ...any) *SelectBuilder {
	b.q.Where = ast.Where{Conditions: conditions, Params: params}
	return b
}

// Join appends a plain join.
func (b *SelectBuilder) Join(table, on string) *SelectBuilder {
	b.q.Joins = append(b.q.Joins, ast.Join{Table: table, On: on})
	return b
}

// LeftJoin appends a LEFT JOIN.
func (b *SelectBuilder) LeftJoin(table, on string) *SelectBuilder {
	b.q.Joins = append(b.q.Joins, ast.Join{Type: "LEFT", Table: table, On: on})
	return b
}

// JoinSub appends a join whose target is a subquery, compiled recursively
// and aliased.
func (b *SelectBuilder) JoinSub(sub *SelectBuilder, alias, on string) *SelectBuilder {
	q := sub.Build()
	b.q.Joins = append(b.q.Joins, ast.Join{Sub: q, Alias: alias, On: on})
	return b
}

// GroupBy sets the grouping columns.
func (b *SelectBuilder) GroupBy(cols ...string) *SelectBuilder {
	b.q.GroupBy = ast.Columns(cols...)
	return b
}

// Having sets the having conditions (AND-joined, no bound values).
func (b *SelectBuilder) Having(conditions ...string) *SelectBuilder {
	b.q.Having = ast.Conditions{List: conditions}
	return b
}

// OrderBy appends one ordering column with an explicit direction.
func (b *SelectBuilder) OrderBy(column, direction string) *SelectBuilder {
	b.q.OrderBy.Pairs = append(b.q.OrderBy.Pairs, ast.OrderPair{Column: column, Direction: direction})
	return b
}

// OrderByRaw sets a verbatim ORDER BY expression.
func (b *SelectBuilder) OrderByRaw(expr string) *SelectBuilder {
	b.q.OrderBy = ast.OrderBy{Expr: expr}
	return b
}

// Limit sets the limit; 0 renders nothing.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.q.Limit = n
	return b
}

// Offset sets the offset; 0 renders nothing.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.q.Offset = n
	return b
}

// One marks the query single-row: LIMIT 1 and fetch mode ONE.
func (b *SelectBuilder) One() *SelectBuilder {
	b.q.One = true
	return b
}

// Lazy marks the query for streaming execution.
func (b *SelectBuilder) Lazy() *SelectBuilder {
	b.q.Lazy = true
	return b
}

// Build returns the assembled descriptor.
func (b *SelectBuilder) Build() *ast.SelectQuery {
	q := b.q
	return &q
}

// Compile builds and compiles the descriptor.
func (b *SelectBuilder) Compile() (*sqlgen.Statement, error) {
	return sqlgen.CompileSelect(b.Build())
}

// InsertBuilder builds insert descriptors.
type InsertBuilder struct {
	q ast.InsertQuery
}

// Insert starts an insert into the given table.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{q: ast.InsertQuery{Table: table}}
}

// Row sets a single row; the compiled statement fetches one result row.
func (b *InsertBuilder) Row(row ast.Row) *InsertBuilder {
	b.q.Row = row
	b.q.Rows = nil
	return b
}

// Rows sets a batch of rows sharing the first row's column list.
func (b *InsertBuilder) Rows(rows ...ast.Row) *InsertBuilder {
	b.q.Rows = rows
	b.q.Row = nil
	return b
}

// Returning sets the RETURNING columns.
func (b *InsertBuilder) Returning(cols ...string) *InsertBuilder {
	b.q.Returning = ast.Columns(cols...)
	return b
}

// OnConflict sets a simple conflict keyword (INSERT OR <action> INTO).
func (b *InsertBuilder) OnConflict(action ast.ConflictAction) *InsertBuilder {
	b.q.OnConflict = ast.Conflict{Action: action}
	return b
}

// Upsert turns the insert into INSERT ... ON CONFLICT (columns) DO UPDATE
// SET data. Use UpsertWhere for a conditional guard.
func (b *InsertBuilder) Upsert(columns []string, data ast.Row) *InsertBuilder {
	b.q.OnConflict = ast.Conflict{Upsert: &ast.ConflictUpsert{Columns: columns, Data: data}}
	return b
}

// UpsertWhere is Upsert with a guard WHERE on the DO UPDATE branch.
func (b *InsertBuilder) UpsertWhere(columns []string, data ast.Row, guard ast.Where) *InsertBuilder {
	b.q.OnConflict = ast.Conflict{Upsert: &ast.ConflictUpsert{Columns: columns, Data: data, Where: guard}}
	return b
}

// Build returns the assembled descriptor.
func (b *InsertBuilder) Build() *ast.InsertQuery {
	q := b.q
	return &q
}

// Compile builds and compiles the descriptor.
func (b *InsertBuilder) Compile() (*sqlgen.Statement, error) {
	return sqlgen.CompileInsert(b.Build())
}

// UpdateBuilder builds update descriptors.
type UpdateBuilder struct {
	q ast.UpdateQuery
}

// Update starts an update of the given table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{q: ast.UpdateQuery{Table: table}}
}

// Set merges the given assignments into the update's data map.
func (b *UpdateBuilder) Set(data ast.Row) *UpdateBuilder {
	if b.q.Data == nil {
		b.q.Data = ast.Row{}
	}
	for col, v := range data {
		b.q.Data[col] = v
	}
	return b
}

// Where sets the filter; its values occupy the lowest-numbered placeholders.
func (b *UpdateBuilder) Where(condition string, params ...any) *UpdateBuilder {
	b.q.Where = ast.Cond(condition, params...)
	return b
}

// Returning sets the RETURNING columns.
func (b *UpdateBuilder) Returning(cols ...string) *UpdateBuilder {
	b.q.Returning = ast.Columns(cols...)
	return b
}

// OnConflict sets a conflict keyword (UPDATE OR <action>).
func (b *UpdateBuilder) OnConflict(action ast.ConflictAction) *UpdateBuilder {
	b.q.OnConflict = action
	return b
}

// Build returns the assembled descriptor.
func (b *UpdateBuilder) Build() *ast.UpdateQuery {
	q := b.q
	return &q
}

// Compile builds and compiles the descriptor.
func (b *UpdateBuilder) Compile() (*sqlgen.Statement, error) {
	return sqlgen.CompileUpdate(b.Build())
}

// DeleteBuilder builds delete descriptors.
type DeleteBuilder struct {
	q ast.DeleteQuery
}

// Delete starts a delete from the given table.
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{q: ast.DeleteQuery{Table: table}}
}

// Where sets the filter conditions and their bound values.
func (b *DeleteBuilder) Where(condition string, params ...any) *DeleteBuilder {
	b.q.Where = ast.Cond(condition, params...)
	return b
}

// WhereAll sets a list of conditions joined with AND, sharing one parameter
// list.
func (b *DeleteBuilder) WhereAll(conditions []string, params ...any) *DeleteBuilder {
	b.q.Where = ast.Where{Conditions: conditions, Params: params}
	return b
}

// Returning sets the RETURNING columns.
func (b *DeleteBuilder) Returning(cols ...string) *DeleteBuilder {
	b.q.Returning = ast.Columns(cols...)
	return b
}

// OrderBy appends one ordering column with an explicit direction.
func (b *DeleteBuilder) OrderBy(column, direction string) *DeleteBuilder {
	b.q.OrderBy.Pairs = append(b.q.OrderBy.Pairs, ast.OrderPair{Column: column, Direction: direction})
	return b
}

// Limit sets the limit; 0 renders nothing.
func (b *DeleteBuilder) Limit(n int) *DeleteBuilder {
	b.q.Limit = n
	return b
}

// Offset sets the offset; 0 renders nothing.
func (b *DeleteBuilder) Offset(n int) *DeleteBuilder {
	b.q.Offset = n
	return b
}

// Build returns the assembled descriptor.
func (b *DeleteBuilder) Build() *ast.DeleteQuery {
	q := b.q
	return &q
}

// Compile builds and compiles the descriptor.
func (b *DeleteBuilder) Compile() (*sqlgen.Statement, error) {
	return sqlgen.CompileDelete(b.Build())
}

// CreateTable compiles a CREATE TABLE statement for the given raw schema.
func CreateTable(table, schema string, ifNotExists bool) (*sqlgen.Statement, error) {
	return sqlgen.CompileCreateTable(&ast.CreateTableQuery{Table: table, Schema: schema, IfNotExists: ifNotExists})
}

// DropTable compiles a DROP TABLE statement.
func DropTable(table string, ifExists bool) (*sqlgen.Statement, error) {
	return sqlgen.CompileDropTable(&ast.DropTableQuery{Table: table, IfExists: ifExists})
}
