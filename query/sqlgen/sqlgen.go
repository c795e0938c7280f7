// Package sqlgen compiles descriptors into executable statements: SQL text
// with `?n` positional placeholders plus the bound arguments in the order the
// placeholders reference them.
//
// Compilation is a pure, single-pass transform with no shared state, so it is
// safe to call concurrently. Backend-specific placeholder syntax ($n for
// postgres, bare ? for mysql) is handled by the executor's rebind step, not
// here.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/ast"
)

// FetchType tells the executor how many result rows to materialize.
type FetchType int

const (
	// FetchNone runs the statement without reading rows back.
	FetchNone FetchType = iota
	// FetchOne materializes a single row, or none.
	FetchOne
	// FetchAll materializes the full row set.
	FetchAll
)

// String returns the fetch mode name.
func (f FetchType) String() string {
	switch f {
	case FetchOne:
		return "ONE"
	case FetchAll:
		return "ALL"
	default:
		return "NONE"
	}
}

// Statement is the compiled envelope handed to an executor. Args holds bound
// values only; Raw-spliced text never appears in it.
type Statement struct {
	Query string
	Args  []any
	Fetch FetchType
}

// Compile dispatches a descriptor to the matching compiler.
func Compile(node ast.QueryNode) (*Statement, error) {
	switch q := node.(type) {
	case *ast.SelectQuery:
		return CompileSelect(q)
	case *ast.InsertQuery:
		return CompileInsert(q)
	case *ast.UpdateQuery:
		return CompileUpdate(q)
	case *ast.DeleteQuery:
		return CompileDelete(q)
	case *ast.CreateTableQuery:
		return CompileCreateTable(q)
	case *ast.DropTableQuery:
		return CompileDropTable(q)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, node)
	}
}

// CompileSelect compiles a SELECT statement. The arguments are exactly the
// WHERE clause's bound values, in the order they appear in the WHERE text.
// When the descriptor's One flag is set the limit is forced to 1 and the
// fetch mode is ONE.
func CompileSelect(q *ast.SelectQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("select: %w", ErrNoTable)
	}

	joins, err := renderJoins(q.Joins)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	limit := q.Limit
	fetch := FetchAll
	if q.One {
		limit = 1
		fetch = FetchOne
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(renderFields(q.Fields))
	sb.WriteString(" FROM ")
	sb.WriteString(q.Table)
	sb.WriteString(joins)
	sb.WriteString(renderWhere(q.Where))
	sb.WriteString(renderGroupBy(q.GroupBy))
	sb.WriteString(renderHaving(q.Having))
	sb.WriteString(renderOrderBy(q.OrderBy))
	sb.WriteString(renderLimit(limit))
	sb.WriteString(renderOffset(q.Offset))

	st := &Statement{
		Query: sb.String(),
		Args:  append([]any(nil), q.Where.Params...),
		Fetch: fetch,
	}
	debug.Debug("compiled select", "query", st.Query, "args", len(st.Args))
	return st, nil
}

// CompileInsert compiles an INSERT statement. A single row fetches ONE, a
// batch fetches ALL; batch rows share the first row's column list and
// placeholder numbering continues monotonically across rows. Raw values are
// spliced inline and consume no placeholder. A structured upsert replaces
// the conflict-keyword path entirely.
func CompileInsert(q *ast.InsertQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("insert: %w", ErrNoTable)
	}

	var (
		rows  []ast.Row
		fetch FetchType
	)
	switch {
	case q.Row != nil:
		if len(q.Row) == 0 {
			return nil, fmt.Errorf("insert: %w", ErrNoData)
		}
		rows = []ast.Row{q.Row}
		fetch = FetchOne
	case len(q.Rows) > 0:
		if len(q.Rows[0]) == 0 {
			return nil, fmt.Errorf("insert: %w", ErrNoData)
		}
		rows = q.Rows
		fetch = FetchAll
	default:
		return nil, fmt.Errorf("insert: %w", ErrNoData)
	}

	if q.OnConflict.Upsert != nil {
		return compileUpsert(q, rows, fetch)
	}

	cols := sortedColumns(rows[0])

	verb := "INSERT INTO "
	if q.OnConflict.Action != "" {
		verb = "INSERT OR " + strings.ToUpper(string(q.OnConflict.Action)) + " INTO "
	}

	var args []any
	next := 1
	tuples := make([]string, len(rows))
	for i, row := range rows {
		tuples[i] = renderTuple(cols, row, &next, &args)
	}

	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteString(q.Table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")
	sb.WriteString(strings.Join(tuples, ", "))
	sb.WriteString(renderReturning(q.Returning))

	st := &Statement{Query: sb.String(), Args: args, Fetch: fetch}
	debug.Debug("compiled insert", "query", st.Query, "args", len(st.Args))
	return st, nil
}

// CompileUpdate compiles an UPDATE statement. The WHERE clause's values
// occupy the lowest-numbered placeholders, exactly as authored, and the SET
// assignments are numbered after them: with w WHERE values the SET
// placeholders are ?{w+1} onward, and the argument array is WHERE values
// followed by SET values. Raw-valued SET entries splice inline.
func CompileUpdate(q *ast.UpdateQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("update: %w", ErrNoTable)
	}
	if len(q.Data) == 0 {
		return nil, fmt.Errorf("update: %w", ErrNoData)
	}

	verb := "UPDATE "
	if q.OnConflict != "" {
		verb = "UPDATE OR " + strings.ToUpper(string(q.OnConflict)) + " "
	}

	next := q.Where.ParamCount() + 1
	var setArgs []any
	assignments := renderAssignments(q.Data, &next, &setArgs)

	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteString(q.Table)
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(renderWhere(q.Where))
	sb.WriteString(renderReturning(q.Returning))

	args := append([]any(nil), q.Where.Params...)
	args = append(args, setArgs...)

	st := &Statement{Query: sb.String(), Args: args, Fetch: FetchAll}
	debug.Debug("compiled update", "query", st.Query, "args", len(st.Args))
	return st, nil
}

// CompileDelete compiles a DELETE statement. The arguments are the WHERE
// clause's values. A missing WHERE is accepted but logged: deleting a whole
// table through a descriptor is nearly always a bug at the call site.
func CompileDelete(q *ast.DeleteQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("delete: %w", ErrNoTable)
	}
	if q.Where.IsZero() {
		debug.Warn("delete compiled without a WHERE clause", "table", q.Table)
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(q.Table)
	sb.WriteString(renderWhere(q.Where))
	sb.WriteString(renderReturning(q.Returning))
	sb.WriteString(renderOrderBy(q.OrderBy))
	sb.WriteString(renderLimit(q.Limit))
	sb.WriteString(renderOffset(q.Offset))

	st := &Statement{
		Query: sb.String(),
		Args:  append([]any(nil), q.Where.Params...),
		Fetch: FetchAll,
	}
	debug.Debug("compiled delete", "query", st.Query, "args", len(st.Args))
	return st, nil
}

// CompileCreateTable compiles a CREATE TABLE statement. The schema text is
// spliced between the parentheses unvalidated; there are no bound arguments.
func CompileCreateTable(q *ast.CreateTableQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("create table: %w", ErrNoTable)
	}
	if q.Schema == "" {
		return nil, fmt.Errorf("create table: %w", ErrNoSchema)
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if q.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(q.Table)
	sb.WriteString(" (")
	sb.WriteString(q.Schema)
	sb.WriteString(")")

	return &Statement{Query: sb.String(), Fetch: FetchNone}, nil
}

// CompileDropTable compiles a DROP TABLE statement.
func CompileDropTable(q *ast.DropTableQuery) (*Statement, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("drop table: %w", ErrNoTable)
	}

	var sb strings.Builder
	sb.WriteString("DROP TABLE ")
	if q.IfExists {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(q.Table)

	return &Statement{Query: sb.String(), Fetch: FetchNone}, nil
}
