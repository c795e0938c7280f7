package sqlgen

import (
	"fmt"
	"strings"

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/ast"
)

// compileUpsert compiles an insert carrying a structured conflict clause
// into INSERT ... ON CONFLICT (cols) DO UPDATE SET ... [WHERE guard].
//
// Placeholder numbering follows the statement's own reference order rather
// than the order the caller supplied the sub-descriptors: with g guard
// values, u bound update values and r insert values, the guard WHERE keeps
// its authored ?1..?g, the DO UPDATE SET assignments take ?{g+1}..?{g+u},
// and the INSERT VALUES take ?{g+u+1} onward. The argument array is guard
// values, then update values, then insert values. A guard without explicit
// params is fully literal, like any other bare WHERE.
func compileUpsert(q *ast.InsertQuery, rows []ast.Row, fetch FetchType) (*Statement, error) {
	u := q.OnConflict.Upsert
	if len(u.Columns) == 0 {
		return nil, fmt.Errorf("upsert: %w", ErrConflictTarget)
	}
	if len(u.Data) == 0 {
		return nil, fmt.Errorf("upsert: %w", ErrNoData)
	}

	next := u.Where.ParamCount() + 1
	var updateArgs []any
	assignments := renderAssignments(u.Data, &next, &updateArgs)

	cols := sortedColumns(rows[0])
	var insertArgs []any
	tuples := make([]string, len(rows))
	for i, row := range rows {
		tuples[i] = renderTuple(cols, row, &next, &insertArgs)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(q.Table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(") VALUES ")
	sb.WriteString(strings.Join(tuples, ", "))
	sb.WriteString(" ON CONFLICT (")
	sb.WriteString(strings.Join(u.Columns, ", "))
	sb.WriteString(") DO UPDATE SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	sb.WriteString(renderWhere(u.Where))
	sb.WriteString(renderReturning(q.Returning))

	args := append([]any(nil), u.Where.Params...)
	args = append(args, updateArgs...)
	args = append(args, insertArgs...)

	st := &Statement{Query: sb.String(), Args: args, Fetch: fetch}
	debug.Debug("compiled upsert", "query", st.Query, "args", len(st.Args))
	return st, nil
}
