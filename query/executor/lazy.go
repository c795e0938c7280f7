package executor

import (
	"context"
	"database/sql"

	"github.com/G4brym/workers-qb/query/sqlgen"
)

// RowIterator yields rows one at a time, backed by a live cursor. The caller
// must drain it or Close it; abandoning the iterator leaks the cursor until
// garbage collection.
//
//	it, err := exec.Lazy(ctx, st)
//	...
//	defer it.Close()
//	for it.Next() {
//	    row := it.Row()
//	}
//	err = it.Err()
type RowIterator struct {
	rows *sql.Rows
	cols []string
	row  map[string]any
	err  error
}

// Lazy runs a compiled statement and returns an iterator instead of
// buffering the result, for SELECTs whose descriptor carries the lazy flag.
func (e *Executor) Lazy(ctx context.Context, st *sqlgen.Statement) (*RowIterator, error) {
	query, args := Rebind(e.provider, st.Query, st.Args)

	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &RowIterator{rows: rows, cols: cols}, nil
}

// Next advances to the next row, reporting false at the end of the result
// or on error.
func (it *RowIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		if it.err == nil {
			it.err = it.rows.Err()
		}
		return false
	}
	it.row, it.err = scanRowMap(it.rows, it.cols)
	return it.err == nil
}

// Row returns the row produced by the last successful Next.
func (it *RowIterator) Row() map[string]any { return it.row }

// Err returns the first error encountered while iterating.
func (it *RowIterator) Err() error { return it.err }

// Close releases the underlying cursor.
func (it *RowIterator) Close() error { return it.rows.Close() }
