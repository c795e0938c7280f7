// Package executor runs compiled statements against a database/sql backend,
// materializing results according to the statement's fetch mode.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

// Querier is the slice of database/sql that execution needs. Both *sql.DB
// and *sql.Tx satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Executor executes compiled statements for one backend. It keeps a
// prepared-statement cache keyed by SQL text; an executor built over a
// transaction should be discarded (Close) when the transaction ends, since
// its prepared statements die with it.
type Executor struct {
	q        Querier
	provider string

	cacheMu   sync.RWMutex
	stmtCache map[string]*sql.Stmt
}

// New creates an executor for the given provider ("sqlite", "postgres" or
// "mysql"; common aliases are accepted).
func New(q Querier, provider string) *Executor {
	return &Executor{
		q:         q,
		provider:  normalizeProvider(provider),
		stmtCache: make(map[string]*sql.Stmt),
	}
}

// Provider returns the canonical provider name.
func (e *Executor) Provider() string { return e.provider }

// Meta carries backend bookkeeping for one executed statement.
type Meta struct {
	Duration     time.Duration
	RowsRead     int
	RowsWritten  int64
	LastInsertID int64
}

// Result wraps one executed statement's outcome. Row is set for ONE
// fetches (nil when no row matched), Rows for ALL fetches.
type Result struct {
	Success bool
	Row     map[string]any
	Rows    []map[string]any
	Meta    Meta
}

// Execute runs a compiled statement and materializes the result per its
// fetch mode. Execution errors propagate unchanged from the driver.
func (e *Executor) Execute(ctx context.Context, st *sqlgen.Statement) (*Result, error) {
	query, args := Rebind(e.provider, st.Query, st.Args)
	debug.Debug("executing statement", "provider", e.provider, "query", query, "fetch", st.Fetch.String())

	start := time.Now()
	switch st.Fetch {
	case sqlgen.FetchNone:
		return e.exec(ctx, query, args, start)
	case sqlgen.FetchOne:
		return e.queryOne(ctx, query, args, start)
	default:
		return e.queryAll(ctx, query, args, start)
	}
}

func (e *Executor) exec(ctx context.Context, query string, args []any, start time.Time) (*Result, error) {
	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}

	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	meta := Meta{Duration: time.Since(start)}
	// Not every driver supports these; pq has no LastInsertId.
	if n, err := res.RowsAffected(); err == nil {
		meta.RowsWritten = n
	}
	if id, err := res.LastInsertId(); err == nil {
		meta.LastInsertID = id
	}
	return &Result{Success: true, Meta: meta}, nil
}

func (e *Executor) queryOne(ctx context.Context, query string, args []any, start time.Time) (*Result, error) {
	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &Result{Success: true}
	if rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		row, err := scanRowMap(rows, cols)
		if err != nil {
			return nil, err
		}
		result.Row = row
		result.Meta.RowsRead = 1
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.Meta.Duration = time.Since(start)
	return result, nil
}

func (e *Executor) queryAll(ctx context.Context, query string, args []any, start time.Time) (*Result, error) {
	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, Rows: []map[string]any{}}
	for rows.Next() {
		row, err := scanRowMap(rows, cols)
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.Meta.RowsRead = len(result.Rows)
	result.Meta.Duration = time.Since(start)
	return result, nil
}

// prepared returns a cached prepared statement for the query, preparing and
// caching it on first use.
func (e *Executor) prepared(ctx context.Context, query string) (*sql.Stmt, error) {
	e.cacheMu.RLock()
	stmt, ok := e.stmtCache[query]
	e.cacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	stmt, err := e.q.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", err)
	}

	e.cacheMu.Lock()
	if cached, ok := e.stmtCache[query]; ok {
		e.cacheMu.Unlock()
		stmt.Close()
		return cached, nil
	}
	e.stmtCache[query] = stmt
	e.cacheMu.Unlock()
	return stmt, nil
}

// Close releases every cached prepared statement.
func (e *Executor) Close() error {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	var firstErr error
	for _, stmt := range e.stmtCache {
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.stmtCache = make(map[string]*sql.Stmt)
	return firstErr
}

// scanRowMap scans the current row into a column-keyed map. Byte slices are
// converted to strings so sqlite TEXT columns read back naturally.
func scanRowMap(rows *sql.Rows, cols []string) (map[string]any, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		if b, ok := values[i].([]byte); ok {
			row[col] = string(b)
			continue
		}
		row[col] = values[i]
	}
	return row, nil
}
