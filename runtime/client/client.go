// Package client is the runtime entry point: it owns the database
// connection, compiles descriptors on demand and runs them through an
// executor.
package client

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/query/executor"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

// Client compiles descriptors and executes the resulting statements against
// one database.
type Client struct {
	db       *sql.DB
	provider string
	exec     *executor.Executor

	middlewares []Middleware
}

// Open opens a connection for the given provider ("sqlite", "postgres" or
// "mysql") and connection string. The connection is lazy; use Connect to
// verify it.
func Open(provider, connectionString string) (*Client, error) {
	driverName := driverFor(provider)
	if driverName == "" {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	db, err := sql.Open(driverName, connectionString)
	if err != nil {
		return nil, err
	}
	return FromDB(provider, db), nil
}

// FromDB wraps an existing connection pool. The caller keeps ownership of
// the pool; Disconnect still closes it.
func FromDB(provider string, db *sql.DB) *Client {
	return &Client{
		db:       db,
		provider: provider,
		exec:     executor.New(db, provider),
	}
}

// driverFor maps provider names to database/sql driver names.
func driverFor(provider string) string {
	switch provider {
	case "postgresql", "postgres", "pg":
		return "postgres"
	case "mysql":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect verifies the database connection.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Disconnect releases cached prepared statements and closes the connection.
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.exec.Close(); err != nil {
		debug.Warn("closing statement cache", "error", err)
	}
	return c.db.Close()
}

// DB returns the underlying connection pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Provider returns the provider name the client was opened with.
func (c *Client) Provider() string {
	return c.provider
}

// Compile compiles a descriptor without executing it.
func (c *Client) Compile(node ast.QueryNode) (*sqlgen.Statement, error) {
	return sqlgen.Compile(node)
}

// Run compiles a descriptor and executes the statement, materializing the
// result per the statement's fetch mode.
func (c *Client) Run(ctx context.Context, node ast.QueryNode) (*executor.Result, error) {
	st, err := sqlgen.Compile(node)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, st)
}

// Execute runs an already-compiled statement through the middleware chain.
func (c *Client) Execute(ctx context.Context, st *sqlgen.Statement) (*executor.Result, error) {
	var result *executor.Result
	err := c.dispatch(ctx, st, func() error {
		var execErr error
		result, execErr = c.exec.Execute(ctx, st)
		return execErr
	})
	return result, err
}

// Select compiles and runs a select, returning all matching rows.
func (c *Client) Select(ctx context.Context, q *ast.SelectQuery) ([]map[string]any, error) {
	res, err := c.Run(ctx, q)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// SelectOne compiles and runs a single-row select. The row is nil when
// nothing matched.
func (c *Client) SelectOne(ctx context.Context, q *ast.SelectQuery) (map[string]any, error) {
	one := *q
	one.One = true
	res, err := c.Run(ctx, &one)
	if err != nil {
		return nil, err
	}
	return res.Row, nil
}

// SelectLazy compiles and runs a select as a streaming cursor. The caller
// must Close the iterator. Middleware does not wrap lazy execution, since
// the query's duration is unknown until the cursor is drained.
func (c *Client) SelectLazy(ctx context.Context, q *ast.SelectQuery) (*executor.RowIterator, error) {
	st, err := sqlgen.CompileSelect(q)
	if err != nil {
		return nil, err
	}
	return c.exec.Lazy(ctx, st)
}

// Insert compiles and runs an insert.
func (c *Client) Insert(ctx context.Context, q *ast.InsertQuery) (*executor.Result, error) {
	return c.Run(ctx, q)
}

// Update compiles and runs an update.
func (c *Client) Update(ctx context.Context, q *ast.UpdateQuery) (*executor.Result, error) {
	return c.Run(ctx, q)
}

// Delete compiles and runs a delete.
func (c *Client) Delete(ctx context.Context, q *ast.DeleteQuery) (*executor.Result, error) {
	return c.Run(ctx, q)
}

// CreateTable compiles and runs a CREATE TABLE.
func (c *Client) CreateTable(ctx context.Context, q *ast.CreateTableQuery) (*executor.Result, error) {
	return c.Run(ctx, q)
}

// DropTable compiles and runs a DROP TABLE.
func (c *Client) DropTable(ctx context.Context, q *ast.DropTableQuery) (*executor.Result, error) {
	return c.Run(ctx, q)
}
