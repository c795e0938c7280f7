package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/query/executor"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

// Tx runs compiled statements inside one database transaction. Its prepared
// statements are scoped to the transaction and released when it ends.
type Tx struct {
	tx   *sql.Tx
	exec *executor.Executor
}

// TransactionFunc is the body of a transaction.
type TransactionFunc func(tx *Tx) error

// Transaction runs fn inside a transaction, committing on nil and rolling
// back on error or panic.
func (c *Client) Transaction(ctx context.Context, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithOptions is Transaction with explicit sql.TxOptions, for
// read-only transactions or a specific isolation level.
func (c *Client) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn TransactionFunc) error {
	sqlTx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tx := &Tx{
		tx:   sqlTx,
		exec: executor.New(sqlTx, c.provider),
	}
	defer tx.exec.Close()

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run compiles a descriptor and executes it inside the transaction.
func (tx *Tx) Run(ctx context.Context, node ast.QueryNode) (*executor.Result, error) {
	st, err := sqlgen.Compile(node)
	if err != nil {
		return nil, err
	}
	return tx.exec.Execute(ctx, st)
}

// Execute runs an already-compiled statement inside the transaction.
func (tx *Tx) Execute(ctx context.Context, st *sqlgen.Statement) (*executor.Result, error) {
	return tx.exec.Execute(ctx, st)
}

// SQLTx returns the underlying sql.Tx for raw access.
func (tx *Tx) SQLTx() *sql.Tx {
	return tx.tx
}
