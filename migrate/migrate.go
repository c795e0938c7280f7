// Package migrate applies ordered SQL migrations, tracking what has run in
// a bookkeeping table managed through compiled statements.
package migrate

import (
	"context"
	"fmt"
	"sort"

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/runtime/client"
)

// HistoryTable is where applied migration names are recorded.
const HistoryTable = "migrations"

// Migration is one named migration. Names must be unique; migrations are
// applied in ascending name order, so a sortable prefix (0001_, 0002_) is
// the usual convention.
type Migration struct {
	Name string
	SQL  string
}

// Engine applies migrations through a client.
type Engine struct {
	client *client.Client
}

// NewEngine creates a migration engine over an open client.
func NewEngine(c *client.Client) *Engine {
	return &Engine{client: c}
}

// ensureHistory creates the bookkeeping table when it does not exist yet.
func (e *Engine) ensureHistory(ctx context.Context) error {
	_, err := e.client.CreateTable(ctx, &ast.CreateTableQuery{
		Table:       HistoryTable,
		Schema:      "name VARCHAR(255) PRIMARY KEY, applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP",
		IfNotExists: true,
	})
	if err != nil {
		return fmt.Errorf("create %s table: %w", HistoryTable, err)
	}
	return nil
}

// Applied returns the names of migrations already recorded, in name order.
func (e *Engine) Applied(ctx context.Context) ([]string, error) {
	if err := e.ensureHistory(ctx); err != nil {
		return nil, err
	}

	rows, err := e.client.Select(ctx, &ast.SelectQuery{
		Table:   HistoryTable,
		Fields:  ast.Columns("name"),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "name", Direction: "ASC"}}},
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		name, _ := row["name"].(string)
		names = append(names, name)
	}
	return names, nil
}

// Pending returns the migrations not yet applied, in ascending name order.
func (e *Engine) Pending(ctx context.Context, migrations []Migration) ([]Migration, error) {
	applied, err := e.Applied(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(applied))
	for _, name := range applied {
		seen[name] = true
	}

	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if !seen[m.Name] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name < pending[j].Name })
	return pending, nil
}

// Apply runs every pending migration, each inside its own transaction, and
// returns the names it applied. A failing migration stops the run; earlier
// migrations stay applied.
func (e *Engine) Apply(ctx context.Context, migrations []Migration) ([]string, error) {
	pending, err := e.Pending(ctx, migrations)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, m := range pending {
		debug.Info("applying migration", "name", m.Name)
		err := e.client.Transaction(ctx, func(tx *client.Tx) error {
			if _, err := tx.SQLTx().ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("migration %s: %w", m.Name, err)
			}
			_, err := tx.Run(ctx, &ast.InsertQuery{
				Table: HistoryTable,
				Row: ast.Row{
					"name":       m.Name,
					"applied_at": ast.NewRaw("CURRENT_TIMESTAMP"),
				},
			})
			return err
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}
