package e2e

import (
	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/migrate"
	"github.com/G4brym/workers-qb/query/ast"
)

func (s *Suite) TestMigrationsApplyOnce() {
	ctx, cancel := s.ctx()
	defer cancel()

	defer func() {
		_, _ = s.client.DropTable(ctx, &ast.DropTableQuery{Table: "notes", IfExists: true})
		_, _ = s.client.Delete(ctx, &ast.DeleteQuery{Table: migrate.HistoryTable, Where: ast.Cond("1 = 1")})
	}()

	migrations := []migrate.Migration{
		{Name: "0001_create_notes", SQL: "CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)"},
		{Name: "0002_add_note", SQL: "INSERT INTO notes (id, body) VALUES (1, 'hello')"},
	}

	engine := migrate.NewEngine(s.client)

	applied, err := engine.Apply(ctx, migrations)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"0001_create_notes", "0002_add_note"}, applied)

	// A second run finds nothing pending.
	applied, err = engine.Apply(ctx, migrations)
	require.NoError(s.T(), err)
	require.Empty(s.T(), applied)

	names, err := engine.Applied(ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"0001_create_notes", "0002_add_note"}, names)

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{Table: "notes", Where: ast.Cond("id = ?1", 1)})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "hello", row["body"])
}

func (s *Suite) TestMigrationFailureStopsRun() {
	ctx, cancel := s.ctx()
	defer cancel()

	defer func() {
		_, _ = s.client.DropTable(ctx, &ast.DropTableQuery{Table: "good", IfExists: true})
		_, _ = s.client.Delete(ctx, &ast.DeleteQuery{Table: migrate.HistoryTable, Where: ast.Cond("1 = 1")})
	}()

	migrations := []migrate.Migration{
		{Name: "0001_good", SQL: "CREATE TABLE good (id INTEGER PRIMARY KEY)"},
		{Name: "0002_bad", SQL: "CREATE BROKEN SYNTAX"},
	}

	engine := migrate.NewEngine(s.client)

	applied, err := engine.Apply(ctx, migrations)
	require.Error(s.T(), err)
	require.Equal(s.T(), []string{"0001_good"}, applied)

	// Only the successful migration is recorded.
	names, err := engine.Applied(ctx)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []string{"0001_good"}, names)
}
