package e2e

import (
	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/query/ast"
)

func (s *Suite) TestUpsertInsertsThenUpdates() {
	if !s.supportsUpsert() {
		s.T().Skip("backend has no ON CONFLICT DO UPDATE")
	}
	ctx, cancel := s.ctx()
	defer cancel()

	upsert := func(value string) {
		_, err := s.client.Insert(ctx, &ast.InsertQuery{
			Table: "settings",
			Row:   ast.Row{"k": "theme", "v": value},
			OnConflict: ast.Conflict{Upsert: &ast.ConflictUpsert{
				Columns: []string{"k"},
				Data:    ast.Row{"v": ast.NewRaw("excluded.v")},
			}},
		})
		require.NoError(s.T(), err)
	}

	upsert("light")
	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "settings",
		Where: ast.Cond("k = ?1", "theme"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "light", row["v"])

	upsert("dark")
	row, err = s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "settings",
		Where: ast.Cond("k = ?1", "theme"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "dark", row["v"])

	rows, err := s.client.Select(ctx, &ast.SelectQuery{Table: "settings"})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 1)
}

func (s *Suite) TestUpsertWithGuard() {
	if !s.supportsUpsert() {
		s.T().Skip("backend has no ON CONFLICT DO UPDATE")
	}
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "settings",
		Row:   ast.Row{"k": "retries", "v": "5"},
	})
	require.NoError(s.T(), err)

	// The guard only lets the update through when the stored value differs.
	_, err = s.client.Insert(ctx, &ast.InsertQuery{
		Table: "settings",
		Row:   ast.Row{"k": "retries", "v": "ignored"},
		OnConflict: ast.Conflict{Upsert: &ast.ConflictUpsert{
			Columns: []string{"k"},
			Data:    ast.Row{"v": "9"},
			Where:   ast.Cond("settings.v != ?1", "5"),
		}},
	})
	require.NoError(s.T(), err)

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "settings",
		Where: ast.Cond("k = ?1", "retries"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "5", row["v"])
}

func (s *Suite) TestConflictKeywords() {
	if !s.supportsConflictKeywords() {
		s.T().Skip("backend has no INSERT OR ... form")
	}
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "settings",
		Row:   ast.Row{"k": "lang", "v": "en"},
	})
	require.NoError(s.T(), err)

	// IGNORE keeps the existing row.
	_, err = s.client.Insert(ctx, &ast.InsertQuery{
		Table:      "settings",
		Row:        ast.Row{"k": "lang", "v": "fr"},
		OnConflict: ast.Conflict{Action: ast.ConflictIgnore},
	})
	require.NoError(s.T(), err)

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "settings",
		Where: ast.Cond("k = ?1", "lang"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "en", row["v"])

	// REPLACE swaps it.
	_, err = s.client.Insert(ctx, &ast.InsertQuery{
		Table:      "settings",
		Row:        ast.Row{"k": "lang", "v": "fr"},
		OnConflict: ast.Conflict{Action: ast.ConflictReplace},
	})
	require.NoError(s.T(), err)

	row, err = s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "settings",
		Where: ast.Cond("k = ?1", "lang"),
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "fr", row["v"])
}
