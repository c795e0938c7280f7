package e2e

import (
	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/query/builder"
)

func (s *Suite) TestInsertAndSelectOne() {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "users",
		Row:   ast.Row{"name": "Alice", "email": "alice@example.com", "age": 30},
	})
	require.NoError(s.T(), err)
	require.True(s.T(), res.Success)
	require.EqualValues(s.T(), 1, res.Meta.RowsWritten)

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "users",
		Where: ast.Cond("email = ?1", "alice@example.com"),
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), row)
	require.Equal(s.T(), "Alice", row["name"])
}

func (s *Suite) TestSelectOneNoMatch() {
	ctx, cancel := s.ctx()
	defer cancel()

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "users",
		Where: ast.Cond("email = ?1", "nobody@example.com"),
	})
	require.NoError(s.T(), err)
	require.Nil(s.T(), row)
}

func (s *Suite) TestBulkInsertAndOrderedSelect() {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "users",
		Rows: []ast.Row{
			{"name": "Bob", "email": "bob@example.com", "age": 40},
			{"name": "Carol", "email": "carol@example.com", "age": 25},
			{"name": "Dave", "email": "dave@example.com", "age": 35},
		},
	})
	require.NoError(s.T(), err)
	require.EqualValues(s.T(), 3, res.Meta.RowsWritten)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{
		Table:   "users",
		Fields:  ast.Columns("name", "age"),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "age", Direction: "ASC"}}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 3)
	require.Equal(s.T(), "Carol", rows[0]["name"])
	require.Equal(s.T(), "Dave", rows[1]["name"])
	require.Equal(s.T(), "Bob", rows[2]["name"])
}

func (s *Suite) TestUpdateWherePlaceholderOrder() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	// WHERE binds ?1, SET binds ?2 onward.
	res, err := s.client.Update(ctx, &ast.UpdateQuery{
		Table: "users",
		Data:  ast.Row{"age": 41},
		Where: ast.Cond("email = ?1", "bob@example.com"),
	})
	require.NoError(s.T(), err)
	require.True(s.T(), res.Success)

	row, err := s.client.SelectOne(ctx, &ast.SelectQuery{
		Table: "users",
		Where: ast.Cond("email = ?1", "bob@example.com"),
	})
	require.NoError(s.T(), err)
	require.EqualValues(s.T(), 41, row["age"])
}

func (s *Suite) TestDeleteWithConditions() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	res, err := s.client.Delete(ctx, &ast.DeleteQuery{
		Table: "users",
		Where: ast.Where{
			Conditions: []string{"age > ?1", "name != ?2"},
			Params:     []any{30, "Bob"},
		},
	})
	require.NoError(s.T(), err)
	require.True(s.T(), res.Success)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{Table: "users"})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)
}

func (s *Suite) TestInsertReturning() {
	if !s.supportsReturning() {
		s.T().Skip("backend has no RETURNING")
	}
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table:     "users",
		Row:       ast.Row{"name": "Eve", "email": "eve@example.com", "age": 28},
		Returning: ast.Columns("id", "name"),
	})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), res.Row)
	require.Equal(s.T(), "Eve", res.Row["name"])
	require.NotNil(s.T(), res.Row["id"])
}

func (s *Suite) TestBuilderRoundTrip() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	st, err := builder.Select("users").
		Fields("name").
		Where("age >= ?1", 35).
		OrderBy("name", "ASC").
		Compile()
	require.NoError(s.T(), err)

	res, err := s.client.Execute(ctx, st)
	require.NoError(s.T(), err)
	require.Len(s.T(), res.Rows, 2)
	require.Equal(s.T(), "Bob", res.Rows[0]["name"])
	require.Equal(s.T(), "Dave", res.Rows[1]["name"])
}

func (s *Suite) TestLazySelect() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	it, err := s.client.SelectLazy(ctx, &ast.SelectQuery{
		Table:   "users",
		Fields:  ast.Columns("name"),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "name", Direction: "ASC"}}},
		Lazy:    true,
	})
	require.NoError(s.T(), err)
	defer it.Close()

	var names []string
	for it.Next() {
		name, _ := it.Row()["name"].(string)
		names = append(names, name)
	}
	require.NoError(s.T(), it.Err())
	require.Equal(s.T(), []string{"Bob", "Carol", "Dave"}, names)
}

func (s *Suite) seedUsers() {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "users",
		Rows: []ast.Row{
			{"name": "Bob", "email": "bob@example.com", "age": 40},
			{"name": "Carol", "email": "carol@example.com", "age": 25},
			{"name": "Dave", "email": "dave@example.com", "age": 35},
		},
	})
	require.NoError(s.T(), err)
}
