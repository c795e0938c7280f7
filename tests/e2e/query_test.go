package e2e

import (
	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/query/ast"
)

func (s *Suite) TestGroupByHaving() {
	ctx, cancel := s.ctx()
	defer cancel()

	_, err := s.client.Insert(ctx, &ast.InsertQuery{
		Table: "users",
		Rows: []ast.Row{
			{"name": "A", "email": "a@example.com", "age": 20},
			{"name": "B", "email": "b@example.com", "age": 20},
			{"name": "C", "email": "c@example.com", "age": 30},
			{"name": "D", "email": "d@example.com", "age": 30},
			{"name": "E", "email": "e@example.com", "age": 40},
		},
	})
	require.NoError(s.T(), err)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{
		Table:   "users",
		Fields:  ast.ColumnList{Expr: "age, COUNT(*) AS n"},
		GroupBy: ast.Columns("age"),
		Having:  ast.Conditions{Expr: "COUNT(*) > 1"},
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "age", Direction: "ASC"}}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)
	require.EqualValues(s.T(), 20, rows[0]["age"])
	require.EqualValues(s.T(), 30, rows[1]["age"])
}

func (s *Suite) TestSubqueryJoin() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	// Subquery conditions must be literal; their args are not carried into
	// the outer statement.
	rows, err := s.client.Select(ctx, &ast.SelectQuery{
		Table:  "users",
		Fields: ast.ColumnList{Expr: "users.name, older.n"},
		Joins: []ast.Join{{
			Sub: &ast.SelectQuery{
				Table:  "users",
				Fields: ast.ColumnList{Expr: "COUNT(*) AS n"},
				Where:  ast.Cond("age >= 35"),
			},
			Alias: "older",
			On:    "1 = 1",
		}},
		Where:   ast.Cond("users.age >= ?1", 35),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "users.name", Direction: "ASC"}}},
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)
	require.Equal(s.T(), "Bob", rows[0]["name"])
	require.EqualValues(s.T(), 2, rows[0]["n"])
}

func (s *Suite) TestLimitOffsetPagination() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	page, err := s.client.Select(ctx, &ast.SelectQuery{
		Table:   "users",
		Fields:  ast.Columns("name"),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "name", Direction: "ASC"}}},
		Limit:   2,
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), page, 2)
	require.Equal(s.T(), "Bob", page[0]["name"])

	next, err := s.client.Select(ctx, &ast.SelectQuery{
		Table:   "users",
		Fields:  ast.Columns("name"),
		OrderBy: ast.OrderBy{Pairs: []ast.OrderPair{{Column: "name", Direction: "ASC"}}},
		Limit:   2,
		Offset:  2,
	})
	require.NoError(s.T(), err)
	require.Len(s.T(), next, 1)
	require.Equal(s.T(), "Dave", next[0]["name"])
}

func (s *Suite) TestDescriptorJSONRoundTrip() {
	ctx, cancel := s.ctx()
	defer cancel()

	s.seedUsers()

	node, err := ast.DecodeQuery([]byte(`{
		"kind": "selectOne",
		"tableName": "users",
		"fields": ["name", "age"],
		"where": {"conditions": "email = ?1", "params": ["carol@example.com"]}
	}`))
	require.NoError(s.T(), err)

	res, err := s.client.Run(ctx, node)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), res.Row)
	require.Equal(s.T(), "Carol", res.Row["name"])
}
