package e2e

import (
	"errors"

	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/runtime/client"
)

func (s *Suite) TestTransactionCommit() {
	ctx, cancel := s.ctx()
	defer cancel()

	err := s.client.Transaction(ctx, func(tx *client.Tx) error {
		for _, row := range []ast.Row{
			{"name": "Tina", "email": "tina@example.com", "age": 31},
			{"name": "Tom", "email": "tom@example.com", "age": 32},
		} {
			if _, err := tx.Run(ctx, &ast.InsertQuery{Table: "users", Row: row}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(s.T(), err)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{Table: "users"})
	require.NoError(s.T(), err)
	require.Len(s.T(), rows, 2)
}

func (s *Suite) TestTransactionRollback() {
	ctx, cancel := s.ctx()
	defer cancel()

	boom := errors.New("boom")
	err := s.client.Transaction(ctx, func(tx *client.Tx) error {
		if _, err := tx.Run(ctx, &ast.InsertQuery{
			Table: "users",
			Row:   ast.Row{"name": "Ghost", "email": "ghost@example.com", "age": 99},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(s.T(), err, boom)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{Table: "users"})
	require.NoError(s.T(), err)
	require.Empty(s.T(), rows)
}

func (s *Suite) TestTransactionRollsBackOnConstraintViolation() {
	ctx, cancel := s.ctx()
	defer cancel()

	err := s.client.Transaction(ctx, func(tx *client.Tx) error {
		if _, err := tx.Run(ctx, &ast.InsertQuery{
			Table: "users",
			Row:   ast.Row{"name": "First", "email": "dup@example.com", "age": 1},
		}); err != nil {
			return err
		}
		// Duplicate email violates the unique constraint.
		_, err := tx.Run(ctx, &ast.InsertQuery{
			Table: "users",
			Row:   ast.Row{"name": "Second", "email": "dup@example.com", "age": 2},
		})
		return err
	})
	require.Error(s.T(), err)

	rows, err := s.client.Select(ctx, &ast.SelectQuery{Table: "users"})
	require.NoError(s.T(), err)
	require.Empty(s.T(), rows)
}
