package e2e

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/G4brym/workers-qb/query/ast"
	"github.com/G4brym/workers-qb/runtime/client"
)

// Middleware tests use their own client so hooks added here never leak into
// the shared suite client.
func (s *Suite) middlewareClient() *client.Client {
	url := s.url
	if s.provider == "sqlite" {
		url = filepath.Join(s.T().TempDir(), "mw.db")
	}
	c, err := client.Open(s.provider, url)
	require.NoError(s.T(), err)
	return c
}

func (s *Suite) TestMiddlewareObservesExecution() {
	ctx, cancel := s.ctx()
	defer cancel()

	c := s.middlewareClient()
	defer c.Disconnect(ctx)

	var queries []string
	var durations []time.Duration

	c.Use(func(ctx context.Context, event *client.QueryEvent, next func() error) error {
		queries = append(queries, event.Query)
		err := next()
		durations = append(durations, event.Duration)
		return err
	})
	c.Use(client.TimingMiddleware(nil))

	_, err := c.CreateTable(ctx, &ast.CreateTableQuery{
		Table:       "mw",
		Schema:      "id INTEGER PRIMARY KEY, v TEXT",
		IfNotExists: true,
	})
	require.NoError(s.T(), err)
	defer c.DropTable(ctx, &ast.DropTableQuery{Table: "mw", IfExists: true})

	_, err = c.Insert(ctx, &ast.InsertQuery{Table: "mw", Row: ast.Row{"id": 1, "v": "x"}})
	require.NoError(s.T(), err)

	require.Len(s.T(), queries, 2)
	require.Contains(s.T(), queries[1], "INSERT INTO mw")
	require.Len(s.T(), durations, 2)
	for _, d := range durations {
		require.GreaterOrEqual(s.T(), d, time.Duration(0))
	}
}

func (s *Suite) TestMiddlewareCanBlockExecution() {
	ctx, cancel := s.ctx()
	defer cancel()

	c := s.middlewareClient()
	defer c.Disconnect(ctx)

	blocked := errors.New("writes are blocked")
	c.Use(func(ctx context.Context, event *client.QueryEvent, next func() error) error {
		return blocked
	})

	_, err := c.CreateTable(ctx, &ast.CreateTableQuery{
		Table:  "never_created",
		Schema: "id INTEGER",
	})
	require.ErrorIs(s.T(), err, blocked)
}

func (s *Suite) TestErrorMiddlewareReportsFailures() {
	ctx, cancel := s.ctx()
	defer cancel()

	c := s.middlewareClient()
	defer c.Disconnect(ctx)

	var failed []string
	c.Use(client.ErrorMiddleware(func(query string, err error) {
		failed = append(failed, query)
	}))

	_, err := c.Execute(ctx, mustCompile(s, &ast.SelectQuery{Table: "no_such_table"}))
	require.Error(s.T(), err)
	require.Len(s.T(), failed, 1)
	require.Contains(s.T(), failed[0], "no_such_table")
}
