package client

import (
	"context"
	"time"

	"github.com/G4brym/workers-qb/internal/debug"
	"github.com/G4brym/workers-qb/query/sqlgen"
)

// QueryEvent describes one statement execution as seen by middleware. End,
// Duration and Error are populated once the inner execution returns.
type QueryEvent struct {
	Query    string
	Args     []any
	Fetch    sqlgen.FetchType
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware intercepts statement execution. Call next to run the rest of
// the chain; skipping it skips the query.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// Use appends a middleware to the client's chain. Middlewares run in the
// order they were added.
func (c *Client) Use(middleware Middleware) {
	c.middlewares = append(c.middlewares, middleware)
}

// dispatch runs exec through the middleware chain, filling in the event's
// timing and error fields around the innermost call.
func (c *Client) dispatch(ctx context.Context, st *sqlgen.Statement, exec func() error) error {
	if len(c.middlewares) == 0 {
		return exec()
	}

	event := &QueryEvent{
		Query: st.Query,
		Args:  st.Args,
		Fetch: st.Fetch,
		Start: time.Now(),
	}

	var next func() error
	index := 0

	next = func() error {
		if index >= len(c.middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		middleware := c.middlewares[index]
		index++
		return middleware(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement through the debug logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		debug.Debug("executing", "query", event.Query, "args", event.Args)
		err := next()
		if err != nil {
			debug.Error("query failed", "query", event.Query, "error", err)
		} else {
			debug.Debug("query completed", "duration", event.Duration)
		}
		return err
	}
}

// TimingMiddleware reports each statement's execution time.
func TimingMiddleware(onTiming func(query string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Query, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware reports failed statements.
func ErrorMiddleware(onError func(query string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.Query, err)
		}
		return err
	}
}
