// Package fetch runs dashboard statements and turns every failure into a
// value the caller can render.
package fetch

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/sells-group/client-dashboard/internal/db"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

// Result holds either the materialized rows of a statement or the reason it
// failed. Rows is empty, never nil, when Failure is set.
type Result[T any] struct {
	Rows    []T
	Failure *Failure
}

// OK reports whether the statement ran to completion.
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// Fetcher executes one statement per call on a connection of its own.
type Fetcher struct {
	connect db.Connector
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each statement. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// New creates a Fetcher that dials through connect.
func New(connect db.Connector, opts ...Option) *Fetcher {
	f := &Fetcher{connect: connect}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchStage runs a stage query.
func (f *Fetcher) FetchStage(ctx context.Context, stmt query.Statement) Result[model.ClientStageRow] {
	return run(ctx, f, stmt, scanStageRow)
}

// FetchMessages runs a chat history query.
func (f *Fetcher) FetchMessages(ctx context.Context, stmt query.Statement) Result[model.MessageRow] {
	return run(ctx, f, stmt, scanMessageRow)
}

// FetchClient runs a client lookup query. A missing client yields an OK
// result with no rows.
func (f *Fetcher) FetchClient(ctx context.Context, stmt query.Statement) Result[model.ClientLookup] {
	return run(ctx, f, stmt, scanClientLookup)
}

func run[T any](ctx context.Context, f *Fetcher, stmt query.Statement, scan func(pgx.Rows) (T, error)) Result[T] {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	fail := func(kind FailureKind, err error) Result[T] {
		failure := &Failure{Kind: kind, Query: stmt.Name, Err: err}
		zap.L().Warn("fetch: query failed",
			zap.String("query", stmt.Name),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return Result[T]{Rows: []T{}, Failure: failure}
	}

	conn, err := f.connect(ctx)
	if err != nil {
		return fail(KindUnavailable, err)
	}
	defer func() {
		if cerr := conn.Close(context.WithoutCancel(ctx)); cerr != nil {
			zap.L().Debug("fetch: close connection", zap.String("query", stmt.Name), zap.Error(cerr))
		}
	}()

	start := time.Now()
	rows, err := conn.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fail(classify(err), err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return fail(KindScan, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return fail(classify(err), err)
	}

	zap.L().Debug("fetch: query complete",
		zap.String("query", stmt.Name),
		zap.Int("rows", len(out)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Result[T]{Rows: out}
}

// scanStageRow tolerates NULL stage and client name; they read as 0 and "".
func scanStageRow(rows pgx.Rows) (model.ClientStageRow, error) {
	var r model.ClientStageRow
	var stage *int
	var name *string
	if err := rows.Scan(
		&r.ClientID,
		&stage,
		&r.CreatedOn,
		&name,
		&r.Phone,
		&r.AddressesRaw,
		&r.AssignedEmployeeFullname,
	); err != nil {
		return r, err
	}
	if stage != nil {
		r.CurrentStage = *stage
	}
	r.ClientFullname = deref(name)
	return r, nil
}

func scanMessageRow(rows pgx.Rows) (model.MessageRow, error) {
	var r model.MessageRow
	var ts, status, msg *string
	if err := rows.Scan(&ts, &status, &msg); err != nil {
		return r, err
	}
	r.Timestamp = deref(ts)
	r.Status = deref(status)
	r.Message = deref(msg)
	return r, nil
}

func scanClientLookup(rows pgx.Rows) (model.ClientLookup, error) {
	var r model.ClientLookup
	var name, employee *string
	if err := rows.Scan(&r.ClientID, &name, &employee); err != nil {
		return r, err
	}
	r.ClientFullname = deref(name)
	r.EmployeeFullname = deref(employee)
	return r, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
