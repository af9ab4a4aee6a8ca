package observability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const storeTracer = "invoicehub/store"

// ObserveDB runs one postgres call inside a span and records its latency.
// pgx.ErrNoRows is an expected outcome and is not counted as a failure.
// A nil Prom still traces.
func (p *Prom) ObserveDB(ctx context.Context, op string, fn func() error) error {
	return p.observeStore(ctx, "postgresql", op, fn)
}

// ObserveSQLite is ObserveDB for the sqlite driver; sql.ErrNoRows counts
// as not_found.
func (p *Prom) ObserveSQLite(ctx context.Context, op string, fn func() error) error {
	return p.observeStore(ctx, "sqlite", op, fn)
}

func (p *Prom) observeStore(ctx context.Context, system, op string, fn func() error) error {
	_, span := otel.Tracer(storeTracer).Start(ctx, op)
	defer span.End()
	span.SetAttributes(attribute.String("db.system", system), attribute.String("db.operation", op))

	start := time.Now()
	err := fn()

	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		status = "not_found"
	default:
		status = "error"
		class := classifyDBErr(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, class)
		if p != nil {
			p.DbErrorsTotal.WithLabelValues(op, class).Inc()
		}
	}

	if p != nil {
		p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	}
	return err
}

func classifyDBErr(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23503":
			return "foreign_key_violation"
		case "23514":
			return "check_violation"
		case "40001":
			return "serialization_failure"
		case "40P01":
			return "deadlock"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return "unique_violation"
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return "foreign_key_violation"
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return "check_violation"
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return "busy"
		default:
			return fmt.Sprintf("sqlite_%d", liteErr.Code())
		}
	}

	if pgconn.Timeout(err) {
		return "timeout"
	}

	if strings.Contains(strings.ToLower(err.Error()), "connect") {
		return "connection"
	}
	return "unknown"
}
