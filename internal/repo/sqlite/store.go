package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/invoicehub/internal/observability"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timestamps are stored as fixed-width UTC text so ORDER BY created_at
// sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db   *sql.DB
	dsn  string
	prom *observability.Prom
}

// NewStore opens the database file. prom may be nil.
func NewStore(dsn string, prom *observability.Prom) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// a single connection serialises writers, so concurrent inserts see
	// the unique index instead of SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{`PRAGMA foreign_keys = ON;`, `PRAGMA busy_timeout = 5000;`} {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{db: db, dsn: dsn, prom: prom}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() *UsersRepo       { return &UsersRepo{db: s.db, observer: observer{s.prom}} }
func (s *Store) Invoices() *InvoicesRepo { return &InvoicesRepo{db: s.db, observer: observer{s.prom}} }

type observer struct {
	prom *observability.Prom
}

func (o observer) observe(ctx context.Context, op string, fn func() error) error {
	return o.prom.ObserveSQLite(ctx, op, fn)
}

// isUniqueViolation matches "UNIQUE constraint failed: <table>.<column>".
func isUniqueViolation(err error, column string) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return false
	}
	return strings.Contains(se.Error(), column)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
