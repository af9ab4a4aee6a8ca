package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"

	usersEmailKey     = "users_email_key"
	invoicesNumberKey = "invoices_invoice_number_key"
)

// IsUniqueViolation reports a 23505 error, optionally restricted to one
// constraint. An empty constraint matches any unique index.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return constraint == "" || pgErr.ConstraintName == constraint
	}
	return false
}

type observer struct {
	prom *observability.Prom
}

func (o observer) observe(ctx context.Context, op string, fn func() error) error {
	return o.prom.ObserveDB(ctx, op, fn)
}
