package postgres

import (
	"context"
	"time"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type InvoicesRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewInvoicesRepo(pool *pgxpool.Pool, prom *observability.Prom) *InvoicesRepo {
	return &InvoicesRepo{pool: pool, observer: observer{prom: prom}}
}

// amounts and dates travel as text so no float or timezone conversion
// happens between the wire and the column.
const selectInvoice = `SELECT id, invoice_number, client_name,
	to_char(invoice_date, 'YYYY-MM-DD'), amount::text, status, owner_id,
	created_at, updated_at
	FROM invoices`

func (r *InvoicesRepo) Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	err := r.observe(ctx, "invoices.insert", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO invoices (
			id, invoice_number, client_name, invoice_date, amount, status, owner_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4::date, $5::numeric, $6, $7, $8, $9)`,
			inv.ID, inv.InvoiceNumber, inv.ClientName, inv.Date, inv.Amount.String(),
			string(inv.Status), inv.OwnerID, inv.CreatedAt, inv.UpdatedAt,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, invoicesNumberKey) {
			return invoice.Invoice{}, invoice.ErrDuplicateNumber
		}
		return invoice.Invoice{}, err
	}

	return inv, nil
}

func (r *InvoicesRepo) ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error) {
	out := make([]invoice.Invoice, 0)

	err := r.observe(ctx, "invoices.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx, selectInvoice+`
			WHERE owner_id = $1
			ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				inv    invoice.Invoice
				amount string
				status string
			)

			err = rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientName, &inv.Date,
				&amount, &status, &inv.OwnerID, &inv.CreatedAt, &inv.UpdatedAt)
			if err != nil {
				return err
			}

			inv.Amount, err = decimal.NewFromString(amount)
			if err != nil {
				return err
			}
			inv.Status = invoice.Status(status)

			out = append(out, inv)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *InvoicesRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, f invoice.Fields) (int64, error) {
	var tag pgconn.CommandTag

	err := r.observe(ctx, "invoices.update_by_id_and_owner", func() error {
		var e error
		tag, e = r.pool.Exec(ctx,
			`UPDATE invoices
			SET invoice_number = $1,
				client_name = $2,
				invoice_date = $3::date,
				amount = $4::numeric,
				status = $5,
				updated_at = $6
			WHERE id = $7 AND owner_id = $8`,
			f.InvoiceNumber, f.ClientName, f.Date, f.Amount.String(), string(f.Status),
			time.Now().UTC(), id, ownerID,
		)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err, invoicesNumberKey) {
			return 0, invoice.ErrDuplicateNumber
		}
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *InvoicesRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	var tag pgconn.CommandTag

	err := r.observe(ctx, "invoices.delete_by_id_and_owner", func() error {
		var e error
		tag, e = r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND owner_id = $2`, id, ownerID)
		return e
	})

	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
