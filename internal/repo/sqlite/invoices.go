package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

type InvoicesRepo struct {
	db *sql.DB
	observer
}

func (r *InvoicesRepo) Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	err := r.observe(ctx, "invoices.insert", func() error {
		_, e := r.db.ExecContext(ctx,
			`INSERT INTO invoices (
				id, invoice_number, client_name, invoice_date, amount, status, owner_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.InvoiceNumber, inv.ClientName, inv.Date, inv.Amount.String(), string(inv.Status),
			inv.OwnerID, formatTime(inv.CreatedAt), formatTime(inv.UpdatedAt),
		)
		return e
	})
	if err != nil {
		if isUniqueViolation(err, "invoices.invoice_number") {
			return invoice.Invoice{}, invoice.ErrDuplicateNumber
		}
		return invoice.Invoice{}, err
	}

	return inv, nil
}

func (r *InvoicesRepo) ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error) {
	out := make([]invoice.Invoice, 0)

	err := r.observe(ctx, "invoices.list_by_owner", func() error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, invoice_number, client_name, invoice_date, amount, status, owner_id, created_at, updated_at
			FROM invoices
			WHERE owner_id = ?
			ORDER BY created_at ASC, id ASC`,
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			inv, err := scanInvoice(rows)
			if err != nil {
				return err
			}
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
	var n int64

	err := r.observe(ctx, "invoices.update_by_id_and_owner", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE invoices
			SET invoice_number = ?, client_name = ?, invoice_date = ?, amount = ?, status = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?`,
			f.InvoiceNumber, f.ClientName, f.Date, f.Amount.String(), string(f.Status),
			formatTime(time.Now()), id, ownerID,
		)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		if isUniqueViolation(err, "invoices.invoice_number") {
			return 0, invoice.ErrDuplicateNumber
		}
		return 0, err
	}

	return n, nil
}

func (r *InvoicesRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	var n int64

	err := r.observe(ctx, "invoices.delete_by_id_and_owner", func() error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ? AND owner_id = ?`, id, ownerID)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}

	return n, nil
}

func scanInvoice(rows *sql.Rows) (invoice.Invoice, error) {
	var (
		inv              invoice.Invoice
		amount, status   string
		created, updated string
	)

	err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientName, &inv.Date,
		&amount, &status, &inv.OwnerID, &created, &updated)
	if err != nil {
		return invoice.Invoice{}, err
	}

	if inv.Amount, err = decimal.NewFromString(amount); err != nil {
		return invoice.Invoice{}, err
	}
	if inv.CreatedAt, err = parseTime(created); err != nil {
		return invoice.Invoice{}, err
	}
	if inv.UpdatedAt, err = parseTime(updated); err != nil {
		return invoice.Invoice{}, err
	}
	inv.Status = invoice.Status(status)

	return inv, nil
}
