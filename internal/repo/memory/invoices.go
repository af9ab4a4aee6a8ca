package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
)

type InvoicesRepo struct {
	mu       sync.RWMutex
	items    map[string]invoice.Invoice // id -> invoice
	byNumber map[string]string          // invoice number -> id, unique across owners
}

func NewInvoicesRepo() *InvoicesRepo {
	return &InvoicesRepo{
		items:    make(map[string]invoice.Invoice),
		byNumber: make(map[string]string),
	}
}

func (r *InvoicesRepo) Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return invoice.Invoice{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byNumber[inv.InvoiceNumber]; taken {
		return invoice.Invoice{}, invoice.ErrDuplicateNumber
	}

	r.items[inv.ID] = inv
	r.byNumber[inv.InvoiceNumber] = inv.ID

	return inv, nil
}

func (r *InvoicesRepo) ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]invoice.Invoice, 0)
	for _, inv := range r.items {
		if inv.OwnerID == ownerID {
			out = append(out, inv)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *InvoicesRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, f invoice.Fields) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[id]
	if !ok || inv.OwnerID != ownerID {
		return 0, nil
	}

	if holder, taken := r.byNumber[f.InvoiceNumber]; taken && holder != id {
		return 0, invoice.ErrDuplicateNumber
	}

	delete(r.byNumber, inv.InvoiceNumber)
	f.Apply(&inv)
	inv.UpdatedAt = time.Now().UTC()

	r.items[id] = inv
	r.byNumber[inv.InvoiceNumber] = id

	return 1, nil
}

func (r *InvoicesRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.items[id]
	if !ok || inv.OwnerID != ownerID {
		return 0, nil
	}

	delete(r.items, id)
	delete(r.byNumber, inv.InvoiceNumber)

	return 1, nil
}
