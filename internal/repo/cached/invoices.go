package cached

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/geocoder89/invoicehub/internal/observability"
)

// Repository is the persistence contract the decorator wraps; it matches
// the invoice service's repository.
type Repository interface {
	Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)
	ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID string, f invoice.Fields) (int64, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error)
}

// Backend is satisfied by cache.Cache and cache.Redis.
type Backend interface {
	Load(ctx context.Context, key string, dest any) (bool, error)
	Store(ctx context.Context, key string, value any) error
	Generation(ctx context.Context, key string) (uint64, error)
	Bump(ctx context.Context, key string) error
}

// InvoicesRepo serves ListByOwner from a per-owner cache entry keyed by the
// owner's generation. Every successful mutation bumps the generation after
// it commits, so a list read that started earlier stores its result under a
// key nobody reads again. Cache errors are logged and never fail the call.
type InvoicesRepo struct {
	next  Repository
	cache Backend
	prom  *observability.Prom
	log   *slog.Logger
}

func NewInvoicesRepo(next Repository, cache Backend, prom *observability.Prom, log *slog.Logger) *InvoicesRepo {
	if log == nil {
		log = slog.Default()
	}
	return &InvoicesRepo{next: next, cache: cache, prom: prom, log: log}
}

func genKey(ownerID string) string {
	return "invoices:owner:" + ownerID + ":gen"
}

func listKey(ownerID string, gen uint64) string {
	return "invoices:owner:" + ownerID + ":" + strconv.FormatUint(gen, 10)
}

func (r *InvoicesRepo) Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	out, err := r.next.Insert(ctx, inv)
	if err != nil {
		return out, err
	}

	r.invalidate(ctx, inv.OwnerID)
	return out, nil
}

func (r *InvoicesRepo) ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error) {
	// the generation must be read before the store is queried
	gen, err := r.cache.Generation(ctx, genKey(ownerID))
	if err != nil {
		r.prom.ObserveCache("error")
		r.log.WarnContext(ctx, "invoice cache generation read failed", "owner_id", ownerID, "err", err)
		return r.next.ListByOwner(ctx, ownerID)
	}

	key := listKey(ownerID, gen)

	var cached []invoice.Invoice
	found, err := r.cache.Load(ctx, key, &cached)

	switch {
	case err != nil:
		r.prom.ObserveCache("error")
		r.log.WarnContext(ctx, "invoice cache read failed", "owner_id", ownerID, "err", err)
	case found:
		r.prom.ObserveCache("hit")
		return cached, nil
	default:
		r.prom.ObserveCache("miss")
	}

	list, err := r.next.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Store(ctx, key, list); err != nil {
		r.log.WarnContext(ctx, "invoice cache write failed", "owner_id", ownerID, "err", err)
	}

	return list, nil
}

func (r *InvoicesRepo) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, f invoice.Fields) (int64, error) {
	n, err := r.next.UpdateByIDAndOwner(ctx, id, ownerID, f)
	if err == nil && n > 0 {
		r.invalidate(ctx, ownerID)
	}
	return n, err
}

func (r *InvoicesRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	n, err := r.next.DeleteByIDAndOwner(ctx, id, ownerID)
	if err == nil && n > 0 {
		r.invalidate(ctx, ownerID)
	}
	return n, err
}

func (r *InvoicesRepo) invalidate(ctx context.Context, ownerID string) {
	if err := r.cache.Bump(ctx, genKey(ownerID)); err != nil {
		r.log.WarnContext(ctx, "invoice cache invalidation failed", "owner_id", ownerID, "err", err)
	}
}
