package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/google/uuid"
)

// Repository is pure persistence. Insert must enforce invoice-number
// uniqueness atomically; the *ByIDAndOwner methods match on both keys and
// report how many rows they touched.
type Repository interface {
	Insert(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)
	ListByOwner(ctx context.Context, ownerID string) ([]invoice.Invoice, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID string, f invoice.Fields) (int64, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error)
}

// Service scopes every repository call to the caller's identity.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func New(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, ownerID string, f invoice.Fields) (invoice.Invoice, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return invoice.Invoice{}, err
	}

	inv, err := s.repo.Insert(ctx, invoice.New(ownerID, f))
	if err != nil {
		if errors.Is(err, invoice.ErrDuplicateNumber) {
			return invoice.Invoice{}, invoice.ErrDuplicateNumber
		}
		return invoice.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}

	s.log.InfoContext(ctx, "invoice created", "invoice_id", inv.ID, "owner_id", ownerID)

	return inv, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]invoice.Invoice, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update replaces all mutable fields. An id that does not exist and an id
// owned by someone else both yield invoice.ErrNotFound.
func (s *Service) Update(ctx context.Context, ownerID, id string, f invoice.Fields) error {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return err
	}

	if !validID(id) {
		return invoice.ErrNotFound
	}

	n, err := s.repo.UpdateByIDAndOwner(ctx, id, ownerID, f)
	if err != nil {
		if errors.Is(err, invoice.ErrDuplicateNumber) {
			return invoice.ErrDuplicateNumber
		}
		return fmt.Errorf("update invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	s.log.InfoContext(ctx, "invoice updated", "invoice_id", id, "owner_id", ownerID)

	return nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return invoice.ErrNotFound
	}

	n, err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	s.log.InfoContext(ctx, "invoice deleted", "invoice_id", id, "owner_id", ownerID)

	return nil
}

// ids are UUIDs; anything else cannot match a row and must not reach a
// typed uuid column as a query error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
