package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/geocoder89/invoicehub/internal/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fields(number string) invoice.Fields {
	amt := decimal.RequireFromString("99.99")
	return invoice.Fields{
		InvoiceNumber: number,
		ClientName:    "Acme",
		Date:          "2024-01-15",
		Amount:        &amt,
		Status:        invoice.StatusUnpaid,
	}
}

func TestUsersRepo_ConcurrentDuplicateEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	const n = 16
	var ok, dup atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateUser(ctx, user.User{ID: uuid.NewString(), Email: "race@example.com", Name: "R"})
			switch {
			case err == nil:
				ok.Add(1)
			case err == user.ErrDuplicateEmail:
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, ok.Load())
	require.EqualValues(t, n-1, dup.Load())
	require.Equal(t, 1, repo.Count("race@example.com"))
}

func TestUsersRepo_FindByEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, user.ErrNotFound)

	created, err := repo.CreateUser(ctx, user.User{ID: "u1", Email: "a@example.com", PasswordHash: "h", Name: "A"})
	require.NoError(t, err)

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestInvoicesRepo_ConcurrentDuplicateNumberAcrossOwners(t *testing.T) {
	repo := NewInvoicesRepo()
	ctx := context.Background()

	const n = 16
	var ok, dup atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		owner := "owner-a"
		if i%2 == 1 {
			owner = "owner-b"
		}
		wg.Add(1)
		go func(owner string) {
			defer wg.Done()
			_, err := repo.Insert(ctx, invoice.New(owner, fields("INV-RACE")))
			switch {
			case err == nil:
				ok.Add(1)
			case err == invoice.ErrDuplicateNumber:
				dup.Add(1)
			}
		}(owner)
	}
	wg.Wait()

	require.EqualValues(t, 1, ok.Load())
	require.EqualValues(t, n-1, dup.Load())
}

func TestInvoicesRepo_OwnerScoping(t *testing.T) {
	repo := NewInvoicesRepo()
	ctx := context.Background()

	a, err := repo.Insert(ctx, invoice.New("owner-a", fields("INV-1")))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, invoice.New("owner-b", fields("INV-2")))
	require.NoError(t, err)

	listA, err := repo.ListByOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, listA, 1)
	require.Equal(t, a.ID, listA[0].ID)

	n, err := repo.UpdateByIDAndOwner(ctx, a.ID, "owner-b", fields("INV-1-HIJACK"))
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = repo.DeleteByIDAndOwner(ctx, a.ID, "owner-b")
	require.NoError(t, err)
	require.Zero(t, n)

	listA, err = repo.ListByOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Equal(t, "INV-1", listA[0].InvoiceNumber)
}

func TestInvoicesRepo_UpdateNumberUniqueness(t *testing.T) {
	repo := NewInvoicesRepo()
	ctx := context.Background()

	a, err := repo.Insert(ctx, invoice.New("owner-a", fields("INV-1")))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, invoice.New("owner-a", fields("INV-2")))
	require.NoError(t, err)

	_, err = repo.UpdateByIDAndOwner(ctx, a.ID, "owner-a", fields("INV-2"))
	require.ErrorIs(t, err, invoice.ErrDuplicateNumber)

	// keeping its own number is not a collision
	n, err := repo.UpdateByIDAndOwner(ctx, a.ID, "owner-a", fields("INV-1"))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// renaming frees the old number
	n, err = repo.UpdateByIDAndOwner(ctx, a.ID, "owner-a", fields("INV-3"))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = repo.Insert(ctx, invoice.New("owner-b", fields("INV-1")))
	require.NoError(t, err)
}

func TestInvoicesRepo_DeleteTwice(t *testing.T) {
	repo := NewInvoicesRepo()
	ctx := context.Background()

	a, err := repo.Insert(ctx, invoice.New("owner-a", fields("INV-1")))
	require.NoError(t, err)

	n, err := repo.DeleteByIDAndOwner(ctx, a.ID, "owner-a")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.DeleteByIDAndOwner(ctx, a.ID, "owner-a")
	require.NoError(t, err)
	require.Zero(t, n)
}
