package invoice

import (
	"time"

	"github.com/google/uuid"
)

func New(ownerID string, f Fields) Invoice {
	now := time.Now().UTC()

	inv := Invoice{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.Apply(&inv)

	return inv
}
