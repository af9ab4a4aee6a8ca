package invoice

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrDuplicateNumber = errors.New("invoice number already exists")
)

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusUnpaid  Status = "Unpaid"
	StatusPending Status = "Pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusUnpaid, StatusPending:
		return true
	}
	return false
}

// DateLayout is the only accepted encoding for Invoice.Date.
const DateLayout = time.DateOnly

type Invoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	ClientName    string          `json:"clientName"`
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Status        Status          `json:"status"`
	OwnerID       string          `json:"ownerId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Fields holds everything a caller may set; id and owner are never part of it.
// The same payload is used for create and for the full-replacement update.
type Fields struct {
	InvoiceNumber string           `json:"invoiceNumber" binding:"required,max=64"`
	ClientName    string           `json:"clientName" binding:"required,max=200"`
	Date          string           `json:"date" binding:"required,datetime=2006-01-02"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Status        Status           `json:"status" binding:"required,oneof=Paid Unpaid Pending"`
}

// Apply copies f onto inv. f is expected to be validated.
func (f Fields) Apply(inv *Invoice) {
	inv.InvoiceNumber = f.InvoiceNumber
	inv.ClientName = f.ClientName
	inv.Date = f.Date
	if f.Amount != nil {
		inv.Amount = *f.Amount
	}
	inv.Status = f.Status
}
