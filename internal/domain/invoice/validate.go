package invoice

import (
	"strings"
	"time"

	"github.com/geocoder89/invoicehub/internal/domain/validation"
	"github.com/shopspring/decimal"
)

const (
	maxNumberLen     = 64
	maxClientNameLen = 200
	amountScale      = 2
)

// amounts are stored as NUMERIC(14,2)
var maxAmount = decimal.New(1, 12)

// Normalize trims the free-text fields.
func (f Fields) Normalize() Fields {
	f.InvoiceNumber = strings.TrimSpace(f.InvoiceNumber)
	f.ClientName = strings.TrimSpace(f.ClientName)
	f.Date = strings.TrimSpace(f.Date)
	f.Status = Status(strings.TrimSpace(string(f.Status)))
	return f
}

// Validate reports every problem at once as validation.Errors.
func (f Fields) Validate() error {
	var errs validation.Errors

	if errs.Required("invoiceNumber", f.InvoiceNumber) && len(f.InvoiceNumber) > maxNumberLen {
		errs.Add("invoiceNumber", "max", "must be at most 64 characters")
	}

	if errs.Required("clientName", f.ClientName) && len(f.ClientName) > maxClientNameLen {
		errs.Add("clientName", "max", "must be at most 200 characters")
	}

	if errs.Required("date", f.Date) {
		if _, err := time.Parse(DateLayout, f.Date); err != nil {
			errs.Add("date", "datetime", "must be a calendar date (YYYY-MM-DD)")
		}
	}

	switch {
	case f.Amount == nil:
		errs.Add("amount", "required", "is required")
	case f.Amount.IsNegative():
		errs.Add("amount", "min", "must be at least 0")
	case !f.Amount.Round(amountScale).Equal(*f.Amount):
		errs.Add("amount", "scale", "must have at most 2 decimal places")
	case f.Amount.GreaterThanOrEqual(maxAmount):
		errs.Add("amount", "max", "must be less than 1000000000000")
	}

	if errs.Required("status", string(f.Status)) && !f.Status.Valid() {
		errs.Add("status", "oneof", "must be one of Paid, Unpaid, Pending")
	}

	return errs.Err()
}
