package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/invoicehub/internal/actorctx"
	"github.com/geocoder89/invoicehub/internal/domain/invoice"
	"github.com/geocoder89/invoicehub/internal/domain/validation"
	"github.com/gin-gonic/gin"
)

type InvoiceService interface {
	Create(ctx context.Context, ownerID string, f invoice.Fields) (invoice.Invoice, error)
	List(ctx context.Context, ownerID string) ([]invoice.Invoice, error)
	Update(ctx context.Context, ownerID, id string, f invoice.Fields) error
	Delete(ctx context.Context, ownerID, id string) error
}

type InvoicesHandler struct {
	svc InvoiceService
	log *slog.Logger
}

func NewInvoicesHandler(svc InvoiceService, log *slog.Logger) *InvoicesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &InvoicesHandler{svc: svc, log: log}
}

func (h *InvoicesHandler) ListInvoices(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	list, err := h.svc.List(ctx.Request.Context(), ownerID)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list invoices failed", "err", err)
		RespondInternal(ctx, "Internal server error")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, list)
}

func (h *InvoicesHandler) CreateInvoice(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	var req invoice.Fields

	if !BindJSON(ctx, &req) {
		return
	}

	inv, err := h.svc.Create(ctx.Request.Context(), ownerID, req)

	if err != nil {
		h.respondServiceError(ctx, "create invoice failed", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      inv.ID,
		"message": "Invoice created",
	})
}

func (h *InvoicesHandler) UpdateInvoice(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	var req invoice.Fields

	if !BindJSON(ctx, &req) {
		return
	}

	err := h.svc.Update(ctx.Request.Context(), ownerID, ctx.Param("id"), req)

	if err != nil {
		h.respondServiceError(ctx, "update invoice failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invoice updated"})
}

func (h *InvoicesHandler) DeleteInvoice(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	err := h.svc.Delete(ctx.Request.Context(), ownerID, ctx.Param("id"))

	if err != nil {
		h.respondServiceError(ctx, "delete invoice failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

func (h *InvoicesHandler) owner(ctx *gin.Context) (string, bool) {
	ownerID, ok := actorctx.UserIDFrom(ctx.Request.Context())
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "No token provided")
		return "", false
	}
	return ownerID, true
}

func (h *InvoicesHandler) respondServiceError(ctx *gin.Context, msg string, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		RespondValidation(ctx, verrs)
	case errors.Is(err, invoice.ErrDuplicateNumber):
		RespondError(ctx, http.StatusBadRequest, "invoice_number_taken", "Invoice number must be unique", nil)
	case errors.Is(err, invoice.ErrNotFound):
		RespondNotFound(ctx, "Invoice not found")
	default:
		h.log.ErrorContext(ctx.Request.Context(), msg, "err", err)
		RespondInternal(ctx, "Internal server error")
	}
}
