package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/invoicehub/internal/actorctx"
	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/domain/user"
	"github.com/geocoder89/invoicehub/internal/domain/validation"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Register(ctx context.Context, email, password, name string) (user.User, error)
	Login(ctx context.Context, email, password string) (auth.Session, error)
}

type AuthHandler struct {
	auth Authenticator
	prom *observability.Prom
	log  *slog.Logger
}

func NewAuthHandler(a Authenticator, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{auth: a, prom: prom, log: log}
}

// email is trimmed and lowercased by the authenticator, so only presence
// and size are checked here.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.auth.Register(ctx.Request.Context(), req.Email, req.Password, req.Name)

	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			RespondValidation(ctx, verrs)
		case errors.Is(err, user.ErrDuplicateEmail):
			RespondError(ctx, http.StatusBadRequest, "email_taken", "Email already exists", nil)
		default:
			h.log.ErrorContext(ctx.Request.Context(), "signup failed", "err", err)
			RespondInternal(ctx, "Internal server error")
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":      u.ID,
		"message": "User created",
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	session, err := h.auth.Login(ctx.Request.Context(), req.Email, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.prom.ObserveAuthFailure("credentials")
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User.Public(),
	})
}

// Me echoes the identity carried by the presented token.
func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := actorctx.IdentityFrom(ctx.Request.Context())

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "No token provided")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"userId": id.UserID,
		"email":  id.Email,
	})
}
