package middlewares

import (
	"errors"
	"net/http"

	"github.com/geocoder89/invoicehub/internal/actorctx"
	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier auth.TokenVerifier
	prom     *observability.Prom
}

func NewAuthMiddleware(verifier auth.TokenVerifier, prom *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, prom: prom}
}

// RequireAuth adapts auth.Authorize to gin. A missing token is 401; a
// token that is present but bad or expired is 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.Authorize(c.GetHeader("Authorization"), m.verifier)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				m.prom.ObserveAuthFailure("missing")
				abortWithError(c, http.StatusUnauthorized, "unauthorized", "No token provided")
			case errors.Is(err, auth.ErrExpiredToken):
				m.prom.ObserveAuthFailure("expired")
				abortWithError(c, http.StatusForbidden, "token_expired", "Token expired")
			default:
				m.prom.ObserveAuthFailure("invalid")
				abortWithError(c, http.StatusForbidden, "invalid_token", "Token invalid")
			}
			return
		}

		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}
