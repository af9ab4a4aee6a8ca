package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiCSP = "default-src 'none'; frame-ancestors 'none'"
	// Swagger UI loads its bundle from unpkg and bootstraps inline.
	docsCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data: https:; font-src 'self' https://unpkg.com data:; style-src 'self' 'unsafe-inline' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com"

	hstsValue = "max-age=31536000; includeSubDomains"
)

type SecurityOptions struct {
	// HSTS should only be on where TLS terminates in front of the API.
	HSTS bool
}

// SecurityHeaders sets browser hardening headers. API responses default
// to no-store since they carry tokens and invoice data; handlers that
// support revalidation override Cache-Control.
func SecurityHeaders(opts SecurityOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")

		if strings.HasPrefix(c.Request.URL.Path, "/docs") {
			h.Set("Content-Security-Policy", docsCSP)
		} else {
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
		}

		if opts.HSTS {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		c.Next()
	}
}
