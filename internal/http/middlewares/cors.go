package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = 10 * 60

// CORSMiddleware lets the listed browser origins call the API. "*" allows
// any origin; the Authorization header still has to be presented.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]struct{}, len(allowedOrigins))

	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if allowAny {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		ok := origin != "" && isAllowed(origin)

		if ok {
			h := ctx.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Expose-Headers", "ETag,X-Request-Id")
		}

		if ctx.Request.Method != http.MethodOptions {
			ctx.Next()
			return
		}

		if origin != "" && !ok {
			abortWithError(ctx, http.StatusForbidden, "origin_not_allowed", "Origin not allowed")
			return
		}

		if ok {
			h := ctx.Writer.Header()
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization,Content-Type,If-None-Match,X-Request-Id")
			h.Set("Access-Control-Max-Age", strconv.Itoa(corsMaxAge))
		}

		ctx.AbortWithStatus(http.StatusNoContent)
	}
}
