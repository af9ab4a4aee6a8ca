package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	maxRequestIDLen = 128
)

// probe routes are logged at debug so they do not drown real traffic
var quietRoutes = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestID echoes a caller supplied X-Request-Id when it is short and
// printable, otherwise it mints one.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)

		if !validRequestID(id) {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(requestIDHeader, id)
		ctx.Set(CtxRequestID, id)

		ctx.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestLogger logs one line per request. Bodies and the Authorization
// header are never logged; the user id comes from the context handler.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = ctx.Request.URL.Path // fallback (e.g. 404)
		}

		status := ctx.Writer.Status()

		attrs := []slog.Attr{
			slog.String("method", ctx.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.Int("bytes", ctx.Writer.Size()),
			slog.String("client_ip", ctx.ClientIP()),
			slog.String("request_id", ctx.GetString(CtxRequestID)),
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", ctx.Errors.String()))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case isQuiet(route):
			level = slog.LevelDebug
		}

		log.LogAttrs(ctx.Request.Context(), level, "http_request", attrs...)
	}
}

func isQuiet(route string) bool {
	_, ok := quietRoutes[route]
	return ok
}
