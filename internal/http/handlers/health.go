package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping         Pinger
	shuttingDown func() bool
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// WithShutdown makes Readyz fail once fn reports the server is draining,
// so load balancers stop routing before connections close.
func (h *HealthHandler) WithShutdown(fn func() bool) *HealthHandler {
	h.shuttingDown = fn
	return h
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.shuttingDown != nil && h.shuttingDown() {
		RespondError(ctx, http.StatusServiceUnavailable, "shutting_down", "Server is shutting down", nil)
		return
	}

	if h.ping != nil {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		defer cancel()

		if err := h.ping(cctx); err != nil {
			RespondError(ctx, http.StatusServiceUnavailable, "not_ready", "Store unavailable", nil)
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
