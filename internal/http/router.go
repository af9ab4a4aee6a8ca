package http

import (
	"log/slog"

	"github.com/geocoder89/invoicehub/internal/auth"
	"github.com/geocoder89/invoicehub/internal/config"
	"github.com/geocoder89/invoicehub/internal/http/handlers"
	"github.com/geocoder89/invoicehub/internal/http/middlewares"
	"github.com/geocoder89/invoicehub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "invoicehub"

type Deps struct {
	Log      *slog.Logger
	Config   config.Config
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	Auth     handlers.Authenticator
	Verifier auth.TokenVerifier
	Invoices handlers.InvoiceService
	Ping     handlers.Pinger

	// ShuttingDown, when set, fails readiness while the server drains.
	ShuttingDown func() bool

	// Tracing adds the otelgin span middleware.
	Tracing bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" && d.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	if d.Log == nil {
		d.Log = slog.Default()
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if d.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSOrigins))
	r.Use(middlewares.SecurityHeaders(middlewares.SecurityOptions{HSTS: d.Config.Env == "prod"}))
	r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(d.Ping)
	if d.ShuttingDown != nil {
		h.WithShutdown(d.ShuttingDown)
	}
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// docs
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	authHandler := handlers.NewAuthHandler(d.Auth, d.Prom, d.Log)
	invoicesHandler := handlers.NewInvoicesHandler(d.Invoices, d.Log)
	requireAuth := middlewares.NewAuthMiddleware(d.Verifier, d.Prom).RequireAuth()

	// /api is a path alias; both mounts take the same camelCase bodies
	for _, g := range []*gin.RouterGroup{r.Group(""), r.Group("/api")} {
		g.POST("/auth/signup", authHandler.SignUp)
		g.POST("/auth/login", authHandler.Login)
		g.GET("/auth/me", requireAuth, authHandler.Me)

		inv := g.Group("/invoices", requireAuth)
		inv.GET("", invoicesHandler.ListInvoices)
		inv.POST("", invoicesHandler.CreateInvoice)
		inv.PUT("/:id", invoicesHandler.UpdateInvoice)
		inv.DELETE("/:id", invoicesHandler.DeleteInvoice)
	}

	return r
}
